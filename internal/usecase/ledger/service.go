package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// DefaultListLimit is used when List is called without a positive limit
const DefaultListLimit = 100

// RecordTransactionInput represents the input for recording a transaction
type RecordTransactionInput struct {
	UserID     uuid.UUID
	Type       domain.TransactionType
	Amount     int64
	Currency   string     // Optional: defaults to domain.DefaultCurrency
	Category   string
	Note       string
	OccurredAt *time.Time // Optional: defaults to now
}

// LedgerService handles transaction recording operations
type LedgerService struct {
	TransactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(transactionRepo domain.TransactionRepository) *LedgerService {
	return &LedgerService{
		TransactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// RecordTransaction validates and stores a transaction
// Logic:
//  1. Fill defaults (currency, occurrence date)
//  2. Validate against the domain rules
//  3. Save using TransactionRepo.Create
func (s *LedgerService) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	now := s.now()

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	tx := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Type:       input.Type,
		Amount:     input.Amount,
		Currency:   currency,
		Category:   strings.TrimSpace(input.Category),
		Note:       input.Note,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns a page of the user's transactions, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.TransactionRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction removes one of the user's transactions.
// Summaries already computed for its month are not recomputed.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrMissingUser
	}
	return s.TransactionRepo.Delete(ctx, userID, id)
}
