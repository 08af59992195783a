package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/aggregator"
)

// SummaryService serves monthly summaries on demand
type SummaryService struct {
	TxRepo      domain.TransactionRepository
	SummaryRepo domain.SummaryRepository
	Location    *time.Location
}

// NewSummaryService creates a new SummaryService instance. A nil loc means UTC.
func NewSummaryService(txRepo domain.TransactionRepository, summaryRepo domain.SummaryRepository, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{
		TxRepo:      txRepo,
		SummaryRepo: summaryRepo,
		Location:    loc,
	}
}

// GetMonthlySummary returns the stored summary of a user for period, computing and
// storing it first when it does not exist yet.
// When a concurrent writer stores the same summary first, the stored one is returned.
func (s *SummaryService) GetMonthlySummary(ctx context.Context, userID uuid.UUID, period domain.Period) (*domain.MonthlySummary, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.SummaryRepo.Get(ctx, userID, period)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	from, to := period.Bounds(s.Location)
	txs, err := s.TxRepo.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	summary := aggregator.Aggregate(userID, period, txs)
	summary.ID = uuid.New()
	summary.CreatedAt = time.Now()

	if err := s.SummaryRepo.Create(ctx, summary); err != nil {
		if errors.Is(err, domain.ErrSummaryExists) {
			return s.SummaryRepo.Get(ctx, userID, period)
		}
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	return summary, nil
}
