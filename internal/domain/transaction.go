package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement a transaction records
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// DefaultCurrency is used when a transaction is recorded without a currency
const DefaultCurrency = "BDT"

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction represents a single user transaction in the domain layer
type Transaction struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       TransactionType
	Amount     int64 // minor currency units, never negative
	Currency   string
	Category   string
	Note       string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrMissingUser
	}
	if !t.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredAt.IsZero() {
		return ErrMissingOccurredAt
	}
	return nil
}
