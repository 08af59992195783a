package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	userID := uuid.New()
	occurredAt := time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "Valid expense should pass",
			tx: Transaction{
				ID:         uuid.New(),
				UserID:     userID,
				Type:       TransactionTypeExpense,
				Amount:     200000,
				Category:   "Food",
				OccurredAt: occurredAt,
			},
		},
		{
			name: "Zero amount transfer should pass",
			tx: Transaction{
				UserID:     userID,
				Type:       TransactionTypeTransfer,
				Amount:     0,
				Category:   "Savings",
				OccurredAt: occurredAt,
			},
		},
		{
			name: "Missing user should fail",
			tx: Transaction{
				Type:       TransactionTypeIncome,
				Amount:     100,
				Category:   "Salary",
				OccurredAt: occurredAt,
			},
			wantErr: ErrMissingUser,
		},
		{
			name: "Unknown type should fail",
			tx: Transaction{
				UserID:     userID,
				Type:       TransactionType("refund"),
				Amount:     100,
				Category:   "Salary",
				OccurredAt: occurredAt,
			},
			wantErr: ErrInvalidTransactionType,
		},
		{
			name: "Negative amount should fail",
			tx: Transaction{
				UserID:     userID,
				Type:       TransactionTypeExpense,
				Amount:     -1,
				Category:   "Food",
				OccurredAt: occurredAt,
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "Blank category should fail",
			tx: Transaction{
				UserID:     userID,
				Type:       TransactionTypeExpense,
				Amount:     100,
				Category:   "   ",
				OccurredAt: occurredAt,
			},
			wantErr: ErrEmptyCategory,
		},
		{
			name: "Zero occurrence date should fail",
			tx: Transaction{
				UserID:   userID,
				Type:     TransactionTypeExpense,
				Amount:   100,
				Category: "Food",
			},
			wantErr: ErrMissingOccurredAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
