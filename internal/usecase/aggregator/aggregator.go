package aggregator

import (
	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// Aggregate folds one user's transactions for one calendar month into a MonthlySummary.
//
// Logic:
//   - income adds to TotalIncome, expense adds to TotalExpense, transfer adds to neither
//   - every transaction with a non-empty category adds its amount to Breakdown[category],
//     whatever its type
//   - NetSavings = TotalIncome - TotalExpense, not clamped
//
// The caller is responsible for filtering txs to the period window. The result does not
// depend on the order of txs. ID and CreatedAt are left for the caller to assign.
func Aggregate(userID uuid.UUID, period domain.Period, txs []domain.Transaction) *domain.MonthlySummary {
	summary := &domain.MonthlySummary{
		UserID:    userID,
		Year:      period.Year,
		Month:     period.Month,
		Breakdown: make(map[string]int64),
	}

	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome += tx.Amount
		case domain.TransactionTypeExpense:
			summary.TotalExpense += tx.Amount
		}

		// Transfers are kept out of the totals but still show up per category
		if tx.Category != "" {
			summary.Breakdown[tx.Category] += tx.Amount
		}
	}

	summary.NetSavings = summary.TotalIncome - summary.TotalExpense

	return summary
}
