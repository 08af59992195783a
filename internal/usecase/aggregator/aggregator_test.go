package aggregator

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/stretchr/testify/assert"
)

var march = domain.Period{Year: 2024, Month: 3}

func txn(kind domain.TransactionType, amount int64, category string) domain.Transaction {
	return domain.Transaction{
		ID:         uuid.New(),
		Type:       kind,
		Amount:     amount,
		Category:   category,
		OccurredAt: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestAggregate_IncomeAndExpenses(t *testing.T) {
	userID := uuid.New()
	txs := []domain.Transaction{
		txn(domain.TransactionTypeIncome, 500000, ""),
		txn(domain.TransactionTypeExpense, 200000, "Food"),
		txn(domain.TransactionTypeExpense, 150000, "Rent"),
	}

	summary := Aggregate(userID, march, txs)

	assert.Equal(t, userID, summary.UserID)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, 3, summary.Month)
	assert.Equal(t, int64(500000), summary.TotalIncome)
	assert.Equal(t, int64(350000), summary.TotalExpense)
	assert.Equal(t, int64(150000), summary.NetSavings)
	assert.Equal(t, map[string]int64{"Food": 200000, "Rent": 150000}, summary.Breakdown)
}

func TestAggregate_EmptyInput(t *testing.T) {
	summary := Aggregate(uuid.New(), march, nil)

	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpense)
	assert.Zero(t, summary.NetSavings)
	assert.NotNil(t, summary.Breakdown)
	assert.Empty(t, summary.Breakdown)
}

func TestAggregate_TransferOnlyInBreakdown(t *testing.T) {
	txs := []domain.Transaction{
		txn(domain.TransactionTypeTransfer, 70000, "Savings"),
		txn(domain.TransactionTypeIncome, 10000, "Salary"),
		txn(domain.TransactionTypeIncome, 5000, "Salary"),
	}

	summary := Aggregate(uuid.New(), march, txs)

	assert.Equal(t, int64(15000), summary.TotalIncome)
	assert.Zero(t, summary.TotalExpense)
	assert.Equal(t, int64(70000), summary.Breakdown["Savings"])
	assert.Equal(t, int64(15000), summary.Breakdown["Salary"])
}

func TestAggregate_NegativeNetSavings(t *testing.T) {
	txs := []domain.Transaction{
		txn(domain.TransactionTypeIncome, 1000, "Salary"),
		txn(domain.TransactionTypeExpense, 4000, "Rent"),
	}

	summary := Aggregate(uuid.New(), march, txs)

	assert.Equal(t, int64(-3000), summary.NetSavings)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	userID := uuid.New()
	txs := sampleTransactions(40)
	want := Aggregate(userID, march, txs)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Aggregate(userID, march, shuffled)
		assert.Equal(t, want.TotalIncome, got.TotalIncome)
		assert.Equal(t, want.TotalExpense, got.TotalExpense)
		assert.Equal(t, want.NetSavings, got.NetSavings)
		assert.Equal(t, want.Breakdown, got.Breakdown)
	}
}

func TestAggregate_Additive(t *testing.T) {
	userID := uuid.New()
	all := sampleTransactions(30)
	a, b := all[:12], all[12:]

	whole := Aggregate(userID, march, all)
	left := Aggregate(userID, march, a)
	right := Aggregate(userID, march, b)

	assert.Equal(t, left.TotalIncome+right.TotalIncome, whole.TotalIncome)
	assert.Equal(t, left.TotalExpense+right.TotalExpense, whole.TotalExpense)
	assert.Equal(t, left.NetSavings+right.NetSavings, whole.NetSavings)
	for category, total := range whole.Breakdown {
		assert.Equal(t, left.Breakdown[category]+right.Breakdown[category], total, category)
	}
}

func sampleTransactions(n int) []domain.Transaction {
	kinds := []domain.TransactionType{
		domain.TransactionTypeIncome,
		domain.TransactionTypeExpense,
		domain.TransactionTypeTransfer,
	}
	categories := []string{"Food", "Rent", "Salary", "Transport", ""}

	rng := rand.New(rand.NewPCG(42, 7))
	txs := make([]domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, txn(
			kinds[rng.IntN(len(kinds))],
			rng.Int64N(100000),
			categories[rng.IntN(len(categories))],
		))
	}
	return txs
}
