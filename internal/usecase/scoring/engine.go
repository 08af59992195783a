// Package scoring computes the 0-1000 financial health score from a FinancialMetrics bundle.
//
// The score is a weighted sum of six step curves, each mapping one or two metrics to a
// 0-100 sub-score. Ratios are evaluated with exact decimal arithmetic so that band
// boundaries (30%, 6 months, ...) are hit exactly.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)
)

// factor is one row of the scoring table
type factor struct {
	name   domain.Factor
	weight decimal.Decimal
	score  func(m domain.FinancialMetrics) decimal.Decimal
}

// factors lists the sub-scores in their canonical order. Weights sum to 1.
var factors = []factor{
	{name: domain.FactorSavingsRate, weight: decimal.RequireFromString("0.25"), score: savingsRateScore},
	{name: domain.FactorBudgetAdherence, weight: decimal.RequireFromString("0.20"), score: budgetAdherenceScore},
	{name: domain.FactorGoalsProgress, weight: decimal.RequireFromString("0.20"), score: goalsProgressScore},
	{name: domain.FactorDebtRatio, weight: decimal.RequireFromString("0.15"), score: debtRatioScore},
	{name: domain.FactorEmergencyFund, weight: decimal.RequireFromString("0.15"), score: emergencyFundScore},
	{name: domain.FactorConsistency, weight: decimal.RequireFromString("0.05"), score: consistencyScore},
}

// Factors returns the factor names in evaluation order
func Factors() []domain.Factor {
	names := make([]domain.Factor, len(factors))
	for i, f := range factors {
		names[i] = f.name
	}
	return names
}

// Calculate computes the financial health score of m.
// It is a pure function: no I/O, no randomness, and degenerate inputs (zero income or
// zero expense) resolve to the documented fallback sub-scores instead of failing.
func Calculate(m domain.FinancialMetrics) domain.HealthScoreResult {
	breakdown := make(map[domain.Factor]FactorValue, len(factors))
	result := domain.HealthScoreResult{
		Breakdown: make(map[domain.Factor]domain.FactorScore, len(factors)),
	}

	// 1. Evaluate every curve and fold the weighted sum (0-100 scale)
	raw := decimal.Zero
	for _, f := range factors {
		sub := f.score(m)
		breakdown[f.name] = FactorValue{Score: sub, Weight: f.weight}
		result.Breakdown[f.name] = domain.FactorScore{
			Score:  sub.InexactFloat64(),
			Weight: f.weight.InexactFloat64(),
		}
		raw = raw.Add(sub.Mul(f.weight))
	}

	// 2. Convert to the 0-1000 scale
	result.Score = int(raw.Mul(ten).Round(0).IntPart())
	result.Rating = RatingFor(result.Score)

	// 3. Derive recommendations from the same sub-scores
	result.Recommendations = recommend(breakdown, m)

	return result
}

// FactorValue is the exact sub-score and weight of one factor
type FactorValue struct {
	Score  decimal.Decimal
	Weight decimal.Decimal
}

// RatingFor maps a composite score to its rating band (inclusive lower bounds)
func RatingFor(score int) domain.Rating {
	switch {
	case score >= 800:
		return domain.RatingExcellent
	case score >= 650:
		return domain.RatingGood
	case score >= 500:
		return domain.RatingFair
	case score >= 350:
		return domain.RatingNeedsImprovement
	default:
		return domain.RatingPoor
	}
}

// SavingsRate returns savings as a percentage of income, or zero without positive income
func SavingsRate(m domain.FinancialMetrics) decimal.Decimal {
	if m.TotalIncome <= 0 {
		return decimal.Zero
	}
	return percentOf(m.SavingsAmount, m.TotalIncome)
}

// MonthsCovered returns how many months of expenses the emergency fund covers.
// ok is false when there are no expenses to cover.
func MonthsCovered(m domain.FinancialMetrics) (months decimal.Decimal, ok bool) {
	if m.TotalExpense <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(m.EmergencyFund).Div(decimal.NewFromInt(m.TotalExpense)), true
}

func savingsRateScore(m domain.FinancialMetrics) decimal.Decimal {
	if m.TotalIncome <= 0 {
		return decimal.Zero
	}

	rate := SavingsRate(m)
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(30)):
		return decimal.NewFromInt(100)
	case rate.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return decimal.NewFromInt(85)
	case rate.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return decimal.NewFromInt(70)
	case rate.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return decimal.NewFromInt(50)
	case rate.IsPositive():
		return decimal.NewFromInt(30)
	default:
		return decimal.Zero
	}
}

func budgetAdherenceScore(m domain.FinancialMetrics) decimal.Decimal {
	return clampPercent(m.BudgetAdherence)
}

func goalsProgressScore(m domain.FinancialMetrics) decimal.Decimal {
	return clampPercent(m.GoalsProgress)
}

func debtRatioScore(m domain.FinancialMetrics) decimal.Decimal {
	if m.TotalIncome <= 0 {
		return decimal.NewFromInt(50)
	}
	if m.DebtAmount <= 0 {
		return decimal.NewFromInt(100)
	}

	ratio := percentOf(m.DebtAmount, m.TotalIncome)
	switch {
	case ratio.LessThanOrEqual(decimal.NewFromInt(10)):
		return decimal.NewFromInt(100)
	case ratio.LessThanOrEqual(decimal.NewFromInt(20)):
		return decimal.NewFromInt(85)
	case ratio.LessThanOrEqual(decimal.NewFromInt(35)):
		return decimal.NewFromInt(70)
	case ratio.LessThanOrEqual(decimal.NewFromInt(50)):
		return decimal.NewFromInt(50)
	default:
		return decimal.NewFromInt(30)
	}
}

func emergencyFundScore(m domain.FinancialMetrics) decimal.Decimal {
	months, ok := MonthsCovered(m)
	if !ok {
		return decimal.NewFromInt(50)
	}

	switch {
	case months.GreaterThanOrEqual(decimal.NewFromInt(6)):
		return decimal.NewFromInt(100)
	case months.GreaterThanOrEqual(decimal.NewFromInt(3)):
		return decimal.NewFromInt(85)
	case months.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return decimal.NewFromInt(70)
	case months.IsPositive():
		return decimal.NewFromInt(40)
	default:
		return decimal.Zero
	}
}

func consistencyScore(m domain.FinancialMetrics) decimal.Decimal {
	n := m.TransactionCount
	switch {
	case n >= 50:
		return decimal.NewFromInt(100)
	case n >= 30:
		return decimal.NewFromInt(85)
	case n >= 15:
		return decimal.NewFromInt(70)
	case n >= 5:
		return decimal.NewFromInt(50)
	case n > 0:
		return decimal.NewFromInt(30)
	default:
		return decimal.Zero
	}
}

// percentOf returns part/whole*100; whole must be non-zero
func percentOf(part, whole int64) decimal.Decimal {
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole))
}

// clampPercent keeps a caller-supplied percentage inside [0, 100]
func clampPercent(v float64) decimal.Decimal {
	if math.IsNaN(v) || v <= 0 {
		return decimal.Zero
	}
	if v >= 100 {
		return hundred
	}
	return decimal.NewFromFloat(v)
}
