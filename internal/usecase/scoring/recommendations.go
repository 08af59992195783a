package scoring

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// Recommendation texts, in the order the rules are evaluated
const (
	RecSaveTenPercent   = "Try to save at least 10% of your income. Start with a small percentage and gradually increase it."
	RecSaveTwentyThirty = "Aim to save 20-30% of your income for optimal financial health."
	RecReviewBudget     = "Review your budget regularly and adjust categories based on actual spending patterns."
	RecSetGoals         = "Set specific, measurable financial goals and track them regularly."
	RecReduceDebt       = "Focus on reducing debt by allocating more funds to high-interest debts first."
	RecBuildEmergency   = "Build an emergency fund covering at least 3-6 months of expenses."
	RecSixMonthFund     = "Aim for an emergency fund covering 6 months of expenses for maximum security."
	RecTrackConsistency = "Track all your transactions consistently to get better insights into your spending."
	RecConsiderInvest   = "Your financial health is excellent! Consider exploring investment opportunities."
)

var (
	seventy    = decimal.NewFromInt(70)
	eightyFive = decimal.NewFromInt(85)
)

// rule appends at most one recommendation
type rule func(scores map[domain.Factor]FactorValue, m domain.FinancialMetrics) (string, bool)

var rules = []rule{
	savingsRule,
	belowRule(domain.FactorBudgetAdherence, seventy, RecReviewBudget),
	belowRule(domain.FactorGoalsProgress, seventy, RecSetGoals),
	belowRule(domain.FactorDebtRatio, seventy, RecReduceDebt),
	emergencyFundRule,
	belowRule(domain.FactorConsistency, seventy, RecTrackConsistency),
	investRule,
}

func recommend(scores map[domain.Factor]FactorValue, m domain.FinancialMetrics) []string {
	recommendations := make([]string, 0, len(rules))
	for _, r := range rules {
		if text, ok := r(scores, m); ok {
			recommendations = append(recommendations, text)
		}
	}
	return recommendations
}

func belowRule(f domain.Factor, threshold decimal.Decimal, text string) rule {
	return func(scores map[domain.Factor]FactorValue, _ domain.FinancialMetrics) (string, bool) {
		return text, scores[f].Score.LessThan(threshold)
	}
}

// savingsRule treats a missing income as a 0% savings rate
func savingsRule(scores map[domain.Factor]FactorValue, m domain.FinancialMetrics) (string, bool) {
	if !scores[domain.FactorSavingsRate].Score.LessThan(seventy) {
		return "", false
	}
	if SavingsRate(m).LessThan(decimal.NewFromInt(10)) {
		return RecSaveTenPercent, true
	}
	return RecSaveTwentyThirty, true
}

// emergencyFundRule treats a fund with no expenses to cover as unbounded, and an empty
// fund as zero months.
// With no expenses and no fund, a plain 0/0 ratio would be NaN, fail the 3-month test and
// yield RecSixMonthFund; this rule yields RecBuildEmergency instead.
func emergencyFundRule(scores map[domain.Factor]FactorValue, m domain.FinancialMetrics) (string, bool) {
	if !scores[domain.FactorEmergencyFund].Score.LessThan(eightyFive) {
		return "", false
	}

	months, ok := MonthsCovered(m)
	if !ok {
		if m.EmergencyFund > 0 {
			return RecSixMonthFund, true
		}
		return RecBuildEmergency, true
	}
	if months.LessThan(decimal.NewFromInt(3)) {
		return RecBuildEmergency, true
	}
	return RecSixMonthFund, true
}

func investRule(scores map[domain.Factor]FactorValue, _ domain.FinancialMetrics) (string, bool) {
	ok := scores[domain.FactorSavingsRate].Score.GreaterThanOrEqual(eightyFive) &&
		scores[domain.FactorEmergencyFund].Score.GreaterThanOrEqual(eightyFive)
	return RecConsiderInvest, ok
}
