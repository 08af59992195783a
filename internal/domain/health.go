package domain

// Factor names one of the six weighted sub-scores of the financial health score
type Factor string

const (
	FactorSavingsRate     Factor = "savingsRate"
	FactorBudgetAdherence Factor = "budgetAdherence"
	FactorGoalsProgress   Factor = "goalsProgress"
	FactorDebtRatio       Factor = "debtRatio"
	FactorEmergencyFund   Factor = "emergencyFund"
	FactorConsistency     Factor = "consistency"
)

// FinancialMetrics is the input bundle of the scoring engine.
// Monetary fields share one minor currency unit.
type FinancialMetrics struct {
	TotalIncome      int64
	TotalExpense     int64
	SavingsAmount    int64
	BudgetAdherence  float64 // percentage 0-100, computed by the caller
	GoalsProgress    float64 // percentage 0-100, computed by the caller
	DebtAmount       int64
	EmergencyFund    int64
	TransactionCount int
}

// FactorScore is a single sub-score together with the weight it carries in the composite
type FactorScore struct {
	Score  float64 // 0-100
	Weight float64 // 0-1
}

// Rating is the qualitative band of a composite health score
type Rating string

const (
	RatingExcellent        Rating = "Excellent"
	RatingGood             Rating = "Good"
	RatingFair             Rating = "Fair"
	RatingNeedsImprovement Rating = "Needs Improvement"
	RatingPoor             Rating = "Poor"
)

// Color returns the display color associated with the rating
func (r Rating) Color() string {
	switch r {
	case RatingExcellent:
		return "#22c55e"
	case RatingGood:
		return "#0ea5e9"
	case RatingFair:
		return "#f59e0b"
	case RatingNeedsImprovement:
		return "#ef4444"
	default:
		return "#991b1b"
	}
}

// Emoji returns the badge shown next to the rating
func (r Rating) Emoji() string {
	switch r {
	case RatingExcellent:
		return "🏆"
	case RatingGood:
		return "🎯"
	case RatingFair:
		return "📊"
	case RatingNeedsImprovement:
		return "⚠️"
	default:
		return "🚨"
	}
}

// HealthScoreResult is the fully derived output of the scoring engine.
// It is recomputed on demand and never persisted.
type HealthScoreResult struct {
	Score           int // 0-1000
	Rating          Rating
	Breakdown       map[Factor]FactorScore
	Recommendations []string
}
