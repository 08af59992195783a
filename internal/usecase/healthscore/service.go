package healthscore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/scoring"
)

// neutralBudgetAdherence is used when the user has no usable budget
const neutralBudgetAdherence = 50.0

// Report pairs the computed metrics with the resulting score
type Report struct {
	Period  domain.Period
	Metrics domain.FinancialMetrics
	Result  domain.HealthScoreResult
}

// ScoreRecorder observes computed scores, typically to export metrics
type ScoreRecorder interface {
	ObserveScore(result domain.HealthScoreResult)
}

// HealthScoreService computes a user's financial health score from stored data
type HealthScoreService struct {
	TxRepo     domain.TransactionRepository
	GoalRepo   domain.GoalRepository
	BudgetRepo domain.BudgetRepository
	Location   *time.Location
	Recorder   ScoreRecorder
}

// NewHealthScoreService creates a new HealthScoreService instance. A nil loc means UTC.
func NewHealthScoreService(
	txRepo domain.TransactionRepository,
	goalRepo domain.GoalRepository,
	budgetRepo domain.BudgetRepository,
	loc *time.Location,
) *HealthScoreService {
	if loc == nil {
		loc = time.UTC
	}
	return &HealthScoreService{
		TxRepo:     txRepo,
		GoalRepo:   goalRepo,
		BudgetRepo: budgetRepo,
		Location:   loc,
	}
}

// Calculate scores the user for the calendar month containing asOf.
// Logic:
//  1. Load the month's transactions, the active goals and the budget active at asOf
//  2. Build FinancialMetrics from them (BuildMetrics)
//  3. Delegate to the scoring engine
func (s *HealthScoreService) Calculate(ctx context.Context, userID uuid.UUID, asOf time.Time) (*Report, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}

	asOf = asOf.In(s.Location)
	period := domain.PeriodOf(asOf)
	from, to := period.Bounds(s.Location)

	txs, err := s.TxRepo.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	goals, err := s.GoalRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	budget, err := s.BudgetRepo.GetActive(ctx, userID, asOf)
	if err != nil {
		if !errors.Is(err, domain.ErrBudgetNotFound) {
			return nil, fmt.Errorf("failed to get active budget: %w", err)
		}
		budget = nil
	}

	metrics := BuildMetrics(txs, goals, budget)
	result := scoring.Calculate(metrics)

	if s.Recorder != nil {
		s.Recorder.ObserveScore(result)
	}

	return &Report{Period: period, Metrics: metrics, Result: result}, nil
}

// BuildMetrics derives the scoring inputs from one month of transactions, the
// active goals and the active budget (nil when there is none).
//   - income and expense totals come from the transactions, transfers excluded
//   - GoalsProgress is the mean capped progress of the goals, 0 without goals
//   - EmergencyFund is the saved amount of the first "emergency" goal
//   - DebtAmount is the remaining amount of the "debt" goals
func BuildMetrics(txs []domain.Transaction, goals []domain.Goal, budget *domain.Budget) domain.FinancialMetrics {
	var m domain.FinancialMetrics

	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			m.TotalIncome += tx.Amount
		case domain.TransactionTypeExpense:
			m.TotalExpense += tx.Amount
		}
	}
	m.SavingsAmount = m.TotalIncome - m.TotalExpense
	m.TransactionCount = len(txs)

	if len(goals) > 0 {
		total := 0.0
		for _, g := range goals {
			total += g.Progress()
		}
		m.GoalsProgress = total / float64(len(goals))
	}

	foundEmergency := false
	for _, g := range goals {
		switch g.Category {
		case domain.GoalCategoryEmergency:
			if !foundEmergency {
				m.EmergencyFund = g.CurrentAmount
				foundEmergency = true
			}
		case domain.GoalCategoryDebt:
			m.DebtAmount += g.Remaining()
		}
	}

	m.BudgetAdherence = BudgetAdherence(budget)

	return m
}

// BudgetAdherence rates how closely spending tracks the budget.
// Using 80-95% of the budget is ideal (100); under-spending scales from 70
// to 100; over-spending loses 2 points per percent above 95.
func BudgetAdherence(budget *domain.Budget) float64 {
	if budget == nil || budget.TotalBudget <= 0 {
		return neutralBudgetAdherence
	}

	usage := float64(budget.TotalSpent) / float64(budget.TotalBudget) * 100
	switch {
	case usage >= 80 && usage <= 95:
		return 100
	case usage < 80:
		return 70 + usage/80*30
	default:
		return math.Max(100-(usage-95)*2, 0)
	}
}
