package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// Fixed UUIDs for the demo users, so that seeding twice is a no-op
var (
	DEMO_ADMIN = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DEMO_JOHN  = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	DEMO_JANE  = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	DEMO_ALICE = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

// DemoUser defines a user to be seeded
type DemoUser struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// DemoUsers lists the users created by Seed
var DemoUsers = []DemoUser{
	{ID: DEMO_ADMIN, Email: "admin@financeapp.com", Name: "Admin User"},
	{ID: DEMO_JOHN, Email: "john@example.com", Name: "John Doe"},
	{ID: DEMO_JANE, Email: "jane@example.com", Name: "Jane Smith"},
	{ID: DEMO_ALICE, Email: "alice@example.com", Name: "Alice Rahman"},
}

var (
	incomeCategories  = []string{"Salary", "Freelance", "Investment", "Bonus"}
	expenseCategories = []string{"Food", "Rent", "Transport", "Utilities", "Entertainment", "Healthcare", "Shopping"}
)

// DemoSeeder fills an empty system with sample users, transactions, goals and budgets
type DemoSeeder struct {
	UserRepo   domain.UserRepository
	TxRepo     domain.TransactionRepository
	GoalRepo   domain.GoalRepository
	BudgetRepo domain.BudgetRepository
	seed       uint64
}

// NewDemoSeeder creates a new DemoSeeder instance. The same seed always produces the same data.
func NewDemoSeeder(
	userRepo domain.UserRepository,
	txRepo domain.TransactionRepository,
	goalRepo domain.GoalRepository,
	budgetRepo domain.BudgetRepository,
	seed uint64,
) *DemoSeeder {
	return &DemoSeeder{
		UserRepo:   userRepo,
		TxRepo:     txRepo,
		GoalRepo:   goalRepo,
		BudgetRepo: budgetRepo,
		seed:       seed,
	}
}

// Seed ensures every demo user exists, with sample activity in period.
// Users that already exist are left untouched. Returns the number of users created.
func (s *DemoSeeder) Seed(ctx context.Context, period domain.Period) (int, error) {
	if err := period.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.UserRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	rng := rand.New(rand.NewPCG(s.seed, uint64(period.Year*100+period.Month)))
	from, to := period.Bounds(time.UTC)

	created := 0
	for i, demo := range DemoUsers {
		if slices.Contains(existing, demo.ID) {
			continue
		}

		user := &domain.User{
			ID:        demo.ID,
			Email:     demo.Email,
			Name:      demo.Name,
			CreatedAt: from.Add(-time.Duration(len(DemoUsers)-i) * time.Hour),
		}
		if err := s.UserRepo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", demo.Email, err)
		}

		var spent int64
		for _, tx := range sampleTransactions(rng, demo.ID, from) {
			if err := s.TxRepo.Create(ctx, &tx); err != nil {
				return created, fmt.Errorf("failed to create transaction for %s: %w", demo.Email, err)
			}
			if tx.Type == domain.TransactionTypeExpense {
				spent += tx.Amount
			}
		}

		goal := &domain.Goal{
			ID:            uuid.New(),
			UserID:        demo.ID,
			Name:          "Emergency Fund",
			TargetAmount:  300000 * 100,
			CurrentAmount: (rng.Int64N(150000) + 10000) * 100,
			Category:      domain.GoalCategoryEmergency,
			Priority:      domain.GoalPriorityHigh,
			Status:        domain.GoalStatusActive,
		}
		if err := s.GoalRepo.Create(ctx, goal); err != nil {
			return created, fmt.Errorf("failed to create goal for %s: %w", demo.Email, err)
		}

		// Budget of 40k-80k covering the whole month
		budget := &domain.Budget{
			ID:          uuid.New(),
			UserID:      demo.ID,
			Name:        period.String() + " budget",
			StartDate:   from,
			EndDate:     to,
			TotalBudget: (rng.Int64N(40000) + 40000) * 100,
			TotalSpent:  spent,
			Status:      domain.BudgetStatusActive,
		}
		if err := s.BudgetRepo.Create(ctx, budget); err != nil {
			return created, fmt.Errorf("failed to create budget for %s: %w", demo.Email, err)
		}

		created++
	}

	zerolog.Ctx(ctx).Info().
		Int("created", created).
		Str("period", period.String()).
		Msg("demo data seeded")

	return created, nil
}

// sampleTransactions returns 1-3 incomes of 10k-60k and 5-15 expenses of 500-5500,
// in minor units, spread over the first 28 days of the month starting at from
func sampleTransactions(rng *rand.Rand, userID uuid.UUID, from time.Time) []domain.Transaction {
	var txs []domain.Transaction

	day := func() time.Time {
		return from.AddDate(0, 0, rng.IntN(28)).Add(time.Duration(rng.IntN(24)) * time.Hour)
	}

	for range rng.IntN(3) + 1 {
		txs = append(txs, domain.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			Type:       domain.TransactionTypeIncome,
			Amount:     (rng.Int64N(50000) + 10000) * 100,
			Currency:   domain.DefaultCurrency,
			Category:   incomeCategories[rng.IntN(len(incomeCategories))],
			Note:       "Sample income transaction",
			OccurredAt: day(),
		})
	}

	for range rng.IntN(11) + 5 {
		txs = append(txs, domain.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			Type:       domain.TransactionTypeExpense,
			Amount:     (rng.Int64N(5000) + 500) * 100,
			Currency:   domain.DefaultCurrency,
			Category:   expenseCategories[rng.IntN(len(expenseCategories))],
			Note:       "Sample expense transaction",
			OccurredAt: day(),
		})
	}

	return txs
}
