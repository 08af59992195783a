// Package memory provides in-process implementations of the domain repositories.
// It backs the "memory" store mode and the use case tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

type summaryKey struct {
	userID uuid.UUID
	period domain.Period
}

// Store holds every entity behind one mutex. Summary creation checks the
// (user, year, month) key under the write lock, so concurrent creators see
// domain.ErrSummaryExists exactly like the unique index in Postgres.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]domain.User
	transactions map[uuid.UUID]domain.Transaction
	summaries    map[summaryKey]domain.MonthlySummary
	goals        map[uuid.UUID]domain.Goal
	budgets      map[uuid.UUID]domain.Budget
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]domain.User),
		transactions: make(map[uuid.UUID]domain.Transaction),
		summaries:    make(map[summaryKey]domain.MonthlySummary),
		goals:        make(map[uuid.UUID]domain.Goal),
		budgets:      make(map[uuid.UUID]domain.Budget),
	}
}

// userRepository implements domain.UserRepository
type userRepository struct{ s *Store }

// NewUserRepository creates a user repository over s
func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users[user.ID] = *user
	return nil
}

// ListIDs returns user IDs ordered by creation time, then ID
func (r *userRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	users := slices.Collect(maps.Values(r.s.users))
	r.s.mu.RUnlock()

	slices.SortFunc(users, func(a, b domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct{ s *Store }

// NewTransactionRepository creates a transaction repository over s
func NewTransactionRepository(s *Store) domain.TransactionRepository {
	return &transactionRepository{s: s}
}

func (r *transactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.s.transactions[tx.ID] = *tx
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tx, ok := r.s.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *transactionRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, ok := r.s.transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

// List returns the user's transactions newest first
func (r *transactionRepository) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	var owned []domain.Transaction
	for _, tx := range r.s.transactions {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(owned, func(a, b domain.Transaction) int {
		if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(owned) {
		return []*domain.Transaction{}, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}

	result := make([]*domain.Transaction, len(owned))
	for i := range owned {
		result[i] = &owned[i]
	}
	return result, nil
}

// ListInRange returns the user's transactions with from <= OccurredAt <= to, oldest first
func (r *transactionRepository) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Transaction{}
	for _, tx := range r.s.transactions {
		if tx.UserID != userID || tx.OccurredAt.Before(from) || tx.OccurredAt.After(to) {
			continue
		}
		result = append(result, tx)
	}

	slices.SortFunc(result, func(a, b domain.Transaction) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return result, nil
}

// summaryRepository implements domain.SummaryRepository
type summaryRepository struct{ s *Store }

// NewSummaryRepository creates a summary repository over s
func NewSummaryRepository(s *Store) domain.SummaryRepository {
	return &summaryRepository{s: s}
}

func (r *summaryRepository) Get(ctx context.Context, userID uuid.UUID, period domain.Period) (*domain.MonthlySummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summary, ok := r.s.summaries[summaryKey{userID: userID, period: period}]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	summary.Breakdown = maps.Clone(summary.Breakdown)
	return &summary, nil
}

func (r *summaryRepository) Create(_ context.Context, summary *domain.MonthlySummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := summaryKey{userID: summary.UserID, period: summary.Period()}
	if _, exists := r.s.summaries[key]; exists {
		return domain.ErrSummaryExists
	}

	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}
	stored := *summary
	stored.Breakdown = maps.Clone(summary.Breakdown)
	r.s.summaries[key] = stored
	return nil
}

// goalRepository implements domain.GoalRepository
type goalRepository struct{ s *Store }

// NewGoalRepository creates a goal repository over s
func NewGoalRepository(s *Store) domain.GoalRepository {
	return &goalRepository{s: s}
}

func (r *goalRepository) Create(_ context.Context, goal *domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	if goal.UpdatedAt.IsZero() {
		goal.UpdatedAt = goal.CreatedAt
	}
	r.s.goals[goal.ID] = *goal
	return nil
}

func (r *goalRepository) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.goals[id]
	if !ok || g.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return &g, nil
}

// List orders by priority rank, then newest first
func (r *goalRepository) List(_ context.Context, userID uuid.UUID, filter domain.GoalFilter) ([]domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Goal{}
	for _, g := range r.s.goals {
		if g.UserID == userID && filter.Matches(&g) {
			result = append(result, g)
		}
	}
	slices.SortFunc(result, func(a, b domain.Goal) int {
		if c := b.Priority.Rank() - a.Priority.Rank(); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (r *goalRepository) ListActive(_ context.Context, userID uuid.UUID) ([]domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Goal{}
	for _, g := range r.s.goals {
		if g.UserID == userID && g.Status == domain.GoalStatusActive {
			result = append(result, g)
		}
	}
	slices.SortFunc(result, func(a, b domain.Goal) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

func (r *goalRepository) Update(_ context.Context, goal *domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return domain.ErrGoalNotFound
	}
	if goal.UpdatedAt.IsZero() {
		goal.UpdatedAt = time.Now()
	}
	goal.CreatedAt = existing.CreatedAt
	r.s.goals[goal.ID] = *goal
	return nil
}

func (r *goalRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.goals[id]
	if !ok || g.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(r.s.goals, id)
	return nil
}

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct{ s *Store }

// NewBudgetRepository creates a budget repository over s
func NewBudgetRepository(s *Store) domain.BudgetRepository {
	return &budgetRepository{s: s}
}

func (r *budgetRepository) Create(_ context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.budgets[budget.ID] = *budget
	return nil
}

// GetActive returns the active budget covering at with the latest start date
func (r *budgetRepository) GetActive(_ context.Context, userID uuid.UUID, at time.Time) (*domain.Budget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.Budget
	for _, b := range r.s.budgets {
		if b.UserID != userID || b.Status != domain.BudgetStatusActive || !b.Covers(at) {
			continue
		}
		if found == nil || b.StartDate.After(found.StartDate) {
			found = &b
		}
	}
	if found == nil {
		return nil, domain.ErrBudgetNotFound
	}
	return found, nil
}
