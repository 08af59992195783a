package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_ListIDsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var want []uuid.UUID
	for i := 0; i < 3; i++ {
		u := &domain.User{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, u))
		want = append(want, u.ID)
	}

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ids)
}

func TestTransactionRepository_ListInRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(NewStore())
	userID := uuid.New()
	from, to := domain.Period{Year: 2024, Month: 2}.Bounds(time.UTC)

	inside := []time.Time{from, from.Add(36 * time.Hour), to}
	outside := []time.Time{from.Add(-time.Nanosecond), to.Add(time.Nanosecond)}
	for _, at := range append(append([]time.Time{}, inside...), outside...) {
		require.NoError(t, repo.Create(ctx, &domain.Transaction{
			ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeExpense,
			Amount: 100, Category: "Food", OccurredAt: at,
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Transaction{
		ID: uuid.New(), UserID: uuid.New(), Type: domain.TransactionTypeExpense,
		Amount: 100, Category: "Food", OccurredAt: from,
	}))

	txs, err := repo.ListInRange(ctx, userID, from, to)
	require.NoError(t, err)
	require.Len(t, txs, len(inside))
	for i, tx := range txs {
		assert.True(t, tx.OccurredAt.Equal(inside[i]))
	}
}

func TestTransactionRepository_ListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(NewStore())
	userID := uuid.New()
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Transaction{
			ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeIncome,
			Amount: int64(i), Category: "Salary", OccurredAt: base.AddDate(0, 0, i),
		}))
	}

	page, err := repo.List(ctx, userID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Amount)
	assert.Equal(t, int64(2), page[1].Amount)

	empty, err := repo.List(ctx, userID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionRepository_DeleteIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(NewStore())
	tx := &domain.Transaction{
		ID: uuid.New(), UserID: uuid.New(), Type: domain.TransactionTypeIncome,
		Amount: 1, Category: "Salary", OccurredAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, tx))

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), tx.ID), domain.ErrTransactionNotFound)
	require.NoError(t, repo.Delete(ctx, tx.UserID, tx.ID))

	_, err := repo.GetByID(ctx, tx.UserID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestSummaryRepository_UniquePerUserAndPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewSummaryRepository(NewStore())
	userID := uuid.New()
	period := domain.Period{Year: 2024, Month: 3}

	_, err := repo.Get(ctx, userID, period)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	first := &domain.MonthlySummary{ID: uuid.New(), UserID: userID, Year: 2024, Month: 3, Breakdown: map[string]int64{"Food": 10}}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.MonthlySummary{ID: uuid.New(), UserID: userID, Year: 2024, Month: 3}
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrSummaryExists)

	stored, err := repo.Get(ctx, userID, period)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	// Stored copies are isolated from callers
	stored.Breakdown["Food"] = 999
	again, err := repo.Get(ctx, userID, period)
	require.NoError(t, err)
	assert.Equal(t, int64(10), again.Breakdown["Food"])
}

func TestSummaryRepository_ConcurrentCreateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewSummaryRepository(NewStore())
	userID := uuid.New()

	var created, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &domain.MonthlySummary{ID: uuid.New(), UserID: userID, Year: 2024, Month: 5})
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, domain.ErrSummaryExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(15), conflicts.Load())
}

func TestGoalAndBudgetRepositories(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	goals := NewGoalRepository(store)
	budgets := NewBudgetRepository(store)
	userID := uuid.New()

	require.NoError(t, goals.Create(ctx, &domain.Goal{ID: uuid.New(), UserID: userID, Name: "Fund", TargetAmount: 100, Status: domain.GoalStatusActive}))
	require.NoError(t, goals.Create(ctx, &domain.Goal{ID: uuid.New(), UserID: userID, Name: "Old", TargetAmount: 100, Status: domain.GoalStatusCompleted}))

	active, err := goals.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Fund", active[0].Name)

	march := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	_, err = budgets.GetActive(ctx, userID, march)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)

	require.NoError(t, budgets.Create(ctx, &domain.Budget{
		ID: uuid.New(), UserID: userID, Name: "March",
		StartDate:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		TotalBudget: 1000, TotalSpent: 900, Status: domain.BudgetStatusActive,
	}))

	budget, err := budgets.GetActive(ctx, userID, march)
	require.NoError(t, err)
	assert.Equal(t, "March", budget.Name)

	_, err = budgets.GetActive(ctx, userID, march.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}

func TestGoalRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	goals := NewGoalRepository(NewStore())
	userID, otherUser := uuid.New(), uuid.New()
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	low := &domain.Goal{ID: uuid.New(), UserID: userID, Name: "Books", TargetAmount: 100, Category: domain.GoalCategoryEducation,
		Priority: domain.GoalPriorityLow, Status: domain.GoalStatusActive, CreatedAt: base.Add(2 * time.Hour)}
	highOld := &domain.Goal{ID: uuid.New(), UserID: userID, Name: "Debt", TargetAmount: 100, Category: domain.GoalCategoryDebt,
		Priority: domain.GoalPriorityHigh, Status: domain.GoalStatusActive, CreatedAt: base}
	highNew := &domain.Goal{ID: uuid.New(), UserID: userID, Name: "Trip", TargetAmount: 100, Category: domain.GoalCategoryVacation,
		Priority: domain.GoalPriorityHigh, Status: domain.GoalStatusPaused, CreatedAt: base.Add(time.Hour)}
	for _, g := range []*domain.Goal{low, highOld, highNew} {
		require.NoError(t, goals.Create(ctx, g))
	}

	all, err := goals.List(ctx, userID, domain.GoalFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Trip", "Debt", "Books"}, []string{all[0].Name, all[1].Name, all[2].Name})

	paused, err := goals.List(ctx, userID, domain.GoalFilter{Status: domain.GoalStatusPaused})
	require.NoError(t, err)
	require.Len(t, paused, 1)
	assert.Equal(t, "Trip", paused[0].Name)

	debt, err := goals.List(ctx, userID, domain.GoalFilter{Category: domain.GoalCategoryDebt})
	require.NoError(t, err)
	require.Len(t, debt, 1)

	updated := *low
	updated.CurrentAmount = 60
	updated.CreatedAt = time.Time{}
	require.NoError(t, goals.Update(ctx, &updated))

	got, err := goals.GetByID(ctx, userID, low.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.CurrentAmount)
	assert.Equal(t, low.CreatedAt, got.CreatedAt)

	_, err = goals.GetByID(ctx, otherUser, low.ID)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)

	stranger := updated
	stranger.UserID = otherUser
	assert.ErrorIs(t, goals.Update(ctx, &stranger), domain.ErrGoalNotFound)

	assert.ErrorIs(t, goals.Delete(ctx, otherUser, low.ID), domain.ErrGoalNotFound)
	require.NoError(t, goals.Delete(ctx, userID, low.ID))
	assert.ErrorIs(t, goals.Delete(ctx, userID, low.ID), domain.ErrGoalNotFound)
}
