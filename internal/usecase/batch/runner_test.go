package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/adapter/repository/memory"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockSummaryRepository is a mock implementation of SummaryRepository for testing
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Get(ctx context.Context, userID uuid.UUID, period domain.Period) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *MockSummaryRepository) Create(ctx context.Context, summary *domain.MonthlySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// panickingTxRepo blows up for one user and delegates for the rest
type panickingTxRepo struct {
	domain.TransactionRepository
	victim uuid.UUID
}

func (p *panickingTxRepo) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	if userID == p.victim {
		panic("corrupted row")
	}
	return p.TransactionRepository.ListInRange(ctx, userID, from, to)
}

type recordingPublisher struct {
	mu        sync.Mutex
	summaries []*domain.MonthlySummary
	err       error
}

func (p *recordingPublisher) PublishSummaryCreated(_ context.Context, s *domain.MonthlySummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summaries = append(p.summaries, s)
	return p.err
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[Outcome]int
	runs     []Result
}

func (c *countingRecorder) ObserveUser(outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = make(map[Outcome]int)
	}
	c.outcomes[outcome]++
}

func (c *countingRecorder) ObserveRun(_ time.Duration, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, result)
}

type fixture struct {
	store     *memory.Store
	users     domain.UserRepository
	txs       domain.TransactionRepository
	summaries domain.SummaryRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store:     store,
		users:     memory.NewUserRepository(store),
		txs:       memory.NewTransactionRepository(store),
		summaries: memory.NewSummaryRepository(store),
	}
}

func (f *fixture) addUser(t *testing.T, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{ID: id, Email: id.String() + "@example.com", CreatedAt: createdAt}))
	return id
}

func (f *fixture) addTx(t *testing.T, userID uuid.UUID, kind domain.TransactionType, amount int64, category string, at time.Time) {
	t.Helper()
	require.NoError(t, f.txs.Create(context.Background(), &domain.Transaction{
		ID: uuid.New(), UserID: userID, Type: kind, Amount: amount,
		Currency: domain.DefaultCurrency, Category: category, OccurredAt: at,
	}))
}

var (
	april15 = time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC)
	march   = domain.Period{Year: 2024, Month: 3}
)

func TestRunMonthlyAggregation_SummarisesPreviousMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := f.addUser(t, april15)

	f.addTx(t, userID, domain.TransactionTypeIncome, 500000, "Salary", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addTx(t, userID, domain.TransactionTypeExpense, 200000, "Food", time.Date(2024, time.March, 12, 8, 0, 0, 0, time.UTC))
	f.addTx(t, userID, domain.TransactionTypeExpense, 150000, "Rent", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC))
	// Outside the window
	f.addTx(t, userID, domain.TransactionTypeExpense, 99, "Food", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
	f.addTx(t, userID, domain.TransactionTypeExpense, 99, "Food", time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC))

	created := time.Date(2024, time.April, 15, 9, 0, 1, 0, time.UTC)
	runner := NewRunner(f.users, f.txs, f.summaries, WithClock(func() time.Time { return created }))

	result, err := runner.RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, Result{Period: march, Processed: 1, Total: 1}, result)

	summary, err := f.summaries.Get(ctx, userID, march)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, summary.ID)
	assert.Equal(t, int64(500000), summary.TotalIncome)
	assert.Equal(t, int64(350000), summary.TotalExpense)
	assert.Equal(t, int64(150000), summary.NetSavings)
	assert.Equal(t, map[string]int64{"Salary": 500000, "Food": 200000, "Rent": 150000}, summary.Breakdown)
	assert.Equal(t, created, summary.CreatedAt)
}

func TestRunMonthlyAggregation_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i := 0; i < 3; i++ {
		userID := f.addUser(t, april15.Add(time.Duration(i)*time.Minute))
		f.addTx(t, userID, domain.TransactionTypeIncome, 1000, "Salary", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	}
	runner := NewRunner(f.users, f.txs, f.summaries)

	first, err := runner.RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Processed)

	second, err := runner.RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 0, second.Errors)
	assert.Equal(t, 3, second.Total)
}

func TestRunMonthlyAggregation_UserWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := f.addUser(t, april15)

	result, err := NewRunner(f.users, f.txs, f.summaries).RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	summary, err := f.summaries.Get(ctx, userID, march)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.NetSavings)
	assert.Empty(t, summary.Breakdown)
}

func TestRunMonthlyAggregation_EmptySystem(t *testing.T) {
	f := newFixture()

	result, err := NewRunner(f.users, f.txs, f.summaries).RunMonthlyAggregation(context.Background(), april15)
	require.NoError(t, err)
	assert.Equal(t, Result{Period: march}, result)
}

func TestRunMonthlyAggregation_JanuaryTargetsDecember(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := f.addUser(t, april15)
	f.addTx(t, userID, domain.TransactionTypeExpense, 700, "Gifts", time.Date(2024, time.December, 24, 18, 0, 0, 0, time.UTC))

	result, err := NewRunner(f.users, f.txs, f.summaries).
		RunMonthlyAggregation(ctx, time.Date(2025, time.January, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2024, Month: 12}, result.Period)

	summary, err := f.summaries.Get(ctx, userID, domain.Period{Year: 2024, Month: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(700), summary.TotalExpense)
}

func TestRunMonthlyAggregation_LocationDefinesMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := f.addUser(t, april15)
	dhaka := time.FixedZone("BST", 6*60*60)

	// 2024-03-31 20:00 UTC is already April 1st in Dhaka
	f.addTx(t, userID, domain.TransactionTypeExpense, 500, "Food", time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC))
	f.addTx(t, userID, domain.TransactionTypeExpense, 300, "Food", time.Date(2024, time.March, 31, 17, 0, 0, 0, time.UTC))

	_, err := NewRunner(f.users, f.txs, f.summaries, WithLocation(dhaka)).RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)

	summary, err := f.summaries.Get(ctx, userID, march)
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.TotalExpense)
}

func TestRunMonthlyAggregation_PanicIsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	healthy := f.addUser(t, april15)
	victim := f.addUser(t, april15.Add(time.Minute))
	other := f.addUser(t, april15.Add(2*time.Minute))

	txRepo := &panickingTxRepo{TransactionRepository: f.txs, victim: victim}
	result, err := NewRunner(f.users, txRepo, f.summaries).RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 3, result.Total)

	for _, id := range []uuid.UUID{healthy, other} {
		_, err := f.summaries.Get(ctx, id, march)
		assert.NoError(t, err)
	}
	_, err = f.summaries.Get(ctx, victim, march)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)
}

func TestRunMonthlyAggregation_StoreErrorsAreCounted(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	summaries := new(MockSummaryRepository)
	f := newFixture()

	failing, fine := uuid.New(), uuid.New()
	users.On("ListIDs", ctx).Return([]uuid.UUID{failing, fine}, nil)
	summaries.On("Get", ctx, failing, march).Return(nil, errors.New("connection reset"))
	summaries.On("Get", ctx, fine, march).Return(nil, domain.ErrSummaryNotFound)
	summaries.On("Create", ctx, mock.MatchedBy(func(s *domain.MonthlySummary) bool {
		return s.UserID == fine && s.Year == 2024 && s.Month == 3
	})).Return(nil)

	result, err := NewRunner(users, f.txs, summaries).RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, Result{Period: march, Processed: 1, Errors: 1, Total: 2}, result)

	users.AssertExpectations(t)
	summaries.AssertExpectations(t)
}

func TestRunMonthlyAggregation_LostRaceIsSkipped(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	summaries := new(MockSummaryRepository)
	f := newFixture()

	userID := uuid.New()
	users.On("ListIDs", ctx).Return([]uuid.UUID{userID}, nil)
	summaries.On("Get", ctx, userID, march).Return(nil, domain.ErrSummaryNotFound)
	summaries.On("Create", ctx, mock.Anything).Return(domain.ErrSummaryExists)

	result, err := NewRunner(users, f.txs, summaries).RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Errors)
}

func TestRunMonthlyAggregation_ListUsersFailure(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	f := newFixture()
	users.On("ListIDs", ctx).Return(nil, errors.New("db down"))

	result, err := NewRunner(users, f.txs, f.summaries).RunMonthlyAggregation(ctx, april15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list users")
	assert.Equal(t, march, result.Period)
	assert.Zero(t, result.Total)
}

func TestRunMonthlyAggregation_PublishesAndRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	first := f.addUser(t, april15)
	second := f.addUser(t, april15.Add(time.Minute))
	require.NoError(t, f.summaries.Create(ctx, &domain.MonthlySummary{ID: uuid.New(), UserID: second, Year: 2024, Month: 3}))

	publisher := &recordingPublisher{err: errors.New("broker unavailable")}
	recorder := &countingRecorder{}
	runner := NewRunner(f.users, f.txs, f.summaries, WithPublisher(publisher), WithRecorder(recorder))

	result, err := runner.RunMonthlyAggregation(ctx, april15)
	require.NoError(t, err)

	// A failed publish does not turn the user into an error
	assert.Equal(t, Result{Period: march, Processed: 1, Skipped: 1, Total: 2}, result)
	require.Len(t, publisher.summaries, 1)
	assert.Equal(t, first, publisher.summaries[0].UserID)

	assert.Equal(t, map[Outcome]int{OutcomeProcessed: 1, OutcomeSkipped: 1}, recorder.outcomes)
	assert.Equal(t, []Result{result}, recorder.runs)
}

func TestRunMonthlyAggregation_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	const users = 40
	for i := 0; i < users; i++ {
		userID := f.addUser(t, april15.Add(time.Duration(i)*time.Second))
		f.addTx(t, userID, domain.TransactionTypeIncome, int64(i+1)*100, "Salary", time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	}

	runner := NewRunner(f.users, f.txs, f.summaries, WithConcurrency(8))

	// Two overlapping runs must still create exactly one summary per user
	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := runner.RunMonthlyAggregation(ctx, april15)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	assert.Equal(t, users, results[0].Processed+results[1].Processed)
	assert.Equal(t, users, results[0].Skipped+results[1].Skipped)
	assert.Zero(t, results[0].Errors+results[1].Errors)

	ids, err := f.users.ListIDs(ctx)
	require.NoError(t, err)
	for _, id := range ids {
		_, err := f.summaries.Get(ctx, id, march)
		assert.NoError(t, err)
	}
}

func TestWithConcurrency_FloorsAtOne(t *testing.T) {
	f := newFixture()
	runner := NewRunner(f.users, f.txs, f.summaries, WithConcurrency(0))
	assert.Equal(t, 1, runner.concurrency)
}
