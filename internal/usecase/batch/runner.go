package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/aggregator"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of processing one user
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeError     Outcome = "error"
)

// Result reports the counters of one batch run.
// Processed + Errors + Skipped == Total.
type Result struct {
	Period    domain.Period
	Processed int
	Errors    int
	Skipped   int
	Total     int
}

// SummaryPublisher is notified after each summary the batch creates
type SummaryPublisher interface {
	PublishSummaryCreated(ctx context.Context, summary *domain.MonthlySummary) error
}

// Recorder observes batch activity, typically to export metrics
type Recorder interface {
	ObserveUser(outcome Outcome)
	ObserveRun(elapsed time.Duration, result Result)
}

// Runner computes the previous month's summary for every user
type Runner struct {
	UserRepo    domain.UserRepository
	TxRepo      domain.TransactionRepository
	SummaryRepo domain.SummaryRepository

	concurrency int
	publisher   SummaryPublisher
	recorder    Recorder
	location    *time.Location
	now         func() time.Time
}

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency bounds how many users are processed at once. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// WithPublisher sets the publisher notified after each created summary
func WithPublisher(p SummaryPublisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithRecorder sets the recorder for per-user outcomes and run durations
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithLocation sets the time zone that defines month boundaries (default UTC)
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithClock overrides the clock used for CreatedAt timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a new Runner. Without options users are processed one at a time.
func NewRunner(
	userRepo domain.UserRepository,
	txRepo domain.TransactionRepository,
	summaryRepo domain.SummaryRepository,
	opts ...Option,
) *Runner {
	r := &Runner{
		UserRepo:    userRepo,
		TxRepo:      txRepo,
		SummaryRepo: summaryRepo,
		concurrency: 1,
		location:    time.UTC,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunMonthlyAggregation summarises the calendar month before asOf for every user.
// Logic:
//  1. Target period = month of asOf (in the runner's location), minus one
//  2. For each user: skip if a summary already exists, else list the month's
//     transactions, aggregate and persist
//  3. A failure for one user (error or panic) is logged and counted; the batch continues
//
// The returned error is non-nil only when the users cannot be enumerated.
func (r *Runner) RunMonthlyAggregation(ctx context.Context, asOf time.Time) (Result, error) {
	started := time.Now()
	period := domain.PeriodOf(asOf.In(r.location)).Previous()
	result := Result{Period: period}

	logger := zerolog.Ctx(ctx).With().Str("period", period.String()).Logger()

	userIDs, err := r.UserRepo.ListIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list users: %w", err)
	}
	result.Total = len(userIDs)

	logger.Info().Int("users", result.Total).Msg("monthly aggregation started")

	var processed, failed, skipped atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			outcome, err := r.processUser(ctx, userID, period)
			switch outcome {
			case OutcomeProcessed:
				processed.Add(1)
			case OutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
				logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to aggregate user")
			}
			if r.recorder != nil {
				r.recorder.ObserveUser(outcome)
			}
			// Errors are counted, never returned to the group
			return nil
		})
	}
	_ = g.Wait()

	result.Processed = int(processed.Load())
	result.Errors = int(failed.Load())
	result.Skipped = int(skipped.Load())

	elapsed := time.Since(started)
	if r.recorder != nil {
		r.recorder.ObserveRun(elapsed, result)
	}

	logger.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Int("total", result.Total).
		Dur("elapsed", elapsed).
		Msg("monthly aggregation finished")

	return result, nil
}

// processUser runs check -> aggregate -> persist for one user. Panics are
// converted into errors.
func (r *Runner) processUser(ctx context.Context, userID uuid.UUID, period domain.Period) (outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = OutcomeError
			err = fmt.Errorf("panic while aggregating: %v", rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return OutcomeError, err
	}

	// 1. Existence check
	_, err = r.SummaryRepo.Get(ctx, userID, period)
	switch {
	case err == nil:
		return OutcomeSkipped, nil
	case !errors.Is(err, domain.ErrSummaryNotFound):
		return OutcomeError, fmt.Errorf("failed to check existing summary: %w", err)
	}

	// 2. Fetch the month's transactions
	from, to := period.Bounds(r.location)
	txs, err := r.TxRepo.ListInRange(ctx, userID, from, to)
	if err != nil {
		return OutcomeError, fmt.Errorf("failed to list transactions: %w", err)
	}

	// 3. Aggregate and persist
	summary := aggregator.Aggregate(userID, period, txs)
	summary.ID = uuid.New()
	summary.CreatedAt = r.now()

	if err := r.SummaryRepo.Create(ctx, summary); err != nil {
		if errors.Is(err, domain.ErrSummaryExists) {
			// Another writer got there first
			return OutcomeSkipped, nil
		}
		return OutcomeError, fmt.Errorf("failed to save summary: %w", err)
	}

	// 4. Notify, best effort
	if r.publisher != nil {
		if err := r.publisher.PublishSummaryCreated(ctx, summary); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("user_id", userID.String()).
				Str("period", period.String()).
				Msg("failed to publish summary created event")
		}
	}

	return OutcomeProcessed, nil
}
