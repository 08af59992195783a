package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const (
	getSummaryQuery = `
		SELECT id, user_id, year, month, total_income, total_expense, net_savings, breakdown, created_at
		FROM monthly_summaries
		WHERE user_id = $1 AND year = $2 AND month = $3
	`
	insertSummaryQuery = `
		INSERT INTO monthly_summaries (id, user_id, year, month, total_income, total_expense, net_savings, breakdown, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	`
)

// summaryRepository implements domain.SummaryRepository.
// Uniqueness of (user_id, year, month) is enforced by uq_monthly_summaries_user_period.
type summaryRepository struct {
	db *DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *DB) domain.SummaryRepository {
	return &summaryRepository{db: db}
}

// Get retrieves the summary of a user for a period
func (r *summaryRepository) Get(ctx context.Context, userID uuid.UUID, period domain.Period) (*domain.MonthlySummary, error) {
	var summary domain.MonthlySummary
	var breakdown []byte

	err := r.db.QueryRowContext(ctx, getSummaryQuery, userID, period.Year, period.Month).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.Year,
		&summary.Month,
		&summary.TotalIncome,
		&summary.TotalExpense,
		&summary.NetSavings,
		&breakdown,
		&summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	summary.Breakdown = make(map[string]int64)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &summary.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode summary breakdown: %w", err)
		}
	}

	return &summary, nil
}

// Create stores a new summary
func (r *summaryRepository) Create(ctx context.Context, summary *domain.MonthlySummary) error {
	breakdown := summary.Breakdown
	if breakdown == nil {
		breakdown = map[string]int64{}
	}
	encoded, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode summary breakdown: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertSummaryQuery,
		summary.ID,
		summary.UserID,
		summary.Year,
		summary.Month,
		summary.TotalIncome,
		summary.TotalExpense,
		summary.NetSavings,
		string(encoded),
		nullTime(summary.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSummaryExists
		}
		return fmt.Errorf("failed to create summary: %w", err)
	}

	return nil
}
