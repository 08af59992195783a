package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const (
	insertBudgetQuery = `
		INSERT INTO budgets (id, user_id, name, start_date, end_date, total_budget, total_spent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	getActiveBudgetQuery = `
		SELECT id, user_id, name, start_date, end_date, total_budget, total_spent, status
		FROM budgets
		WHERE user_id = $1 AND status = 'active' AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date DESC
		LIMIT 1
	`
)

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

// Create creates a new budget
func (r *budgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, insertBudgetQuery,
		budget.ID,
		budget.UserID,
		budget.Name,
		budget.StartDate,
		budget.EndDate,
		budget.TotalBudget,
		budget.TotalSpent,
		string(budget.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// GetActive retrieves the active budget covering at, preferring the most recent one
func (r *budgetRepository) GetActive(ctx context.Context, userID uuid.UUID, at time.Time) (*domain.Budget, error) {
	var budget domain.Budget
	var status string

	err := r.db.QueryRowContext(ctx, getActiveBudgetQuery, userID, at).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Name,
		&budget.StartDate,
		&budget.EndDate,
		&budget.TotalBudget,
		&budget.TotalSpent,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get active budget: %w", err)
	}
	budget.Status = domain.BudgetStatus(status)

	return &budget, nil
}
