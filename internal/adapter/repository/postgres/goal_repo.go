package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const (
	goalColumns = `id, user_id, name, description, target_amount, current_amount, category, priority, status, target_date, created_at, updated_at`

	insertGoalQuery = `
		INSERT INTO goals (id, user_id, name, description, target_amount, current_amount, category, priority, status, target_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			COALESCE(NULLIF($7, ''), 'other'),
			COALESCE(NULLIF($8, ''), 'medium'),
			COALESCE(NULLIF($9, ''), 'active'),
			$10, COALESCE($11, NOW()), COALESCE($11, NOW()))
	`
	getGoalQuery = `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE id = $1 AND user_id = $2
	`
	listGoalsQuery = `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
			AND ($2::text = '' OR status = $2::text)
			AND ($3::text = '' OR category = $3::text)
		ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,
			created_at DESC
	`
	listActiveGoalsQuery = `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at
	`
	updateGoalQuery = `
		UPDATE goals
		SET name = $3, description = $4, target_amount = $5, current_amount = $6,
			category = $7, priority = $8, status = $9, target_date = $10,
			updated_at = COALESCE($11, NOW())
		WHERE id = $1 AND user_id = $2
	`
	deleteGoalQuery = `
		DELETE FROM goals
		WHERE id = $1 AND user_id = $2
	`
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// Create creates a new goal
func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, insertGoalQuery,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		string(goal.Category),
		string(goal.Priority),
		string(goal.Status),
		nullTimePtr(goal.TargetDate),
		nullTime(goal.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// GetByID retrieves a goal owned by userID
func (r *goalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	goal, err := scanGoal(r.db.QueryRowContext(ctx, getGoalQuery, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal by ID: %w", err)
	}
	return goal, nil
}

// List retrieves a user's goals matching filter, highest priority first, then newest first
func (r *goalRepository) List(ctx context.Context, userID uuid.UUID, filter domain.GoalFilter) ([]domain.Goal, error) {
	return r.query(ctx, listGoalsQuery, userID, string(filter.Status), string(filter.Category))
}

// ListActive retrieves all active goals of a user, oldest first
func (r *goalRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Goal, error) {
	return r.query(ctx, listActiveGoalsQuery, userID)
}

// Update overwrites the mutable fields of goal
func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, updateGoalQuery,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		string(goal.Category),
		string(goal.Priority),
		string(goal.Status),
		nullTimePtr(goal.TargetDate),
		nullTime(goal.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}

// Delete removes a goal owned by userID
func (r *goalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteGoalQuery, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) query(ctx context.Context, query string, args ...any) ([]domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var category, priority, status string
	var targetDate sql.NullTime

	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Description,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&category,
		&priority,
		&status,
		&targetDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Category = domain.GoalCategory(category)
	goal.Priority = domain.GoalPriority(priority)
	goal.Status = domain.GoalStatus(status)
	if targetDate.Valid {
		goal.TargetDate = &targetDate.Time
	}
	return &goal, nil
}
