package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const (
	insertUserQuery = `
		INSERT INTO users (id, email, name, created_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
	`
	listUserIDsQuery = `
		SELECT id
		FROM users
		ORDER BY created_at, id
	`
)

// userRepository implements domain.UserRepository
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserQuery,
		user.ID,
		user.Email,
		user.Name,
		nullTime(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ListIDs returns every user ID in a stable order
func (r *userRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, listUserIDsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return ids, nil
}
