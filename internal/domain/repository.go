package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents an account owning transactions, goals and budgets
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// UserRepository defines the interface for the user directory
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// ListIDs returns the identifiers of every known user
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create creates a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction owned by userID
	// Returns ErrTransactionNotFound if it does not exist
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)

	// Delete removes a transaction owned by userID
	// Returns ErrTransactionNotFound if nothing was deleted
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List retrieves a paginated list of a user's transactions, newest first
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error)

	// ListInRange retrieves a user's transactions with from <= occurred_at <= to
	ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error)
}

// SummaryRepository defines the interface for monthly summary persistence.
// Implementations must enforce uniqueness of (UserID, Year, Month) at write time.
type SummaryRepository interface {
	// Get retrieves the summary of a user for a period
	// Returns ErrSummaryNotFound if none exists
	Get(ctx context.Context, userID uuid.UUID, period Period) (*MonthlySummary, error)

	// Create stores a new summary
	// Returns ErrSummaryExists if one already exists for the same user and period
	Create(ctx context.Context, summary *MonthlySummary) error
}

// GoalRepository defines the interface for goal persistence operations
type GoalRepository interface {
	// Create creates a new goal
	Create(ctx context.Context, goal *Goal) error

	// GetByID retrieves a goal owned by userID
	// Returns ErrGoalNotFound if it does not exist
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Goal, error)

	// List retrieves a user's goals matching filter, highest priority first, then newest first
	List(ctx context.Context, userID uuid.UUID, filter GoalFilter) ([]Goal, error)

	// ListActive retrieves all goals of a user with status active
	ListActive(ctx context.Context, userID uuid.UUID) ([]Goal, error)

	// Update overwrites the mutable fields of an existing goal
	// Returns ErrGoalNotFound if nothing was updated
	Update(ctx context.Context, goal *Goal) error

	// Delete removes a goal owned by userID
	// Returns ErrGoalNotFound if nothing was deleted
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	// Create creates a new budget
	Create(ctx context.Context, budget *Budget) error

	// GetActive retrieves the active budget of a user covering at
	// Returns ErrBudgetNotFound if there is none
	GetActive(ctx context.Context, userID uuid.UUID, at time.Time) (*Budget, error)
}
