package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BudgetStatus represents the lifecycle state of a budget
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusCompleted BudgetStatus = "completed"
	BudgetStatusArchived  BudgetStatus = "archived"
)

// Budget represents a spending plan over a date window
type Budget struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	TotalBudget int64
	TotalSpent  int64
	Status      BudgetStatus
}

// Covers reports whether at falls inside the budget window
func (b *Budget) Covers(at time.Time) bool {
	return !at.Before(b.StartDate) && !at.After(b.EndDate)
}

// Validate ensures the budget adheres to domain rules
func (b *Budget) Validate() error {
	if b.Name == "" {
		return errors.New("budget name cannot be empty")
	}
	if b.EndDate.Before(b.StartDate) {
		return errors.New("budget end date must not be before start date")
	}
	if b.TotalBudget < 0 || b.TotalSpent < 0 {
		return errors.New("budget amounts must not be negative")
	}
	return nil
}
