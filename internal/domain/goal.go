package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalCategory classifies what a savings goal is for
type GoalCategory string

const (
	GoalCategorySavings    GoalCategory = "savings"
	GoalCategoryInvestment GoalCategory = "investment"
	GoalCategoryDebt       GoalCategory = "debt"
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryVacation   GoalCategory = "vacation"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryHome       GoalCategory = "home"
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryOther      GoalCategory = "other"
)

// Valid reports whether c is one of the known goal categories
func (c GoalCategory) Valid() bool {
	switch c {
	case GoalCategorySavings, GoalCategoryInvestment, GoalCategoryDebt,
		GoalCategoryEmergency, GoalCategoryVacation, GoalCategoryEducation,
		GoalCategoryHome, GoalCategoryRetirement, GoalCategoryOther:
		return true
	}
	return false
}

// GoalStatus represents the lifecycle state of a goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Valid reports whether s is one of the known goal statuses
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	}
	return false
}

// GoalPriority ranks goals against each other
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// Valid reports whether p is one of the known priorities
func (p GoalPriority) Valid() bool {
	switch p {
	case GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities from low (1) to high (3). Unknown priorities rank 0.
func (p GoalPriority) Rank() int {
	switch p {
	case GoalPriorityLow:
		return 1
	case GoalPriorityMedium:
		return 2
	case GoalPriorityHigh:
		return 3
	}
	return 0
}

// MilestonePercentages are the checkpoints every goal tracks
var MilestonePercentages = []int{25, 50, 75, 100}

// Milestone is a checkpoint on the way to a goal's target
type Milestone struct {
	Percentage int
	Amount     int64 // minor units
	Achieved   bool
}

// Goal represents a user's financial goal
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Description   string
	TargetAmount  int64
	CurrentAmount int64
	Category      GoalCategory
	Priority      GoalPriority
	Status        GoalStatus
	TargetDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GoalFilter narrows a goal listing. Empty fields match everything.
type GoalFilter struct {
	Status   GoalStatus
	Category GoalCategory
}

// Matches reports whether g passes the filter
func (f GoalFilter) Matches(g *Goal) bool {
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	return true
}

// Progress returns the completion percentage of the goal, capped at 100.
// A goal without a positive target has no measurable progress.
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	progress := float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// Remaining returns the amount still missing to reach the target
func (g *Goal) Remaining() int64 {
	if g.CurrentAmount >= g.TargetAmount {
		return 0
	}
	return g.TargetAmount - g.CurrentAmount
}

// Milestones derives the 25/50/75/100% checkpoints from the current amounts
func (g *Goal) Milestones() []Milestone {
	milestones := make([]Milestone, 0, len(MilestonePercentages))
	for _, pct := range MilestonePercentages {
		amount := g.TargetAmount * int64(pct) / 100
		milestones = append(milestones, Milestone{
			Percentage: pct,
			Amount:     amount,
			Achieved:   g.TargetAmount > 0 && g.CurrentAmount >= amount,
		})
	}
	return milestones
}

// Reached reports whether the current amount covers a positive target
func (g *Goal) Reached() bool {
	return g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
}

// Validate ensures the goal adheres to domain rules.
// Empty category, priority and status are accepted and stored as column defaults.
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if g.TargetAmount < 0 || g.CurrentAmount < 0 {
		return ErrInvalidGoalAmount
	}
	if g.Category != "" && !g.Category.Valid() {
		return ErrInvalidGoalCategory
	}
	if g.Priority != "" && !g.Priority.Valid() {
		return ErrInvalidGoalPriority
	}
	if g.Status != "" && !g.Status.Valid() {
		return ErrInvalidGoalStatus
	}
	return nil
}
