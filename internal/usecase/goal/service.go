package goal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

// CreateGoalInput represents the input for creating a goal
type CreateGoalInput struct {
	UserID        uuid.UUID
	Name          string
	Description   string
	TargetAmount  int64
	CurrentAmount int64
	Category      domain.GoalCategory // Optional: defaults to savings
	Priority      domain.GoalPriority // Optional: defaults to medium
	TargetDate    *time.Time
}

// UpdateGoalInput represents a partial goal update. Nil fields are left unchanged.
type UpdateGoalInput struct {
	UserID          uuid.UUID
	GoalID          uuid.UUID
	Name            *string
	Description     *string
	Category        *domain.GoalCategory
	Priority        *domain.GoalPriority
	Status          *domain.GoalStatus
	TargetAmount    *int64
	CurrentAmount   *int64
	TargetDate      *time.Time
	ClearTargetDate bool
}

// GoalService handles goal management operations
type GoalService struct {
	GoalRepo domain.GoalRepository
	now      func() time.Time
}

// NewGoalService creates a new GoalService instance
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{
		GoalRepo: goalRepo,
		now:      time.Now,
	}
}

// CreateGoal validates and stores a new active goal
// Logic:
//  1. Require a user, a name and a positive target
//  2. Fill defaults (category savings, priority medium, status active)
//  3. Validate against the domain rules
//  4. Save using GoalRepo.Create
func (s *GoalService) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	if input.TargetAmount <= 0 {
		return nil, domain.ErrInvalidGoalAmount
	}

	category := input.Category
	if category == "" {
		category = domain.GoalCategorySavings
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.GoalPriorityMedium
	}

	now := s.now()
	goal := &domain.Goal{
		ID:            uuid.New(),
		UserID:        input.UserID,
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Category:      category,
		Priority:      priority,
		Status:        domain.GoalStatusActive,
		TargetDate:    input.TargetDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.GoalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// GetGoal returns one of the user's goals
func (s *GoalService) GetGoal(ctx context.Context, userID, id uuid.UUID) (*domain.Goal, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	return s.GoalRepo.GetByID(ctx, userID, id)
}

// ListGoals returns the user's goals matching filter, highest priority first
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID, filter domain.GoalFilter) ([]domain.Goal, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidGoalStatus
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.ErrInvalidGoalCategory
	}

	goals, err := s.GoalRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal applies a partial update to one of the user's goals
// Logic:
//  1. Load the goal using GoalRepo.GetByID
//  2. Apply every non-nil field
//  3. When an amount changed and the target is reached, mark the goal completed
//  4. Validate and save using GoalRepo.Update
func (s *GoalService) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}
	if input.TargetAmount != nil && *input.TargetAmount <= 0 {
		return nil, domain.ErrInvalidGoalAmount
	}

	goal, err := s.GoalRepo.GetByID(ctx, input.UserID, input.GoalID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		goal.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		goal.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.Priority != nil {
		goal.Priority = *input.Priority
	}
	if input.Status != nil {
		goal.Status = *input.Status
	}
	if input.ClearTargetDate {
		goal.TargetDate = nil
	} else if input.TargetDate != nil {
		goal.TargetDate = input.TargetDate
	}

	amountsChanged := false
	if input.TargetAmount != nil && *input.TargetAmount != goal.TargetAmount {
		goal.TargetAmount = *input.TargetAmount
		amountsChanged = true
	}
	if input.CurrentAmount != nil {
		goal.CurrentAmount = *input.CurrentAmount
		amountsChanged = true
	}
	if amountsChanged && goal.Reached() {
		goal.Status = domain.GoalStatusCompleted
	}

	goal.UpdatedAt = s.now()

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

// UpdateProgress sets the saved amount of a goal
func (s *GoalService) UpdateProgress(ctx context.Context, userID, id uuid.UUID, currentAmount int64) (*domain.Goal, error) {
	return s.UpdateGoal(ctx, UpdateGoalInput{
		UserID:        userID,
		GoalID:        id,
		CurrentAmount: &currentAmount,
	})
}

// DeleteGoal removes one of the user's goals
func (s *GoalService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrMissingUser
	}
	return s.GoalRepo.Delete(ctx, userID, id)
}
