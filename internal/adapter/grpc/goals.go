package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/goal"
)

// CreateGoal handles the CreateGoal RPC. target_amount is required, current_amount defaults to 0.
func (s *Server) CreateGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	target, err := amountField(req, "target_amount")
	if err != nil {
		return nil, err
	}

	input := goal.CreateGoalInput{
		UserID:       userID,
		Name:         stringField(req, "name"),
		Description:  stringField(req, "description"),
		TargetAmount: target,
		Category:     domain.GoalCategory(stringField(req, "category")),
		Priority:     domain.GoalPriority(stringField(req, "priority")),
	}

	if hasField(req, "current_amount") {
		if input.CurrentAmount, err = amountField(req, "current_amount"); err != nil {
			return nil, err
		}
	}

	if input.TargetDate, err = timeField(req, "target_date"); err != nil {
		return nil, err
	}

	g, err := s.GoalService.CreateGoal(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(goalFields(g))
}

// ListGoals handles the ListGoals RPC. status and category are optional filters.
func (s *Server) ListGoals(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	filter := domain.GoalFilter{
		Status:   domain.GoalStatus(stringField(req, "status")),
		Category: domain.GoalCategory(stringField(req, "category")),
	}

	goals, err := s.GoalService.ListGoals(ctx, userID, filter)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]any, 0, len(goals))
	for i := range goals {
		items = append(items, goalFields(&goals[i]))
	}

	return newResponse(map[string]any{"goals": items})
}

// GetGoal handles the GetGoal RPC
func (s *Server) GetGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	id, err := uuidField(req, "goal_id")
	if err != nil {
		return nil, err
	}

	g, err := s.GoalService.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(goalFields(g))
}

// UpdateGoal handles the UpdateGoal RPC. Only the fields present in the request change;
// an empty target_date clears the deadline.
func (s *Server) UpdateGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	id, err := uuidField(req, "goal_id")
	if err != nil {
		return nil, err
	}

	input := goal.UpdateGoalInput{
		UserID:      userID,
		GoalID:      id,
		Name:        optionalString(req, "name"),
		Description: optionalString(req, "description"),
	}

	if v := optionalString(req, "category"); v != nil {
		category := domain.GoalCategory(*v)
		input.Category = &category
	}
	if v := optionalString(req, "priority"); v != nil {
		priority := domain.GoalPriority(*v)
		input.Priority = &priority
	}
	if v := optionalString(req, "status"); v != nil {
		st := domain.GoalStatus(*v)
		input.Status = &st
	}

	if hasField(req, "target_amount") {
		target, err := amountField(req, "target_amount")
		if err != nil {
			return nil, err
		}
		input.TargetAmount = &target
	}
	if hasField(req, "current_amount") {
		current, err := amountField(req, "current_amount")
		if err != nil {
			return nil, err
		}
		input.CurrentAmount = &current
	}

	if hasField(req, "target_date") {
		if input.TargetDate, err = timeField(req, "target_date"); err != nil {
			return nil, err
		}
		input.ClearTargetDate = input.TargetDate == nil
	}

	g, err := s.GoalService.UpdateGoal(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(goalFields(g))
}

// DeleteGoal handles the DeleteGoal RPC
func (s *Server) DeleteGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	id, err := uuidField(req, "goal_id")
	if err != nil {
		return nil, err
	}

	if err := s.GoalService.DeleteGoal(ctx, userID, id); err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{"goal_id": id.String()})
}

func goalFields(g *domain.Goal) map[string]any {
	milestones := make([]any, 0, len(domain.MilestonePercentages))
	for _, m := range g.Milestones() {
		milestones = append(milestones, map[string]any{
			"percentage": m.Percentage,
			"amount":     formatAmount(m.Amount),
			"achieved":   m.Achieved,
		})
	}

	fields := map[string]any{
		"goal_id":        g.ID.String(),
		"user_id":        g.UserID.String(),
		"name":           g.Name,
		"description":    g.Description,
		"target_amount":  formatAmount(g.TargetAmount),
		"current_amount": formatAmount(g.CurrentAmount),
		"remaining":      formatAmount(g.Remaining()),
		"progress":       g.Progress(),
		"category":       string(g.Category),
		"priority":       string(g.Priority),
		"status":         string(g.Status),
		"milestones":     milestones,
		"created_at":     g.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":     g.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if g.TargetDate != nil {
		fields["target_date"] = g.TargetDate.UTC().Format(time.RFC3339)
	}
	return fields
}

func hasField(req *structpb.Struct, name string) bool {
	_, ok := req.GetFields()[name]
	return ok
}

func optionalString(req *structpb.Struct, name string) *string {
	if !hasField(req, name) {
		return nil
	}
	v := stringField(req, name)
	return &v
}

// timeField reads an optional RFC3339 timestamp. Missing or empty values yield nil.
func timeField(req *structpb.Struct, name string) (*time.Time, error) {
	raw := stringField(req, name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return &t, nil
}
