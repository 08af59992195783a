package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want float64
	}{
		{name: "Half way", goal: Goal{TargetAmount: 1000, CurrentAmount: 500}, want: 50},
		{name: "Over funded is capped", goal: Goal{TargetAmount: 1000, CurrentAmount: 2500}, want: 100},
		{name: "Zero target has no progress", goal: Goal{TargetAmount: 0, CurrentAmount: 500}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.goal.Progress(), 1e-9)
		})
	}
}

func TestGoal_Remaining(t *testing.T) {
	assert.Equal(t, int64(700), (&Goal{TargetAmount: 1000, CurrentAmount: 300}).Remaining())
	assert.Equal(t, int64(0), (&Goal{TargetAmount: 1000, CurrentAmount: 1300}).Remaining())
}

func TestGoal_Milestones(t *testing.T) {
	g := Goal{TargetAmount: 1001, CurrentAmount: 500}

	milestones := g.Milestones()
	assert.Equal(t, []Milestone{
		{Percentage: 25, Amount: 250, Achieved: true},
		{Percentage: 50, Amount: 500, Achieved: true},
		{Percentage: 75, Amount: 750, Achieved: false},
		{Percentage: 100, Amount: 1001, Achieved: false},
	}, milestones)

	for _, m := range (&Goal{TargetAmount: 0, CurrentAmount: 10}).Milestones() {
		assert.False(t, m.Achieved)
	}
}

func TestGoal_Validate(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want error
	}{
		{name: "Defaults left empty", goal: Goal{Name: "Fund", TargetAmount: 100}},
		{name: "Blank name", goal: Goal{Name: " ", TargetAmount: 100}, want: ErrEmptyGoalName},
		{name: "Negative saved", goal: Goal{Name: "Fund", TargetAmount: 100, CurrentAmount: -5}, want: ErrInvalidGoalAmount},
		{name: "Unknown category", goal: Goal{Name: "Fund", Category: "toys"}, want: ErrInvalidGoalCategory},
		{name: "Unknown priority", goal: Goal{Name: "Fund", Priority: "urgent"}, want: ErrInvalidGoalPriority},
		{name: "Unknown status", goal: Goal{Name: "Fund", Status: "archived"}, want: ErrInvalidGoalStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGoalFilter_Matches(t *testing.T) {
	g := &Goal{Status: GoalStatusActive, Category: GoalCategoryDebt}

	assert.True(t, GoalFilter{}.Matches(g))
	assert.True(t, GoalFilter{Status: GoalStatusActive, Category: GoalCategoryDebt}.Matches(g))
	assert.False(t, GoalFilter{Status: GoalStatusPaused}.Matches(g))
	assert.False(t, GoalFilter{Category: GoalCategoryHome}.Matches(g))
	assert.Greater(t, GoalPriorityHigh.Rank(), GoalPriorityLow.Rank())
}

func TestBudget_Covers(t *testing.T) {
	b := Budget{
		StartDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	}

	assert.True(t, b.Covers(b.StartDate))
	assert.True(t, b.Covers(b.EndDate))
	assert.False(t, b.Covers(b.EndDate.Add(time.Second)))
	assert.False(t, b.Covers(b.StartDate.Add(-time.Second)))
}

func TestRating_Presentation(t *testing.T) {
	assert.Equal(t, "#22c55e", RatingExcellent.Color())
	assert.Equal(t, "#991b1b", RatingPoor.Color())
	assert.Equal(t, "🏆", RatingExcellent.Emoji())
	assert.Equal(t, "⚠️", RatingNeedsImprovement.Emoji())
}
