package domain

import "errors"

// Sentinel errors shared by use cases and adapters. Wrap them with fmt.Errorf("...: %w")
// and compare with errors.Is.
var (
	ErrMissingUser            = errors.New("a user ID is required")
	ErrInvalidTransactionType = errors.New("invalid transaction type: must be income, expense or transfer")
	ErrInvalidAmount          = errors.New("invalid amount: must not be negative")
	ErrEmptyCategory          = errors.New("transaction category cannot be empty")
	ErrMissingOccurredAt      = errors.New("transaction must have an occurrence date")
	ErrInvalidPeriod          = errors.New("invalid period: use YYYY-MM with month 1-12")
	ErrInvalidRange           = errors.New("invalid range: must be week, month or year")

	ErrEmptyGoalName       = errors.New("goal name cannot be empty")
	ErrInvalidGoalAmount   = errors.New("invalid goal amount: target must be positive and amounts must not be negative")
	ErrInvalidGoalCategory = errors.New("invalid goal category")
	ErrInvalidGoalPriority = errors.New("invalid goal priority: must be low, medium or high")
	ErrInvalidGoalStatus   = errors.New("invalid goal status: must be active, completed, paused or cancelled")

	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSummaryNotFound     = errors.New("monthly summary not found")
	ErrSummaryExists       = errors.New("monthly summary already exists for period")
	ErrBudgetNotFound      = errors.New("active budget not found")
	ErrGoalNotFound        = errors.New("goal not found")
)
