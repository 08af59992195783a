package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Period identifies a calendar month. Together with a user ID it keys a MonthlySummary.
type Period struct {
	Year  int
	Month int // 1-12
}

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ParsePeriod parses a YYYY-MM string such as "2024-03"
func ParsePeriod(s string) (Period, error) {
	match := periodPattern.FindStringSubmatch(s)
	if match == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])

	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, fmt.Errorf("%w: %q", err, s)
	}
	return p, nil
}

// PeriodOf returns the period containing t, in t's location
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Validate checks that the month is within 1-12
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// Previous returns the calendar month before p. January rolls back to December of the prior year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Bounds returns the inclusive window [first instant, last instant] of the month in loc
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// MonthlySummary holds the aggregated totals of one user for one calendar month.
// It is created once per (UserID, Year, Month) and never updated afterwards.
type MonthlySummary struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Year         int
	Month        int // 1-12
	TotalIncome  int64
	TotalExpense int64
	NetSavings   int64 // TotalIncome - TotalExpense, may be negative
	Breakdown    map[string]int64
	CreatedAt    time.Time
}

// Period returns the summary period of s
func (s *MonthlySummary) Period() Period {
	return Period{Year: s.Year, Month: s.Month}
}
