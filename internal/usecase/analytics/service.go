package analytics

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/aggregator"
)

const (
	// TopCategories is the number of expense categories kept in the distribution
	TopCategories = 6
	// TrendMonths is the number of calendar months in the trend, current month included
	TrendMonths = 6
	// TopComparisons is the number of categories kept in the month-over-month comparison
	TopComparisons = 5
)

// Range selects the window of the category distribution
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange parses week, month or year. An empty string means month.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidRange, s)
}

// Start returns the first instant of the range ending at asOf
func (r Range) Start(asOf time.Time) time.Time {
	switch r {
	case RangeWeek:
		return asOf.Add(-7 * 24 * time.Hour)
	case RangeYear:
		return time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
	default:
		return time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	}
}

// Stats are the totals of the current calendar month
type Stats struct {
	TotalIncome   int64
	TotalExpense  int64
	NetSavings    int64
	AvgDailySpend int64 // TotalExpense over the days of the month, rounded
}

// CategoryShare is one slice of the expense distribution
type CategoryShare struct {
	Name       string
	Value      int64
	Percentage int // share of the kept categories, rounded
}

// MonthTrend holds the totals of one month of the trend
type MonthTrend struct {
	Period  domain.Period
	Label   string // short month name, e.g. "Jan"
	Income  int64
	Expense int64
	Savings int64
}

// CategoryComparison compares a category's spending in the previous and current month
type CategoryComparison struct {
	Category  string
	LastMonth int64
	ThisMonth int64
}

// Report is the analytics view of one user at one instant
type Report struct {
	Range      Range
	From       time.Time
	To         time.Time
	Stats      Stats
	Categories []CategoryShare
	Trend      []MonthTrend
	Comparison []CategoryComparison
}

// AnalyticsService computes spending analytics on demand from stored transactions
type AnalyticsService struct {
	TxRepo   domain.TransactionRepository
	Location *time.Location
}

// NewAnalyticsService creates a new AnalyticsService instance. A nil loc means UTC.
func NewAnalyticsService(txRepo domain.TransactionRepository, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{
		TxRepo:   txRepo,
		Location: loc,
	}
}

// GetAnalytics builds the analytics report of a user at asOf.
// Logic:
//  1. Load every transaction from the earliest window start to the end of the current month
//  2. Category distribution: expenses in [range start, asOf], top 6, percentages of the kept total
//  3. Trend: one aggregated summary per month, the 5 previous months and the current one
//  4. Stats and comparison: the current month against the previous one
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID uuid.UUID, rng Range, asOf time.Time) (*Report, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrMissingUser
	}

	asOf = asOf.In(s.Location)
	current := domain.PeriodOf(asOf)
	trendPeriods := lastPeriods(current, TrendMonths)

	rangeStart := rng.Start(asOf)
	trendStart, _ := trendPeriods[0].Bounds(s.Location)
	_, monthEnd := current.Bounds(s.Location)

	txs, err := s.TxRepo.ListInRange(ctx, userID, earliest(rangeStart, trendStart), monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	report := &Report{
		Range:      rng,
		From:       rangeStart,
		To:         asOf,
		Categories: CategoryDistribution(expenses(within(txs, rangeStart, asOf)), TopCategories),
		Trend:      make([]MonthTrend, 0, len(trendPeriods)),
	}

	var thisMonth, lastMonth *domain.MonthlySummary
	for _, p := range trendPeriods {
		from, to := p.Bounds(s.Location)
		ms := aggregator.Aggregate(userID, p, within(txs, from, to))
		report.Trend = append(report.Trend, MonthTrend{
			Period:  p,
			Label:   time.Month(p.Month).String()[:3],
			Income:  ms.TotalIncome,
			Expense: ms.TotalExpense,
			Savings: ms.NetSavings,
		})

		switch p {
		case current:
			thisMonth = ms
		case current.Previous():
			lastMonth = ms
		}
	}

	report.Stats = Stats{
		TotalIncome:   thisMonth.TotalIncome,
		TotalExpense:  thisMonth.TotalExpense,
		NetSavings:    thisMonth.NetSavings,
		AvgDailySpend: int64(math.Round(float64(thisMonth.TotalExpense) / float64(daysIn(current, s.Location)))),
	}

	lastFrom, lastTo := current.Previous().Bounds(s.Location)
	thisFrom, thisTo := current.Bounds(s.Location)
	report.Comparison = CompareCategories(
		aggregator.Aggregate(userID, lastMonth.Period(), expenses(within(txs, lastFrom, lastTo))).Breakdown,
		aggregator.Aggregate(userID, thisMonth.Period(), expenses(within(txs, thisFrom, thisTo))).Breakdown,
		TopComparisons,
	)

	return report, nil
}

// CategoryDistribution sums expenses per category, keeps the limit largest and
// expresses each as a rounded percentage of the kept total. Ties are ordered by name.
func CategoryDistribution(expenses []domain.Transaction, limit int) []CategoryShare {
	breakdown := aggregator.Aggregate(uuid.Nil, domain.Period{}, expenses).Breakdown

	shares := make([]CategoryShare, 0, len(breakdown))
	for name, value := range breakdown {
		shares = append(shares, CategoryShare{Name: name, Value: value})
	}
	slices.SortFunc(shares, func(a, b CategoryShare) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(shares) > limit {
		shares = shares[:limit]
	}

	var total int64
	for _, share := range shares {
		total += share.Value
	}
	if total > 0 {
		for i := range shares {
			shares[i].Percentage = int(math.Round(float64(shares[i].Value) / float64(total) * 100))
		}
	}

	return shares
}

// CompareCategories pairs last and this month's spending per category and keeps
// the limit categories with the highest spending this month. Ties are ordered by name.
func CompareCategories(lastMonth, thisMonth map[string]int64, limit int) []CategoryComparison {
	byCategory := make(map[string]*CategoryComparison)
	entry := func(category string) *CategoryComparison {
		c, ok := byCategory[category]
		if !ok {
			c = &CategoryComparison{Category: category}
			byCategory[category] = c
		}
		return c
	}
	for category, amount := range lastMonth {
		entry(category).LastMonth = amount
	}
	for category, amount := range thisMonth {
		entry(category).ThisMonth = amount
	}

	result := make([]CategoryComparison, 0, len(byCategory))
	for _, c := range byCategory {
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b CategoryComparison) int {
		if c := cmp.Compare(b.ThisMonth, a.ThisMonth); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// lastPeriods returns the n months ending with p, oldest first
func lastPeriods(p domain.Period, n int) []domain.Period {
	periods := make([]domain.Period, n)
	for i := n - 1; i >= 0; i-- {
		periods[i] = p
		p = p.Previous()
	}
	return periods
}

func within(txs []domain.Transaction, from, to time.Time) []domain.Transaction {
	var result []domain.Transaction
	for _, tx := range txs {
		if !tx.OccurredAt.Before(from) && !tx.OccurredAt.After(to) {
			result = append(result, tx)
		}
	}
	return result
}

func expenses(txs []domain.Transaction) []domain.Transaction {
	var result []domain.Transaction
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeExpense {
			result = append(result, tx)
		}
	}
	return result
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func daysIn(p domain.Period, loc *time.Location) int {
	from, to := p.Bounds(loc)
	return to.Day() - from.Day() + 1
}
