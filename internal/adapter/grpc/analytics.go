package grpc

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-insights/internal/usecase/analytics"
)

// GetAnalytics handles the GetAnalytics RPC.
// range is week, month (default) or year; as_of defaults to the current time.
func (s *Server) GetAnalytics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	rng, err := analytics.ParseRange(stringField(req, "range"))
	if err != nil {
		return nil, mapError(err)
	}

	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	report, err := s.AnalyticsService.GetAnalytics(ctx, userID, rng, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	categories := make([]any, 0, len(report.Categories))
	for _, c := range report.Categories {
		categories = append(categories, map[string]any{
			"name":       c.Name,
			"value":      formatAmount(c.Value),
			"percentage": c.Percentage,
		})
	}

	trend := make([]any, 0, len(report.Trend))
	for _, m := range report.Trend {
		trend = append(trend, map[string]any{
			"period":  m.Period.String(),
			"month":   m.Label,
			"income":  formatAmount(m.Income),
			"expense": formatAmount(m.Expense),
			"savings": formatAmount(m.Savings),
		})
	}

	comparison := make([]any, 0, len(report.Comparison))
	for _, c := range report.Comparison {
		comparison = append(comparison, map[string]any{
			"category":   c.Category,
			"last_month": formatAmount(c.LastMonth),
			"this_month": formatAmount(c.ThisMonth),
		})
	}

	return newResponse(map[string]any{
		"user_id": userID.String(),
		"range":   string(report.Range),
		"from":    report.From.UTC().Format(time.RFC3339),
		"to":      report.To.UTC().Format(time.RFC3339),
		"stats": map[string]any{
			"total_income":    formatAmount(report.Stats.TotalIncome),
			"total_expense":   formatAmount(report.Stats.TotalExpense),
			"net_savings":     formatAmount(report.Stats.NetSavings),
			"avg_daily_spend": formatAmount(report.Stats.AvgDailySpend),
		},
		"categories": categories,
		"trend":      trend,
		"comparison": comparison,
	})
}
