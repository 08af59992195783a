package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/analytics"
	"github.com/simaogato/wealthflow-insights/internal/usecase/batch"
	"github.com/simaogato/wealthflow-insights/internal/usecase/goal"
	"github.com/simaogato/wealthflow-insights/internal/usecase/healthscore"
	"github.com/simaogato/wealthflow-insights/internal/usecase/ledger"
	"github.com/simaogato/wealthflow-insights/internal/usecase/summary"
)

// minorUnitExponent is the number of decimal places between major and minor currency units
const minorUnitExponent = 2

// Server implements InsightsServiceServer
type Server struct {
	LedgerService      *ledger.LedgerService
	SummaryService     *summary.SummaryService
	HealthScoreService *healthscore.HealthScoreService
	GoalService        *goal.GoalService
	AnalyticsService   *analytics.AnalyticsService
	BatchRunner        *batch.Runner

	now func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(
	ledgerService *ledger.LedgerService,
	summaryService *summary.SummaryService,
	healthScoreService *healthscore.HealthScoreService,
	goalService *goal.GoalService,
	analyticsService *analytics.AnalyticsService,
	batchRunner *batch.Runner,
) *Server {
	return &Server{
		LedgerService:      ledgerService,
		SummaryService:     summaryService,
		HealthScoreService: healthScoreService,
		GoalService:        goalService,
		AnalyticsService:   analyticsService,
		BatchRunner:        batchRunner,
		now:                time.Now,
	}
}

var _ InsightsServiceServer = (*Server)(nil)

// RecordTransaction handles the RecordTransaction RPC.
// Amounts are decimal strings in major units ("12.50").
func (s *Server) RecordTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	input := ledger.RecordTransactionInput{
		UserID:   userID,
		Type:     domain.TransactionType(stringField(req, "type")),
		Amount:   amount,
		Currency: stringField(req, "currency"),
		Category: stringField(req, "category"),
		Note:     stringField(req, "note"),
	}

	if raw := stringField(req, "occurred_at"); raw != "" {
		occurredAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid occurred_at format: %v", err)
		}
		input.OccurredAt = &occurredAt
	}

	tx, err := s.LedgerService.RecordTransaction(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(transactionFields(tx))
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	txs, err := s.LedgerService.ListTransactions(ctx, userID, intField(req, "limit"), intField(req, "offset"))
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]any, 0, len(txs))
	for _, tx := range txs {
		items = append(items, transactionFields(tx))
	}

	return newResponse(map[string]any{"transactions": items})
}

// DeleteTransaction handles the DeleteTransaction RPC
func (s *Server) DeleteTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	id, err := uuidField(req, "transaction_id")
	if err != nil {
		return nil, err
	}

	if err := s.LedgerService.DeleteTransaction(ctx, userID, id); err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]any{"transaction_id": id.String()})
}

// GetMonthlySummary handles the GetMonthlySummary RPC. The period is formatted as YYYY-MM.
func (s *Server) GetMonthlySummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	period, err := domain.ParsePeriod(stringField(req, "period"))
	if err != nil {
		return nil, mapError(err)
	}

	ms, err := s.SummaryService.GetMonthlySummary(ctx, userID, period)
	if err != nil {
		return nil, mapError(err)
	}

	breakdown := make(map[string]any, len(ms.Breakdown))
	for category, amount := range ms.Breakdown {
		breakdown[category] = formatAmount(amount)
	}

	return newResponse(map[string]any{
		"summary_id":    ms.ID.String(),
		"user_id":       ms.UserID.String(),
		"period":        ms.Period().String(),
		"total_income":  formatAmount(ms.TotalIncome),
		"total_expense": formatAmount(ms.TotalExpense),
		"net_savings":   formatAmount(ms.NetSavings),
		"breakdown":     breakdown,
		"created_at":    ms.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// GetHealthScore handles the GetHealthScore RPC. as_of defaults to the current time.
func (s *Server) GetHealthScore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}

	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	report, err := s.HealthScoreService.Calculate(ctx, userID, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	factors := make(map[string]any, len(report.Result.Breakdown))
	for factor, fs := range report.Result.Breakdown {
		factors[string(factor)] = map[string]any{
			"score":  fs.Score,
			"weight": fs.Weight,
		}
	}

	recommendations := make([]any, 0, len(report.Result.Recommendations))
	for _, r := range report.Result.Recommendations {
		recommendations = append(recommendations, r)
	}

	m := report.Metrics
	return newResponse(map[string]any{
		"user_id":         userID.String(),
		"period":          report.Period.String(),
		"score":           report.Result.Score,
		"rating":          string(report.Result.Rating),
		"color":           report.Result.Rating.Color(),
		"emoji":           report.Result.Rating.Emoji(),
		"breakdown":       factors,
		"recommendations": recommendations,
		"metrics": map[string]any{
			"total_income":      formatAmount(m.TotalIncome),
			"total_expense":     formatAmount(m.TotalExpense),
			"savings_amount":    formatAmount(m.SavingsAmount),
			"budget_adherence":  m.BudgetAdherence,
			"goals_progress":    m.GoalsProgress,
			"debt_amount":       formatAmount(m.DebtAmount),
			"emergency_fund":    formatAmount(m.EmergencyFund),
			"transaction_count": m.TransactionCount,
		},
	})
}

// RunMonthlyAggregation handles the RunMonthlyAggregation RPC.
// It summarizes the month before as_of, which defaults to the current time.
func (s *Server) RunMonthlyAggregation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	result, err := s.BatchRunner.RunMonthlyAggregation(ctx, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(resultFields(result))
}

func (s *Server) asOfField(req *structpb.Struct) (time.Time, error) {
	raw := stringField(req, "as_of")
	if raw == "" {
		return s.now(), nil
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid as_of format: %v", err)
	}
	return asOf, nil
}

func resultFields(result batch.Result) map[string]any {
	return map[string]any{
		"period":    result.Period.String(),
		"processed": result.Processed,
		"errors":    result.Errors,
		"skipped":   result.Skipped,
		"total":     result.Total,
	}
}

func transactionFields(tx *domain.Transaction) map[string]any {
	return map[string]any{
		"transaction_id": tx.ID.String(),
		"user_id":        tx.UserID.String(),
		"type":           string(tx.Type),
		"amount":         formatAmount(tx.Amount),
		"currency":       tx.Currency,
		"category":       tx.Category,
		"note":           tx.Note,
		"occurred_at":    tx.OccurredAt.UTC().Format(time.RFC3339),
	}
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func intField(req *structpb.Struct, name string) int {
	return int(req.GetFields()[name].GetNumberValue())
}

func uuidField(req *structpb.Struct, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, name))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return id, nil
}

// amountField reads a major-unit amount, given as a decimal string or a number,
// and converts it to minor units. More than two decimal places are rejected.
func amountField(req *structpb.Struct, name string) (int64, error) {
	var amount decimal.Decimal
	switch v := req.GetFields()[name].GetKind().(type) {
	case *structpb.Value_StringValue:
		parsed, err := decimal.NewFromString(v.StringValue)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
		}
		amount = parsed
	case *structpb.Value_NumberValue:
		amount = decimal.NewFromFloat(v.NumberValue)
	default:
		return 0, status.Errorf(codes.InvalidArgument, "missing %s", name)
	}

	minor := amount.Shift(minorUnitExponent)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, status.Errorf(codes.InvalidArgument, "invalid amount %s: at most %d decimal places", amount, minorUnitExponent)
	}
	return minor.IntPart(), nil
}

// formatAmount renders minor units as a fixed two-place decimal string
func formatAmount(minor int64) string {
	return decimal.New(minor, -minorUnitExponent).StringFixed(minorUnitExponent)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrMissingUser),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrEmptyCategory),
		errors.Is(err, domain.ErrMissingOccurredAt),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrEmptyGoalName),
		errors.Is(err, domain.ErrInvalidGoalAmount),
		errors.Is(err, domain.ErrInvalidGoalCategory),
		errors.Is(err, domain.ErrInvalidGoalPriority),
		errors.Is(err, domain.ErrInvalidGoalStatus):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrSummaryNotFound),
		errors.Is(err, domain.ErrBudgetNotFound),
		errors.Is(err, domain.ErrGoalNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrSummaryExists):
		return status.Errorf(codes.AlreadyExists, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	return status.Error(codes.Internal, fmt.Sprintf("internal error: %s", errorMsg))
}
