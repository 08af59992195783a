package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the insights service
const ServiceName = "insights.v1.InsightsService"

// Method names of InsightsService
const (
	MethodRecordTransaction     = "RecordTransaction"
	MethodListTransactions      = "ListTransactions"
	MethodDeleteTransaction     = "DeleteTransaction"
	MethodGetMonthlySummary     = "GetMonthlySummary"
	MethodGetHealthScore        = "GetHealthScore"
	MethodRunMonthlyAggregation = "RunMonthlyAggregation"
	MethodCreateGoal            = "CreateGoal"
	MethodListGoals             = "ListGoals"
	MethodGetGoal               = "GetGoal"
	MethodUpdateGoal            = "UpdateGoal"
	MethodDeleteGoal            = "DeleteGoal"
	MethodGetAnalytics          = "GetAnalytics"
)

// InsightsServiceServer is the server API for InsightsService.
// Requests and responses are google.protobuf.Struct messages.
type InsightsServiceServer interface {
	RecordTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMonthlySummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHealthScore(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunMonthlyAggregation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGoals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAnalytics(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// InsightsServiceDesc describes InsightsService for grpc.Server.RegisterService
var InsightsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InsightsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRecordTransaction, Handler: unaryHandler(MethodRecordTransaction, InsightsServiceServer.RecordTransaction)},
		{MethodName: MethodListTransactions, Handler: unaryHandler(MethodListTransactions, InsightsServiceServer.ListTransactions)},
		{MethodName: MethodDeleteTransaction, Handler: unaryHandler(MethodDeleteTransaction, InsightsServiceServer.DeleteTransaction)},
		{MethodName: MethodGetMonthlySummary, Handler: unaryHandler(MethodGetMonthlySummary, InsightsServiceServer.GetMonthlySummary)},
		{MethodName: MethodGetHealthScore, Handler: unaryHandler(MethodGetHealthScore, InsightsServiceServer.GetHealthScore)},
		{MethodName: MethodRunMonthlyAggregation, Handler: unaryHandler(MethodRunMonthlyAggregation, InsightsServiceServer.RunMonthlyAggregation)},
		{MethodName: MethodCreateGoal, Handler: unaryHandler(MethodCreateGoal, InsightsServiceServer.CreateGoal)},
		{MethodName: MethodListGoals, Handler: unaryHandler(MethodListGoals, InsightsServiceServer.ListGoals)},
		{MethodName: MethodGetGoal, Handler: unaryHandler(MethodGetGoal, InsightsServiceServer.GetGoal)},
		{MethodName: MethodUpdateGoal, Handler: unaryHandler(MethodUpdateGoal, InsightsServiceServer.UpdateGoal)},
		{MethodName: MethodDeleteGoal, Handler: unaryHandler(MethodDeleteGoal, InsightsServiceServer.DeleteGoal)},
		{MethodName: MethodGetAnalytics, Handler: unaryHandler(MethodGetAnalytics, InsightsServiceServer.GetAnalytics)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "insights/v1/insights.proto",
}

// RegisterInsightsServiceServer registers srv on s
func RegisterInsightsServiceServer(s grpc.ServiceRegistrar, srv InsightsServiceServer) {
	s.RegisterService(&InsightsServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of an InsightsService method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(InsightsServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InsightsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InsightsServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
