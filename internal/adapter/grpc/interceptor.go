package grpc

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RPCRecorder observes finished RPCs, typically to export metrics
type RPCRecorder interface {
	ObserveRPC(method, code string, elapsed time.Duration)
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// Both "Bearer <token>" and the bare token are accepted.
// If the token is missing or invalid, it returns status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(authHeaders[0])
		if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor attaches logger, tagged with the RPC method, to the request
// context and logs the outcome of every call.
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		reqLogger := logger.With().Str("method", info.FullMethod).Logger()
		ctx = reqLogger.WithContext(ctx)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := reqLogger.Debug()
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
			event = reqLogger.Error().Err(err)
		default:
			event = reqLogger.Warn().Err(err)
		}
		event.Str("code", code.String()).Dur("elapsed", time.Since(start)).Msg("rpc finished")

		return resp, err
	}
}

// MetricsInterceptor reports the method, status code and latency of every call to rec
func MetricsInterceptor(rec RPCRecorder) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		rec.ObserveRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}
