package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/wealthflow-insights/internal/adapter/amqp"
	grpcadapter "github.com/simaogato/wealthflow-insights/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/platform/metrics"
	"github.com/simaogato/wealthflow-insights/internal/usecase/analytics"
	"github.com/simaogato/wealthflow-insights/internal/usecase/batch"
	"github.com/simaogato/wealthflow-insights/internal/usecase/goal"
	"github.com/simaogato/wealthflow-insights/internal/usecase/healthscore"
	"github.com/simaogato/wealthflow-insights/internal/usecase/ledger"
	"github.com/simaogato/wealthflow-insights/internal/usecase/seeder"
	"github.com/simaogato/wealthflow-insights/internal/usecase/summary"
)

const (
	defaultAPIToken   = "dev-token"
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func (a *app) apiToken() string {
	if a.cfg.APIToken == "" {
		return defaultAPIToken
	}
	return a.cfg.APIToken
}

func newServeCmd(a *app) *cobra.Command {
	var seedDemo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC server and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), seedDemo)
		},
	}

	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "create demo users with last month's sample data on startup")

	return cmd
}

func (a *app) serve(ctx context.Context, seedDemo bool) error {
	logger := a.logger
	loc := a.cfg.Location()

	// 1. Storage
	repos, err := a.openRepositories(ctx)
	if err != nil {
		return err
	}
	defer repos.close()

	if seedDemo {
		period := domain.PeriodOf(time.Now().In(loc)).Previous()
		if _, err := seeder.NewDemoSeeder(repos.users, repos.txs, repos.goals, repos.budgets, defaultDemoSeed).Seed(ctx, period); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	// 2. Metrics and events
	metricsManager := metrics.NewManager(metrics.WithRuntimeCollectors())

	runnerOpts := []batch.Option{
		batch.WithConcurrency(a.cfg.BatchConcurrency),
		batch.WithLocation(loc),
		batch.WithRecorder(metricsManager),
	}
	if a.cfg.AMQPEnabled() {
		publisher, err := amqp.NewPublisher(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPRoutingKey)
		if err != nil {
			return err
		}
		defer publisher.Close()
		runnerOpts = append(runnerOpts, batch.WithPublisher(publisher))
		logger.Info().Str("exchange", a.cfg.AMQPExchange).Msg("publishing summary events")
	}

	// 3. Services
	healthService := healthscore.NewHealthScoreService(repos.txs, repos.goals, repos.budgets, loc)
	healthService.Recorder = metricsManager

	server := grpcadapter.NewServer(
		ledger.NewLedgerService(repos.txs),
		summary.NewSummaryService(repos.txs, repos.summaries, loc),
		healthService,
		goal.NewGoalService(repos.goals),
		analytics.NewAnalyticsService(repos.txs, loc),
		batch.NewRunner(repos.users, repos.txs, repos.summaries, runnerOpts...),
	)

	// 4. gRPC server
	if a.cfg.APIToken == "" {
		logger.Warn().Msg("no API token configured, using the development token")
	}

	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.MetricsInterceptor(metricsManager),
			grpcadapter.AuthInterceptor(a.apiToken()),
		),
	)
	grpcadapter.RegisterInsightsServiceServer(grpcServer, server)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", a.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.GRPCAddr, err)
	}

	go func() {
		logger.Info().Str("addr", a.cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error().Err(err).Msg("gRPC server stopped unexpectedly")
		}
	}()

	// 5. Metrics endpoint
	var metricsServer *http.Server
	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsManager.Handler())

		metricsServer = &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		go func() {
			logger.Info().Str("addr", a.cfg.MetricsAddr).Msg("metrics endpoint listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	waitForShutdown(ctx, logger, grpcServer, metricsServer)
	return nil
}

// waitForShutdown waits for SIGTERM, SIGINT or ctx cancellation and gracefully shuts down the servers
func waitForShutdown(ctx context.Context, logger zerolog.Logger, grpcServer *grpclib.Server, metricsServer *http.Server) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutting down gracefully...")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		logger.Warn().Msg("graceful stop timed out, forcing shutdown")
		grpcServer.Stop()
	}

	logger.Info().Msg("gRPC server stopped")
}
