package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/simaogato/wealthflow-insights/internal/adapter/amqp"
	grpcadapter "github.com/simaogato/wealthflow-insights/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-insights/internal/usecase/batch"
)

func newAggregateCmd(a *app) *cobra.Command {
	var (
		asOfFlag string
		remote   string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Compute the previous month's summary for every user",
		Long: "Compute the previous month's summary for every user.\n" +
			"Runs against the configured store, or asks a running server to do it with --remote.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote != "" {
				return a.aggregateRemote(cmd, remote, asOfFlag)
			}

			asOf := time.Now()
			if asOfFlag != "" {
				parsed, err := time.Parse(time.RFC3339, asOfFlag)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
				asOf = parsed
			}

			repos, err := a.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.close()

			opts := []batch.Option{
				batch.WithConcurrency(a.cfg.BatchConcurrency),
				batch.WithLocation(a.cfg.Location()),
			}
			if a.cfg.AMQPEnabled() {
				publisher, err := amqp.NewPublisher(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPRoutingKey)
				if err != nil {
					return err
				}
				defer publisher.Close()
				opts = append(opts, batch.WithPublisher(publisher))
			}

			runner := batch.NewRunner(repos.users, repos.txs, repos.summaries, opts...)
			result, err := runner.RunMonthlyAggregation(cmd.Context(), asOf)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "period=%s processed=%d skipped=%d errors=%d total=%d\n",
				result.Period, result.Processed, result.Skipped, result.Errors, result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "reference time, RFC3339 (default: now)")
	cmd.Flags().StringVar(&remote, "remote", "", "address of a running insights server")

	return cmd
}

func (a *app) aggregateRemote(cmd *cobra.Command, addr, asOf string) error {
	conn, err := grpclib.NewClient(addr, grpclib.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to create client for %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+a.apiToken())

	resp, err := grpcadapter.NewClient(conn).RunMonthlyAggregation(ctx, asOf)
	if err != nil {
		return fmt.Errorf("remote aggregation failed: %w", err)
	}

	f := resp.GetFields()
	fmt.Fprintf(cmd.OutOrStdout(), "period=%s processed=%.0f skipped=%.0f errors=%.0f total=%.0f\n",
		f["period"].GetStringValue(),
		f["processed"].GetNumberValue(),
		f["skipped"].GetNumberValue(),
		f["errors"].GetNumberValue(),
		f["total"].GetNumberValue(),
	)
	return nil
}
