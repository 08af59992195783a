package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/seeder"
)

const defaultDemoSeed = 42

func newSeedCmd(a *app) *cobra.Command {
	var (
		periodFlag string
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo users with sample transactions, goals and budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period := domain.PeriodOf(time.Now().In(a.cfg.Location())).Previous()
			if periodFlag != "" {
				p, err := domain.ParsePeriod(periodFlag)
				if err != nil {
					return err
				}
				period = p
			}

			repos, err := a.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.close()

			created, err := seeder.NewDemoSeeder(repos.users, repos.txs, repos.goals, repos.budgets, seed).Seed(cmd.Context(), period)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d demo users for %s\n", created, period)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodFlag, "period", "", "month to fill with sample activity, YYYY-MM (default: previous month)")
	cmd.Flags().Uint64Var(&seed, "seed", defaultDemoSeed, "random seed for the sample data")

	return cmd
}
