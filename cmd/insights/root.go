package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simaogato/wealthflow-insights/internal/adapter/repository/memory"
	"github.com/simaogato/wealthflow-insights/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-insights/internal/config"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/platform/logging"
)

// app carries what every subcommand needs once the root command has run
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "insights",
		Short:         "Monthly summaries and financial health scores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env file: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newAggregateCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newSeedCmd(a))

	return cmd
}

// repositories groups the storage backend selected by configuration
type repositories struct {
	users     domain.UserRepository
	txs       domain.TransactionRepository
	summaries domain.SummaryRepository
	goals     domain.GoalRepository
	budgets   domain.BudgetRepository
	close     func() error
}

// openRepositories connects to the configured store. Postgres is migrated first.
func (a *app) openRepositories(ctx context.Context) (*repositories, error) {
	if a.cfg.Store == config.StoreMemory {
		store := memory.NewStore()
		a.logger.Warn().Msg("using in-memory store, data is lost on exit")
		return &repositories{
			users:     memory.NewUserRepository(store),
			txs:       memory.NewTransactionRepository(store),
			summaries: memory.NewSummaryRepository(store),
			goals:     memory.NewGoalRepository(store),
			budgets:   memory.NewBudgetRepository(store),
			close:     func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(ctx, a.cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		users:     postgres.NewUserRepository(db),
		txs:       postgres.NewTransactionRepository(db),
		summaries: postgres.NewSummaryRepository(db),
		goals:     postgres.NewGoalRepository(db),
		budgets:   postgres.NewBudgetRepository(db),
		close:     db.Close,
	}, nil
}
