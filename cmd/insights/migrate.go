package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/simaogato/wealthflow-insights/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-insights/internal/config"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Store != config.StorePostgres {
				return errors.New("migrate requires the postgres store")
			}

			db, err := postgres.NewDB(cmd.Context(), a.cfg.DBConnStr)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.RunMigrations(db); err != nil {
				return err
			}

			a.logger.Info().Msg("database migrations applied")
			return nil
		},
	}
}
