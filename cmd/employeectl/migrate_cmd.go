package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/EmployeeStore/internal/config"
	"github.com/JonMunkholm/EmployeeStore/internal/store/postgres"
)

func newMigrateCmd(global *globalOptions) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, global)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return withCode(exitUsage, errors.New("migrate requires DB_DRIVER=postgres"))
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			if !statusOnly {
				if err := postgres.Migrate(ctx, pool); err != nil {
					return withCode(exitDB, err)
				}
			}

			version, err := postgres.MigrationVersion(ctx, pool)
			if err != nil {
				return withCode(exitDB, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return err
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "print the current schema version without migrating")
	return cmd
}
