package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/EmployeeStore/internal/config"
	"github.com/JonMunkholm/EmployeeStore/internal/core"
	"github.com/JonMunkholm/EmployeeStore/internal/logging"
	"github.com/JonMunkholm/EmployeeStore/internal/store"
)

type globalOptions struct {
	EnvFile  string
	LogLevel string
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "employeectl",
		Short:         "Import, list and migrate employee records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(opts.EnvFile, cmd.Flags().Changed("env-file"))
		},
	}
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to read; variables already set in the environment win")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(newImportCmd(&opts))
	cmd.AddCommand(newListCmd(&opts))
	cmd.AddCommand(newMigrateCmd(&opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

// loadEnvFile reads path if present. A missing default file is fine; a
// missing file the user named is not.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return withCode(exitUsage, fmt.Errorf("load %s: %w", path, err))
}

// setupLogger sends logs to stderr so stdout stays machine-readable.
func setupLogger(cmd *cobra.Command, opts *globalOptions, level, format string) {
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, format))
}

// openService loads configuration and opens the configured store.
func openService(ctx context.Context, cmd *cobra.Command, opts *globalOptions) (*core.Service, func(), error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	employees, closeStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, withCode(exitDB, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err))
	}
	return core.NewService(employees), closeStore, nil
}

func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	setupLogger(cmd, opts, cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}
