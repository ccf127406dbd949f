package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"schematics-backend/config"
	"schematics-backend/logging"
	"schematics-backend/repository"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "create-schema",
		Short: "Create the users and user_preferences tables",
		Long: `Create the users and user_preferences tables if they do not exist.

Postgres is used by default, connecting with DATABASE_URL. Pass --sqlite
to create a SQLite database file instead.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), sqlitePath)
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "path of a SQLite database to initialize instead of Postgres")
	return cmd
}

func run(ctx context.Context, sqlitePath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New("info", logging.FormatConsole)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if sqlitePath != "" {
		// OpenSQLite applies the schema
		db, err := repository.OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info("sqlite schema ready", zap.String("path", sqlitePath))
		fmt.Println("✅ Database schema created successfully!")
		fmt.Println("   Tables: users, user_preferences")
		return nil
	}

	if path := config.LoadDotEnv(); path == "" {
		logger.Warn("no .env file found, using environment variables")
	}
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		return err
	}

	pool, err := repository.OpenPostgres(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.EnsurePostgresSchema(ctx, pool); err != nil {
		return err
	}

	logger.Info("postgres schema ready")
	fmt.Println("✅ Database schema created successfully!")
	fmt.Println("   Tables: users, user_preferences")
	return nil
}
