package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"schematics-backend/config"
	"schematics-backend/handlers"
	"schematics-backend/logging"
	"schematics-backend/repository"
	"schematics-backend/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// NewRootCommand creates the server command. Flags override environment
// variables, which override defaults.
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.NewViper())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the preferences and registration API",
		Long: `Serve the preferences and registration API.

Settings are read from .env, then the environment, then flags.

Example:
  server --port 8080 --store sqlite
  STORE_BACKEND=file STORAGE_TYPE=s3 AWS_S3_BUCKET=prefs server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("port", "", "port to listen on (PORT)")
	flags.String("store", "", "store backend: memory, file, postgres or sqlite (STORE_BACKEND)")
	flags.String("on-missing", "", "update policy for unknown users: reject or upsert (PREFERENCES_ON_MISSING)")
	flags.String("log-level", "", "log level: debug, info, warn or error (LOG_LEVEL)")

	_ = v.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = v.BindPFlag(config.KeyStoreBackend, flags.Lookup("store"))
	_ = v.BindPFlag(config.KeyOnMissing, flags.Lookup("on-missing"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	return cmd
}

func runServer(parent context.Context, v *viper.Viper) error {
	envFile := config.LoadDotEnv()

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envFile != "" {
		logger.Info("loaded environment file", zap.String("path", envFile))
	} else {
		logger.Info("no .env file found, using environment variables")
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	stores, err := repository.OpenStores(ctx, cfg.Store)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s store", cfg.Store.Backend)
	}
	defer stores.Close()
	logger.Info("store initialized", zap.String("backend", string(cfg.Store.Backend)))

	onMissing, err := service.ParseOnMissing(cfg.OnMissing)
	if err != nil {
		return err
	}

	// Initialize services
	preferenceService := service.NewPreferenceService(
		service.WithPreferenceRepository(stores.Preferences),
		service.WithOnMissing(onMissing),
		service.WithLogger(logger.Named("preferences")),
	)

	registrationService := service.NewRegistrationService(
		service.RegistrationWithUserRepository(stores.Users),
		service.RegistrationWithBcryptCost(cfg.BcryptCost),
		service.RegistrationWithLogger(logger.Named("registration")),
	)

	gin.SetMode(cfg.GinMode)
	router := newRouter(logger,
		handlers.NewPreferenceHandler(preferenceService),
		handlers.NewRegistrationHandler(registrationService),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Stringer("on_missing", onMissing),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}

	logger.Info("server stopped")
	return nil
}
