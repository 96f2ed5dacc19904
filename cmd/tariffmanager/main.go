package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/logger"
	"github.com/bher20/tariffmanager/internal/storage"
)

// @title Tariff Manager API
// @version 1.0
// @description Tariff catalog, cost comparison and proposal API for electricity and gas offers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description API token as "Bearer <token>"

func main() {
	rootCmd := &cobra.Command{
		Use:           "tariffmanager",
		Short:         "Electricity and gas tariff catalog and comparison service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newCatalogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand starts from.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store storage.Storage
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	st, err := storage.Open(ctx, storage.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		Logger: log,
	})
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("storage close", zap.Error(err))
	}
	_ = a.log.Sync()
}
