package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/docs"
	"github.com/bher20/tariffmanager/internal/alerting"
	"github.com/bher20/tariffmanager/internal/api"
	"github.com/bher20/tariffmanager/internal/auth"
	"github.com/bher20/tariffmanager/internal/backend"
	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/cron"
	"github.com/bher20/tariffmanager/internal/notification"
	"github.com/bher20/tariffmanager/internal/tariff"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)
	if cfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	}

	cat := catalog.NewStore(a.store, log)
	companies := backend.New(cfg.Backend, log)
	if err := seedCatalog(ctx, cat, companies, cfg.Catalog.SeedFile, cfg.Catalog.SeedPresets, log); err != nil {
		return err
	}

	deps := api.Deps{
		Config:  cfg,
		Logger:  log,
		Storage: a.store,
		Catalog: cat,
		Compare: compare.NewServiceWithStorage(cat, a.store, log),
		Mailer:  notification.NewService(cfg.Email, log),
	}
	if !deps.Mailer.Enabled() {
		log.Info("email delivery disabled; set email.sendgrid_api_key and email.from_address to enable")
	}
	if cfg.Auth.Enabled {
		deps.Auth, err = auth.NewService(a.store, log)
		if err != nil {
			return fmt.Errorf("failed to init auth: %w", err)
		}
	}

	syncer := cron.NewSyncer(companies, cat, a.store, log)
	if alerter := alerting.New(cfg.Alerting, log); alerter != nil {
		syncer.WithAlerter(alerter)
	}
	deps.Syncer = syncer
	if cfg.Sync.Enabled {
		go func() {
			if err := syncer.Run(ctx, cfg.Sync.Schedule); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("catalog sync worker", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited")
	return nil
}

// seedCatalog fills an empty catalog from seedFile, then from company
// presets when presets is set and the catalog is still empty.
func seedCatalog(ctx context.Context, cat *catalog.Store, companies *backend.Client, seedFile string, presets bool, log *zap.Logger) error {
	if seedFile != "" {
		list, err := tariff.LoadCatalogFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		n, err := cat.Seed(ctx, list)
		if err != nil {
			return err
		}
		log.Info("catalog seeded from file", zap.String("file", seedFile), zap.Int("added", n))
	}
	if presets {
		n, err := cat.Seed(ctx, tariff.Presets(companies.CompaniesOrDefault(ctx)))
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("catalog seeded with company presets", zap.Int("added", n))
		}
	}
	return nil
}
