package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amniuelmohamed/freshconcept/internal/api"
	"github.com/amniuelmohamed/freshconcept/internal/bootstrap"
	"github.com/amniuelmohamed/freshconcept/internal/config"
	"github.com/amniuelmohamed/freshconcept/internal/job"
	"github.com/amniuelmohamed/freshconcept/internal/migrations"
	"github.com/amniuelmohamed/freshconcept/internal/repository/sqlite"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
	"github.com/amniuelmohamed/freshconcept/internal/support/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FreshConcept server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	bootTime := time.Now().UTC()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return err
	}

	resolvedSigningKey, signingKeySource, err := bootstrap.ResolveSigningKey(ctx, db, cfg.Auth.SigningKey, time.Now)
	if err != nil {
		return err
	}
	cfg.Auth.SigningKey = resolvedSigningKey

	switch signingKeySource {
	case bootstrap.SigningKeySourceConfig:
		logger.Info("signing key loaded", "source", "config")
	case bootstrap.SigningKeySourceSettings:
		logger.Info("signing key loaded", "source", "settings")
	case bootstrap.SigningKeySourceGenerated:
		logger.Info("signing key generated", "source", "generated-and-persisted")
	default:
		logger.Info("signing key loaded", "source", "unknown")
	}

	infra, err := bootstrap.BuildInfrastructure(cfg, cfg.Auth.SigningKey, logger)
	if err != nil {
		return err
	}

	store := sqlite.NewStore(db)

	i18nManager, err := i18n.NewManager(
		i18n.WithLogger(logger),
		i18n.WithDefaultLang(cfg.I18n.DefaultLocale),
	)
	if err != nil {
		return err
	}
	if cfg.I18n.ExternalDir != "" {
		if err := i18nManager.LoadFromDir(cfg.I18n.ExternalDir); err != nil {
			logger.Warn("external locales not loaded", "dir", cfg.I18n.ExternalDir, "error", err)
		}
	}

	settingsService := service.NewSettingsService(store.Settings(), infra.Cache)
	identityService := service.NewIdentityService(store.Accounts(), store.Roles(), infra.Cache)
	authService := service.NewAuthService(
		store.Accounts(),
		store.Tokens(),
		store.LoginLogs(),
		identityService,
		infra.Hasher,
		infra.Token,
		infra.RateLimiter,
		infra.Audit,
		logger,
		service.AuthOptions{
			AccessTTL:  cfg.Auth.TokenTTL,
			RefreshTTL: cfg.Auth.RefreshTTL,
		},
	)
	catalogService := service.NewCatalogService(store.Categories(), store.Products())
	cartService := service.NewCartService(store.Carts(), store.Products())
	orderService := service.NewOrderService(
		store.Orders(),
		store.Carts(),
		store.Products(),
		store.Accounts(),
		settingsService,
		infra.Events,
		logger,
	)
	adminCatalogService := service.NewAdminCatalogService(store.Categories(), store.Products())
	adminOrderService := service.NewAdminOrderService(store.Orders(), store.Accounts(), orderService, logger)
	adminAccountService := service.NewAdminAccountService(
		store.Accounts(),
		store.Roles(),
		store.Tokens(),
		identityService,
		infra.Hasher,
	)
	systemService := service.NewSystemService(service.SystemOptions{
		Version:   Version,
		StartedAt: bootTime,
		Events:    infra.Events,
		Orders:    store.Orders(),
	})

	scheduler := job.NewScheduler(logger)
	if _, err := scheduler.Register(cfg.Jobs.OrderAutoConfirm, job.NewOrderAutoConfirmJob(orderService, logger)); err != nil {
		return err
	}
	if _, err := scheduler.Register(cfg.Jobs.WebhookDispatch, job.NewWebhookDispatchJob(infra.Events, infra.Notifier, logger)); err != nil {
		return err
	}
	if _, err := scheduler.Register(cfg.Jobs.TokenCleanup, job.NewTokenCleanupJob(store.Tokens(), logger)); err != nil {
		return err
	}
	if _, err := scheduler.Register(cfg.Jobs.LoginLogCleanup, job.NewLoginLogCleanupJob(store.LoginLogs(), settingsService, logger)); err != nil {
		return err
	}
	scheduler.Start()

	services := api.Services{
		Auth:          authService,
		Identity:      identityService,
		Catalog:       catalogService,
		Cart:          cartService,
		Orders:        orderService,
		AdminCatalog:  adminCatalogService,
		AdminOrders:   adminOrderService,
		AdminAccounts: adminAccountService,
		Settings:      settingsService,
		System:        systemService,
		Tokens:        infra.Token,
		RateLimiter:   infra.RateLimiter,
		I18n:          i18nManager,
	}

	router := api.NewRouter(logger, services, cfg.Metrics)
	server := bootstrap.NewHTTPServer(cfg, router)

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTP.Addr, "env", cfg.Log.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down http server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server exited cleanly")
	return nil
}
