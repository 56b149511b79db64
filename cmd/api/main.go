package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/procurebid/procurement-exchange-backend/internal/api/rest"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/auth"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/cache"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/config"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/database"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/email"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/metrics"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/repository"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/repository/memory"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/telemetry"
	"github.com/procurebid/procurement-exchange-backend/internal/service/export"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
	"github.com/procurebid/procurement-exchange-backend/internal/service/notification"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting procurement exchange",
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	var (
		projects    lifecycle.ProjectRepository
		bids        lifecycle.BidRepository
		profiles    lifecycle.ProfileRepository
		awards      lifecycle.AwardStore
		credentials auth.CredentialStore
		notifRepo   notification.Repository
		notifLister rest.NotificationLister
	)

	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		projects = repository.NewProjectRepository(pool)
		bids = repository.NewBidRepository(pool)
		profiles = repository.NewProfileRepository(pool)
		awards = repository.NewAwardStore(pool)
		credentials = repository.NewCredentialRepository(pool)
		nr := repository.NewNotificationRepository(pool)
		notifRepo = nr
		notifLister = nr
		logger.Info("using postgres storage")
	} else {
		store := memory.NewStore()
		projects = store.Projects()
		bids = store.Bids()
		profiles = store
		awards = store
		credentials = store
		notifRepo = store
		notifLister = store
		logger.Warn("no database configured, using in-memory storage")
	}

	var mailer notification.Mailer
	if cfg.Email.Enabled && cfg.Email.APIKey != "" {
		mailer = email.NewResendMailer(&cfg.Email)
	} else {
		mailer = email.NewLogMailer(logger)
	}

	notifier := notification.NewService(mailer, profiles, notifRepo, collector, logger, cfg.App.BaseURL)

	engine := lifecycle.NewService(
		projects, bids, profiles, awards,
		notifier, collector, project.RealClock{}, logger,
	)

	var projectCache *cache.ProjectCache
	if cfg.Redis.Enabled {
		projectCache = cache.NewProjectCache(&cfg.Redis, logger)
		defer projectCache.Close()
	}

	tokens := auth.NewTokenService(cfg.Security.JWTSecret, cfg.Security.TokenExpiry)
	exporter := export.NewExporter(profiles)

	handler := rest.NewHandler(engine, tokens, credentials, exporter, notifLister, projectCache, logger)
	server := rest.NewServer(cfg, handler, tokens, registry, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return server.Shutdown(context.Background())
	}
}
