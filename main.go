package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/config"
	"github.com/mauv0809/tennis-oracle/internal/database"
	server "github.com/mauv0809/tennis-oracle/internal/http"
	"github.com/mauv0809/tennis-oracle/internal/inngest"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/notifier/slack"
	"github.com/mauv0809/tennis-oracle/internal/provider"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store := tennis.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	usage := metrics.New(db)
	queryCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTLSeconds)
	providerClient := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	var events pubsub.PubSubClient
	if cfg.ProjectID != "" {
		client, teardown, err := pubsub.New(ctx, cfg.ProjectID, map[pubsub.EventType]string{pubsub.EventDataSynced: cfg.PubSubTopic})
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer teardown()
		events = client
	} else {
		log.Info("GCP_PROJECT not set, data-synced events stay in process")
		events = pubsub.NewLocal()
	}

	engine := syncer.New(providerClient, store, queryCache, metricsSvc, notifier, events, syncOptions(cfg.Sync))
	if err := engine.RestoreStatus(ctx); err != nil {
		log.Error("Failed to restore sync status", "error", err)
	}
	res := resolver.New(store, queryCache, metricsSvc)

	var inngestClient inngest.InngestClient
	if cfg.Inngest.AppID != "" {
		inngestProvider, err := inngest.NewClient(cfg.Inngest.AppID, cfg.Inngest.SigningKey, cfg.Inngest.EventKey, cfg.Inngest.Dev)
		if err != nil {
			log.Fatalf("Failed to initialize inngest: %s", err)
		}
		inngestClient, err = inngest.New(inngestProvider, engine)
		if err != nil {
			log.Fatalf("Failed to register inngest functions: %s", err)
		}
	}

	s := server.NewServer(
		store,
		engine,
		res,
		queryCache,
		metricsSvc,
		metricsHandler,
		usage,
		cfg,
		notifier,
		events,
		inngestClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	waitSync := engine.Start(ctx)

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	// In-flight syncs are never cancelled, wait for them to commit.
	stop()
	waitSync()
	log.Info("Server process shutting down")
}

// syncOptions maps the environment configuration onto engine options.
func syncOptions(cfg config.SyncConfig) syncer.Options {
	opts := syncer.Options{
		Seasons:       cfg.Seasons,
		Schedule:      cfg.Schedule,
		OnStartup:     cfg.OnStartup,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
		NotifySuccess: cfg.NotifySuccess,
	}
	for _, name := range cfg.Tours {
		tour, err := tennis.ParseTour(name)
		if err != nil {
			log.Warn("Ignoring unknown tour in SYNC_TOURS", "tour", name)
			continue
		}
		opts.Tours = append(opts.Tours, tour)
	}
	return opts
}
