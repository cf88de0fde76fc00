package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mzansishield/internal/api"
	"mzansishield/internal/api/handlers"
	"mzansishield/internal/config"
	"mzansishield/internal/domain/services"
	"mzansishield/internal/domain/services/ai"
	"mzansishield/internal/infrastructure/localstore"
	"mzansishield/internal/streaming"
	"mzansishield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting MzansiShield")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the local snapshot store
	store, err := localstore.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize local store")
	}
	defer store.Close()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("local store initialized")

	// Create the write notifier and WebSocket hub for cross-view updates
	notifier := streaming.NewNotifier(log)
	defer notifier.Close()

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	publisher := streaming.NewNotifierPublisher(notifier, wsHub)

	// Initialize services
	matcher := services.NewMatcher(log)
	scorer := services.NewScorer(cfg.Scoring, log)

	reportStore := services.NewReportStore(matcher, scorer, store, publisher, log)
	if err := reportStore.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load report collection, starting empty")
	}

	historyStore := services.NewCheckHistoryStore(store, log)
	if err := historyStore.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load check history, starting empty")
	}

	classifier := ai.NewThreatClassifier(cfg.Classifier, log)

	// Initialize handlers
	deps := handlers.Dependencies{
		ReportStore:  reportStore,
		HistoryStore: historyStore,
		Classifier:   classifier,
		Store:        store,
		WSHub:        wsHub,
		Notifier:     notifier,
		Logger:       log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
