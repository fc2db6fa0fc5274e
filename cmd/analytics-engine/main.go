package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/engine"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/feeds"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/handlers"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/hub"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/insights"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/store"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/synth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: external backends when configured, in-memory otherwise.
	tracked, err := newTrackedStore(cfg, logger)
	if err != nil {
		logger.Error("tracked store init failed", "error", err)
		os.Exit(1)
	}
	defer tracked.Close()

	parlays, err := newParlayStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("parlay store init failed", "error", err)
		os.Exit(1)
	}

	// Feeds and the synthesis/aggregation core.
	oddsFeed := feeds.NewOddsClient(cfg.OddsFeedURL, cfg.OddsAPIKey)
	perfFeed := feeds.NewPerformanceClient(cfg.PerformanceFeedURL)
	synthesizer := synth.New(cfg.MetricBucket)

	providers := []insights.Provider{
		insights.NewLiveOddsProvider(oddsFeed, time.Now),
		insights.NewMarketProvider(oddsFeed, synthesizer, time.Now, cfg.InsightTTL),
		insights.NewPerformanceProvider(perfFeed, time.Now, cfg.InsightTTL),
		insights.NewTrackedProvider(tracked, oddsFeed, time.Now),
	}
	aggregator := insights.NewAggregator(providers, logger,
		insights.WithTTL(cfg.InsightTTL),
		insights.WithTimeout(cfg.AggregateTimeout),
	)
	comparator := insights.NewComparator(oddsFeed, logger, time.Now)

	insightHub := hub.New(logger)
	go insightHub.Run(ctx)

	svc := engine.New(engine.Config{
		GamesFeed:   oddsFeed,
		Synthesizer: synthesizer,
		Aggregator:  aggregator,
		Comparator:  comparator,
		Notifier:    insightHub,
		Logger:      logger,
		MetricsTTL:  cfg.MetricsTTL,
	})
	go svc.RunRefreshLoop(ctx, cfg.RefreshInterval)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handler := handlers.NewHandler(svc, parlays, tracked)
	handler.Routes(r)
	r.Get("/ws/insights", insightHub.ServeWS)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("analytics engine started",
			"port", cfg.Port,
			"insight_ttl", cfg.InsightTTL.String(),
			"metrics_ttl", cfg.MetricsTTL.String(),
			"metric_bucket", cfg.MetricBucket.String(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("analytics engine stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newTrackedStore(cfg *config.Config, logger *slog.Logger) (store.TrackedStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, using in-memory tracked store")
		return store.NewMemoryTrackedStore(), nil
	}
	return store.NewPostgresTrackedStore(cfg.DatabaseURL)
}

func newParlayStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ParlayStore, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-memory parlay store")
		return store.NewMemoryParlayStore(), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return store.NewRedisParlayStore(client), nil
}
