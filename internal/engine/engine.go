// Package engine wires the cache, synthesizer and aggregator behind the
// operations the dashboard consumes. Every operation degrades to a
// well-formed value; callers never see a raw upstream failure.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/cache"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/insights"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/synth"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

const (
	marketIntelligenceKey = "market:intelligence"

	// Market metrics stay cached longer than insights: the synthesizer's
	// bucket pins them anyway, insights must feel fresher.
	defaultMetricsTTL = 5 * time.Minute
)

// InsightNotifier receives each freshly aggregated insight list. The
// websocket hub implements it; a nil notifier disables push updates.
type InsightNotifier interface {
	BroadcastInsights([]models.Insight)
}

// Service exposes the engine operations.
type Service struct {
	gamesFeed  insights.GamesFeed
	synth      *synth.Synthesizer
	aggregator *insights.Aggregator
	comparator *insights.Comparator

	metricsCache *cache.Cache[models.MarketMetrics]
	metricsTTL   time.Duration

	notifier InsightNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// Config carries the engine's collaborators.
type Config struct {
	GamesFeed   insights.GamesFeed
	Synthesizer *synth.Synthesizer
	Aggregator  *insights.Aggregator
	Comparator  *insights.Comparator
	Notifier    InsightNotifier
	Logger      *slog.Logger
	MetricsTTL  time.Duration
	Clock       func() time.Time
}

// New creates the engine service.
func New(cfg Config) *Service {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	ttl := cfg.MetricsTTL
	if ttl <= 0 {
		ttl = defaultMetricsTTL
	}

	return &Service{
		gamesFeed:    cfg.GamesFeed,
		synth:        cfg.Synthesizer,
		aggregator:   cfg.Aggregator,
		comparator:   cfg.Comparator,
		metricsCache: cache.NewWithClock[models.MarketMetrics](now),
		metricsTTL:   ttl,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger.With("component", "engine"),
		now:          now,
	}
}

// GetMarketIntelligence returns the current synthesized market snapshot,
// cache-first. A feed failure falls back to the zero snapshot without
// caching it, so the next caller retries the feed.
func (s *Service) GetMarketIntelligence(ctx context.Context) models.MarketMetrics {
	if cached, ok := s.metricsCache.Get(marketIntelligenceKey); ok {
		return cached
	}

	games, err := s.gamesFeed.LiveGames(ctx)
	if err != nil {
		s.logger.Warn("live games fetch failed, serving zero metrics", "error", err)
		return s.synth.MarketMetrics(nil)
	}

	metrics := s.synth.MarketMetrics(games)
	s.metricsCache.Set(marketIntelligenceKey, metrics, s.metricsTTL)
	return metrics
}

// GetLiveInsights returns the ranked insight list for a category.
func (s *Service) GetLiveInsights(ctx context.Context, category string) []models.Insight {
	return s.aggregator.GetInsights(ctx, category)
}

// GetQuickComparisons returns the current cross-book price comparisons.
func (s *Service) GetQuickComparisons(ctx context.Context) []models.Comparison {
	return s.comparator.GetComparisons(ctx)
}

// RunRefreshLoop re-aggregates insights on the given interval and pushes each
// fresh list to the notifier, until ctx is cancelled. HTTP callers still get
// cache-first reads; this loop keeps websocket clients warm.
func (s *Service) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if s.notifier == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("insight refresh loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("insight refresh loop stopped")
			return
		case <-ticker.C:
			list := s.aggregator.GetInsights(ctx, insights.CategoryAll)
			s.notifier.BroadcastInsights(list)
		}
	}
}
