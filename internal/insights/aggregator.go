// Package insights fans out to independent upstream providers, folds the
// successful branches into a ranked insight list, and keeps the result stable
// behind a short-TTL cache. No single provider failure aborts a cycle, and a
// cycle where every provider fails still yields a well-formed degraded result.
package insights

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/cache"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

const (
	// CategoryAll requests the unfiltered ranked list.
	CategoryAll = "all"

	maxInsights      = 12
	insightTTL       = 3 * time.Minute
	degradedLifetime = 5 * time.Minute
)

// Provider is one independent upstream source of insights. Fetch is expected
// to be I/O bound; the aggregator calls every provider concurrently.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Insight, error)
}

// Aggregator joins all registered providers with per-branch failure isolation.
type Aggregator struct {
	providers []Provider
	cache     *cache.Cache[[]models.Insight]
	logger    *slog.Logger
	now       func() time.Time
	ttl       time.Duration
	timeout   time.Duration
	limit     int
}

// Option adjusts aggregator construction.
type Option func(*Aggregator)

// WithClock injects a clock, used by tests to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithTTL overrides the insight cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(a *Aggregator) { a.ttl = ttl }
}

// WithTimeout bounds a single fan-out cycle. Zero means the cycle runs until
// the caller's context expires.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) { a.timeout = timeout }
}

// WithLimit overrides the ranked-list cap.
func WithLimit(limit int) Option {
	return func(a *Aggregator) { a.limit = limit }
}

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(providers []Provider, logger *slog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers: providers,
		logger:    logger.With("component", "insight_aggregator"),
		now:       time.Now,
		ttl:       insightTTL,
		limit:     maxInsights,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cache = cache.NewWithClock[[]models.Insight](a.now)
	return a
}

// GetInsights returns the ranked insight list for a category, serving from
// cache inside the TTL window. Category "" is treated as CategoryAll.
func (a *Aggregator) GetInsights(ctx context.Context, category string) []models.Insight {
	if category == "" {
		category = CategoryAll
	}
	key := "insights:" + category

	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	insights, succeeded := a.collect(ctx)

	// Total failure bypasses both the category filter and the cache: the
	// degraded insight must reach every caller, and the next call should
	// retry the providers instead of serving a cached outage.
	if succeeded == 0 {
		return []models.Insight{a.degraded()}
	}

	rank(insights)

	if category != CategoryAll {
		insights = filterCategory(insights, category)
	}
	if len(insights) > a.limit {
		insights = insights[:a.limit]
	}

	a.cache.Set(key, insights, a.ttl)
	return insights
}

type branch struct {
	provider string
	insights []models.Insight
	err      error
}

// collect fans out one Fetch per provider and folds the successes, reporting
// how many branches succeeded. The join never fails as a whole: errored
// branches are logged and dropped, and once ctx expires any unresolved branch
// counts as failed. In-flight fetches are not cancelled beyond ctx; they
// simply miss this cycle.
func (a *Aggregator) collect(ctx context.Context) ([]models.Insight, int) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	results := make(chan branch, len(a.providers))

	for _, p := range a.providers {
		go func(p Provider) {
			ins, err := p.Fetch(ctx)
			results <- branch{provider: p.Name(), insights: ins, err: err}
		}(p)
	}

	var merged []models.Insight
	succeeded := 0

	for range a.providers {
		select {
		case r := <-results:
			if r.err != nil {
				a.logger.Warn("provider failed", "provider", r.provider, "error", r.err)
				continue
			}
			succeeded++
			merged = append(merged, r.insights...)
		case <-ctx.Done():
			a.logger.Warn("aggregation deadline reached", "error", ctx.Err())
			return merged, succeeded
		}
	}

	return merged, succeeded
}

// degraded is the single well-formed insight returned when every provider is
// down. Its short expiry nudges the caller to retry soon. The fixed ID keeps
// the degraded path fully deterministic.
func (a *Aggregator) degraded() models.Insight {
	now := a.now()
	return models.Insight{
		ID:          "degraded-mode",
		Type:        models.InsightAlert,
		Title:       "Live insights temporarily unavailable",
		Description: "All upstream data sources are unreachable. Insights will refresh automatically.",
		Confidence:  0,
		Category:    CategoryAll,
		Timestamp:   now,
		Source:      "aggregator",
		Priority:    models.PriorityLow,
		Impact:      models.ImpactNeutral,
		DataSource:  "none",
		ExpiresAt:   now.Add(degradedLifetime),
	}
}

// rank sorts insights by priority (high first) then confidence, descending.
func rank(insights []models.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Priority.Rank() != insights[j].Priority.Rank() {
			return insights[i].Priority.Rank() > insights[j].Priority.Rank()
		}
		return insights[i].Confidence > insights[j].Confidence
	})
}

// filterCategory keeps only insights whose category matches. Applied after
// ranking so the filtered view preserves the global ordering.
func filterCategory(insights []models.Insight, category string) []models.Insight {
	filtered := make([]models.Insight, 0, len(insights))
	for _, ins := range insights {
		if ins.Category == category {
			filtered = append(filtered, ins)
		}
	}
	return filtered
}
