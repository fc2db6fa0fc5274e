package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/synth"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

// Transformer thresholds. Each heuristic is deterministic: the same feed data
// always yields the same set of insights.
const (
	heavySpreadPoints   = 7.0
	sharpMoneyThreshold = 25.0
	bigMovePoints       = 2.0
	startingSoonWindow  = 120 * time.Minute
	performanceDevPct   = 15.0
)

// GamesFeed supplies today's games with bookmaker prices.
type GamesFeed interface {
	LiveGames(ctx context.Context) ([]models.Game, error)
}

// PerformanceFeed supplies recent player stat lines.
type PerformanceFeed interface {
	RecentPerformance(ctx context.Context) ([]models.PlayerPerformance, error)
}

// TrackedSource supplies the user's followed players and teams.
type TrackedSource interface {
	TrackedEntities(ctx context.Context) (models.TrackedEntities, error)
}

// categoryForSport reduces a feed sport key to a display category:
// "basketball_nba" → "NBA".
func categoryForSport(sportKey string) string {
	if i := strings.LastIndex(sportKey, "_"); i >= 0 && i < len(sportKey)-1 {
		return strings.ToUpper(sportKey[i+1:])
	}
	return strings.ToUpper(sportKey)
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// liveOddsProvider turns the raw games feed into schedule alerts and
// heavy-line opportunities.
type liveOddsProvider struct {
	feed GamesFeed
	now  func() time.Time
}

// NewLiveOddsProvider wraps the live-odds feed as an insight provider.
func NewLiveOddsProvider(feed GamesFeed, now func() time.Time) Provider {
	return &liveOddsProvider{feed: feed, now: now}
}

func (p *liveOddsProvider) Name() string { return "live_odds" }

func (p *liveOddsProvider) Fetch(ctx context.Context) ([]models.Insight, error) {
	games, err := p.feed.LiveGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("live games: %w", err)
	}

	now := p.now()
	var out []models.Insight

	for _, game := range games {
		category := categoryForSport(game.SportKey)

		if until := game.CommenceTime.Sub(now); until > 0 && until < startingSoonWindow {
			out = append(out, models.Insight{
				ID:          uuid.NewString(),
				Type:        models.InsightAlert,
				Title:       fmt.Sprintf("%s tips off soon", game.Matchup()),
				Description: fmt.Sprintf("Starts in %d minutes. Lines lock at tip.", int(until.Minutes())),
				Confidence:  clampConfidence(95 - int(until.Minutes()/2)),
				Category:    category,
				Timestamp:   now,
				Source:      p.Name(),
				Priority:    models.PriorityMedium,
				Impact:      models.ImpactNeutral,
				DataSource:  "live_odds_feed",
				ExpiresAt:   game.CommenceTime,
			})
		}

		books := make([]string, 0, len(game.Bookmakers))
		for book := range game.Bookmakers {
			books = append(books, book)
		}
		sort.Strings(books)

		for _, book := range books {
			odds := game.Bookmakers[book]
			if math.Abs(odds.Spread.Line) <= heavySpreadPoints {
				continue
			}
			out = append(out, models.Insight{
				ID:    uuid.NewString(),
				Type:  models.InsightOpportunity,
				Title: fmt.Sprintf("Heavy line in %s", game.Matchup()),
				Description: fmt.Sprintf("%s has the spread at %.1f. Large spreads widen the middle window.",
					book, odds.Spread.Line),
				Confidence: clampConfidence(int(55 + math.Abs(odds.Spread.Line)*2)),
				Category:   category,
				Timestamp:  now,
				Source:     p.Name(),
				Priority:   models.PriorityHigh,
				Impact:     models.ImpactPositive,
				DataSource: "live_odds_feed",
				ExpiresAt:  game.CommenceTime,
			})
			break // one heavy-line insight per game is enough
		}
	}

	return out, nil
}

// marketProvider derives trend and opportunity insights from the synthesized
// market metrics for the current slate.
type marketProvider struct {
	feed  GamesFeed
	synth *synth.Synthesizer
	now   func() time.Time
	ttl   time.Duration
}

// NewMarketProvider wraps the metric synthesizer as an insight provider. Its
// insights expire after ttl so their lifetime tracks the aggregator's cache
// window; ttl <= 0 falls back to the default window.
func NewMarketProvider(feed GamesFeed, s *synth.Synthesizer, now func() time.Time, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = insightTTL
	}
	return &marketProvider{feed: feed, synth: s, now: now, ttl: ttl}
}

func (p *marketProvider) Name() string { return "market_metrics" }

func (p *marketProvider) Fetch(ctx context.Context) ([]models.Insight, error) {
	games, err := p.feed.LiveGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("live games: %w", err)
	}

	metrics := p.synth.MarketMetrics(games)
	now := p.now()
	expires := now.Add(p.ttl)

	categories := make(map[string]string, len(games)) // game ID -> category
	for _, g := range games {
		categories[g.ID] = categoryForSport(g.SportKey)
	}

	var out []models.Insight

	if metrics.SharpMoneyPercentage > sharpMoneyThreshold {
		out = append(out, models.Insight{
			ID:    uuid.NewString(),
			Type:  models.InsightTrend,
			Title: fmt.Sprintf("Sharp money at %.1f%% of handle", metrics.SharpMoneyPercentage),
			Description: fmt.Sprintf("Professional action is %.1f%% of volume today, well above the usual book split.",
				metrics.SharpMoneyPercentage),
			Confidence: clampConfidence(int(50 + metrics.SharpMoneyPercentage)),
			Category:   CategoryAll,
			Timestamp:  now,
			Source:     p.Name(),
			Priority:   models.PriorityHigh,
			Impact:     models.ImpactPositive,
			DataSource: synth.DataSourceSynthesized,
			ExpiresAt:  expires,
		})
	}

	for _, move := range metrics.LineMovements {
		if math.Abs(move.Movement) < bigMovePoints {
			continue
		}
		out = append(out, models.Insight{
			ID:    uuid.NewString(),
			Type:  models.InsightOpportunity,
			Title: fmt.Sprintf("Line moved %.1f in %s", move.Movement, move.Matchup),
			Description: fmt.Sprintf("The spread has moved %.1f points %s since open.",
				math.Abs(move.Movement), strings.ReplaceAll(move.Direction, "_", " ")),
			Confidence: clampConfidence(int(60 + math.Abs(move.Movement)*10)),
			Category:   categories[move.GameID],
			Timestamp:  now,
			Source:     p.Name(),
			Priority:   models.PriorityHigh,
			Impact:     models.ImpactPositive,
			DataSource: synth.DataSourceSynthesized,
			ExpiresAt:  expires,
		})
	}

	return out, nil
}

// performanceProvider turns stat-line deviations into recommendations.
type performanceProvider struct {
	feed PerformanceFeed
	now  func() time.Time
	ttl  time.Duration
}

// NewPerformanceProvider wraps the player-performance feed as an insight
// provider. ttl <= 0 falls back to the default expiry window.
func NewPerformanceProvider(feed PerformanceFeed, now func() time.Time, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = insightTTL
	}
	return &performanceProvider{feed: feed, now: now, ttl: ttl}
}

func (p *performanceProvider) Name() string { return "player_performance" }

func (p *performanceProvider) Fetch(ctx context.Context) ([]models.Insight, error) {
	rows, err := p.feed.RecentPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent performance: %w", err)
	}

	now := p.now()
	expires := now.Add(p.ttl)
	var out []models.Insight

	for _, row := range rows {
		if row.SeasonAvg == 0 {
			continue
		}
		devPct := (row.Last5Avg - row.SeasonAvg) / row.SeasonAvg * 100.0
		if math.Abs(devPct) <= performanceDevPct {
			continue
		}

		impact := models.ImpactPositive
		direction := "above"
		if devPct < 0 {
			impact = models.ImpactNegative
			direction = "below"
		}

		out = append(out, models.Insight{
			ID:    uuid.NewString(),
			Type:  models.InsightRecommendation,
			Title: fmt.Sprintf("%s trending %s season form", row.PlayerName, direction),
			Description: fmt.Sprintf("%s is averaging %.1f %s over the last 5 games vs %.1f on the season (%+.0f%%).",
				row.PlayerName, row.Last5Avg, row.Stat, row.SeasonAvg, devPct),
			Confidence: clampConfidence(int(50 + math.Abs(devPct))),
			Category:   strings.ToUpper(row.Team),
			Timestamp:  now,
			Source:     p.Name(),
			Priority:   models.PriorityMedium,
			Impact:     impact,
			DataSource: "performance_feed",
			ExpiresAt:  expires,
		})
	}

	return out, nil
}

// trackedProvider surfaces followed teams appearing on today's slate.
type trackedProvider struct {
	tracked TrackedSource
	feed    GamesFeed
	now     func() time.Time
}

// NewTrackedProvider wraps the tracked-entities store as an insight provider.
func NewTrackedProvider(tracked TrackedSource, feed GamesFeed, now func() time.Time) Provider {
	return &trackedProvider{tracked: tracked, feed: feed, now: now}
}

func (p *trackedProvider) Name() string { return "tracked_entities" }

func (p *trackedProvider) Fetch(ctx context.Context) ([]models.Insight, error) {
	entities, err := p.tracked.TrackedEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracked entities: %w", err)
	}

	games, err := p.feed.LiveGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("live games: %w", err)
	}

	now := p.now()
	var out []models.Insight

	for _, team := range entities.Teams {
		for _, game := range games {
			if game.HomeTeam != team.Name && game.AwayTeam != team.Name {
				continue
			}

			priority := models.PriorityLow
			confidence := 55
			if team.Priority == "high" {
				priority = models.PriorityMedium
				confidence = 75
			}

			out = append(out, models.Insight{
				ID:          uuid.NewString(),
				Type:        models.InsightTrend,
				Title:       fmt.Sprintf("%s play today", team.Name),
				Description: fmt.Sprintf("Tracked team %s is on the slate: %s.", team.Name, game.Matchup()),
				Confidence:  confidence,
				Category:    categoryForSport(game.SportKey),
				Timestamp:   now,
				Source:      p.Name(),
				Priority:    priority,
				Impact:      models.ImpactNeutral,
				DataSource:  "tracked_store",
				ExpiresAt:   game.CommenceTime,
			})
			break
		}
	}

	return out, nil
}
