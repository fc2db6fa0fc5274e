package insights

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/cache"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/oddsmath"
)

const (
	comparisonTTL  = 3 * time.Minute
	maxComparisons = 8
	comparisonsKey = "comparisons:all"
)

// Comparator builds quick cross-book price comparisons with the same
// cache-first pattern the insight aggregator uses.
type Comparator struct {
	feed   GamesFeed
	cache  *cache.Cache[[]models.Comparison]
	logger *slog.Logger
	now    func() time.Time
	ttl    time.Duration
}

// NewComparator creates a comparator over the live-odds feed.
func NewComparator(feed GamesFeed, logger *slog.Logger, now func() time.Time) *Comparator {
	if now == nil {
		now = time.Now
	}
	return &Comparator{
		feed:   feed,
		cache:  cache.NewWithClock[[]models.Comparison](now),
		logger: logger.With("component", "comparator"),
		now:    now,
		ttl:    comparisonTTL,
	}
}

// GetComparisons returns the best cross-book pricing gaps, widest first.
// A feed failure degrades to an empty list, never an error to the caller.
func (c *Comparator) GetComparisons(ctx context.Context) []models.Comparison {
	if cached, ok := c.cache.Get(comparisonsKey); ok {
		return cached
	}

	games, err := c.feed.LiveGames(ctx)
	if err != nil {
		c.logger.Warn("live games fetch failed", "error", err)
		return []models.Comparison{}
	}

	now := c.now()
	var out []models.Comparison

	for _, game := range games {
		for _, side := range []string{"home", "away"} {
			if cmp, ok := c.compareMoneyline(game, side, now); ok {
				out = append(out, cmp)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].EdgePct > out[j].EdgePct })
	if len(out) > maxComparisons {
		out = out[:maxComparisons]
	}

	c.cache.Set(comparisonsKey, out, c.ttl)
	return out
}

// compareMoneyline finds the best and worst price for one side of a game's
// moneyline across every book quoting it. Needs at least two books to be a
// comparison at all.
func (c *Comparator) compareMoneyline(game models.Game, side string, now time.Time) (models.Comparison, bool) {
	books := make([]string, 0, len(game.Bookmakers))
	for name := range game.Bookmakers {
		books = append(books, name)
	}
	sort.Strings(books)

	var (
		quoted              int
		bestBook, worstBook string
		bestOdds, worstOdds int
		bestProb, worstProb float64
	)

	for _, name := range books {
		ml := game.Bookmakers[name].Moneyline
		odds := ml.Home
		if side == "away" {
			odds = ml.Away
		}
		if odds == 0 {
			continue
		}

		prob, err := oddsmath.AmericanToImpliedProbability(odds)
		if err != nil {
			continue
		}

		// Lower implied probability = better price for the bettor.
		if quoted == 0 || prob < bestProb {
			bestBook, bestOdds, bestProb = name, odds, prob
		}
		if quoted == 0 || prob > worstProb {
			worstBook, worstOdds, worstProb = name, odds, prob
		}
		quoted++
	}

	if quoted < 2 || bestBook == worstBook {
		return models.Comparison{}, false
	}

	selection := game.HomeTeam
	if side == "away" {
		selection = game.AwayTeam
	}

	// Fair quote at the midpoint of the best and worst implied probability.
	fairOdds := 0
	if fairProb := (bestProb + worstProb) / 2.0; fairProb > 0 && fairProb < 1 {
		if odds, err := oddsmath.DecimalToAmerican(1.0 / fairProb); err == nil {
			fairOdds = odds
		}
	}

	return models.Comparison{
		GameID:    game.ID,
		Matchup:   game.Matchup(),
		Market:    "moneyline",
		Selection: selection,
		BestBook:  bestBook,
		BestOdds:  bestOdds,
		WorstBook: worstBook,
		WorstOdds: worstOdds,
		FairOdds:  fairOdds,
		EdgePct:   (worstProb - bestProb) * 100.0,
		Timestamp: now,
	}, true
}
