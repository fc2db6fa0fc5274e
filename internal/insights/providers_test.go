package insights

import (
	"context"
	"testing"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/synth"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

type fakeGamesFeed struct {
	games []models.Game
	err   error
}

func (f *fakeGamesFeed) LiveGames(ctx context.Context) ([]models.Game, error) {
	return f.games, f.err
}

type fakePerformanceFeed struct {
	rows []models.PlayerPerformance
	err  error
}

func (f *fakePerformanceFeed) RecentPerformance(ctx context.Context) ([]models.PlayerPerformance, error) {
	return f.rows, f.err
}

type fakeTrackedSource struct {
	entities models.TrackedEntities
	err      error
}

func (f *fakeTrackedSource) TrackedEntities(ctx context.Context) (models.TrackedEntities, error) {
	return f.entities, f.err
}

var testNow = time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func TestLiveOddsProviderStartingSoonAlert(t *testing.T) {
	feed := &fakeGamesFeed{games: []models.Game{
		{
			ID:           "g1",
			HomeTeam:     "Lakers",
			AwayTeam:     "Celtics",
			SportKey:     "basketball_nba",
			CommenceTime: testNow.Add(90 * time.Minute),
		},
		{
			ID:           "g2",
			HomeTeam:     "Chiefs",
			AwayTeam:     "Bills",
			SportKey:     "americanfootball_nfl",
			CommenceTime: testNow.Add(6 * time.Hour),
		},
	}}

	p := NewLiveOddsProvider(feed, testClock)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 alert for the game inside the window, got %d", len(got))
	}
	alert := got[0]
	if alert.Type != models.InsightAlert {
		t.Errorf("type = %s, want alert", alert.Type)
	}
	if alert.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want medium", alert.Priority)
	}
	if !alert.ExpiresAt.Equal(testNow.Add(90 * time.Minute)) {
		t.Errorf("alert must expire at game start, got %v", alert.ExpiresAt)
	}
	if alert.Category != "NBA" {
		t.Errorf("category = %q, want NBA", alert.Category)
	}
}

func TestLiveOddsProviderHeavySpread(t *testing.T) {
	feed := &fakeGamesFeed{games: []models.Game{
		{
			ID:           "g1",
			HomeTeam:     "Lakers",
			AwayTeam:     "Wizards",
			SportKey:     "basketball_nba",
			CommenceTime: testNow.Add(8 * time.Hour),
			Bookmakers: map[string]models.BookOdds{
				"draftkings": {Spread: models.SpreadMarket{Line: -12.5, Home: -110, Away: -110}},
				"fanduel":    {Spread: models.SpreadMarket{Line: -12.0, Home: -108, Away: -112}},
			},
		},
	}}

	p := NewLiveOddsProvider(feed, testClock)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected exactly 1 heavy-line insight per game, got %d", len(got))
	}
	if got[0].Type != models.InsightOpportunity || got[0].Priority != models.PriorityHigh {
		t.Errorf("heavy-line insight = %s/%s, want opportunity/high", got[0].Type, got[0].Priority)
	}
}

func TestMarketProviderBigMoves(t *testing.T) {
	games := []models.Game{
		{ID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics", SportKey: "basketball_nba"},
		{ID: "g2", HomeTeam: "Chiefs", AwayTeam: "Bills", SportKey: "americanfootball_nfl"},
		{ID: "g3", HomeTeam: "Yankees", AwayTeam: "Astros", SportKey: "baseball_mlb"},
	}
	feed := &fakeGamesFeed{games: games}
	s := synth.NewWithClock(time.Hour, testClock)

	p := NewMarketProvider(feed, s, testClock, 0)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The exact set depends on the seeded metrics; verify every emitted
	// insight honors its own heuristic instead of pinning counts.
	metrics := s.MarketMetrics(games)
	bigMoves := 0
	for _, m := range metrics.LineMovements {
		if m.Movement >= bigMovePoints || m.Movement <= -bigMovePoints {
			bigMoves++
		}
	}
	sharp := 0
	if metrics.SharpMoneyPercentage > sharpMoneyThreshold {
		sharp = 1
	}
	if len(got) != bigMoves+sharp {
		t.Errorf("got %d insights, want %d (big moves) + %d (sharp)", len(got), bigMoves, sharp)
	}
	for _, ins := range got {
		if ins.DataSource != synth.DataSourceSynthesized {
			t.Errorf("market insight DataSource = %q, want %q", ins.DataSource, synth.DataSourceSynthesized)
		}
	}
}

func TestProviderExpiryTracksConfiguredTTL(t *testing.T) {
	feed := &fakePerformanceFeed{rows: []models.PlayerPerformance{
		{PlayerName: "Luka Doncic", Team: "DAL", Stat: "points", SeasonAvg: 30.0, Last5Avg: 36.0},
	}}

	ttl := 45 * time.Second
	p := NewPerformanceProvider(feed, testClock, ttl)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(got))
	}
	if want := testNow.Add(ttl); !got[0].ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v (now + configured ttl)", got[0].ExpiresAt, want)
	}
}

func TestPerformanceProviderDeviation(t *testing.T) {
	feed := &fakePerformanceFeed{rows: []models.PlayerPerformance{
		{PlayerName: "Luka Doncic", Team: "DAL", Stat: "points", SeasonAvg: 30.0, Last5Avg: 36.0}, // +20%
		{PlayerName: "Joel Embiid", Team: "PHI", Stat: "points", SeasonAvg: 32.0, Last5Avg: 26.0}, // -18.75%
		{PlayerName: "Steady Vet", Team: "MIA", Stat: "points", SeasonAvg: 20.0, Last5Avg: 21.0},  // +5%, below threshold
		{PlayerName: "No Season", Team: "NYK", Stat: "points", SeasonAvg: 0, Last5Avg: 12.0},      // skipped
	}}

	p := NewPerformanceProvider(feed, testClock, 0)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got))
	}

	byPlayer := map[string]models.Insight{}
	for _, ins := range got {
		if ins.Type != models.InsightRecommendation {
			t.Errorf("type = %s, want recommendation", ins.Type)
		}
		switch {
		case ins.Title == "Luka Doncic trending above season form":
			byPlayer["luka"] = ins
		case ins.Title == "Joel Embiid trending below season form":
			byPlayer["embiid"] = ins
		}
	}

	if byPlayer["luka"].Impact != models.ImpactPositive {
		t.Errorf("improving player impact = %s, want positive", byPlayer["luka"].Impact)
	}
	if byPlayer["embiid"].Impact != models.ImpactNegative {
		t.Errorf("declining player impact = %s, want negative", byPlayer["embiid"].Impact)
	}
}

func TestTrackedProviderMatchesSlate(t *testing.T) {
	tracked := &fakeTrackedSource{entities: models.TrackedEntities{
		Teams: []models.TrackedTeam{
			{Name: "Lakers", Sport: "basketball", Priority: "high"},
			{Name: "Knicks", Sport: "basketball", Priority: "low"},
		},
	}}
	feed := &fakeGamesFeed{games: []models.Game{
		{ID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics", SportKey: "basketball_nba", CommenceTime: testNow.Add(4 * time.Hour)},
	}}

	p := NewTrackedProvider(tracked, feed, testClock)
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 insight for the tracked team on the slate, got %d", len(got))
	}
	if got[0].Priority != models.PriorityMedium {
		t.Errorf("high-priority tracked team should yield medium insight priority, got %s", got[0].Priority)
	}
}

func TestCategoryForSport(t *testing.T) {
	tests := []struct {
		sportKey string
		want     string
	}{
		{"basketball_nba", "NBA"},
		{"americanfootball_nfl", "NFL"},
		{"baseball_mlb", "MLB"},
		{"soccer", "SOCCER"},
	}

	for _, tt := range tests {
		if got := categoryForSport(tt.sportKey); got != tt.want {
			t.Errorf("categoryForSport(%q) = %q, want %q", tt.sportKey, got, tt.want)
		}
	}
}
