package models

import "time"

// InsightType classifies what kind of signal an insight carries.
type InsightType string

const (
	InsightTrend          InsightType = "trend"
	InsightOpportunity    InsightType = "opportunity"
	InsightAlert          InsightType = "alert"
	InsightRecommendation InsightType = "recommendation"
)

// Priority orders insights for display. High sorts before medium before low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort weight of a priority (higher sorts first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Impact marks whether the underlying signal is favorable for the bettor.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Insight is one derived signal surfaced to the dashboard. Insights are
// values: each aggregation cycle emits a fresh set, nothing updates in place.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Confidence  int         `json:"confidence"` // 0..100
	Category    string      `json:"category"`
	Timestamp   time.Time   `json:"timestamp"`
	Source      string      `json:"source"`
	Priority    Priority    `json:"priority"`
	Impact      Impact      `json:"impact"`
	DataSource  string      `json:"data_source"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// Comparison is a cross-bookmaker price comparison for one market of one game.
type Comparison struct {
	GameID    string    `json:"game_id"`
	Matchup   string    `json:"matchup"`
	Market    string    `json:"market"`
	Selection string    `json:"selection"`
	BestBook  string    `json:"best_book"`
	BestOdds  int       `json:"best_odds"`
	WorstBook string    `json:"worst_book"`
	WorstOdds int       `json:"worst_odds"`
	FairOdds  int       `json:"fair_odds"` // American quote at the midpoint implied probability
	EdgePct   float64   `json:"edge_pct"`  // implied-probability gap between worst and best price
	Timestamp time.Time `json:"timestamp"`
}
