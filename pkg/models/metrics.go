package models

// PublicFavorite is a game the public is piling onto, with the synthesized
// share of tickets on the favored side.
type PublicFavorite struct {
	GameID     string  `json:"game_id"`
	Matchup    string  `json:"matchup"`
	Team       string  `json:"team"`
	TicketsPct float64 `json:"tickets_pct"`
}

// LineMovement is the synthesized movement of a game's spread since open.
type LineMovement struct {
	GameID    string  `json:"game_id"`
	Matchup   string  `json:"matchup"`
	Movement  float64 `json:"movement"` // points, negative = toward home side
	Direction string  `json:"direction"`
}

// HotStreak is a team on a synthesized win or cover streak.
type HotStreak struct {
	Team       string `json:"team"`
	StreakType string `json:"streak_type"` // "win" or "cover"
	Length     int    `json:"length"`
}

// MarketTrends summarizes market-wide betting activity.
type MarketTrends struct {
	TotalBetsToday          int      `json:"total_bets_today"`
	SharpVsPublicDivergence float64  `json:"sharp_vs_public_divergence"`
	AverageLineMovement     float64  `json:"average_line_movement"`
	MostBetGames            []string `json:"most_bet_games"`
}

// MarketMetrics is the full derived market-intelligence snapshot. Every field
// is computed; the struct has no identity beyond the cache key it sits under.
type MarketMetrics struct {
	TotalVolume          int64            `json:"total_volume"`
	SharpMoneyPercentage float64          `json:"sharp_money_percentage"`
	PublicFavorites      []PublicFavorite `json:"public_favorites"`
	LineMovements        []LineMovement   `json:"line_movements"`
	HotStreaks           []HotStreak      `json:"hot_streaks"`
	MarketTrends         MarketTrends     `json:"market_trends"`
	DataSource           string           `json:"data_source"`
}
