package models

import "time"

// Game is a single upcoming or live game as delivered by the live-odds feed.
type Game struct {
	ID           string              `json:"id"`
	HomeTeam     string              `json:"home_team"`
	AwayTeam     string              `json:"away_team"`
	CommenceTime time.Time           `json:"commence_time"`
	SportKey     string              `json:"sport_key"`
	Bookmakers   map[string]BookOdds `json:"bookmakers"`
}

// BookOdds holds one bookmaker's prices for a game.
type BookOdds struct {
	Moneyline MoneylineMarket `json:"moneyline"`
	Spread    SpreadMarket    `json:"spread"`
	Total     TotalMarket     `json:"total"`
}

// MoneylineMarket is a two-way moneyline in American odds.
type MoneylineMarket struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// SpreadMarket is a point spread with American prices on each side.
type SpreadMarket struct {
	Line float64 `json:"line"`
	Home int     `json:"home"`
	Away int     `json:"away"`
}

// TotalMarket is an over/under with American prices on each side.
type TotalMarket struct {
	Line  float64 `json:"line"`
	Over  int     `json:"over"`
	Under int     `json:"under"`
}

// Matchup returns the display string used as the game's stable identifier
// in derived-metric synthesis.
func (g Game) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// TrackedPlayer is a player the user follows.
type TrackedPlayer struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Sport    string `json:"sport"`
	Priority string `json:"priority"`
}

// TrackedTeam is a team the user follows.
type TrackedTeam struct {
	Name     string `json:"name"`
	Sport    string `json:"sport"`
	Priority string `json:"priority"`
}

// TrackedEntities is the full set of user-followed players and teams.
type TrackedEntities struct {
	Players []TrackedPlayer `json:"players"`
	Teams   []TrackedTeam   `json:"teams"`
}

// PlayerPerformance is one row from the player-performance feed.
type PlayerPerformance struct {
	PlayerName string  `json:"playerName"`
	Team       string  `json:"team"`
	Stat       string  `json:"stat"`
	SeasonAvg  float64 `json:"seasonAvg"`
	Last5Avg   float64 `json:"last5Avg"`
}
