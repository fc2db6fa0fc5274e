// Package store holds the persistence layers behind the engine: the
// tracked-entities store the aggregator reads, and the saved-parlay store
// the UI persists slips into. Both sit behind small interfaces with
// in-memory implementations for tests and zero-config runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

// TrackedStore provides access to the user's followed players and teams.
type TrackedStore interface {
	TrackedEntities(ctx context.Context) (models.TrackedEntities, error)
	TrackTeam(ctx context.Context, team models.TrackedTeam) error
	TrackPlayer(ctx context.Context, player models.TrackedPlayer) error
	UntrackTeam(ctx context.Context, name string) error
	UntrackPlayer(ctx context.Context, name string) error
	Ping(ctx context.Context) error
	Close() error
}

// PostgresTrackedStore implements TrackedStore on Postgres.
type PostgresTrackedStore struct {
	db *sql.DB
}

// NewPostgresTrackedStore opens the tracked-entities database.
func NewPostgresTrackedStore(dsn string) (*PostgresTrackedStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresTrackedStore{db: db}, nil
}

// TrackedEntities loads all followed players and teams.
func (s *PostgresTrackedStore) TrackedEntities(ctx context.Context) (models.TrackedEntities, error) {
	var entities models.TrackedEntities

	playerRows, err := s.db.QueryContext(ctx, `
		SELECT name, team, sport, priority
		FROM tracked_players
		ORDER BY priority, name
	`)
	if err != nil {
		return entities, fmt.Errorf("querying tracked players: %w", err)
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var p models.TrackedPlayer
		if err := playerRows.Scan(&p.Name, &p.Team, &p.Sport, &p.Priority); err != nil {
			return entities, fmt.Errorf("scanning tracked player: %w", err)
		}
		entities.Players = append(entities.Players, p)
	}
	if err := playerRows.Err(); err != nil {
		return entities, fmt.Errorf("iterating tracked players: %w", err)
	}

	teamRows, err := s.db.QueryContext(ctx, `
		SELECT name, sport, priority
		FROM tracked_teams
		ORDER BY priority, name
	`)
	if err != nil {
		return entities, fmt.Errorf("querying tracked teams: %w", err)
	}
	defer teamRows.Close()

	for teamRows.Next() {
		var t models.TrackedTeam
		if err := teamRows.Scan(&t.Name, &t.Sport, &t.Priority); err != nil {
			return entities, fmt.Errorf("scanning tracked team: %w", err)
		}
		entities.Teams = append(entities.Teams, t)
	}
	if err := teamRows.Err(); err != nil {
		return entities, fmt.Errorf("iterating tracked teams: %w", err)
	}

	return entities, nil
}

// TrackTeam upserts a followed team.
func (s *PostgresTrackedStore) TrackTeam(ctx context.Context, team models.TrackedTeam) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_teams (name, sport, priority)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET sport = $2, priority = $3
	`, team.Name, team.Sport, team.Priority)
	if err != nil {
		return fmt.Errorf("upserting tracked team: %w", err)
	}
	return nil
}

// TrackPlayer upserts a followed player.
func (s *PostgresTrackedStore) TrackPlayer(ctx context.Context, player models.TrackedPlayer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_players (name, team, sport, priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET team = $2, sport = $3, priority = $4
	`, player.Name, player.Team, player.Sport, player.Priority)
	if err != nil {
		return fmt.Errorf("upserting tracked player: %w", err)
	}
	return nil
}

// UntrackTeam removes a followed team.
func (s *PostgresTrackedStore) UntrackTeam(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tracked_teams WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting tracked team: %w", err)
	}
	return nil
}

// UntrackPlayer removes a followed player.
func (s *PostgresTrackedStore) UntrackPlayer(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tracked_players WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting tracked player: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresTrackedStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *PostgresTrackedStore) Close() error {
	return s.db.Close()
}
