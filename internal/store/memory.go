package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

// MemoryTrackedStore is an in-memory TrackedStore for tests and
// zero-configuration runs.
type MemoryTrackedStore struct {
	mu      sync.RWMutex
	players map[string]models.TrackedPlayer
	teams   map[string]models.TrackedTeam
}

// NewMemoryTrackedStore creates an empty in-memory tracked store.
func NewMemoryTrackedStore() *MemoryTrackedStore {
	return &MemoryTrackedStore{
		players: make(map[string]models.TrackedPlayer),
		teams:   make(map[string]models.TrackedTeam),
	}
}

// TrackedEntities returns all followed players and teams, sorted by name.
func (s *MemoryTrackedStore) TrackedEntities(ctx context.Context) (models.TrackedEntities, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entities models.TrackedEntities
	for _, p := range s.players {
		entities.Players = append(entities.Players, p)
	}
	for _, t := range s.teams {
		entities.Teams = append(entities.Teams, t)
	}
	sort.Slice(entities.Players, func(i, j int) bool { return entities.Players[i].Name < entities.Players[j].Name })
	sort.Slice(entities.Teams, func(i, j int) bool { return entities.Teams[i].Name < entities.Teams[j].Name })

	return entities, nil
}

// TrackTeam upserts a followed team.
func (s *MemoryTrackedStore) TrackTeam(ctx context.Context, team models.TrackedTeam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.Name] = team
	return nil
}

// TrackPlayer upserts a followed player.
func (s *MemoryTrackedStore) TrackPlayer(ctx context.Context, player models.TrackedPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.Name] = player
	return nil
}

// UntrackTeam removes a followed team.
func (s *MemoryTrackedStore) UntrackTeam(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.teams, name)
	return nil
}

// UntrackPlayer removes a followed player.
func (s *MemoryTrackedStore) UntrackPlayer(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, name)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryTrackedStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *MemoryTrackedStore) Close() error { return nil }

// MemoryParlayStore is an in-memory ParlayStore.
type MemoryParlayStore struct {
	mu      sync.RWMutex
	parlays map[string]SavedParlay
}

// NewMemoryParlayStore creates an empty in-memory parlay store.
func NewMemoryParlayStore() *MemoryParlayStore {
	return &MemoryParlayStore{parlays: make(map[string]SavedParlay)}
}

// Save stores a parlay slip.
func (s *MemoryParlayStore) Save(ctx context.Context, p SavedParlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parlays[p.ID] = p
	return nil
}

// Get loads one saved parlay by ID.
func (s *MemoryParlayStore) Get(ctx context.Context, id string) (SavedParlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parlays[id]
	if !ok {
		return SavedParlay{}, ErrParlayNotFound
	}
	return p, nil
}

// List loads all saved parlays, newest first.
func (s *MemoryParlayStore) List(ctx context.Context) ([]SavedParlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SavedParlay, 0, len(s.parlays))
	for _, p := range s.parlays {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Delete removes a saved parlay.
func (s *MemoryParlayStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parlays, id)
	return nil
}
