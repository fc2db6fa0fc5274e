package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/parlay"
)

// ErrParlayNotFound is returned when a saved parlay does not exist.
var ErrParlayNotFound = errors.New("parlay not found")

// SavedParlay is a persisted parlay slip.
type SavedParlay struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	State   parlay.State `json:"state"`
	SavedAt time.Time    `json:"saved_at"`
}

// ParlayStore persists parlay slips behind a minimal key-value contract.
type ParlayStore interface {
	Save(ctx context.Context, p SavedParlay) error
	Get(ctx context.Context, id string) (SavedParlay, error)
	List(ctx context.Context) ([]SavedParlay, error)
	Delete(ctx context.Context, id string) error
}

// RedisParlayStore implements ParlayStore on Redis with JSON values.
type RedisParlayStore struct {
	client *redis.Client
}

// NewRedisParlayStore creates a Redis-backed parlay store.
func NewRedisParlayStore(client *redis.Client) *RedisParlayStore {
	return &RedisParlayStore{client: client}
}

func parlayKey(id string) string {
	return fmt.Sprintf("parlay:%s", id)
}

const parlayIndexKey = "parlays:index"

// Save stores a parlay slip and indexes it for listing.
func (s *RedisParlayStore) Save(ctx context.Context, p SavedParlay) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling parlay: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, parlayKey(p.ID), data, 0)
	pipe.SAdd(ctx, parlayIndexKey, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing parlay: %w", err)
	}
	return nil
}

// Get loads one saved parlay by ID.
func (s *RedisParlayStore) Get(ctx context.Context, id string) (SavedParlay, error) {
	data, err := s.client.Get(ctx, parlayKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return SavedParlay{}, ErrParlayNotFound
	}
	if err != nil {
		return SavedParlay{}, fmt.Errorf("loading parlay: %w", err)
	}

	var p SavedParlay
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return SavedParlay{}, fmt.Errorf("unmarshaling parlay: %w", err)
	}
	return p, nil
}

// List loads all saved parlays.
func (s *RedisParlayStore) List(ctx context.Context) ([]SavedParlay, error) {
	ids, err := s.client.SMembers(ctx, parlayIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing parlays: %w", err)
	}

	parlays := make([]SavedParlay, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if errors.Is(err, ErrParlayNotFound) {
			// Index entry outlived the value; drop it.
			s.client.SRem(ctx, parlayIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		parlays = append(parlays, p)
	}
	return parlays, nil
}

// Delete removes a saved parlay.
func (s *RedisParlayStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, parlayKey(id))
	pipe.SRem(ctx, parlayIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting parlay: %w", err)
	}
	return nil
}
