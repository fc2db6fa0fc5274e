// Package handlers is the thin JSON surface over the engine. Every failure
// from the core arrives pre-degraded, so most handlers only shape output;
// the parlay endpoints are where client input gets validated.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tzsmit/nova-titan-widget-sub003/internal/parlay"
	"github.com/tzsmit/nova-titan-widget-sub003/internal/store"
	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

// Engine is the analytics core the handlers expose.
type Engine interface {
	GetMarketIntelligence(ctx context.Context) models.MarketMetrics
	GetLiveInsights(ctx context.Context, category string) []models.Insight
	GetQuickComparisons(ctx context.Context) []models.Comparison
}

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	engine  Engine
	parlays store.ParlayStore
	tracked store.TrackedStore
}

// NewHandler creates a handler with its dependencies.
func NewHandler(engine Engine, parlays store.ParlayStore, tracked store.TrackedStore) *Handler {
	return &Handler{
		engine:  engine,
		parlays: parlays,
		tracked: tracked,
	}
}

// Routes mounts all engine routes on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/market-intelligence", h.GetMarketIntelligence)
		r.Get("/insights", h.GetInsights)
		r.Get("/comparisons", h.GetComparisons)

		r.Post("/parlay/calculate", h.CalculateParlay)

		r.Get("/parlays", h.ListParlays)
		r.Post("/parlays", h.SaveParlay)
		r.Get("/parlays/{parlayID}", h.GetParlay)
		r.Delete("/parlays/{parlayID}", h.DeleteParlay)

		r.Get("/tracked", h.GetTracked)
		r.Post("/tracked/teams", h.TrackTeam)
		r.Delete("/tracked/teams/{name}", h.UntrackTeam)
		r.Post("/tracked/players", h.TrackPlayer)
		r.Delete("/tracked/players/{name}", h.UntrackPlayer)
	})
}

// HealthCheck returns service health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	if err := h.tracked.Ping(ctx); err != nil {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"service":   "analytics-engine",
		"timestamp": time.Now().UTC(),
	})
}

// GetMarketIntelligence returns the current market snapshot.
func (h *Handler) GetMarketIntelligence(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	respondJSON(w, http.StatusOK, h.engine.GetMarketIntelligence(ctx))
}

// GetInsights returns the ranked insight list. Query param: category.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	insights := h.engine.GetLiveInsights(ctx, category)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}

// GetComparisons returns the current cross-book price comparisons.
func (h *Handler) GetComparisons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	comparisons := h.engine.GetQuickComparisons(ctx)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comparisons": comparisons,
		"count":       len(comparisons),
	})
}

// ParlayRequest is the payload for parlay calculation and saving.
type ParlayRequest struct {
	Name  string       `json:"name,omitempty"`
	Legs  []parlay.Leg `json:"legs"`
	Stake float64      `json:"stake"`
}

// CalculateParlay computes parlay arithmetic for the submitted legs and stake.
func (h *Handler) CalculateParlay(w http.ResponseWriter, r *http.Request) {
	var req ParlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	state, err := buildParlay(req)
	if err != nil {
		respondParlayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// SaveParlay validates and persists a parlay slip.
func (h *Handler) SaveParlay(w http.ResponseWriter, r *http.Request) {
	var req ParlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	state, err := buildParlay(req)
	if err != nil {
		respondParlayError(w, err)
		return
	}

	saved := store.SavedParlay{
		ID:      uuid.NewString(),
		Name:    req.Name,
		State:   state,
		SavedAt: time.Now().UTC(),
	}
	if err := h.parlays.Save(r.Context(), saved); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save parlay")
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

// buildParlay runs the submitted legs through the mutator so the duplicate
// rule applies, then returns the computed state.
func buildParlay(req ParlayRequest) (parlay.State, error) {
	p, err := parlay.New(req.Stake)
	if err != nil {
		return parlay.State{}, err
	}
	for _, leg := range req.Legs {
		if err := p.AddLeg(leg); err != nil {
			return parlay.State{}, err
		}
	}
	return p.State(), nil
}

func respondParlayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, parlay.ErrDuplicateLeg):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, parlay.ErrInvalidOdds), errors.Is(err, parlay.ErrInvalidStake):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}

// ListParlays returns all saved parlay slips.
func (h *Handler) ListParlays(w http.ResponseWriter, r *http.Request) {
	parlays, err := h.parlays.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list parlays")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"parlays": parlays,
		"count":   len(parlays),
	})
}

// GetParlay returns one saved parlay by ID.
func (h *Handler) GetParlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "parlayID")

	saved, err := h.parlays.Get(r.Context(), id)
	if errors.Is(err, store.ErrParlayNotFound) {
		respondError(w, http.StatusNotFound, "parlay not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load parlay")
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

// DeleteParlay removes a saved parlay.
func (h *Handler) DeleteParlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "parlayID")

	if err := h.parlays.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete parlay")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// GetTracked returns the user's followed players and teams.
func (h *Handler) GetTracked(w http.ResponseWriter, r *http.Request) {
	entities, err := h.tracked.TrackedEntities(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tracked entities")
		return
	}

	respondJSON(w, http.StatusOK, entities)
}

// TrackTeam adds a team to the tracked set.
func (h *Handler) TrackTeam(w http.ResponseWriter, r *http.Request) {
	var team models.TrackedTeam
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if team.Name == "" {
		respondError(w, http.StatusBadRequest, "team name is required")
		return
	}

	if err := h.tracked.TrackTeam(r.Context(), team); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to track team")
		return
	}

	respondJSON(w, http.StatusCreated, team)
}

// UntrackTeam removes a team from the tracked set.
func (h *Handler) UntrackTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.tracked.UntrackTeam(r.Context(), name); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to untrack team")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"untracked": name})
}

// TrackPlayer adds a player to the tracked set.
func (h *Handler) TrackPlayer(w http.ResponseWriter, r *http.Request) {
	var player models.TrackedPlayer
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if player.Name == "" {
		respondError(w, http.StatusBadRequest, "player name is required")
		return
	}

	if err := h.tracked.TrackPlayer(r.Context(), player); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to track player")
		return
	}

	respondJSON(w, http.StatusCreated, player)
}

// UntrackPlayer removes a player from the tracked set.
func (h *Handler) UntrackPlayer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.tracked.UntrackPlayer(r.Context(), name); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to untrack player")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"untracked": name})
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
