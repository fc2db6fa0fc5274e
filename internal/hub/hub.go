// Package hub pushes freshly aggregated insights to connected websocket
// clients. Clients are read-only subscribers; a slow client drops messages
// rather than blocking the broadcast.
package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

const broadcastBuffer = 64

// InsightUpdate is the message pushed to websocket clients on each refresh.
type InsightUpdate struct {
	Type      string           `json:"type"`
	Insights  []models.Insight `json:"insights"`
	Timestamp time.Time        `json:"timestamp"`
}

// Hub maintains the set of active clients and fans insight updates out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	broadcast  chan InsightUpdate
	register   chan *Client
	unregister chan *Client

	logger *slog.Logger
}

// New creates a hub.
func New(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan InsightUpdate, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With("component", "hub"),
	}
}

// Run drives the hub loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("client connected", "client", c.ID, "total", h.ClientCount())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("client disconnected", "client", c.ID, "total", h.ClientCount())

		case update := <-h.broadcast:
			h.fanOut(update)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// BroadcastInsights queues an insight refresh for delivery to all clients.
// Implements engine.InsightNotifier.
func (h *Hub) BroadcastInsights(insights []models.Insight) {
	update := InsightUpdate{
		Type:      "insights_refresh",
		Insights:  insights,
		Timestamp: time.Now().UTC(),
	}
	select {
	case h.broadcast <- update:
	default:
		h.logger.Warn("broadcast buffer full, dropping update")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanOut(update InsightUpdate) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- update:
		default:
			// Client buffer full; it misses this refresh.
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.logger.Info("hub stopped")
}
