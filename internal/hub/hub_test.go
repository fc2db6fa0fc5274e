package hub

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/models"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestClient() *Client {
	return &Client{ID: "test", send: make(chan InsightUpdate, sendBufferSize)}
}

func TestBroadcastReachesRegisteredClient(t *testing.T) {
	h := New(testLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient()
	h.Register(c)

	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.BroadcastInsights([]models.Insight{{ID: "i1", Priority: models.PriorityHigh}})

	select {
	case update := <-c.send:
		if update.Type != "insights_refresh" {
			t.Errorf("update type = %q", update.Type)
		}
		if len(update.Insights) != 1 || update.Insights[0].ID != "i1" {
			t.Errorf("unexpected payload: %+v", update.Insights)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	h := New(testLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient()
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestSlowClientDoesNotBlockBroadcast(t *testing.T) {
	h := New(testLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := newTestClient()
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	// Overfill the client's buffer; extra updates must be dropped, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*3; i++ {
			h.BroadcastInsights([]models.Insight{{ID: "x"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
