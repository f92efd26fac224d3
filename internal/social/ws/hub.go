package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"ethos/internal/social"
	"ethos/internal/social/metrics"
	"ethos/internal/userstate/store"
)

// LeaderboardSource is the slice of the remote store the hub reads.
type LeaderboardSource interface {
	LeaderboardTop(ctx context.Context, n int) ([]store.LeaderboardRow, error)
}

// FeedSource is the slice of the feed store the hub reads.
type FeedSource interface {
	Recent(ctx context.Context, n int) ([]social.FeedEvent, error)
}

// Frame is one push to a connected client.
type Frame struct {
	Type        string                 `json:"type"`
	Leaderboard []store.LeaderboardRow `json:"leaderboard"`
	Feed        []social.FeedEvent     `json:"feed"`
	At          time.Time              `json:"at"`
}

// Hub maintains the set of connected clients and pushes community frames on
// a fixed interval. New clients get the latest frame immediately.
type Hub struct {
	leaderboard LeaderboardSource
	feed        FeedSource
	logger      *slog.Logger
	metrics     *metrics.Metrics

	interval        time.Duration
	leaderboardSize int
	feedSize        int

	register   chan *Client
	unregister chan *Client
	refresh    chan *Client
	done       chan struct{}

	mu        sync.RWMutex
	clients   map[*Client]struct{}
	lastFrame []byte
}

// NewHub creates a hub over the materialized stores.
func NewHub(leaderboard LeaderboardSource, feed FeedSource, logger *slog.Logger, m *metrics.Metrics,
	interval time.Duration, leaderboardSize, feedSize int) *Hub {
	return &Hub{
		leaderboard:     leaderboard,
		feed:            feed,
		logger:          logger,
		metrics:         m,
		interval:        interval,
		leaderboardSize: leaderboardSize,
		feedSize:        feedSize,
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		refresh:         make(chan *Client, 16),
		done:            make(chan struct{}),
		clients:         make(map[*Client]struct{}),
	}
}

// Register attaches a client and immediately sends it the latest frame.
// After shutdown the client's send channel is closed instead, which
// terminates its write pump.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

// Unregister detaches a client. Safe to call more than once, including
// after the hub has shut down.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// RequestRefresh asks the hub to rebuild and resend the frame to one
// client. Dropped when the hub is saturated with refresh requests.
func (h *Hub) RequestRefresh(c *Client) {
	select {
	case h.refresh <- c:
	default:
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run drives the hub until the context is canceled. On exit every client's
// send channel is closed, which terminates its write pump.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return ctx.Err()

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			last := h.lastFrame
			h.mu.Unlock()
			h.metrics.ConnectedClients.Inc()
			if last != nil {
				client.Send(last)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if ok {
				h.metrics.ConnectedClients.Dec()
			}

		case client := <-h.refresh:
			if frame := h.buildFrame(ctx); frame != nil {
				client.Send(frame)
			}

		case <-ticker.C:
			h.broadcast(ctx)
		}
	}
}

func (h *Hub) broadcast(ctx context.Context) {
	if h.ClientCount() == 0 {
		return
	}
	frame := h.buildFrame(ctx)
	if frame == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.Send(frame) {
			h.metrics.BroadcastsDropped.Inc()
		}
	}
}

func (h *Hub) buildFrame(ctx context.Context) []byte {
	rows, err := h.leaderboard.LeaderboardTop(ctx, h.leaderboardSize)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard poll failed", "error", err)
		return nil
	}
	events, err := h.feed.Recent(ctx, h.feedSize)
	if err != nil {
		h.logger.WarnContext(ctx, "feed poll failed", "error", err)
		return nil
	}

	frame, err := json.Marshal(Frame{
		Type:        "community",
		Leaderboard: rows,
		Feed:        events,
		At:          time.Now().UTC(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "frame marshal failed", "error", err)
		return nil
	}

	h.mu.Lock()
	h.lastFrame = frame
	h.mu.Unlock()
	return frame
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
		h.metrics.ConnectedClients.Dec()
	}
}
