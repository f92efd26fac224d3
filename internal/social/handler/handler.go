package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"ethos/internal/social/ws"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// Handler wires the community endpoints to the materialized stores and the
// websocket hub.
type Handler struct {
	leaderboard ws.LeaderboardSource
	feed        ws.FeedSource
	hub         *ws.Hub
	logger      *slog.Logger

	leaderboardSize int
	feedSize        int

	upgrader websocket.Upgrader
}

// New constructs a community handler with its dependencies.
func New(leaderboard ws.LeaderboardSource, feed ws.FeedSource, hub *ws.Hub, logger *slog.Logger,
	leaderboardSize, feedSize int) *Handler {
	return &Handler{
		leaderboard:     leaderboard,
		feed:            feed,
		hub:             hub,
		logger:          logger,
		leaderboardSize: leaderboardSize,
		feedSize:        feedSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Register mounts the community endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/community/leaderboard", h.HandleLeaderboard)
	r.Get("/community/feed", h.HandleFeed)
	r.Get("/community/ws", h.HandleWS)
}

// HandleLeaderboard handles GET /community/leaderboard requests.
func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.leaderboard.LeaderboardTop(ctx, h.leaderboardSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard query failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, derrors.Wrap(err, derrors.CodeUnavailable, "leaderboard unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}

// HandleFeed handles GET /community/feed requests.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.feed.Recent(ctx, h.feedSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "feed query failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, derrors.Wrap(err, derrors.CodeUnavailable, "feed unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"feed": events})
}

// HandleWS handles GET /community/ws upgrade requests.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid := requestcontext.UserID(ctx)
	if uid == (id.UserID{}) {
		httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "authentication required"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response.
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}

	client := ws.NewClient(h.hub, conn, uid)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}
