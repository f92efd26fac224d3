// Package handler exposes the account state API. Every endpoint operates on
// the signed-in account resolved from the bearer token; state mutations all
// funnel through the session controller's apply cycle.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ethos/internal/reconcile"
	"ethos/internal/session"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// Sessions is what the handler needs from the session manager.
type Sessions interface {
	SignIn(ctx context.Context, ident reconcile.Identity) (*session.Session, error)
	Get(uid id.UserID) (*session.Session, error)
	SignOut(ctx context.Context, uid id.UserID)
}

// Handler wires the account state endpoints to the session manager.
type Handler struct {
	sessions Sessions
	logger   *slog.Logger
}

// New constructs a session handler with its dependencies.
func New(sessions Sessions, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// Register mounts the account state endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/session", h.HandleSignIn)
	r.Delete("/session", h.HandleSignOut)

	r.Get("/state", h.HandleGetState)
	r.Post("/onboarding", h.HandleOnboarding)

	r.Put("/habits", h.HandleReplaceHabits)
	r.Post("/habits", h.HandleAddHabit)
	r.Patch("/habits/{habitID}", h.HandleUpdateHabit)
	r.Delete("/habits/{habitID}", h.HandleRemoveHabit)

	r.Put("/critical-path/{slot}", h.HandleSetCriticalTask)
	r.Delete("/critical-path/{slot}", h.HandleClearCriticalTask)

	r.Post("/trackers/water", h.HandleAddWater)
	r.Put("/trackers/sleep", h.HandleSetSleep)
	r.Put("/trackers/weight", h.HandleSetWeight)
	r.Put("/trackers/steps", h.HandleSetSteps)
	r.Post("/trackers/focus", h.HandleAddFocusSession)

	r.Post("/steps/tracking/start", h.HandleStartTracking)
	r.Post("/steps/tracking/stop", h.HandleStopTracking)
	r.Post("/steps/samples", h.HandleMotionSamples)

	r.Post("/promise/seal", h.HandleSealPromise)

	r.Put("/settings", h.HandleUpdateSettings)

	r.Get("/export", h.HandleExport)
	r.Post("/import", h.HandleImport)
	r.Delete("/data", h.HandleDeleteData)
}

// resolve returns the controller for the authenticated account.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	uid := requestcontext.UserID(r.Context())
	if uid.IsNil() {
		httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	sess, err := h.sessions.Get(uid)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}

// HandleSignIn handles POST /session requests. The identity comes from the
// verified token, never from the body.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ident := reconcile.Identity{
		UID:         requestcontext.UserID(ctx),
		Email:       requestcontext.Email(ctx),
		DisplayName: requestcontext.DisplayName(ctx),
	}
	sess, err := h.sessions.SignIn(ctx, ident)
	if err != nil {
		h.logger.ErrorContext(ctx, "sign-in failed",
			"request_id", requestID,
			"user_id", ident.UID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "signed in",
		"request_id", requestID,
		"user_id", ident.UID,
	)
	httputil.WriteJSON(w, http.StatusOK, sess.State())
}

// HandleSignOut handles DELETE /session requests.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := requestcontext.UserID(ctx)
	if uid.IsNil() {
		httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "authentication required"))
		return
	}
	h.sessions.SignOut(ctx, uid)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetState handles GET /state requests.
func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.State())
}

// HandleOnboarding handles POST /onboarding requests.
func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[OnboardingRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.CompleteOnboarding(ctx, req.Identity, req.DomainHabits())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleSealPromise handles POST /promise/seal requests.
func (h *Handler) HandleSealPromise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SealPromiseRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res, err := sess.SealDailyPromise(ctx, req.Promise)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "daily promise sealed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"day", res.Day,
		"xp_gain", res.XPGain,
		"streak", res.Streak,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}
