// Package httptransport assembles the HTTP surface: middleware chain,
// public endpoints, and the authenticated v1 API. Business logic stays in
// the feature packages; this layer only wires them to routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ethos/internal/identity"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/platform/middleware/metadata"
	"ethos/pkg/platform/middleware/requestid"
	"ethos/pkg/platform/middleware/requesttime"
)

// Registrar mounts a feature's endpoints on a router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports component readiness, keyed by component name.
type HealthChecker func() map[string]string

// NewRouter wires the middleware chain and all endpoints.
func NewRouter(validator identity.TokenValidator, logger *slog.Logger, health HealthChecker, apis ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth(health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(identity.RequireAuth(validator, logger))
		for _, api := range apis {
			api.Register(r)
		}
	})

	return r
}

func handleHealth(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]string{}
		if health != nil {
			components = health()
		}

		status := http.StatusOK
		for _, state := range components {
			if state != "ok" {
				status = http.StatusServiceUnavailable
				break
			}
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":     http.StatusText(status),
			"components": components,
		})
	}
}
