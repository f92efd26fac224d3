package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethos/internal/identity"
	id "ethos/pkg/domain"
	"ethos/pkg/platform/middleware/requestid"
)

type echoAPI struct{}

func (echoAPI) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestRouter(health HealthChecker) (http.Handler, *identity.JWTService) {
	svc := identity.NewJWTService("test-signing-key-0123456789abcdef", "ethos")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(svc, logger, health, echoAPI{}), svc
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(func() map[string]string {
		return map[string]string{"postgres": "ok", "redis": "ok"}
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Components["postgres"])
}

func TestHealthReportsDegradedComponents(t *testing.T) {
	router, _ := newTestRouter(func() map[string]string {
		return map[string]string{"postgres": "unreachable"}
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestV1RequiresBearerToken(t *testing.T) {
	router, _ := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestV1AcceptsValidToken(t *testing.T) {
	router, svc := newTestRouter(nil)

	uid, err := id.ParseUserID("6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11")
	require.NoError(t, err)
	token, err := svc.GenerateToken(uid, "marcus@ethos.dev", "Marcus", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	router, _ := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestid.Header, "trace-me")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "trace-me", rec.Header().Get(requestid.Header))
}
