package identity

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/requestcontext"
)

const testSigningKey = "test-signing-key-0123456789abcdef"

func testUID(t *testing.T) id.UserID {
	t.Helper()
	uid, err := id.ParseUserID("6f1c2b6e-3c55-4f0e-9a6d-0d3f2c9b7a11")
	require.NoError(t, err)
	return uid
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(testSigningKey, "ethos")
	uid := testUID(t)

	token, err := svc.GenerateToken(uid, "marcus@ethos.dev", "Marcus", time.Hour)
	require.NoError(t, err)

	session, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uid, session.UID)
	assert.Equal(t, "marcus@ethos.dev", session.Email)
	assert.Equal(t, "Marcus", session.DisplayName)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(testSigningKey, "ethos")

	token, err := svc.GenerateToken(testUID(t), "marcus@ethos.dev", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := NewJWTService(testSigningKey, "ethos")
	verifier := NewJWTService("a-different-signing-key", "ethos")

	token, err := issuer.GenerateToken(testUID(t), "marcus@ethos.dev", "", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(testSigningKey, "ethos")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeUnauthorized))
}

func TestRequireAuthBindsSessionToContext(t *testing.T) {
	svc := NewJWTService(testSigningKey, "ethos")
	uid := testUID(t)
	token, err := svc.GenerateToken(uid, "marcus@ethos.dev", "Marcus", time.Hour)
	require.NoError(t, err)

	var gotUID id.UserID
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = requestcontext.UserID(r.Context())
		gotEmail = requestcontext.Email(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RequireAuth(svc, logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uid, gotUID)
	assert.Equal(t, "marcus@ethos.dev", gotEmail)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	svc := NewJWTService(testSigningKey, "ethos")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})
	handler := RequireAuth(svc, logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
