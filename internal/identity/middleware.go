package identity

import (
	"log/slog"
	"net/http"
	"strings"

	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// TokenValidator is the seam the middleware needs from the JWT service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Session, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved account on the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing bearer token",
					"request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			session, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx))
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithUserID(ctx, session.UID)
			ctx = requestcontext.WithEmail(ctx, session.Email)
			ctx = requestcontext.WithDisplayName(ctx, session.DisplayName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
