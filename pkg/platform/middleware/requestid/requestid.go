// Package requestid assigns every request an id for log correlation. An id
// supplied by the caller is kept so traces can span services.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"ethos/pkg/requestcontext"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

// Middleware stores the request id in the context and echoes it on the
// response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
