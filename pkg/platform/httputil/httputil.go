// Package httputil centralizes JSON encoding and domain error translation
// for the HTTP layer so handlers stay thin.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	derrors "ethos/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Internal and
// unclassified errors omit the description so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != derrors.CodeInternal && code != derrors.CodeUnavailable {
		if msg := derrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, statusFor(code), body)
}

func statusFor(code derrors.Code) int {
	switch code {
	case derrors.CodeBadRequest:
		return http.StatusBadRequest
	case derrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case derrors.CodeForbidden:
		return http.StatusForbidden
	case derrors.CodeNotFound:
		return http.StatusNotFound
	case derrors.CodeConflict, derrors.CodeInvariantViolation:
		return http.StatusConflict
	case derrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Decode parses the request body into T, logging and answering 400 on
// malformed JSON. The bool result reports whether the handler should
// continue.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.Warn("malformed request body", "request_id", requestID, "err", err)
		}
		WriteError(w, derrors.New(derrors.CodeBadRequest, "malformed JSON body"))
		return req, false
	}
	return req, true
}
