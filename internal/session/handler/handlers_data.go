package handler

import (
	"io"
	"net/http"

	"ethos/internal/userstate"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// maxImportSize caps import payloads at 1 MiB; a full state is a few KiB.
const maxImportSize = 1 << 20

// HandleUpdateSettings handles PUT /settings requests.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[UpdateSettingsRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		if req.Theme != nil {
			st.Theme = *req.Theme
		}
		if req.AccentColor != nil {
			st.AccentColor = *req.AccentColor
		}
		if req.NotificationSettings != nil {
			st.NotificationSettings = *req.NotificationSettings
		}
		if req.Height != nil {
			st.Height = *req.Height
		}
		if req.Age != nil {
			st.Age = *req.Age
		}
		if req.Gender != nil {
			st.Gender = *req.Gender
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleExport handles GET /export requests. The response is the full state
// snapshot as a downloadable document.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	data, err := sess.Export(ctx)
	if err != nil {
		httputil.WriteError(w, derrors.Wrap(err, derrors.CodeInternal, "export failed"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="ethos-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleImport handles POST /import requests. The body is a raw snapshot as
// produced by export; legacy snapshots migrate on the way in.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "unreadable request body"))
		return
	}

	st, err := sess.Import(ctx, data)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleDeleteData handles DELETE /data requests.
func (h *Handler) HandleDeleteData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := sess.DeleteData(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "account data deleted",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}
