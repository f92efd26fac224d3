package handler

import (
	"net/http"

	"ethos/internal/userstate"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// HandleAddWater handles POST /trackers/water requests. The delta may be
// negative; the tracker clamps at zero.
func (h *Handler) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[AddWaterRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.WaterIntake += req.DeltaML
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleSetSleep handles PUT /trackers/sleep requests.
func (h *Handler) HandleSetSleep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SetSleepRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.SleepHours = req.Hours
		st.SleepQuality = req.Quality
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleSetWeight handles PUT /trackers/weight requests.
func (h *Handler) HandleSetWeight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SetWeightRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.Weight = req.Weight
		if req.TargetWeight != nil {
			st.TargetWeight = *req.TargetWeight
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleSetSteps handles PUT /trackers/steps requests, the manual entry
// path. Calories follow the step count on recompute.
func (h *Handler) HandleSetSteps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SetStepsRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.Steps = req.Steps
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleAddFocusSession handles POST /trackers/focus requests.
func (h *Handler) HandleAddFocusSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.FocusSessions++
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleStartTracking handles POST /steps/tracking/start requests.
func (h *Handler) HandleStartTracking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := sess.StartStepTracking(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"tracking": true})
}

// HandleStopTracking handles POST /steps/tracking/stop requests.
func (h *Handler) HandleStopTracking(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sess.StopStepTracking()
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"tracking": false})
}

// HandleMotionSamples handles POST /steps/samples requests.
func (h *Handler) HandleMotionSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[MotionSamplesRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	registered, err := sess.IngestMotionSamples(ctx, req.DomainSamples())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{
		"registered": registered,
		"steps":      sess.State().Steps,
	})
}
