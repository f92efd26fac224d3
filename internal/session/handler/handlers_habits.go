package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
	"ethos/pkg/platform/httputil"
	"ethos/pkg/requestcontext"
)

// HandleReplaceHabits handles PUT /habits requests.
func (h *Handler) HandleReplaceHabits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[ReplaceHabitsRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		habits := make([]userstate.Habit, 0, len(req.Habits))
		for _, p := range req.Habits {
			habit := p.domain()
			if habit.ID == "" {
				habit.ID = uuid.NewString()
			}
			habits = append(habits, habit)
		}
		st.Habits = habits
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleAddHabit handles POST /habits requests.
func (h *Handler) HandleAddHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[AddHabitRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		st.Habits = append(st.Habits, userstate.Habit{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(req.Name),
			Category: id.Category(req.Category),
		})
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, st)
}

// HandleUpdateHabit handles PATCH /habits/{habitID} requests. Completing a
// habit bumps its personal streak; un-completing rolls the bump back.
func (h *Handler) HandleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habitID")
	req, ok := httputil.Decode[UpdateHabitRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		for i := range st.Habits {
			if st.Habits[i].ID != habitID {
				continue
			}
			habit := &st.Habits[i]
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return derrors.New(derrors.CodeBadRequest, "habit name is required")
				}
				habit.Name = name
			}
			if req.Category != nil {
				habit.Category = id.Category(*req.Category)
			}
			if req.Completed != nil && *req.Completed != habit.Completed {
				habit.Completed = *req.Completed
				if habit.Completed {
					habit.Streak++
				} else if habit.Streak > 0 {
					habit.Streak--
				}
			}
			return nil
		}
		return derrors.New(derrors.CodeNotFound, "habit not found")
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleRemoveHabit handles DELETE /habits/{habitID} requests.
func (h *Handler) HandleRemoveHabit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habitID")

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		for i := range st.Habits {
			if st.Habits[i].ID == habitID {
				st.Habits = append(st.Habits[:i], st.Habits[i+1:]...)
				return nil
			}
		}
		return derrors.New(derrors.CodeNotFound, "habit not found")
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// parseSlot resolves the {slot} URL parameter to a valid critical-path
// index.
func parseSlot(r *http.Request) (int, error) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil || slot < 0 || slot >= userstate.CriticalPathSlots {
		return 0, derrors.New(derrors.CodeBadRequest, "slot must be 0, 1, or 2")
	}
	return slot, nil
}

// HandleSetCriticalTask handles PUT /critical-path/{slot} requests.
func (h *Handler) HandleSetCriticalTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	slot, err := parseSlot(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[CriticalTaskRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		for len(st.CriticalPath) <= slot {
			st.CriticalPath = append(st.CriticalPath, nil)
		}
		st.CriticalPath[slot] = &userstate.CriticalTask{
			ID:        uuid.NewString(),
			Text:      strings.TrimSpace(req.Text),
			Completed: req.Completed,
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleClearCriticalTask handles DELETE /critical-path/{slot} requests.
func (h *Handler) HandleClearCriticalTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	slot, err := parseSlot(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := sess.Apply(ctx, func(st *userstate.State) error {
		if slot < len(st.CriticalPath) {
			st.CriticalPath[slot] = nil
		}
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}
