package api

import (
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/common"
)

// Dashboard handles GET /api/v1/me/dashboard
//
// @Summary      Role-specific dashboard
// @Description  Returns the KJ, KS or Promoter overview for the caller's role.
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/me/dashboard [get]
func (h *Handlers) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		dashboard, err := h.deps.Services.Dashboard.ForUser(r.Context(), user)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to build dashboard")
			return
		}
		common.RespondSuccess(w, initTime, "Dashboard fetched successfully", dashboard)
	}
}

func (h *Handlers) KJRegistrationQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		queue, err := h.deps.Services.Dashboard.KJRegistrationQueue(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch registration queue")
			return
		}
		common.RespondSuccess(w, initTime, "Registration queue fetched", queue)
	}
}

func (h *Handlers) KJEventsWithStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		events, err := h.deps.Services.Dashboard.KJEventsWithStats(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch events")
			return
		}
		common.RespondSuccess(w, initTime, "Events fetched successfully", events)
	}
}

func (h *Handlers) KSEventHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		history, err := h.deps.Services.Dashboard.KSEventHistory(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch event history")
			return
		}
		common.RespondSuccess(w, initTime, "Event history fetched", history)
	}
}

func (h *Handlers) KSInterestedEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		interested, err := h.deps.Services.Dashboard.KSInterestedEvents(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch interested events")
			return
		}
		common.RespondSuccess(w, initTime, "Interested events fetched", interested)
	}
}
