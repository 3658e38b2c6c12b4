package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
)

// ListEvents handles GET /api/v1/events
//
// @Summary      List events
// @Description  Paged event listing, newest first, filtered by title search and category.
// @Tags         Events
// @Produce      json
// @Param        q         query  string  false  "Title search"
// @Param        category  query  string  false  "Category ID"
// @Param        page      query  int     false  "Page"   default(1)
// @Param        limit     query  int     false  "Limit"  default(6)
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/events [get]
func (h *Handlers) ListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		q := dtos.EventListQuery{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
			Page:     common.QueryInt(r, "page", 1),
			Limit:    common.QueryInt(r, "limit", constants.DefaultEventPageSize),
		}

		events, err := h.deps.Services.Event.ListEvents(r.Context(), q)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch events")
			return
		}
		common.RespondSuccess(w, initTime, "Events fetched successfully", events)
	}
}

func (h *Handlers) GetEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		event, err := h.deps.Services.Event.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch event")
			return
		}
		common.RespondSuccess(w, initTime, "Event fetched successfully", event)
	}
}

// CreateEvent handles POST /api/v1/events
//
// @Summary      Create an event
// @Description  KJ only. Status is draft or published; registration settings get defaults.
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.CreateEventRequest  true  "Event"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      403  {object}  dtos.APIResponse
// @Router       /api/v1/events [post]
func (h *Handlers) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.CreateEventRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		event, err := h.deps.Services.Event.CreateEvent(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to create event")
			return
		}
		common.RespondSuccess(w, initTime, "Event created successfully", event, http.StatusCreated)
	}
}

// UpdateEvent handles PUT /api/v1/events/{eventID}
func (h *Handlers) UpdateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateEventRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		event, err := h.deps.Services.Event.UpdateEvent(r.Context(), identityID, chi.URLParam(r, "eventID"), req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update event")
			return
		}
		common.RespondSuccess(w, initTime, "Event updated successfully", event)
	}
}

// UpdateEventStatus handles PATCH /api/v1/events/{eventID}/status
func (h *Handlers) UpdateEventStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateEventStatusRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		event, err := h.deps.Services.Event.UpdateEventStatus(r.Context(), identityID, chi.URLParam(r, "eventID"), req.Status)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update event status")
			return
		}
		common.RespondSuccess(w, initTime, "Event status updated", event)
	}
}

// DeleteEvent handles DELETE /api/v1/events/{eventID}
func (h *Handlers) DeleteEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		if err := h.deps.Services.Event.DeleteEvent(r.Context(), identityID, chi.URLParam(r, "eventID")); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete event")
			return
		}
		common.RespondSuccess(w, initTime, "Event deleted", nil)
	}
}

func (h *Handlers) RelatedEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := h.deps.Services.Event.RelatedEvents(r.Context(),
			chi.URLParam(r, "eventID"),
			common.QueryInt(r, "page", 1),
			common.QueryInt(r, "limit", constants.DefaultEventPageSize),
		)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch related events")
			return
		}
		common.RespondSuccess(w, initTime, "Related events fetched successfully", events)
	}
}

// EventsByHost handles GET /api/v1/users/{userID}/events
func (h *Handlers) EventsByHost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := h.deps.Services.Event.EventsByHost(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch events")
			return
		}
		common.RespondSuccess(w, initTime, "Events fetched successfully", events)
	}
}

// EventStats handles GET /api/v1/events/{eventID}/stats
func (h *Handlers) EventStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := h.deps.Services.Registration.Stats(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch registration stats")
			return
		}
		common.RespondSuccess(w, initTime, "Registration stats fetched", stats)
	}
}

func (h *Handlers) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		categories, err := h.deps.Services.Event.ListCategories(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch categories")
			return
		}
		common.RespondSuccess(w, initTime, "Categories fetched successfully", categories)
	}
}

// CreateCategory handles POST /api/v1/admin/categories
func (h *Handlers) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateCategoryRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		category, err := h.deps.Services.Event.CreateCategory(r.Context(), req.Name)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to create category")
			return
		}
		common.RespondSuccess(w, initTime, "Category created", category, http.StatusCreated)
	}
}
