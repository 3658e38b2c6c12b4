package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/models/dtos"
)

// CreateRegistration handles POST /api/v1/events/{eventID}/registrations
//
// @Summary      Register or mark interest
// @Description  registration_type "interested" bookmarks the event; "registered" requests a singing slot
// @Description  and enters the approval queue (or is approved at once on auto-approve events).
// @Tags         Registrations
// @Accept       json
// @Produce      json
// @Param        eventID  path  string                          true  "Event ID"
// @Param        input    body  dtos.CreateRegistrationRequest  true  "Registration"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/v1/events/{eventID}/registrations [post]
func (h *Handlers) CreateRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.CreateRegistrationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		reg, err := h.deps.Services.Registration.CreateRegistration(r.Context(), chi.URLParam(r, "eventID"), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to register")
			return
		}
		common.RespondSuccess(w, initTime, "Registration created", reg, http.StatusCreated)
	}
}

// UpdateRegistration handles PUT /api/v1/registrations/{registrationID}
func (h *Handlers) UpdateRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateRegistrationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		reg, err := h.deps.Services.Registration.UpdateRegistration(r.Context(), chi.URLParam(r, "registrationID"), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update registration")
			return
		}
		common.RespondSuccess(w, initTime, "Registration updated", reg)
	}
}

// DeleteRegistration handles DELETE /api/v1/registrations/{registrationID}
func (h *Handlers) DeleteRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		if err := h.deps.Services.Registration.DeleteRegistration(r.Context(), chi.URLParam(r, "registrationID"), identityID); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete registration")
			return
		}
		common.RespondSuccess(w, initTime, "Registration deleted", nil)
	}
}

// ApproveRegistration handles POST /api/v1/registrations/{registrationID}/approve
//
// @Summary      Approve a slot request
// @Description  Host only. Fails with 409 when the event is full.
// @Tags         Registrations
// @Accept       json
// @Produce      json
// @Param        registrationID  path  string                true   "Registration ID"
// @Param        input           body  dtos.DecisionRequest  false  "Host notes"
// @Success      200  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/v1/registrations/{registrationID}/approve [post]
func (h *Handlers) ApproveRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.DecisionRequest
		if err := decodeOptional(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		reg, err := h.deps.Services.Registration.ApproveRegistration(r.Context(), chi.URLParam(r, "registrationID"), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to approve registration")
			return
		}
		common.RespondSuccess(w, initTime, "Registration approved", reg)
	}
}

// RejectRegistration handles POST /api/v1/registrations/{registrationID}/reject
func (h *Handlers) RejectRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.DecisionRequest
		if err := decodeOptional(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		reg, err := h.deps.Services.Registration.RejectRegistration(r.Context(), chi.URLParam(r, "registrationID"), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to reject registration")
			return
		}
		common.RespondSuccess(w, initTime, "Registration rejected", reg)
	}
}

// MarkAttendance handles POST /api/v1/registrations/{registrationID}/attendance
func (h *Handlers) MarkAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		reg, err := h.deps.Services.Registration.MarkAttendance(r.Context(), chi.URLParam(r, "registrationID"), identityID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to mark attendance")
			return
		}
		common.RespondSuccess(w, initTime, "Attendance recorded", reg)
	}
}

// EventRegistrations handles GET /api/v1/events/{eventID}/registrations?type=&status=a,b
func (h *Handlers) EventRegistrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		filter, err := registrationFilter(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid filter")
			return
		}

		regs, err := h.deps.Services.Registration.EventRegistrations(r.Context(), chi.URLParam(r, "eventID"), identityID, filter)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch registrations")
			return
		}
		common.RespondSuccess(w, initTime, "Registrations fetched successfully", regs)
	}
}

func (h *Handlers) MyRegistrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		regs, err := h.deps.Services.Registration.UserRegistrations(r.Context(), identityID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch registrations")
			return
		}
		common.RespondSuccess(w, initTime, "Registrations fetched successfully", regs)
	}
}

// Eligibility handles GET /api/v1/events/{eventID}/eligibility
func (h *Handlers) Eligibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		result, err := h.deps.Services.Registration.CanUserRegister(r.Context(), chi.URLParam(r, "eventID"), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to check eligibility")
			return
		}
		common.RespondSuccess(w, initTime, "Eligibility checked", result)
	}
}

// decodeOptional decodes a JSON body when one was sent.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	return common.DecodeJSON(r, dst)
}

func registrationFilter(r *http.Request) (repositories.RegistrationFilter, error) {
	var filter repositories.RegistrationFilter

	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = constants.RegistrationType(t)
		if !filter.Type.Valid() {
			return filter, apperr.Validation("Unknown registration type %q", t)
		}
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := constants.RegistrationStatus(strings.TrimSpace(part))
			if !status.Valid() {
				return filter, apperr.Validation("Unknown registration status %q", part)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	return filter, nil
}
