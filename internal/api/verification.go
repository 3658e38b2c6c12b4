package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
)

// SubmitKJVerification handles POST /api/v1/me/verification/kj
//
// @Summary      Submit a KJ profile for review
// @Description  Switches the caller to the KJ role with verification pending.
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.KJVerificationRequest  true  "KJ profile"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/me/verification/kj [post]
func (h *Handlers) SubmitKJVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.KJVerificationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.SubmitKJVerification(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to submit verification")
			return
		}
		common.RespondSuccess(w, initTime, "Verification submitted", dtos.NewUserProfile(user))
	}
}

// SubmitPromoterVerification handles POST /api/v1/me/verification/promoter
func (h *Handlers) SubmitPromoterVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.PromoterVerificationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.SubmitPromoterVerification(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to submit verification")
			return
		}
		common.RespondSuccess(w, initTime, "Verification submitted", dtos.NewUserProfile(user))
	}
}

func (h *Handlers) GetMyVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		status, err := h.deps.Services.User.VerificationStatus(r.Context(), identityID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch verification status")
			return
		}
		common.RespondSuccess(w, initTime, "Verification status fetched", status)
	}
}

// ListPendingVerifications handles GET /api/v1/admin/verifications?role=kj
func (h *Handlers) ListPendingVerifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		role, err := constants.ParseRole(r.URL.Query().Get("role"))
		if err != nil {
			common.RespondError(w, initTime, apperr.Validation("%v", err), "Invalid role")
			return
		}

		users, err := h.deps.Services.User.PendingVerifications(r.Context(), role)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch pending verifications")
			return
		}
		common.RespondSuccess(w, initTime, "Pending verifications fetched", users)
	}
}

// ReviewVerification handles PUT /api/v1/admin/users/{identityID}/verification
func (h *Handlers) ReviewVerification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ReviewVerificationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.ReviewVerification(r.Context(), chi.URLParam(r, "identityID"), req.Status)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to review verification")
			return
		}
		common.RespondSuccess(w, initTime, "Verification reviewed", dtos.NewPublicUser(user))
	}
}
