package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/models/dtos"
)

// SubmitRating handles POST /api/v1/ratings
//
// @Summary      Rate another participant of an event
// @Description  A host rates a singer (ks_rating) or a registered singer rates the host (kj_rating).
// @Tags         Ratings
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.CreateRatingRequest  true  "Rating"
// @Success      201  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/v1/ratings [post]
func (h *Handlers) SubmitRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.CreateRatingRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		rating, err := h.deps.Services.Rating.SubmitRating(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to submit rating")
			return
		}
		common.RespondSuccess(w, initTime, "Rating submitted", rating, http.StatusCreated)
	}
}

// UserRating handles GET /api/v1/users/{userID}/rating
func (h *Handlers) UserRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rating, err := h.deps.Services.Rating.UserRating(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch rating")
			return
		}
		common.RespondSuccess(w, initTime, "Rating fetched successfully", rating)
	}
}

func (h *Handlers) EventRatings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ratings, err := h.deps.Services.Rating.EventRatings(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch ratings")
			return
		}
		common.RespondSuccess(w, initTime, "Ratings fetched successfully", ratings)
	}
}

func (h *Handlers) UserRatingsForEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ratings, err := h.deps.Services.Rating.UserRatingsForEvent(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch ratings")
			return
		}
		common.RespondSuccess(w, initTime, "Ratings fetched successfully", ratings)
	}
}
