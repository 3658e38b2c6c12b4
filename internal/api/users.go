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

// CreateUser handles POST /api/v1/users
//
// @Summary      Create the caller's directory record
// @Description  Registers a user for the verified identity. Role defaults to KS.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        Authorization  header  string                  true  "Bearer identity token"
// @Param        input          body    dtos.CreateUserRequest  true  "Profile"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/v1/users [post]
func (h *Handlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.CreateUserRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.CreateUser(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to create user")
			return
		}

		common.RespondSuccess(w, initTime, "User created successfully", dtos.NewUserProfile(user), http.StatusCreated)
	}
}

// GetMe handles GET /api/v1/me
//
// @Summary      Get the caller's profile
// @Tags         Users
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer identity token"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/me [get]
func (h *Handlers) GetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}
		common.RespondSuccess(w, initTime, "User details fetched successfully", dtos.NewUserProfile(user))
	}
}

// UpdateMe handles PUT /api/v1/me
func (h *Handlers) UpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateUserRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.UpdateUser(r.Context(), identityID, req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update profile")
			return
		}
		common.RespondSuccess(w, initTime, "Profile updated", dtos.NewUserProfile(user))
	}
}

// UpdateMyRole handles PUT /api/v1/me/role
func (h *Handlers) UpdateMyRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateRoleRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body")
			return
		}

		user, err := h.deps.Services.User.UpdateUserRole(r.Context(), identityID, req.Role)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update role")
			return
		}
		common.RespondSuccess(w, initTime, "Role updated", dtos.NewUserProfile(user))
	}
}

// DeleteMe handles DELETE /api/v1/me
func (h *Handlers) DeleteMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		identityID, ok := identity(w, r, initTime)
		if !ok {
			return
		}

		if err := h.deps.Services.User.DeleteUser(r.Context(), identityID); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete user")
			return
		}
		common.RespondSuccess(w, initTime, "User deleted", nil)
	}
}

// ListUsersByRole handles GET /api/v1/users?role=kj
func (h *Handlers) ListUsersByRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		role, err := constants.ParseRole(r.URL.Query().Get("role"))
		if err != nil {
			common.RespondError(w, initTime, apperr.Validation("%v", err), "Invalid role")
			return
		}

		users, err := h.deps.Services.User.UsersByRole(r.Context(), role)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch users")
			return
		}
		common.RespondSuccess(w, initTime, "Users fetched successfully", users)
	}
}

func (h *Handlers) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := h.deps.Services.User.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch user")
			return
		}
		common.RespondSuccess(w, initTime, "User fetched successfully", dtos.NewPublicUser(user))
	}
}
