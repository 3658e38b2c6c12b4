package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
)

// ListNotifications handles GET /api/v1/me/notifications?unread=true&limit=50
func (h *Handlers) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		svc := h.deps.Services.Notification
		var (
			list any
			err  error
		)
		if r.URL.Query().Get("unread") == "true" {
			list, err = svc.Unread(r.Context(), user.ID)
		} else {
			list, err = svc.List(r.Context(), user.ID, common.QueryInt(r, "limit", constants.DefaultNotificationPage))
		}
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch notifications")
			return
		}
		common.RespondSuccess(w, initTime, "Notifications fetched successfully", list)
	}
}

func (h *Handlers) UnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		count, err := h.deps.Services.Notification.UnreadCount(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to count notifications")
			return
		}
		common.RespondSuccess(w, initTime, "Unread count fetched", dtos.UnreadCount{Count: count})
	}
}

// MarkNotificationRead handles POST /api/v1/notifications/{notificationID}/read
func (h *Handlers) MarkNotificationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		if err := h.deps.Services.Notification.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), user.ID); err != nil {
			common.RespondError(w, initTime, err, "Failed to mark notification read")
			return
		}
		common.RespondSuccess(w, initTime, "Notification marked read", nil)
	}
}

func (h *Handlers) MarkAllNotificationsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		marked, err := h.deps.Services.Notification.MarkAllRead(r.Context(), user.ID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to mark notifications read")
			return
		}
		common.RespondSuccess(w, initTime, "Notifications marked read", dtos.UnreadCount{Count: marked})
	}
}

// DeleteNotification handles DELETE /api/v1/notifications/{notificationID}
func (h *Handlers) DeleteNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		user, ok := currentUser(w, r, initTime)
		if !ok {
			return
		}

		if err := h.deps.Services.Notification.Delete(r.Context(), chi.URLParam(r, "notificationID"), user.ID); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete notification")
			return
		}
		common.RespondSuccess(w, initTime, "Notification deleted", nil)
	}
}
