package services

import (
	"context"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// Notice is one outbound message for a user other than the caller.
type Notice struct {
	UserID  string
	Type    constants.NotificationType
	Title   string
	Message string
	Data    map[string]any
}

// Notifier records notices. Delivery failures never propagate to the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotificationService is the outbox: rows are written synchronously and read
// back by the recipient.
type NotificationService struct {
	repo    *repositories.NotificationRepository
	metrics *metrics.MetricsRegistry
}

var _ Notifier = (*NotificationService)(nil)

func NewNotificationService(repo *repositories.NotificationRepository, m *metrics.MetricsRegistry) *NotificationService {
	return &NotificationService{repo: repo, metrics: m}
}

// Notify appends a row. On failure it logs and returns; the change that
// triggered the notice stands.
func (s *NotificationService) Notify(ctx context.Context, n Notice) {
	row := &gormModels.Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Title:   n.Title,
		Message: n.Message,
		Data:    n.Data,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.metrics.NotificationsTotal.WithLabelValues(string(n.Type), "error").Inc()
		logging.Error("Failed to write notification",
			"user_id", n.UserID,
			"type", n.Type,
			"error", err,
		)
		return
	}
	s.metrics.NotificationsTotal.WithLabelValues(string(n.Type), "ok").Inc()
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]gormModels.Notification, error) {
	if limit <= 0 {
		limit = constants.DefaultNotificationPage
	}
	return s.repo.ListByUser(ctx, userID, false, limit)
}

func (s *NotificationService) Unread(ctx context.Context, userID string) ([]gormModels.Notification, error) {
	return s.repo.ListByUser(ctx, userID, true, 0)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips the read flag on a notification owned by callerID.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	if _, err := s.owned(ctx, notificationID, callerID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, callerID string) error {
	if _, err := s.owned(ctx, notificationID, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *NotificationService) owned(ctx context.Context, notificationID, callerID string) (*gormModels.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != callerID {
		return nil, apperr.Unauthorized("%s", constants.MsgNotOwner)
	}
	return n, nil
}
