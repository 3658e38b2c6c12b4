package repositories

import (
	"context"

	"gorm.io/gorm"

	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(ctx context.Context, n *gormModels.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return writeErr("failed to create notification", err, "")
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*gormModels.Notification, error) {
	var n gormModels.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, readErr("failed to fetch notification", err, "Notification not found")
	}
	return &n, nil
}

// ListByUser returns the newest notifications first. unreadOnly drops read ones.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]gormModels.Notification, error) {
	var list []gormModels.Notification

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, readErr("failed to list notifications", err, "")
	}
	return list, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, readErr("failed to count unread notifications", err, "")
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
	if err != nil {
		return writeErr("failed to mark notification read", err, "")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, writeErr("failed to mark notifications read", res.Error, "")
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Notification{}).Error; err != nil {
		return writeErr("failed to delete notification", err, "")
	}
	return nil
}

func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.Notification{}).Error; err != nil {
		return writeErr("failed to delete user notifications", err, "")
	}
	return nil
}
