package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

type Notification struct {
	ID        string                     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	UserID    string                     `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Type      constants.NotificationType `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Title     string                     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message   string                     `gorm:"column:message;type:text;not null" json:"message"`
	Data      map[string]any             `gorm:"column:data;type:text;serializer:json" json:"data"`
	Read      bool                       `gorm:"column:read;not null;default:false;index:idx_notifications_user_read,priority:2" json:"read"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
