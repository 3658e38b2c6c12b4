package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

// Registration is a singer's bookmark or slot request for one event. The
// (event_id, user_id) pair is unique.
type Registration struct {
	ID               string                       `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	EventID          string                       `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_registrations_event_user,priority:1;index:idx_registrations_event_status,priority:1" json:"event_id"`
	UserID           string                       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_registrations_event_user,priority:2;index:idx_registrations_user_type,priority:1" json:"user_id"`
	RegistrationType constants.RegistrationType   `gorm:"column:registration_type;type:varchar(16);not null;index:idx_registrations_user_type,priority:2" json:"registration_type"`
	Status           constants.RegistrationStatus `gorm:"column:status;type:varchar(16);not null;default:pending;index:idx_registrations_event_status,priority:2" json:"status"`

	ApprovedBy     *string    `gorm:"column:approved_by;type:uuid;index" json:"approved_by,omitempty"`
	Notes          string     `gorm:"column:notes;type:text" json:"notes"`
	RegisteredAt   time.Time  `gorm:"column:registered_at;not null" json:"registered_at"`
	ApprovedAt     *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AttendedAt     *time.Time `gorm:"column:attended_at" json:"attended_at,omitempty"`
	ReminderSentAt *time.Time `gorm:"column:reminder_sent_at" json:"reminder_sent_at,omitempty"`

	SongRequests []string `gorm:"column:song_requests;type:text;serializer:json" json:"song_requests"`
	GroupSize    int      `gorm:"column:group_size;not null;default:1" json:"group_size"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Registration) TableName() string {
	return "registrations"
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now()
	}
	return nil
}
