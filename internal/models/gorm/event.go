package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

// RegistrationSettings controls what a singer may attach to a registration.
// Boolean defaults are applied by the event service, not the column.
type RegistrationSettings struct {
	AllowGroupRegistration bool `gorm:"column:allow_group_registration;not null" json:"allow_group_registration"`
	MaxGroupSize           int  `gorm:"column:max_group_size;not null;default:5" json:"max_group_size"`
	RequireSongRequests    bool `gorm:"column:require_song_requests;not null" json:"require_song_requests"`
	AllowSongRequests      bool `gorm:"column:allow_song_requests;not null" json:"allow_song_requests"`
}

// Event is owned by a single KJ host. ApprovedCount mirrors the number of
// approved registrations and is only ever changed by conditional updates in
// the registration service.
type Event struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Title         string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description   string    `gorm:"column:description;type:text;not null" json:"description"`
	Location      string    `gorm:"column:location;type:text;not null" json:"location"`
	ImageURL      string    `gorm:"column:image_url;type:text" json:"image_url"`
	StartDateTime time.Time `gorm:"column:start_date_time;not null;index:idx_events_start_status,priority:1" json:"start_date_time"`
	EndDateTime   time.Time `gorm:"column:end_date_time;not null" json:"end_date_time"`
	Price         float64   `gorm:"column:price;type:numeric(10,2);default:0" json:"price"`
	IsFree        bool      `gorm:"column:is_free;default:false" json:"is_free"`
	EventURL      string    `gorm:"column:event_url;type:text" json:"event_url"`

	CategoryID string `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	HostID     string `gorm:"column:host_id;type:uuid;not null;index:idx_events_host_status,priority:1" json:"host_id"`

	Capacity             int        `gorm:"column:capacity;not null" json:"capacity"`
	ApprovedCount        int        `gorm:"column:approved_count;not null;default:0" json:"approved_count"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline" json:"registration_deadline,omitempty"`
	AutoApprove          bool       `gorm:"column:auto_approve;default:false" json:"auto_approve"`
	Equipment            []string   `gorm:"column:equipment;type:text;serializer:json" json:"equipment"`
	SongList             []string   `gorm:"column:song_list;type:text;serializer:json" json:"song_list"`

	RegistrationSettings RegistrationSettings `gorm:"embedded;embeddedPrefix:reg_" json:"registration_settings"`

	Status constants.EventStatus `gorm:"column:status;type:varchar(16);not null;default:draft;index:idx_events_host_status,priority:2;index:idx_events_start_status,priority:2" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Host     *User     `gorm:"foreignKey:HostID" json:"host,omitempty"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// DeadlinePassed reports whether registration closed before now.
func (e *Event) DeadlinePassed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}

// Full reports whether every slot is taken.
func (e *Event) Full() bool {
	return e.ApprovedCount >= e.Capacity
}
