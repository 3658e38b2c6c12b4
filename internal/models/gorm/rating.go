package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

// Rating is immutable once written; one per (event, rater, ratee).
type Rating struct {
	ID        string               `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	EventID   string               `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_ratings_event_rater_ratee,priority:1" json:"event_id"`
	RaterID   string               `gorm:"column:rater_id;type:uuid;not null;uniqueIndex:idx_ratings_event_rater_ratee,priority:2;index" json:"rater_id"`
	RateeID   string               `gorm:"column:ratee_id;type:uuid;not null;uniqueIndex:idx_ratings_event_rater_ratee,priority:3;index" json:"ratee_id"`
	Rating    int                  `gorm:"column:rating;not null" json:"rating"`
	Review    string               `gorm:"column:review;type:varchar(500)" json:"review"`
	Type      constants.RatingType `gorm:"column:type;type:varchar(16);not null" json:"type"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Rater *User `gorm:"foreignKey:RaterID" json:"rater,omitempty"`
}

// TableName specifies the table name for GORM
func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
