package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

// User is a directory record keyed by the identity provider's subject id.
// Host and promoter capabilities are derived from Role, never stored.
type User struct {
	ID          string         `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	IdentityID  string         `gorm:"column:identity_id;type:varchar(255);not null;uniqueIndex" json:"-"`
	Email       string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email,omitempty"`
	Username    string         `gorm:"column:username;type:varchar(100);not null;uniqueIndex" json:"username"`
	FirstName   string         `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string         `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	PhotoAvatar string         `gorm:"column:photo_avatar;type:text;not null;default:default.png" json:"photo_avatar"`
	Bio         string         `gorm:"column:bio;type:text" json:"bio"`
	Role        constants.Role `gorm:"column:role;type:varchar(16);not null;default:KS;index" json:"role"`

	// KJ profile
	Experience string   `gorm:"column:experience;type:text" json:"experience"`
	Equipment  []string `gorm:"column:equipment;type:text;serializer:json" json:"equipment"`
	Genres     []string `gorm:"column:genres;type:text;serializer:json" json:"genres"`

	// Promoter profile
	Venues              []string `gorm:"column:venues;type:text;serializer:json" json:"venues"`
	PromotionExperience string   `gorm:"column:promotion_experience;type:text" json:"promotion_experience"`

	// KS profile
	PreferredGenres []string `gorm:"column:preferred_genres;type:text;serializer:json" json:"preferred_genres"`

	// Empty until the user submits a KJ or Promoter verification.
	VerificationStatus constants.VerificationStatus `gorm:"column:verification_status;type:varchar(16)" json:"verification_status"`
	ProfileCompleted   bool                         `gorm:"column:profile_completed;default:false" json:"profile_completed"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
