package dtos

import (
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/entities"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// --- Controller endpoints ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// PublicUser is a directory record without identity subject or email.
type PublicUser struct {
	ID                 string                       `json:"id"`
	Username           string                       `json:"username"`
	FirstName          string                       `json:"first_name"`
	LastName           string                       `json:"last_name"`
	PhotoAvatar        string                       `json:"photo_avatar"`
	Bio                string                       `json:"bio,omitempty"`
	Role               constants.Role               `json:"role"`
	Experience         string                       `json:"experience,omitempty"`
	Equipment          []string                     `json:"equipment,omitempty"`
	Genres             []string                     `json:"genres,omitempty"`
	Venues             []string                     `json:"venues,omitempty"`
	VerificationStatus constants.VerificationStatus `json:"verification_status,omitempty"`
}

func NewPublicUser(u *gormModels.User) PublicUser {
	return PublicUser{
		ID:                 u.ID,
		Username:           u.Username,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		PhotoAvatar:        u.PhotoAvatar,
		Bio:                u.Bio,
		Role:               u.Role,
		Experience:         u.Experience,
		Equipment:          u.Equipment,
		Genres:             u.Genres,
		Venues:             u.Venues,
		VerificationStatus: u.VerificationStatus,
	}
}

// UserProfileResponse is the caller's own record with derived role flags.
type UserProfileResponse struct {
	*gormModels.User
	IsHost      bool                      `json:"is_host"`
	IsPromoter  bool                      `json:"is_promoter"`
	Permissions constants.RolePermissions `json:"permissions"`
}

func NewUserProfile(u *gormModels.User) UserProfileResponse {
	return UserProfileResponse{
		User:        u,
		IsHost:      u.Role.IsHost(),
		IsPromoter:  u.Role.IsPromoter(),
		Permissions: u.Role.Permissions(),
	}
}

type VerificationStatusResponse struct {
	Role             constants.Role               `json:"role"`
	Status           constants.VerificationStatus `json:"status,omitempty"`
	ProfileCompleted bool                         `json:"profile_completed"`
}

type PagedEvents struct {
	Data       []gormModels.Event `json:"data"`
	TotalPages int                `json:"total_pages"`
}

// Eligibility answers whether a singer can register right now.
type Eligibility struct {
	CanRegister bool   `json:"can_register"`
	Reason      string `json:"reason,omitempty"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type EventWithStats struct {
	gormModels.Event
	Stats entities.RegistrationStats `json:"registration_stats"`
}

type KJOverview struct {
	TotalEvents          int64              `json:"total_events"`
	PendingRegistrations int64              `json:"pending_registrations"`
	UpcomingEvents       []gormModels.Event `json:"upcoming_events"`
	RecentRegistrations  int64              `json:"recent_registrations"`
}

type KSOverview struct {
	RegisteredEvents      int64                     `json:"registered_events"`
	InterestedEvents      int64                     `json:"interested_events"`
	AttendedEvents        int64                     `json:"attended_events"`
	UpcomingRegistrations []gormModels.Registration `json:"upcoming_registrations"`
}

type PromoterOverview struct {
	VerificationStatus constants.VerificationStatus `json:"verification_status,omitempty"`
	UpcomingEvents     []gormModels.Event           `json:"upcoming_events"`
}

// Dashboard is the role-specific landing view. Exactly one of the overview
// fields is set, matching Role.
type Dashboard struct {
	Role     constants.Role    `json:"role"`
	KJ       *KJOverview       `json:"kj,omitempty"`
	KS       *KSOverview       `json:"ks,omitempty"`
	Promoter *PromoterOverview `json:"promoter,omitempty"`
}
