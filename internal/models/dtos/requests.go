package dtos

import (
	"time"

	"karaoke-events/kjhub/internal/constants"
)

// IdentityProfile is what the identity provider tells us about the caller.
type IdentityProfile struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhotoAvatar string `json:"photo_avatar"`
}

type CreateUserRequest struct {
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	PhotoAvatar string         `json:"photo_avatar"`
	Role        constants.Role `json:"role"`
}

// UpdateUserRequest carries a partial profile; nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	PhotoAvatar     *string  `json:"photo_avatar"`
	Bio             *string  `json:"bio"`
	PreferredGenres []string `json:"preferred_genres"`
}

type UpdateRoleRequest struct {
	Role constants.Role `json:"role"`
}

type KJVerificationRequest struct {
	Experience string   `json:"experience"`
	Equipment  []string `json:"equipment"`
	Genres     []string `json:"genres"`
}

type PromoterVerificationRequest struct {
	Venues              []string `json:"venues"`
	PromotionExperience string   `json:"promotion_experience"`
}

type ReviewVerificationRequest struct {
	Status constants.VerificationStatus `json:"status"`
}

type RegistrationSettingsRequest struct {
	AllowGroupRegistration *bool `json:"allow_group_registration"`
	MaxGroupSize           *int  `json:"max_group_size"`
	RequireSongRequests    *bool `json:"require_song_requests"`
	AllowSongRequests      *bool `json:"allow_song_requests"`
}

type CreateEventRequest struct {
	Title                string                       `json:"title"`
	Description          string                       `json:"description"`
	Location             string                       `json:"location"`
	ImageURL             string                       `json:"image_url"`
	StartDateTime        time.Time                    `json:"start_date_time"`
	EndDateTime          time.Time                    `json:"end_date_time"`
	Price                float64                      `json:"price"`
	IsFree               bool                         `json:"is_free"`
	EventURL             string                       `json:"event_url"`
	CategoryID           string                       `json:"category_id"`
	Capacity             int                          `json:"capacity"`
	RegistrationDeadline *time.Time                   `json:"registration_deadline"`
	AutoApprove          bool                         `json:"auto_approve"`
	Equipment            []string                     `json:"equipment"`
	SongList             []string                     `json:"song_list"`
	RegistrationSettings *RegistrationSettingsRequest `json:"registration_settings"`
	Status               constants.EventStatus        `json:"status"`
}

// UpdateEventRequest carries a partial event; nil fields are left untouched.
type UpdateEventRequest struct {
	Title                *string                      `json:"title"`
	Description          *string                      `json:"description"`
	Location             *string                      `json:"location"`
	ImageURL             *string                      `json:"image_url"`
	StartDateTime        *time.Time                   `json:"start_date_time"`
	EndDateTime          *time.Time                   `json:"end_date_time"`
	Price                *float64                     `json:"price"`
	IsFree               *bool                        `json:"is_free"`
	EventURL             *string                      `json:"event_url"`
	CategoryID           *string                      `json:"category_id"`
	Capacity             *int                         `json:"capacity"`
	RegistrationDeadline *time.Time                   `json:"registration_deadline"`
	AutoApprove          *bool                        `json:"auto_approve"`
	Equipment            []string                     `json:"equipment"`
	SongList             []string                     `json:"song_list"`
	RegistrationSettings *RegistrationSettingsRequest `json:"registration_settings"`
}

type UpdateEventStatusRequest struct {
	Status constants.EventStatus `json:"status"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type EventListQuery struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

type CreateRegistrationRequest struct {
	RegistrationType constants.RegistrationType `json:"registration_type"`
	SongRequests     []string                   `json:"song_requests"`
	GroupSize        int                        `json:"group_size"`
}

// UpdateRegistrationRequest is the singer-side partial update. Status may
// only move to interested or pending.
type UpdateRegistrationRequest struct {
	SongRequests []string                      `json:"song_requests"`
	GroupSize    *int                          `json:"group_size"`
	Status       *constants.RegistrationStatus `json:"status"`
}

type DecisionRequest struct {
	Notes string `json:"notes"`
}

type CreateRatingRequest struct {
	EventID string `json:"event_id"`
	RateeID string `json:"ratee_id"`
	Rating  int    `json:"rating"`
	Review  string `json:"review"`
}
