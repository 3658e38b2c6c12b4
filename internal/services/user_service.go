package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/mail"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

var usernameChars = regexp.MustCompile(`[^a-z0-9_]+`)

// UserService owns the directory of users and their role profiles.
type UserService struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	events        *repositories.EventRepository
	registrations *repositories.RegistrationRepository
	ratings       *repositories.RatingRepository
	notifications *repositories.NotificationRepository
	stats         *StatsService
}

func NewUserService(
	db *gorm.DB,
	users *repositories.UserRepository,
	events *repositories.EventRepository,
	registrations *repositories.RegistrationRepository,
	ratings *repositories.RatingRepository,
	notifications *repositories.NotificationRepository,
	stats *StatsService,
) *UserService {
	return &UserService{
		db:            db,
		users:         users,
		events:        events,
		registrations: registrations,
		ratings:       ratings,
		notifications: notifications,
		stats:         stats,
	}
}

// CreateUser registers a directory record for identityID. A username lost to
// a concurrent insert is retried once with a numeric suffix.
func (s *UserService) CreateUser(ctx context.Context, identityID string, req dtos.CreateUserRequest) (*gormModels.User, error) {
	user, err := newUserRecord(identityID, req)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, user); err != nil {
		return nil, err
	}

	err = s.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !apperr.Is(err, apperr.KindConflict) {
		return nil, err
	}

	// Only a username race is retried; anything else is a real duplicate.
	raced, checkErr := s.usernameRaced(ctx, user)
	if checkErr != nil {
		return nil, checkErr
	}
	if !raced {
		return nil, err
	}

	original := user.Username
	user.ID = ""
	user.Username = mutateUsername(original)
	logging.Warn("Username taken concurrently, retrying",
		"username", original,
		"retry_username", user.Username,
	)

	if err := s.users.Create(ctx, user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("%s", constants.MsgUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser returns the caller's record, creating a KS record on first
// sign-in. The boolean reports whether a record was created.
func (s *UserService) EnsureUser(ctx context.Context, identityID string, profile dtos.IdentityProfile) (*gormModels.User, bool, error) {
	existing, err := s.users.GetByIdentity(ctx, identityID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, false, err
	}

	username := usernameFromEmail(profile.Email)
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if taken {
		username = mutateUsername(username)
	}

	user, err := s.CreateUser(ctx, identityID, dtos.CreateUserRequest{
		Username:    username,
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhotoAvatar: profile.PhotoAvatar,
		Role:        constants.RoleKS,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) GetByIdentity(ctx context.Context, identityID string) (*gormModels.User, error) {
	return s.users.GetByIdentity(ctx, identityID)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, identityID string, req dtos.UpdateUserRequest) (*gormModels.User, error) {
	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, apperr.Validation("First name is required")
		}
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.PhotoAvatar != nil {
		updates["photo_avatar"] = *req.PhotoAvatar
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.PreferredGenres != nil {
		user.PreferredGenres = req.PreferredGenres
		if _, err := s.users.UpdateColumns(ctx, user, "preferred_genres"); err != nil {
			return nil, err
		}
	}
	if len(updates) == 0 {
		return s.users.GetByID(ctx, user.ID)
	}
	return s.users.Update(ctx, user.ID, updates)
}

func (s *UserService) UpdateUserRole(ctx context.Context, identityID string, role constants.Role) (*gormModels.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Unknown role %q", role)
	}

	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	// A role change voids any verification filed for the previous role.
	return s.users.Update(ctx, user.ID, map[string]any{
		"role":                role,
		"verification_status": "",
	})
}

// DeleteUser removes the account and everything it owns in one transaction.
// Hosts must delete their events first.
func (s *UserService) DeleteUser(ctx context.Context, identityID string) error {
	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return err
	}

	hosted, err := s.events.CountByHost(ctx, user.ID)
	if err != nil {
		return err
	}
	if hosted > 0 {
		return apperr.Conflict("Delete your %d hosted event(s) before deleting the account", hosted)
	}

	var registeredEvents, ratees []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		regs := s.registrations.WithTx(tx)
		events := s.events.WithTx(tx)

		held, err := regs.SlotEventIDsForUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if registeredEvents, err = regs.EventIDsForUser(ctx, user.ID); err != nil {
			return err
		}
		if ratees, err = s.ratings.WithTx(tx).RateeIDsByRater(ctx, user.ID); err != nil {
			return err
		}
		for _, eventID := range held {
			if err := events.ReleaseSlot(ctx, eventID); err != nil {
				return err
			}
		}

		if err := regs.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := s.ratings.WithTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := s.notifications.WithTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	for _, eventID := range registeredEvents {
		s.stats.InvalidateEvent(ctx, eventID)
	}
	for _, rateeID := range ratees {
		s.stats.InvalidateUserRating(ctx, rateeID)
	}
	s.stats.InvalidateUserRating(ctx, user.ID)
	return nil
}

// UsersByRole lists public profiles; identity and email are never exposed.
func (s *UserService) UsersByRole(ctx context.Context, role constants.Role) ([]dtos.PublicUser, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Unknown role %q", role)
	}

	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, dtos.NewPublicUser(&users[i]))
	}
	return out, nil
}

// SubmitKJVerification files the host profile and switches the caller to KJ
// pending review.
func (s *UserService) SubmitKJVerification(ctx context.Context, identityID string, req dtos.KJVerificationRequest) (*gormModels.User, error) {
	if strings.TrimSpace(req.Experience) == "" {
		return nil, apperr.Validation("Experience is required")
	}

	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	user.Role = constants.RoleKJ
	user.Experience = strings.TrimSpace(req.Experience)
	user.Equipment = req.Equipment
	user.Genres = req.Genres
	user.VerificationStatus = constants.VerificationPending
	user.ProfileCompleted = true

	return s.users.UpdateColumns(ctx, user,
		"role", "experience", "equipment", "genres", "verification_status", "profile_completed")
}

func (s *UserService) SubmitPromoterVerification(ctx context.Context, identityID string, req dtos.PromoterVerificationRequest) (*gormModels.User, error) {
	if len(req.Venues) == 0 {
		return nil, apperr.Validation("At least one venue is required")
	}
	if strings.TrimSpace(req.PromotionExperience) == "" {
		return nil, apperr.Validation("Promotion experience is required")
	}

	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	user.Role = constants.RolePromoter
	user.Venues = req.Venues
	user.PromotionExperience = strings.TrimSpace(req.PromotionExperience)
	user.VerificationStatus = constants.VerificationPending
	user.ProfileCompleted = true

	return s.users.UpdateColumns(ctx, user,
		"role", "venues", "promotion_experience", "verification_status", "profile_completed")
}

// ReviewVerification records an operator decision on a pending submission.
func (s *UserService) ReviewVerification(ctx context.Context, identityID string, status constants.VerificationStatus) (*gormModels.User, error) {
	if status != constants.VerificationVerified && status != constants.VerificationRejected {
		return nil, apperr.Validation("Status must be verified or rejected")
	}

	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if user.VerificationStatus != constants.VerificationPending {
		return nil, apperr.Conflict("No pending verification for this user")
	}

	return s.users.Update(ctx, user.ID, map[string]any{"verification_status": status})
}

func (s *UserService) PendingVerifications(ctx context.Context, role constants.Role) ([]dtos.PublicUser, error) {
	if role != constants.RoleKJ && role != constants.RolePromoter {
		return nil, apperr.Validation("Only KJ and Promoter accounts are verified")
	}

	users, err := s.users.ListPendingVerification(ctx, role)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, dtos.NewPublicUser(&users[i]))
	}
	return out, nil
}

func (s *UserService) VerificationStatus(ctx context.Context, identityID string) (*dtos.VerificationStatusResponse, error) {
	user, err := s.users.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return &dtos.VerificationStatusResponse{
		Role:             user.Role,
		Status:           user.VerificationStatus,
		ProfileCompleted: user.ProfileCompleted,
	}, nil
}

func (s *UserService) checkUnique(ctx context.Context, user *gormModels.User) error {
	checks := []struct {
		exists func(context.Context, string) (bool, error)
		value  string
		msg    string
	}{
		{s.users.IdentityExists, user.IdentityID, constants.MsgIdentityTaken},
		{s.users.UsernameExists, user.Username, constants.MsgUsernameTaken},
		{s.users.EmailExists, user.Email, constants.MsgEmailTaken},
	}

	for _, c := range checks {
		taken, err := c.exists(ctx, c.value)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("%s", c.msg)
		}
	}
	return nil
}

// usernameRaced reports whether a failed insert collided on username alone.
func (s *UserService) usernameRaced(ctx context.Context, user *gormModels.User) (bool, error) {
	if taken, err := s.users.IdentityExists(ctx, user.IdentityID); err != nil || taken {
		return false, err
	}
	if taken, err := s.users.EmailExists(ctx, user.Email); err != nil || taken {
		return false, err
	}
	return s.users.UsernameExists(ctx, user.Username)
}

func newUserRecord(identityID string, req dtos.CreateUserRequest) (*gormModels.User, error) {
	if strings.TrimSpace(identityID) == "" {
		return nil, apperr.Validation("Identity is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("Email is not valid")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, apperr.Validation("First name is required")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Validation("Username is required")
	}

	role := req.Role
	if role == "" {
		role = constants.RoleKS
	}
	if !role.Valid() {
		return nil, apperr.Validation("Unknown role %q", role)
	}

	avatar := req.PhotoAvatar
	if avatar == "" {
		avatar = "default.png"
	}

	return &gormModels.User{
		IdentityID:  identityID,
		Email:       email,
		Username:    username,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhotoAvatar: avatar,
		Role:        role,
	}, nil
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	name := usernameChars.ReplaceAllString(local, "")
	if name == "" {
		name = "singer"
	}
	return name
}

func mutateUsername(base string) string {
	return fmt.Sprintf("%s%d", base, rand.Intn(1000))
}
