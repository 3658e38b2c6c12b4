package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/models/dtos"
	"karaoke-events/kjhub/internal/models/entities"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// RatingService records ratings between an event's host and its singers.
type RatingService struct {
	users         *repositories.UserRepository
	events        *repositories.EventRepository
	registrations *repositories.RegistrationRepository
	ratings       *repositories.RatingRepository
	stats         *StatsService
	notifier      Notifier
}

func NewRatingService(
	users *repositories.UserRepository,
	events *repositories.EventRepository,
	registrations *repositories.RegistrationRepository,
	ratings *repositories.RatingRepository,
	stats *StatsService,
	notifier Notifier,
) *RatingService {
	return &RatingService{
		users:         users,
		events:        events,
		registrations: registrations,
		ratings:       ratings,
		stats:         stats,
		notifier:      notifier,
	}
}

// SubmitRating stores one rating per (event, rater, ratee). The host rates
// singers (ks_rating) and singers rate the host (kj_rating).
func (s *RatingService) SubmitRating(ctx context.Context, raterIdentity string, req dtos.CreateRatingRequest) (*gormModels.Rating, error) {
	if req.Rating < constants.MinRating || req.Rating > constants.MaxRating {
		return nil, apperr.Validation("Rating must be between %d and %d", constants.MinRating, constants.MaxRating)
	}
	review := strings.TrimSpace(req.Review)
	if utf8.RuneCountInString(review) > constants.MaxReviewLength {
		return nil, apperr.Validation("Review cannot exceed %d characters", constants.MaxReviewLength)
	}

	rater, err := s.users.GetByIdentity(ctx, raterIdentity)
	if err != nil {
		return nil, err
	}
	if rater.ID == req.RateeID {
		return nil, apperr.Validation("You cannot rate yourself")
	}
	if _, err := s.users.GetByID(ctx, req.RateeID); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	ratingType, err := s.ratingType(ctx, event, rater.ID, req.RateeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.ratings.Exists(ctx, event.ID, rater.ID, req.RateeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("%s", constants.MsgAlreadyRated)
	}

	rating := &gormModels.Rating{
		EventID: event.ID,
		RaterID: rater.ID,
		RateeID: req.RateeID,
		Rating:  req.Rating,
		Review:  review,
		Type:    ratingType,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.stats.InvalidateUserRating(ctx, req.RateeID)

	title, message := "New Singer Rating", fmt.Sprintf("You received a %d/5 star rating from the KJ", req.Rating)
	if ratingType == constants.RatingTypeKJ {
		title, message = "New KJ Rating", fmt.Sprintf("You received a %d/5 star rating for your event", req.Rating)
	}
	s.notifier.Notify(ctx, Notice{
		UserID:  req.RateeID,
		Type:    constants.NotificationTypeRating,
		Title:   title,
		Message: message,
		Data:    map[string]any{"eventId": event.ID, "rating": req.Rating},
	})

	return rating, nil
}

func (s *RatingService) UserRating(ctx context.Context, userID string) (*entities.UserRating, error) {
	return s.stats.UserRating(ctx, userID)
}

func (s *RatingService) EventRatings(ctx context.Context, eventID string) ([]gormModels.Rating, error) {
	return s.ratings.ListByEvent(ctx, eventID)
}

func (s *RatingService) UserRatingsForEvent(ctx context.Context, eventID, userID string) ([]gormModels.Rating, error) {
	return s.ratings.ListForRateeAtEvent(ctx, eventID, userID)
}

// ratingType works out which side of the event each party is on. The singer
// side must hold a registration on the event.
func (s *RatingService) ratingType(ctx context.Context, event *gormModels.Event, raterID, rateeID string) (constants.RatingType, error) {
	var singerID string
	var ratingType constants.RatingType

	switch {
	case event.HostID == raterID:
		singerID, ratingType = rateeID, constants.RatingTypeKS
	case event.HostID == rateeID:
		singerID, ratingType = raterID, constants.RatingTypeKJ
	default:
		return "", apperr.Unauthorized("Ratings are only exchanged between an event's KJ and its singers")
	}

	if _, err := s.registrations.GetByEventAndUser(ctx, event.ID, singerID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.Unauthorized("Only singers registered for this event can be rated or rate its KJ")
		}
		return "", err
	}
	return ratingType, nil
}
