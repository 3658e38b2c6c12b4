package repositories

import (
	"context"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *RatingRepository) WithTx(tx *gorm.DB) *RatingRepository {
	return &RatingRepository{db: tx}
}

func (r *RatingRepository) Create(ctx context.Context, rating *gormModels.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return writeErr("failed to create rating", err, constants.MsgAlreadyRated)
	}
	return nil
}

func (r *RatingRepository) Exists(ctx context.Context, eventID, raterID, rateeID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Rating{}).
		Where("event_id = ? AND rater_id = ? AND ratee_id = ?", eventID, raterID, rateeID).
		Count(&count).Error
	if err != nil {
		return false, readErr("failed to check rating", err, "")
	}
	return count > 0, nil
}

func (r *RatingRepository) ListByEvent(ctx context.Context, eventID string) ([]gormModels.Rating, error) {
	var ratings []gormModels.Rating

	err := r.db.WithContext(ctx).
		Preload("Rater", publicProfile).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, readErr("failed to list event ratings", err, "")
	}
	return ratings, nil
}

// ListForRateeAtEvent returns the ratings a user received at one event.
func (r *RatingRepository) ListForRateeAtEvent(ctx context.Context, eventID, rateeID string) ([]gormModels.Rating, error) {
	var ratings []gormModels.Rating

	err := r.db.WithContext(ctx).
		Preload("Rater", publicProfile).
		Where("event_id = ? AND ratee_id = ?", eventID, rateeID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, readErr("failed to list user ratings", err, "")
	}
	return ratings, nil
}

func (r *RatingRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&gormModels.Rating{}).Error; err != nil {
		return writeErr("failed to delete event ratings", err, "")
	}
	return nil
}

// RateeIDsByRater lists the users the rater has rated.
func (r *RatingRepository) RateeIDsByRater(ctx context.Context, raterID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gormModels.Rating{}).
		Where("rater_id = ?", raterID).
		Distinct().
		Pluck("ratee_id", &ids).Error
	if err != nil {
		return nil, readErr("failed to list ratees", err, "")
	}
	return ids, nil
}

// DeleteByUser removes ratings the user gave or received.
func (r *RatingRepository) DeleteByUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("rater_id = ? OR ratee_id = ?", userID, userID).
		Delete(&gormModels.Rating{}).Error
	if err != nil {
		return writeErr("failed to delete user ratings", err, "")
	}
	return nil
}
