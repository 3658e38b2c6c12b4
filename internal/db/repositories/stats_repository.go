package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/entities"
)

// StatsRepository runs the read-side aggregates over sqlx. Each method is a
// single statement.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) EventRegistrationStats(ctx context.Context, eventID string) (*entities.RegistrationStats, error) {
	var stats entities.RegistrationStats

	query := r.db.Rebind(constants.EventRegistrationStatsQuery)
	if err := r.db.GetContext(ctx, &stats, query, eventID); err != nil {
		return nil, apperr.Internal("failed to aggregate registration stats", err)
	}
	return &stats, nil
}

// StatsForEvents aggregates several events in one grouped query. Events with
// no registrations are present with zero counts.
func (r *StatsRepository) StatsForEvents(ctx context.Context, eventIDs []string) (map[string]entities.RegistrationStats, error) {
	result := make(map[string]entities.RegistrationStats, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(constants.EventsRegistrationStatsQuery, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand stats query: %w", err)
	}

	var rows []entities.EventRegistrationStats
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperr.Internal("failed to aggregate registration stats", err)
	}

	for _, id := range eventIDs {
		result[id] = entities.RegistrationStats{}
	}
	for _, row := range rows {
		result[row.EventID] = row.RegistrationStats
	}
	return result, nil
}

func (r *StatsRepository) UserRating(ctx context.Context, userID string) (*entities.UserRating, error) {
	var rating entities.UserRating

	query := r.db.Rebind(constants.UserRatingAggregateQuery)
	if err := r.db.GetContext(ctx, &rating, query, userID); err != nil {
		return nil, apperr.Internal("failed to aggregate user rating", err)
	}
	return &rating, nil
}

func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
