package services

import (
	"context"
	"math"
	"time"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/models/entities"
)

// StatsService serves the read-side aggregates through the cache. Ledger
// writes call the Invalidate methods once their change is committed.
type StatsService struct {
	repo    *repositories.StatsRepository
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewStatsService(repo *repositories.StatsRepository, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *StatsService {
	return &StatsService{repo: repo, cache: cache, ttl: ttl, metrics: m}
}

// EventRegistrationStats returns one consistent snapshot of the event's counts.
func (s *StatsService) EventRegistrationStats(ctx context.Context, eventID string) (*entities.RegistrationStats, error) {
	stats, hit, err := common.GetOrLoad(ctx, s.cache, cacheKey(constants.CachePrefixEventStats, eventID), s.ttl,
		func() (entities.RegistrationStats, error) {
			st, err := s.repo.EventRegistrationStats(ctx, eventID)
			if err != nil {
				return entities.RegistrationStats{}, err
			}
			return *st, nil
		})
	if err != nil {
		return nil, err
	}
	s.observe(constants.CachePrefixEventStats, hit)
	return &stats, nil
}

// StatsForEvents is uncached; it backs list views that already batch.
func (s *StatsService) StatsForEvents(ctx context.Context, eventIDs []string) (map[string]entities.RegistrationStats, error) {
	return s.repo.StatsForEvents(ctx, eventIDs)
}

// UserRating is the average rating received, rounded to one decimal.
func (s *StatsService) UserRating(ctx context.Context, userID string) (*entities.UserRating, error) {
	rating, hit, err := common.GetOrLoad(ctx, s.cache, cacheKey(constants.CachePrefixUserRating, userID), s.ttl,
		func() (entities.UserRating, error) {
			r, err := s.repo.UserRating(ctx, userID)
			if err != nil {
				return entities.UserRating{}, err
			}
			if r.Count == 0 {
				return entities.UserRating{}, nil
			}
			return entities.UserRating{Average: math.Round(r.Average*10) / 10, Count: r.Count}, nil
		})
	if err != nil {
		return nil, err
	}
	s.observe(constants.CachePrefixUserRating, hit)
	return &rating, nil
}

func (s *StatsService) InvalidateEvent(ctx context.Context, eventID string) {
	s.invalidate(ctx, cacheKey(constants.CachePrefixEventStats, eventID))
}

func (s *StatsService) InvalidateUserRating(ctx context.Context, userID string) {
	s.invalidate(ctx, cacheKey(constants.CachePrefixUserRating, userID))
}

func (s *StatsService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logging.Warn("Failed to invalidate cache", "key", key, "error", err)
	}
}

func (s *StatsService) observe(prefix constants.CachePrefix, hit bool) {
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(string(prefix)).Inc()
		return
	}
	s.metrics.CacheMissesTotal.WithLabelValues(string(prefix)).Inc()
}

func cacheKey(prefix constants.CachePrefix, id string) string {
	return string(prefix) + id
}
