package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/config"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/services"
)

type Repositories struct {
	User         *repositories.UserRepository
	Category     *repositories.CategoryRepository
	Event        *repositories.EventRepository
	Registration *repositories.RegistrationRepository
	Rating       *repositories.RatingRepository
	Notification *repositories.NotificationRepository
	Stats        *repositories.StatsRepository
}

type Services struct {
	Cache        common.CacheInterface
	User         *services.UserService
	Event        *services.EventService
	Registration *services.RegistrationService
	Rating       *services.RatingService
	Notification *services.NotificationService
	Stats        *services.StatsService
	Dashboard    *services.DashboardService
}

type Dependencies struct {
	Config   *config.Config
	Metrics  *metrics.MetricsRegistry
	SQLX     *sqlx.DB
	Redis    *redis.Client
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services over the given store
// handles. redisClient may be nil when the in-memory cache backend is used.
func InitDependencies(
	cfg *config.Config,
	gormDB *gorm.DB,
	sqlxDB *sqlx.DB,
	cache common.CacheInterface,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) *Dependencies {
	repos := &Repositories{
		User:         repositories.NewUserRepository(gormDB),
		Category:     repositories.NewCategoryRepository(gormDB),
		Event:        repositories.NewEventRepository(gormDB),
		Registration: repositories.NewRegistrationRepository(gormDB),
		Rating:       repositories.NewRatingRepository(gormDB),
		Notification: repositories.NewNotificationRepository(gormDB),
		Stats:        repositories.NewStatsRepository(sqlxDB),
	}

	statsSvc := services.NewStatsService(repos.Stats, cache, cfg.Cache.StatsTTL, metricsReg)
	notificationSvc := services.NewNotificationService(repos.Notification, metricsReg)

	svcs := &Services{
		Cache:        cache,
		User:         services.NewUserService(gormDB, repos.User, repos.Event, repos.Registration, repos.Rating, repos.Notification, statsSvc),
		Event:        services.NewEventService(gormDB, repos.User, repos.Event, repos.Category, repos.Registration, repos.Rating, statsSvc, notificationSvc),
		Registration: services.NewRegistrationService(gormDB, repos.User, repos.Event, repos.Registration, statsSvc, notificationSvc, metricsReg),
		Rating:       services.NewRatingService(repos.User, repos.Event, repos.Registration, repos.Rating, statsSvc, notificationSvc),
		Notification: notificationSvc,
		Stats:        statsSvc,
		Dashboard:    services.NewDashboardService(repos.Event, repos.Registration, statsSvc),
	}

	return &Dependencies{
		Config:   cfg,
		Metrics:  metricsReg,
		SQLX:     sqlxDB,
		Redis:    redisClient,
		Repo:     repos,
		Services: svcs,
	}
}
