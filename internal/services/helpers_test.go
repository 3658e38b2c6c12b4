package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type testEnv struct {
	db            *gorm.DB
	cache         *common.CacheService
	metrics       *metrics.MetricsRegistry
	users         *UserService
	events        *EventService
	registrations *RegistrationService
	ratings       *RatingService
	notifications *NotificationService
	dashboard     *DashboardService
	stats         *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithConfig(t, &gorm.Config{TranslateError: true})
}

// newTestEnvWithConfig wires every service against an in-memory sqlite store.
// One connection keeps the in-memory database shared.
func newTestEnvWithConfig(t *testing.T, cfg *gorm.Config) *testEnv {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	userRepo := repositories.NewUserRepository(gdb)
	eventRepo := repositories.NewEventRepository(gdb)
	categoryRepo := repositories.NewCategoryRepository(gdb)
	registrationRepo := repositories.NewRegistrationRepository(gdb)
	ratingRepo := repositories.NewRatingRepository(gdb)
	notificationRepo := repositories.NewNotificationRepository(gdb)
	statsRepo := repositories.NewStatsRepository(sqlx.NewDb(sqlDB, "sqlite3"))

	m := metrics.NewMetricsRegistry()
	cache := common.NewCacheService(time.Minute, time.Minute)
	stats := NewStatsService(statsRepo, cache, time.Minute, m)
	notifications := NewNotificationService(notificationRepo, m)

	return &testEnv{
		db:            gdb,
		cache:         cache,
		metrics:       m,
		users:         NewUserService(gdb, userRepo, eventRepo, registrationRepo, ratingRepo, notificationRepo, stats),
		events:        NewEventService(gdb, userRepo, eventRepo, categoryRepo, registrationRepo, ratingRepo, stats, notifications),
		registrations: NewRegistrationService(gdb, userRepo, eventRepo, registrationRepo, stats, notifications, m),
		ratings:       NewRatingService(userRepo, eventRepo, registrationRepo, ratingRepo, stats, notifications),
		notifications: notifications,
		dashboard:     NewDashboardService(eventRepo, registrationRepo, stats),
		stats:         stats,
	}
}

// newUser creates a directory record whose identity, username and email all
// derive from name.
func (e *testEnv) newUser(t *testing.T, name string, role constants.Role) *gormModels.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), "id-"+name, dtos.CreateUserRequest{
		Username:  name,
		Email:     name + "@example.test",
		FirstName: name,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return u
}

// newEvent creates a published event hosted by host. mutate may adjust the request.
func (e *testEnv) newEvent(t *testing.T, host *gormModels.User, capacity int, mutate func(*dtos.CreateEventRequest)) *gormModels.Event {
	t.Helper()
	ctx := context.Background()

	var cat gormModels.Category
	if err := e.db.Where(gormModels.Category{Name: "Karaoke Night"}).FirstOrCreate(&cat).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	start := time.Now().Add(48 * time.Hour)
	req := dtos.CreateEventRequest{
		Title:         "Friday Night Mic",
		Description:   "Open mic karaoke",
		Location:      "The Blue Room",
		StartDateTime: start,
		EndDateTime:   start.Add(3 * time.Hour),
		IsFree:        true,
		CategoryID:    cat.ID,
		Capacity:      capacity,
		Status:        constants.EventStatusPublished,
	}
	if mutate != nil {
		mutate(&req)
	}

	event, err := e.events.CreateEvent(ctx, host.IdentityID, req)
	if err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event
}

func (e *testEnv) register(t *testing.T, event *gormModels.Event, singer *gormModels.User, regType constants.RegistrationType) *gormModels.Registration {
	t.Helper()
	reg, err := e.registrations.CreateRegistration(context.Background(), event.ID, singer.IdentityID, dtos.CreateRegistrationRequest{
		RegistrationType: regType,
	})
	if err != nil {
		t.Fatalf("Failed to register %s: %v", singer.Username, err)
	}
	return reg
}

func (e *testEnv) countNotifications(t *testing.T, userID string, typ constants.NotificationType) int64 {
	t.Helper()
	var n int64
	err := e.db.Model(&gormModels.Notification{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Count(&n).Error
	if err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return n
}

func (e *testEnv) reloadEvent(t *testing.T, id string) *gormModels.Event {
	t.Helper()
	var ev gormModels.Event
	if err := e.db.Where("id = ?", id).First(&ev).Error; err != nil {
		t.Fatalf("Failed to reload event: %v", err)
	}
	return &ev
}
