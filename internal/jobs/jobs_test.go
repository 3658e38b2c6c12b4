package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
	"karaoke-events/kjhub/internal/services"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []services.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice services.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
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
	return gdb
}

var seq int

// seedEvent stores a published event starting at start with one registration
// per status given.
func seedEvent(t *testing.T, gdb *gorm.DB, start time.Time, statuses ...constants.RegistrationStatus) *gormModels.Event {
	t.Helper()

	seq++
	tag := fmt.Sprintf("e%d", seq)
	host := &gormModels.User{IdentityID: "id-host-" + tag, Email: tag + "@host.test", Username: "host_" + tag, FirstName: "Host", Role: constants.RoleKJ}
	cat := &gormModels.Category{Name: "Category " + tag}
	for _, v := range []any{host, cat} {
		if err := gdb.Create(v).Error; err != nil {
			t.Fatalf("Failed to seed: %v", err)
		}
	}

	event := &gormModels.Event{
		Title: "Mic Night", Description: "d", Location: "l",
		StartDateTime: start, EndDateTime: start.Add(2 * time.Hour),
		CategoryID: cat.ID, HostID: host.ID, Capacity: 10,
		Status: constants.EventStatusPublished,
	}
	if err := gdb.Create(event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}

	for i, status := range statuses {
		stag := fmt.Sprintf("%s_s%d", tag, i)
		singer := &gormModels.User{IdentityID: "id-" + stag, Email: stag + "@singer.test", Username: "singer_" + stag, FirstName: "S", Role: constants.RoleKS}
		if err := gdb.Create(singer).Error; err != nil {
			t.Fatalf("Failed to seed singer: %v", err)
		}
		reg := &gormModels.Registration{
			EventID: event.ID, UserID: singer.ID,
			RegistrationType: constants.RegistrationTypeRegistered,
			Status:           status,
			GroupSize:        1,
		}
		if err := gdb.Create(reg).Error; err != nil {
			t.Fatalf("Failed to seed registration: %v", err)
		}
	}
	return event
}

func TestReminderJobSendsOncePerRegistration(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Now().UTC()

	seedEvent(t, gdb, now.Add(3*time.Hour), constants.RegistrationStatusApproved, constants.RegistrationStatusPending)
	seedEvent(t, gdb, now.Add(72*time.Hour), constants.RegistrationStatusApproved)

	notifier := &recordingNotifier{}
	job := NewReminderJob(repositories.NewRegistrationRepository(gdb), notifier, 24*time.Hour)
	job.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if err := job.Run(context.Background()); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	if len(notifier.notices) != 1 {
		t.Fatalf("expected exactly one reminder, got %d", len(notifier.notices))
	}
	n := notifier.notices[0]
	if n.Type != constants.NotificationTypeReminder || n.Title != "Mic Night" {
		t.Errorf("unexpected reminder %+v", n)
	}
}

func TestEventLifecycleJobCompletesEndedEvents(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Now().UTC()

	ended := seedEvent(t, gdb, now.Add(-5*time.Hour))
	upcoming := seedEvent(t, gdb, now.Add(5*time.Hour))

	job := NewEventLifecycleJob(repositories.NewEventRepository(gdb))
	job.now = func() time.Time { return now }
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for id, want := range map[string]constants.EventStatus{
		ended.ID:    constants.EventStatusCompleted,
		upcoming.ID: constants.EventStatusPublished,
	} {
		var ev gormModels.Event
		if err := gdb.First(&ev, "id = ?", id).Error; err != nil {
			t.Fatalf("Failed to reload event: %v", err)
		}
		if ev.Status != want {
			t.Errorf("event %s: expected %s, got %s", id, want, ev.Status)
		}
	}
}

type countingJob struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return j.err
}

func TestRunScheduledStopsOnCancel(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())
	job := &countingJob{err: errors.New("boom")}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunScheduled(ctx, job, 10*time.Millisecond, metrics.NewMetricsRegistry())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunScheduled did not return after cancel")
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	if job.runs < 2 {
		t.Errorf("expected the immediate run plus ticks, got %d runs", job.runs)
	}
}
