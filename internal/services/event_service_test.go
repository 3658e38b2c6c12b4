package services

import (
	"context"
	"testing"
	"time"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

func TestCreateEventChecksCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	singer := env.newUser(t, "sally", constants.RoleKS)
	cat, err := env.events.CreateCategory(ctx, "Karaoke Night")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	start := time.Now().Add(24 * time.Hour)
	req := dtos.CreateEventRequest{
		Title: "Mic Night", Description: "d", Location: "l", CategoryID: cat.ID,
		StartDateTime: start, EndDateTime: start.Add(time.Hour), Capacity: 5,
	}

	if _, err := env.events.CreateEvent(ctx, "id-nobody", req); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown caller: expected NotFound, got %v", err)
	}
	if _, err := env.events.CreateEvent(ctx, singer.IdentityID, req); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("KS caller: expected Unauthorized, got %v", err)
	}
}

func TestCreateEventDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	host := env.newUser(t, "kj_mike", constants.RoleKJ)

	event := env.newEvent(t, host, 10, func(r *dtos.CreateEventRequest) { r.Status = "" })
	if event.Status != constants.EventStatusDraft {
		t.Errorf("expected draft, got %s", event.Status)
	}
	s := event.RegistrationSettings
	if !s.AllowGroupRegistration || !s.AllowSongRequests || s.RequireSongRequests || s.MaxGroupSize != constants.DefaultMaxGroupSize {
		t.Errorf("unexpected default settings: %+v", s)
	}
	if event.Host == nil || event.Host.ID != host.ID || event.Category == nil {
		t.Errorf("expected host and category preloaded")
	}

	zero, big, off := 0, 21, false
	on := true
	tests := []struct {
		name   string
		mutate func(*dtos.CreateEventRequest)
	}{
		{"missing title", func(r *dtos.CreateEventRequest) { r.Title = " " }},
		{"zero capacity", func(r *dtos.CreateEventRequest) { r.Capacity = 0 }},
		{"end before start", func(r *dtos.CreateEventRequest) { r.EndDateTime = r.StartDateTime.Add(-time.Minute) }},
		{"group size zero", func(r *dtos.CreateEventRequest) {
			r.RegistrationSettings = &dtos.RegistrationSettingsRequest{MaxGroupSize: &zero}
		}},
		{"group size too big", func(r *dtos.CreateEventRequest) {
			r.RegistrationSettings = &dtos.RegistrationSettingsRequest{MaxGroupSize: &big}
		}},
		{"required but not allowed", func(r *dtos.CreateEventRequest) {
			r.RegistrationSettings = &dtos.RegistrationSettingsRequest{AllowSongRequests: &off, RequireSongRequests: &on}
		}},
		{"bad initial status", func(r *dtos.CreateEventRequest) { r.Status = constants.EventStatusCompleted }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := baseEventRequest(t, env)
			tc.mutate(&req)
			if _, err := env.events.CreateEvent(context.Background(), host.IdentityID, req); !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected Validation, got %v", err)
			}
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		req := baseEventRequest(t, env)
		req.CategoryID = "missing"
		if _, err := env.events.CreateEvent(context.Background(), host.IdentityID, req); !apperr.Is(err, apperr.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func baseEventRequest(t *testing.T, env *testEnv) dtos.CreateEventRequest {
	t.Helper()
	var cat gormModels.Category
	if err := env.db.Where(gormModels.Category{Name: "Karaoke Night"}).FirstOrCreate(&cat).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	start := time.Now().Add(24 * time.Hour)
	return dtos.CreateEventRequest{
		Title: "Mic Night", Description: "d", Location: "l", CategoryID: cat.ID,
		StartDateTime: start, EndDateTime: start.Add(time.Hour), Capacity: 5,
	}
}

func TestUpdateEventOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	host := env.newUser(t, "kj_mike", constants.RoleKJ)
	other := env.newUser(t, "kj_other", constants.RoleKJ)
	event := env.newEvent(t, host, 10, nil)

	title := "Saturday Night Mic"
	if _, err := env.events.UpdateEvent(ctx, other.IdentityID, event.ID, dtos.UpdateEventRequest{Title: &title}); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected Unauthorized, got %v", err)
	}

	noSongs := false
	updated, err := env.events.UpdateEvent(ctx, host.IdentityID, event.ID, dtos.UpdateEventRequest{
		Title:                &title,
		RegistrationSettings: &dtos.RegistrationSettingsRequest{AllowSongRequests: &noSongs},
	})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if updated.Title != title || updated.RegistrationSettings.AllowSongRequests {
		t.Errorf("unexpected event after update: %+v", updated)
	}
	if updated.ApprovedCount != 0 || updated.Status != constants.EventStatusPublished {
		t.Errorf("update must not touch counter or status: %+v", updated)
	}

	zero := 0
	if _, err := env.events.UpdateEvent(ctx, host.IdentityID, event.ID, dtos.UpdateEventRequest{Capacity: &zero}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected Validation for zero capacity, got %v", err)
	}
}

func TestCancelEventNotifiesSingers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	host := env.newUser(t, "kj_mike", constants.RoleKJ)
	pending := env.newUser(t, "pat", constants.RoleKS)
	approved := env.newUser(t, "ann", constants.RoleKS)
	interested := env.newUser(t, "ivy", constants.RoleKS)
	event := env.newEvent(t, host, 10, nil)

	env.register(t, event, pending, constants.RegistrationTypeRegistered)
	reg := env.register(t, event, approved, constants.RegistrationTypeRegistered)
	env.register(t, event, interested, constants.RegistrationTypeInterested)
	if _, err := env.registrations.ApproveRegistration(ctx, reg.ID, host.IdentityID, dtos.DecisionRequest{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	cancelled, err := env.events.UpdateEventStatus(ctx, host.IdentityID, event.ID, constants.EventStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateEventStatus failed: %v", err)
	}
	if cancelled.Status != constants.EventStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	for _, u := range []*gormModels.User{pending, approved} {
		if n := env.countNotifications(t, u.ID, constants.NotificationTypeEventUpdate); n != 1 {
			t.Errorf("%s: expected one event_update notification, got %d", u.Username, n)
		}
	}
	if n := env.countNotifications(t, interested.ID, constants.NotificationTypeEventUpdate); n != 0 {
		t.Errorf("bookmarks should not be notified, got %d", n)
	}

	if _, err := env.events.UpdateEventStatus(ctx, host.IdentityID, event.ID, constants.EventStatusPublished); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("reopening a cancelled event: expected Conflict, got %v", err)
	}
	_, err = env.registrations.CreateRegistration(ctx, event.ID, interested.IdentityID, dtos.CreateRegistrationRequest{
		RegistrationType: constants.RegistrationTypeRegistered,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("registering for a cancelled event: expected Conflict, got %v", err)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	host := env.newUser(t, "kj_mike", constants.RoleKJ)
	singer := env.newUser(t, "sally", constants.RoleKS)
	event := env.newEvent(t, host, 10, nil)
	env.register(t, event, singer, constants.RegistrationTypeRegistered)
	if _, err := env.ratings.SubmitRating(ctx, host.IdentityID, dtos.CreateRatingRequest{EventID: event.ID, RateeID: singer.ID, Rating: 4}); err != nil {
		t.Fatalf("SubmitRating failed: %v", err)
	}

	if err := env.events.DeleteEvent(ctx, singer.IdentityID, event.ID); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected Unauthorized, got %v", err)
	}
	if err := env.events.DeleteEvent(ctx, host.IdentityID, event.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	var regs, ratings int64
	env.db.Model(&gormModels.Registration{}).Where("event_id = ?", event.ID).Count(&regs)
	env.db.Model(&gormModels.Rating{}).Where("event_id = ?", event.ID).Count(&ratings)
	if regs != 0 || ratings != 0 {
		t.Errorf("expected registrations and ratings removed, got %d and %d", regs, ratings)
	}
	if _, err := env.events.GetEvent(ctx, event.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestListEventsPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := env.newUser(t, "kj_mike", constants.RoleKJ)

	for _, title := range []string{"Rock Night", "Pop Night", "Rock Classics", "Jazz Brunch", "rock lite", "Soul Sunday", "Metal Monday"} {
		title := title
		env.newEvent(t, host, 5, func(r *dtos.CreateEventRequest) { r.Title = title })
	}

	page, err := env.events.ListEvents(ctx, dtos.EventListQuery{Query: "ROCK"})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(page.Data) != 3 || page.TotalPages != 1 {
		t.Errorf("expected 3 rock events on 1 page, got %d on %d", len(page.Data), page.TotalPages)
	}

	all, err := env.events.ListEvents(ctx, dtos.EventListQuery{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all.Data) != constants.DefaultEventPageSize || all.TotalPages != 2 {
		t.Errorf("expected default page size %d and 2 pages, got %d and %d", constants.DefaultEventPageSize, len(all.Data), all.TotalPages)
	}

	related, err := env.events.RelatedEvents(ctx, all.Data[0].ID, 1, 3)
	if err != nil {
		t.Fatalf("RelatedEvents failed: %v", err)
	}
	for _, e := range related.Data {
		if e.ID == all.Data[0].ID {
			t.Error("related events must exclude the event itself")
		}
	}
	if related.TotalPages != 2 {
		t.Errorf("expected 6 related events over 2 pages, got %d pages", related.TotalPages)
	}

	hosted, err := env.events.EventsByHost(ctx, host.ID)
	if err != nil || len(hosted) != 7 {
		t.Errorf("expected 7 hosted events, got %d, %v", len(hosted), err)
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.events.CreateCategory(ctx, "Open Mic"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := env.events.CreateCategory(ctx, "Open Mic"); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected Conflict, got %v", err)
	}
	if _, err := env.events.CreateCategory(ctx, " "); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected Validation, got %v", err)
	}

	cats, err := env.events.ListCategories(ctx)
	if err != nil || len(cats) != 1 {
		t.Errorf("expected one category, got %v, %v", cats, err)
	}
}
