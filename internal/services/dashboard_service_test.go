package services

import (
	"context"
	"testing"
	"time"

	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

func TestDashboardsByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	host := env.newUser(t, "kj_mike", constants.RoleKJ)
	sally := env.newUser(t, "sally", constants.RoleKS)
	pat := env.newUser(t, "pat", constants.RoleKS)
	promoter := env.newUser(t, "pam", constants.RolePromoter)

	upcoming := env.newEvent(t, host, 5, nil)
	later := env.newEvent(t, host, 5, func(r *dtos.CreateEventRequest) {
		r.StartDateTime = r.StartDateTime.Add(24 * time.Hour)
		r.EndDateTime = r.EndDateTime.Add(24 * time.Hour)
	})
	env.newEvent(t, host, 5, func(r *dtos.CreateEventRequest) { r.Status = constants.EventStatusDraft })

	approvedReg := env.register(t, upcoming, sally, constants.RegistrationTypeRegistered)
	if _, err := env.registrations.ApproveRegistration(ctx, approvedReg.ID, host.IdentityID, dtos.DecisionRequest{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	env.register(t, later, sally, constants.RegistrationTypeInterested)
	env.register(t, upcoming, pat, constants.RegistrationTypeRegistered)

	t.Run("KJ", func(t *testing.T) {
		d, err := env.dashboard.ForUser(ctx, host)
		if err != nil {
			t.Fatalf("ForUser failed: %v", err)
		}
		if d.KJ == nil || d.KS != nil || d.Promoter != nil {
			t.Fatalf("expected only the KJ overview, got %+v", d)
		}
		if d.KJ.TotalEvents != 3 || d.KJ.PendingRegistrations != 1 || d.KJ.RecentRegistrations != 3 {
			t.Errorf("unexpected KJ counts: %+v", d.KJ)
		}
		if len(d.KJ.UpcomingEvents) != 2 || d.KJ.UpcomingEvents[0].ID != upcoming.ID {
			t.Errorf("expected 2 upcoming published events soonest first, got %d", len(d.KJ.UpcomingEvents))
		}

		queue, err := env.dashboard.KJRegistrationQueue(ctx, host.ID)
		if err != nil || len(queue) != 1 || queue[0].UserID != pat.ID {
			t.Errorf("expected pat in the queue, got %+v, %v", queue, err)
		}

		withStats, err := env.dashboard.KJEventsWithStats(ctx, host.ID)
		if err != nil || len(withStats) != 3 {
			t.Fatalf("expected 3 events with stats, got %d, %v", len(withStats), err)
		}
		for _, e := range withStats {
			if e.ID == upcoming.ID && (e.Stats.TotalApproved != 1 || e.Stats.TotalPending != 1 || e.Stats.TotalRegistered != 2) {
				t.Errorf("unexpected stats for upcoming event: %+v", e.Stats)
			}
			if e.ID == later.ID && e.Stats.TotalInterested != 1 {
				t.Errorf("unexpected stats for later event: %+v", e.Stats)
			}
		}
	})

	t.Run("KS", func(t *testing.T) {
		d, err := env.dashboard.ForUser(ctx, sally)
		if err != nil {
			t.Fatalf("ForUser failed: %v", err)
		}
		if d.KS == nil {
			t.Fatalf("expected the KS overview")
		}
		if d.KS.RegisteredEvents != 1 || d.KS.InterestedEvents != 1 || d.KS.AttendedEvents != 0 {
			t.Errorf("unexpected KS counts: %+v", d.KS)
		}
		if len(d.KS.UpcomingRegistrations) != 1 || d.KS.UpcomingRegistrations[0].Event == nil {
			t.Errorf("expected one upcoming approved registration with event, got %+v", d.KS.UpcomingRegistrations)
		}

		interested, err := env.dashboard.KSInterestedEvents(ctx, sally.ID)
		if err != nil || len(interested) != 1 || interested[0].EventID != later.ID {
			t.Errorf("unexpected interested events: %+v, %v", interested, err)
		}

		if _, err := env.registrations.MarkAttendance(ctx, approvedReg.ID, host.IdentityID); err != nil {
			t.Fatalf("MarkAttendance failed: %v", err)
		}
		history, err := env.dashboard.KSEventHistory(ctx, sally.ID)
		if err != nil || len(history) != 1 || history[0].Status != constants.RegistrationStatusAttended {
			t.Errorf("unexpected history: %+v, %v", history, err)
		}
	})

	t.Run("Promoter", func(t *testing.T) {
		d, err := env.dashboard.ForUser(ctx, promoter)
		if err != nil {
			t.Fatalf("ForUser failed: %v", err)
		}
		if d.Promoter == nil || len(d.Promoter.UpcomingEvents) != 2 {
			t.Errorf("expected 2 upcoming events for the promoter, got %+v", d.Promoter)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		if _, err := env.dashboard.ForUser(ctx, &gormModels.User{Role: "ghost"}); err == nil {
			t.Error("expected an error for an unknown role")
		}
	})
}
