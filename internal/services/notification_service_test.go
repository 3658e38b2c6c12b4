package services

import (
	"context"
	"testing"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
)

func TestNotificationOutbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sally := env.newUser(t, "sally", constants.RoleKS)
	other := env.newUser(t, "other", constants.RoleKS)

	for _, title := range []string{"One", "Two", "Three"} {
		env.notifications.Notify(ctx, Notice{
			UserID:  sally.ID,
			Type:    constants.NotificationTypeReminder,
			Title:   title,
			Message: "Your event starts soon",
			Data:    map[string]any{"eventId": "e1"},
		})
	}

	list, err := env.notifications.List(ctx, sally.ID, 0)
	if err != nil || len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d, %v", len(list), err)
	}
	if list[0].Data["eventId"] != "e1" {
		t.Errorf("expected data to round-trip, got %+v", list[0].Data)
	}

	if err := env.notifications.MarkRead(ctx, list[0].ID, other.ID); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("marking someone else's notification: expected Unauthorized, got %v", err)
	}
	if err := env.notifications.MarkRead(ctx, list[0].ID, sally.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	count, err := env.notifications.UnreadCount(ctx, sally.ID)
	if err != nil || count != 2 {
		t.Errorf("expected 2 unread, got %d, %v", count, err)
	}
	unread, err := env.notifications.Unread(ctx, sally.ID)
	if err != nil || len(unread) != 2 {
		t.Errorf("expected 2 unread notifications, got %d, %v", len(unread), err)
	}

	if err := env.notifications.Delete(ctx, list[1].ID, other.ID); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("deleting someone else's notification: expected Unauthorized, got %v", err)
	}
	if err := env.notifications.Delete(ctx, list[1].ID, sally.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	marked, err := env.notifications.MarkAllRead(ctx, sally.ID)
	if err != nil || marked != 1 {
		t.Errorf("expected 1 notification marked, got %d, %v", marked, err)
	}
	if count, _ := env.notifications.UnreadCount(ctx, sally.ID); count != 0 {
		t.Errorf("expected no unread notifications, got %d", count)
	}

	if err := env.notifications.MarkRead(ctx, "missing", sally.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestNotificationListLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sally := env.newUser(t, "sally", constants.RoleKS)

	for i := 0; i < 5; i++ {
		env.notifications.Notify(ctx, Notice{UserID: sally.ID, Type: constants.NotificationTypeRating, Title: "t", Message: "m"})
	}

	list, err := env.notifications.List(ctx, sally.ID, 2)
	if err != nil || len(list) != 2 {
		t.Errorf("expected 2 notifications, got %d, %v", len(list), err)
	}
}
