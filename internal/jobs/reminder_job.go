package jobs

import (
	"context"
	"fmt"
	"time"

	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/services"
)

// ReminderJob sends one reminder per approved registration whose event starts
// within the window.
type ReminderJob struct {
	registrations *repositories.RegistrationRepository
	notifier      services.Notifier
	window        time.Duration
	now           func() time.Time
}

func NewReminderJob(registrations *repositories.RegistrationRepository, notifier services.Notifier, window time.Duration) *ReminderJob {
	return &ReminderJob{
		registrations: registrations,
		notifier:      notifier,
		window:        window,
		now:           time.Now,
	}
}

func (j *ReminderJob) Name() string { return "event_reminders" }

func (j *ReminderJob) Run(ctx context.Context) error {
	now := j.now().UTC()

	due, err := j.registrations.ListDueReminders(ctx, now, j.window)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for _, reg := range due {
		// Claim before sending so two instances never remind twice.
		claimed, err := j.registrations.MarkReminderSent(ctx, reg.ID, now)
		if err != nil {
			return fmt.Errorf("mark reminder %s: %w", reg.ID, err)
		}
		if !claimed {
			continue
		}

		title := "Upcoming event"
		data := map[string]any{"registrationId": reg.ID, "eventId": reg.EventID}
		message := "Your karaoke event starts soon"
		if reg.Event != nil {
			title = reg.Event.Title
			message = fmt.Sprintf("%s starts at %s", reg.Event.Title, reg.Event.StartDateTime.Format(time.RFC1123))
		}

		j.notifier.Notify(ctx, services.Notice{
			UserID:  reg.UserID,
			Type:    constants.NotificationTypeReminder,
			Title:   title,
			Message: message,
			Data:    data,
		})
		sent++
	}

	if sent > 0 {
		logging.Info("Sent event reminders", "count", sent)
	}
	return nil
}
