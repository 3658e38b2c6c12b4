package jobs

import (
	"context"
	"fmt"
	"time"

	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
)

// EventLifecycleJob completes published events that have ended.
type EventLifecycleJob struct {
	events *repositories.EventRepository
	now    func() time.Time
}

func NewEventLifecycleJob(events *repositories.EventRepository) *EventLifecycleJob {
	return &EventLifecycleJob{events: events, now: time.Now}
}

func (j *EventLifecycleJob) Name() string { return "event_lifecycle" }

func (j *EventLifecycleJob) Run(ctx context.Context) error {
	completed, err := j.events.CompleteEnded(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("complete ended events: %w", err)
	}
	if completed > 0 {
		logging.Info("Completed ended events", "count", completed)
	}
	return nil
}
