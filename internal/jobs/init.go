package jobs

import (
	"context"
	"sync"
	"time"

	"karaoke-events/kjhub/internal/config"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/services"
)

// Job is one unit of background work run on a schedule.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunScheduled runs job immediately and then on every tick until ctx is done.
func RunScheduled(ctx context.Context, job Job, interval time.Duration, metricsReg *metrics.MetricsRegistry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runOnce(ctx, job, metricsReg)
	for {
		select {
		case <-ticker.C:
			runOnce(ctx, job, metricsReg)
		case <-ctx.Done():
			logging.Info("Shutting down scheduled job", "job", job.Name())
			return
		}
	}
}

func runOnce(ctx context.Context, job Job, metricsReg *metrics.MetricsRegistry) {
	start := time.Now()
	err := job.Run(ctx)
	metricsReg.JobDuration.WithLabelValues(job.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		logging.Error("Scheduled job failed", "job", job.Name(), "error", err)
	}
}

// InitializeJobs starts all background jobs. The returned WaitGroup is done
// once every job loop has exited after ctx is cancelled.
func InitializeJobs(
	ctx context.Context,
	cfg config.JobsConfig,
	events *repositories.EventRepository,
	registrations *repositories.RegistrationRepository,
	notifier services.Notifier,
	metricsReg *metrics.MetricsRegistry,
) *sync.WaitGroup {
	scheduled := []struct {
		job      Job
		interval time.Duration
	}{
		{NewReminderJob(registrations, notifier, cfg.ReminderWindow), cfg.ReminderInterval},
		{NewEventLifecycleJob(events), cfg.LifecycleInterval},
	}

	var wg sync.WaitGroup
	for _, s := range scheduled {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			RunScheduled(ctx, s.job, s.interval, metricsReg)
		}()
		logging.Info("Scheduled background job", "job", s.job.Name(), "interval", s.interval.String())
	}
	return &wg
}
