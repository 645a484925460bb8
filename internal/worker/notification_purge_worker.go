package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// NotificationPurger deletes read notifications older than retention.
type NotificationPurger interface {
	PurgeRead(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// NotificationPurgeWorker runs the retention purge on a cron schedule.
type NotificationPurgeWorker struct {
	purger    NotificationPurger
	schedule  string
	retention time.Duration
	log       zerolog.Logger
	cron      *cron.Cron
	now       func() time.Time
}

// NewNotificationPurgeWorker creates a new NotificationPurgeWorker.
// schedule uses the standard five-field cron syntax or a descriptor such as @daily.
func NewNotificationPurgeWorker(purger NotificationPurger, schedule string, retention time.Duration, log zerolog.Logger) *NotificationPurgeWorker {
	return &NotificationPurgeWorker{
		purger:    purger,
		schedule:  schedule,
		retention: retention,
		log:       log.With().Str("component", "notification_purge_worker").Logger(),
		now:       time.Now,
	}
}

// Start registers the job and starts the scheduler in its own goroutine.
// ctx bounds each run.
func (w *NotificationPurgeWorker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { _, _ = w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", w.schedule, err)
	}
	w.cron = c
	c.Start()

	w.log.Info().
		Str("schedule", w.schedule).
		Dur("retention", w.retention).
		Msg("Worker started")
	return nil
}

// Stop halts the scheduler. The returned context is done once a running
// purge has finished.
func (w *NotificationPurgeWorker) Stop() context.Context {
	if w.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	w.log.Info().Msg("Worker stopping...")
	return w.cron.Stop()
}

// RunOnce performs one purge.
func (w *NotificationPurgeWorker) RunOnce(ctx context.Context) (int64, error) {
	start := w.now()
	purged, err := w.purger.PurgeRead(ctx, start, w.retention)
	if err != nil {
		w.log.Error().Err(err).Msg("Notification purge failed")
		return 0, err
	}
	w.log.Info().
		Int64("purged", purged).
		Dur("took", w.now().Sub(start)).
		Msg("Notification purge complete")
	return purged, nil
}
