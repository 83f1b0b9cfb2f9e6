package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSweepHour is the UTC hour daily sweeps fire at. Sentinel-2
// acquisitions over the corn belt land mid-morning local time, so by
// 18:00 UTC the day's scenes are processed and queryable.
const DefaultSweepHour = 18

// Scheduler runs a sweep once a day at a fixed UTC hour.
type Scheduler struct {
	runner *Runner
	hour   int
	now    func() time.Time
}

// NewScheduler builds a daily scheduler. hour is the UTC hour of day;
// out-of-range values fall back to [DefaultSweepHour].
func NewScheduler(runner *Runner, hour int) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = DefaultSweepHour
	}
	return &Scheduler{runner: runner, hour: hour, now: time.Now}
}

// Run fires one sweep immediately, then blocks until ctx is done,
// sweeping at the scheduled hour each day. Sweep failures are logged;
// the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := log.FromContext(ctx)

	// Catch-up sweep on startup so a restart never loses the day.
	if _, err := s.runner.Sweep(ctx, Options{}); err != nil {
		logger.Error("startup sweep failed", "error", err)
	}

	for {
		wait := s.untilNext()
		logger.Info("next sweep scheduled", "in", wait.Round(time.Minute))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := s.runner.Sweep(ctx, Options{}); err != nil {
			logger.Error("scheduled sweep failed", "error", err)
		}
	}
}

func (s *Scheduler) untilNext() time.Duration {
	now := s.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
