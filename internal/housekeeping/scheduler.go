// Package housekeeping runs the periodic sweep that regenerates pools, drops
// expired buffs and fails quests past their time limit.
package housekeeping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is satisfied by *engine.Service.
type Sweeper interface {
	HousekeepAll(ctx context.Context) error
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule validates a five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("housekeeping schedule %q: %w", expr, err)
	}
	return sched, nil
}

// NextRun reports when expr next fires after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}

type Scheduler struct {
	sweeper Sweeper
	log     *slog.Logger
	timeout time.Duration
	cron    *cron.Cron
}

func New(sweeper Sweeper, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		sweeper: sweeper,
		log:     logger,
		timeout: time.Minute,
		cron:    cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
	}
}

// Start registers the sweep on expr and starts the cron loop.
func (s *Scheduler) Start(expr string) error {
	if _, err := ParseSchedule(expr); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(expr, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("housekeeping schedule %q: %w", expr, err)
	}
	s.cron.Start()
	s.log.Info("housekeeping scheduled", "schedule", expr)
	return nil
}

// Stop halts the loop and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce sweeps every character immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.sweeper.HousekeepAll(ctx)
	if err != nil {
		s.log.Warn("housekeeping failed", "err", err, "elapsed", time.Since(start))
		return err
	}
	s.log.Debug("housekeeping done", "elapsed", time.Since(start))
	return nil
}
