// Package sweeper runs the periodic deadline sweep on a background scheduler.
package sweeper

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// Sweep is the function invoked on every tick.
type Sweep func(now time.Time, dryRun bool)

// Sweeper owns the scheduler lifecycle for the deadline sweep job.
type Sweeper struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	sweep     Sweep
}

// New creates a Sweeper that calls sweep every interval.
func New(interval time.Duration, sweep Sweep) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		scheduler: scheduler,
		interval:  interval,
		sweep:     sweep,
	}, nil
}

// Start schedules the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.sweep(time.Now(), false)
		}),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	log.Info("Deadline sweeper started", "interval", s.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Error("Failed to shut down sweeper", "error", err)
	}
}
