package reconcile

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers the runner on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	runner   *Runner
	schedule string
}

// NewScheduler creates a scheduler running a full sync on schedule
// (standard five field cron syntax or descriptors such as "@every 1h").
func NewScheduler(runner *Runner, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	report, err := s.runner.Run()

	switch {
	case errors.Is(err, ErrSyncInProgress):
		log.Info().Msg("scheduled directory sync skipped, previous run still active")
	case err != nil:
		log.Error().Err(err).Msg("scheduled directory sync failed")
	default:
		log.Debug().Int("errors", report.Errors).Msg("scheduled directory sync completed")
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Msg("directory sync scheduler started")
}

// Stop stops the scheduler and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("directory sync scheduler stopped")
}
