package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// enqueuer is the slice of the queue the scheduler needs.
type enqueuer interface {
	Enqueue(ctx context.Context, job RetrainJob) error
}

// Scheduler enqueues a parameterless retrain job on a cron cadence (hourly by
// default). It only produces jobs; execution, and the guarantee that
// overlapping triggers collapse into one retrain, live in the Worker and its
// lock.
//
// Each tick's failure is isolated: an enqueue error is logged and the next
// tick fires normally.
type Scheduler struct {
	Queue    enqueuer
	Schedule string // standard 5-field cron spec

	c *cron.Cron
}

// Start validates the spec and begins firing ticks. It returns an error only
// for an unparseable schedule; an empty schedule disables the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.Schedule == "" {
		log.Info().Msg("retrain scheduler disabled (empty schedule)")
		return nil
	}
	s.c = cron.New()
	_, err := s.c.AddFunc(s.Schedule, func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		job := NewRetrainJob(SourceScheduled, nil, nil)
		if err := s.Queue.Enqueue(tickCtx, job); err != nil {
			log.Error().Err(err).Msg("scheduled retrain enqueue failed")
			return
		}
		log.Info().Str("job_id", job.ID).Msg("scheduled retrain enqueued")
	})
	if err != nil {
		return err
	}
	s.c.Start()
	log.Info().Str("schedule", s.Schedule).Msg("retrain scheduler started")
	return nil
}

// Stop halts future ticks and waits for an in-progress tick to finish.
func (s *Scheduler) Stop() error {
	if s.c == nil {
		return nil
	}
	<-s.c.Stop().Done()
	log.Info().Msg("retrain scheduler stopped")
	return nil
}
