// Package services – RetrainService
//
// This file implements the synchronous half of retrain orchestration: taking
// a user's trigger, validating hyperparameters, and placing a job on the
// queue. The caller gets a "queued" acknowledgment immediately; execution,
// the overlap guard, and failure reporting happen in the jobs worker.
package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dperalta/go-recsys-backend/internal/jobs"
	"github.com/dperalta/go-recsys-backend/internal/mlclient"
	"github.com/dperalta/go-recsys-backend/internal/poll"
)

// RetrainEnqueuer is the slice of the job queue this service needs.
type RetrainEnqueuer interface {
	Enqueue(ctx context.Context, job jobs.RetrainJob) error
}

// StatsFetcher is the slice of the ML client the completion watcher needs.
type StatsFetcher interface {
	Stats(ctx context.Context) (*mlclient.StatsResult, error)
}

// RetrainService validates and enqueues retrain triggers.
type RetrainService struct {
	Queue RetrainEnqueuer
	Stats StatsFetcher
}

// Enqueue validates the optional hyperparameters (max_components in [1,50],
// max_iter in [1,100]; nil means "service default") and pushes a manual
// retrain job. It never waits for, or reports, the retrain outcome.
func (s *RetrainService) Enqueue(ctx context.Context, maxComponents, maxIter *int) (jobs.RetrainJob, error) {
	if maxComponents != nil && (*maxComponents < 1 || *maxComponents > 50) {
		return jobs.RetrainJob{}, ErrInvalidRetrainParams
	}
	if maxIter != nil && (*maxIter < 1 || *maxIter > 100) {
		return jobs.RetrainJob{}, ErrInvalidRetrainParams
	}

	job := jobs.NewRetrainJob(jobs.SourceManual, maxComponents, maxIter)
	if err := s.Queue.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Msg("retrain enqueue failed")
		return jobs.RetrainJob{}, ErrEnqueueFailed
	}
	return job, nil
}

// NewWatcher builds a completion watcher bound to the stats endpoint. The
// caller owns the watcher's lifetime: Run it on a goroutine tied to a context
// that is cancelled when the owner goes away.
func (s *RetrainService) NewWatcher(onDone func(poll.Outcome)) *poll.Watcher {
	return &poll.Watcher{
		TrainedAt: func(ctx context.Context) (string, error) {
			st, err := s.Stats.Stats(ctx)
			if err != nil {
				return "", err
			}
			return st.TrainedAt(), nil
		},
		OnDone: onDone,
		Log:    log.With().Str("component", "retrain-watcher").Logger(),
	}
}
