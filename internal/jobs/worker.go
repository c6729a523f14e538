package jobs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dperalta/go-recsys-backend/internal/mlclient"
)

var retrainJobs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "retrain_jobs_total",
		Help: "Retrain job executions by result (success, failed, skipped).",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(retrainJobs)
}

// retrainCaller is the slice of the ML client the worker needs.
type retrainCaller interface {
	Retrain(ctx context.Context, params mlclient.RetrainParams) (*mlclient.RetrainResult, error)
}

// overlapGuard is the slice of the lock the worker needs.
type overlapGuard interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, func(context.Context), error)
}

// jobSource is the slice of the queue the worker needs.
type jobSource interface {
	Dequeue(ctx context.Context, wait time.Duration) (*RetrainJob, error)
}

// Worker drains the retrain queue and executes jobs against the external
// service, one at a time, under the cluster-wide overlap lock.
//
// Failure isolation: a failed job is logged and counted but never stops the
// loop; the next job (or the next scheduled trigger) runs normally.
type Worker struct {
	Queue   jobSource
	Lock    overlapGuard
	Client  retrainCaller
	LockTTL time.Duration
}

// Run processes jobs until ctx is cancelled. Dequeue errors back off briefly
// so a redis outage does not spin the loop.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Msg("retrain worker started")
	for {
		if ctx.Err() != nil {
			log.Info().Msg("retrain worker stopped")
			return
		}
		job, err := w.Queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("retrain worker stopped")
				return
			}
			log.Error().Err(err).Msg("retrain queue dequeue failed")
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
			continue
		}
		if job == nil {
			continue // poll timeout, loop to re-check ctx
		}
		if err := w.Execute(ctx, *job); err != nil {
			log.Error().
				Err(err).
				Str("job_id", job.ID).
				Str("source", job.Source).
				Msg("retrain job failed")
		}
	}
}

// Execute runs a single retrain job.
//
// Overlap guard: if the lease is already held (another worker, or a
// scheduled run elsewhere in the cluster), the job is skipped as a no-op so
// exactly one retrain call reaches the service per lease window. Skips are
// logged and counted, never surfaced as errors.
//
// On success the returned model metadata is logged. On failure the service's
// structured error detail is logged and the error is returned so the caller
// records the job as failed; nothing is silently swallowed.
func (w *Worker) Execute(ctx context.Context, job RetrainJob) error {
	acquired, release, err := w.Lock.Acquire(ctx, w.LockTTL)
	if err != nil {
		retrainJobs.WithLabelValues("failed").Inc()
		return err
	}
	if !acquired {
		log.Info().
			Str("job_id", job.ID).
			Str("source", job.Source).
			Msg("retrain already in flight, skipping")
		retrainJobs.WithLabelValues("skipped").Inc()
		return nil
	}
	defer release(ctx)

	log.Info().
		Str("job_id", job.ID).
		Str("source", job.Source).
		Interface("max_components", job.MaxComponents).
		Interface("max_iter", job.MaxIter).
		Msg("starting model retrain")

	res, err := w.Client.Retrain(ctx, mlclient.RetrainParams{
		MaxComponents: job.MaxComponents,
		MaxIter:       job.MaxIter,
	})
	if err != nil {
		retrainJobs.WithLabelValues("failed").Inc()
		if f, ok := mlclient.AsFailure(err); ok {
			log.Error().
				Str("job_id", job.ID).
				Str("kind", string(f.Kind)).
				Int("status", f.Status).
				Str("detail", f.Message).
				Msg("model retrain failed")
		}
		return err
	}

	retrainJobs.WithLabelValues("success").Inc()
	log.Info().
		Str("job_id", job.ID).
		Interface("model_metadata", res.ModelMetadata()).
		Msg("model retrain completed")
	return nil
}
