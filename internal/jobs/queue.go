// Package jobs implements the asynchronous retrain pipeline: a redis-backed
// job queue, a cluster-wide overlap lock, the worker that executes retrain
// requests against the external service, and the recurring scheduler.
//
// The queue is a plain redis list: producers LPUSH JSON payloads, the worker
// blocks on BRPOP. Redis also backs the overlap lock, so "at most one retrain
// in flight" holds across every worker process sharing the instance, not just
// within one process.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RetrainSource records what triggered a job, for logs and metrics.
const (
	SourceManual    = "manual"
	SourceScheduled = "scheduled"
)

// RetrainJob is the queued unit of work. MaxComponents and MaxIter are
// optional hyperparameters passed through to the service; nil means "let the
// service use its default" and is omitted from the outbound payload.
type RetrainJob struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	MaxComponents *int      `json:"max_components,omitempty"`
	MaxIter       *int      `json:"max_iter,omitempty"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// NewRetrainJob builds a job with a fresh id and enqueue timestamp.
func NewRetrainJob(source string, maxComponents, maxIter *int) RetrainJob {
	return RetrainJob{
		ID:            uuid.NewString(),
		Source:        source,
		MaxComponents: maxComponents,
		MaxIter:       maxIter,
		EnqueuedAt:    time.Now().UTC(),
	}
}

// Queue is a redis-list job queue. Safe for concurrent use.
type Queue struct {
	rdb *redis.Client
	key string
}

// NewQueue wraps an existing redis client. The key is the list holding
// pending jobs.
func NewQueue(rdb *redis.Client, key string) *Queue {
	return &Queue{rdb: rdb, key: key}
}

// Enqueue pushes a job onto the queue and returns immediately; it never
// waits for execution. Delivery is at-least-once: if the producer retries
// after an ambiguous failure the job may run twice, which is safe because
// the retrain endpoint is idempotent and the overlap lock serializes runs.
func (q *Queue) Enqueue(ctx context.Context, job RetrainJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

// Dequeue blocks up to wait for the next job. Returns (nil, nil) on timeout
// so the worker loop can re-check its context between polls.
func (q *Queue) Dequeue(ctx context.Context, wait time.Duration) (*RetrainJob, error) {
	res, err := q.rdb.BRPop(ctx, wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, errors.New("unexpected BRPOP reply shape")
	}
	var job RetrainJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Len reports the number of pending jobs. Informational only.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
