package jobs

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []RetrainJob
}

func (r *recordingQueue) Enqueue(ctx context.Context, job RetrainJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *recordingQueue) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func TestScheduler_EmptyScheduleDisabled(t *testing.T) {
	s := &Scheduler{Queue: &recordingQueue{}, Schedule: ""}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("empty schedule should disable, not error: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop on disabled scheduler: %v", err)
	}
}

func TestScheduler_InvalidSpecRejected(t *testing.T) {
	s := &Scheduler{Queue: &recordingQueue{}, Schedule: "not a cron spec"}
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected parse error for invalid spec")
	}
}

func TestScheduler_TickEnqueuesScheduledJob(t *testing.T) {
	q := &recordingQueue{}
	// Every-second spec keeps the test fast; production uses an hourly spec.
	s := &Scheduler{Queue: q, Schedule: "@every 1s"}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = s.Stop() }()

	deadline := time.Now().Add(3 * time.Second)
	for q.len() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if q.len() == 0 {
		t.Fatalf("no job enqueued within deadline")
	}

	q.mu.Lock()
	job := q.jobs[0]
	q.mu.Unlock()
	if job.Source != SourceScheduled {
		t.Fatalf("source = %q, want scheduled", job.Source)
	}
	if job.MaxComponents != nil || job.MaxIter != nil {
		t.Fatalf("scheduled jobs carry no hyperparameters: %+v", job)
	}
}
