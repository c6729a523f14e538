package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dperalta/go-recsys-backend/internal/mlclient"
)

type fakeLock struct {
	acquired bool
	err      error
	releases int32
}

func (f *fakeLock) Acquire(ctx context.Context, ttl time.Duration) (bool, func(context.Context), error) {
	if f.err != nil {
		return false, func(context.Context) {}, f.err
	}
	if !f.acquired {
		return false, func(context.Context) {}, nil
	}
	return true, func(context.Context) { atomic.AddInt32(&f.releases, 1) }, nil
}

type fakeRetrainer struct {
	calls  int32
	err    error
	params mlclient.RetrainParams
}

func (f *fakeRetrainer) Retrain(ctx context.Context, params mlclient.RetrainParams) (*mlclient.RetrainResult, error) {
	atomic.AddInt32(&f.calls, 1)
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &mlclient.RetrainResult{Raw: map[string]any{
		"model_metadata": map[string]any{"trained_at": "t1"},
	}}, nil
}

func TestExecute_SkipsWhenLockHeldElsewhere(t *testing.T) {
	client := &fakeRetrainer{}
	w := &Worker{Lock: &fakeLock{acquired: false}, Client: client, LockTTL: time.Second}

	err := w.Execute(context.Background(), NewRetrainJob(SourceManual, nil, nil))
	if err != nil {
		t.Fatalf("skip must not be an error, got %v", err)
	}
	if n := atomic.LoadInt32(&client.calls); n != 0 {
		t.Fatalf("retrain must not run under contention, got %d calls", n)
	}
}

func TestExecute_RunsAndReleasesLock(t *testing.T) {
	lock := &fakeLock{acquired: true}
	client := &fakeRetrainer{}
	w := &Worker{Lock: lock, Client: client, LockTTL: time.Second}

	mc, mi := 30, 50
	job := NewRetrainJob(SourceManual, &mc, &mi)
	if err := w.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := atomic.LoadInt32(&client.calls); n != 1 {
		t.Fatalf("retrain calls = %d, want 1", n)
	}
	if client.params.MaxComponents == nil || *client.params.MaxComponents != 30 {
		t.Fatalf("max_components not forwarded: %+v", client.params)
	}
	if n := atomic.LoadInt32(&lock.releases); n != 1 {
		t.Fatalf("lock releases = %d, want 1", n)
	}
}

func TestExecute_FailureReturnedAndLockReleased(t *testing.T) {
	lock := &fakeLock{acquired: true}
	client := &fakeRetrainer{err: &mlclient.Failure{Kind: mlclient.FailureService, Status: 500, Message: "boom"}}
	w := &Worker{Lock: lock, Client: client, LockTTL: time.Second}

	err := w.Execute(context.Background(), NewRetrainJob(SourceScheduled, nil, nil))
	if err == nil {
		t.Fatalf("expected retrain error to surface")
	}
	if n := atomic.LoadInt32(&lock.releases); n != 1 {
		t.Fatalf("lock must be released after failure, releases = %d", n)
	}
}

func TestExecute_LockErrorSurfaces(t *testing.T) {
	w := &Worker{
		Lock:    &fakeLock{err: errors.New("redis down")},
		Client:  &fakeRetrainer{},
		LockTTL: time.Second,
	}
	if err := w.Execute(context.Background(), NewRetrainJob(SourceManual, nil, nil)); err == nil {
		t.Fatalf("expected lock error")
	}
}

// queueFromSlice feeds jobs in order, then reports context cancellation.
type queueFromSlice struct {
	jobs []RetrainJob
	i    int
}

func (q *queueFromSlice) Dequeue(ctx context.Context, wait time.Duration) (*RetrainJob, error) {
	if q.i < len(q.jobs) {
		j := q.jobs[q.i]
		q.i++
		return &j, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRun_FailedJobDoesNotStopLoop(t *testing.T) {
	lock := &fakeLock{acquired: true}
	client := &fakeRetrainer{err: errors.New("always fails")}
	q := &queueFromSlice{jobs: []RetrainJob{
		NewRetrainJob(SourceManual, nil, nil),
		NewRetrainJob(SourceManual, nil, nil),
	}}
	w := &Worker{Queue: q, Lock: lock, Client: client, LockTTL: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	if n := atomic.LoadInt32(&client.calls); n != 2 {
		t.Fatalf("both jobs should have been attempted, calls = %d", n)
	}
}
