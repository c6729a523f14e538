// Package poll implements the client-side detection of retrain completion.
//
// The external service offers no callback; the only completion signal is the
// model_metadata.trained_at token on its stats endpoint changing. A Watcher
// captures a baseline, then polls on a fixed interval until the token moves,
// the attempt ceiling is reached, or its context is cancelled.
//
// The transition table is the contract:
//
//	Idle → Triggered           retrain accepted, baseline captured (or absent)
//	Triggered → Polling        first tick scheduled
//	Polling → Completed        trained_at present and != baseline
//	Polling → TimedOut         MaxAttempts unchanged ticks (soft success)
//	Polling → (stopped)        context cancelled; no outcome callback
//
// Ticks never overlap: each poll completes (or errors) before the next timer
// fire is consumed. A failed poll counts as a normal non-matching attempt.
package poll

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Defaults matching the product behavior: a 2s interval with 20 attempts
// bounds the wait at roughly 40 seconds of wall clock.
const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 20
)

// State is the watcher's position in its lifecycle.
type State int

const (
	Idle State = iota
	Triggered
	Polling
	Completed
	TimedOut
)

// String returns the lowercase state name for logs.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Triggered:
		return "triggered"
	case Polling:
		return "polling"
	case Completed:
		return "completed"
	case TimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Outcome is the terminal result of a watch.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	// OutcomeTimedOut is a soft success: completion is assumed and the
	// downstream refresh still happens; only the logs tell the difference.
	OutcomeTimedOut Outcome = "timed_out"
	// OutcomeCanceled means the owning context was torn down mid-poll. No
	// OnDone callback fires.
	OutcomeCanceled Outcome = "canceled"
)

// TrainedAtFunc fetches the current trained_at token. An error means "could
// not observe", never "aborted".
type TrainedAtFunc func(ctx context.Context) (string, error)

// Watcher drives one retrain-completion watch. A Watcher is single-use:
// after Run returns it must be discarded, and a new retrain trigger gets a
// fresh instance.
type Watcher struct {
	// TrainedAt observes the model's training token (required).
	TrainedAt TrainedAtFunc
	// Interval between polls; DefaultInterval when zero.
	Interval time.Duration
	// MaxAttempts before giving up; DefaultMaxAttempts when zero.
	MaxAttempts int
	// OnDone, if set, fires exactly once for Completed or TimedOut, before
	// Run returns. It does not fire on cancellation.
	OnDone func(Outcome)
	// Log receives state transitions; a zerolog.Nop() default keeps the
	// watcher quiet.
	Log zerolog.Logger

	state State
}

// State returns the watcher's current state. Run mutates it from a single
// goroutine; concurrent readers only get a possibly-stale snapshot.
func (w *Watcher) State() State { return w.state }

// Run executes the watch and blocks until a terminal outcome.
//
// The baseline is captured first; a failed baseline fetch is not fatal, it
// just means any observed token counts as a change. Each tick fetches the
// token once: errors are swallowed and counted as a non-matching attempt, a
// changed non-empty token completes the watch immediately (no further ticks),
// and hitting MaxAttempts resolves as TimedOut.
func (w *Watcher) Run(ctx context.Context) Outcome {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxAttempts := w.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	w.state = Triggered
	baseline := ""
	if ts, err := w.TrainedAt(ctx); err == nil {
		baseline = ts
	} else {
		w.Log.Debug().Err(err).Msg("baseline trained_at unavailable, proceeding without")
	}
	if ctx.Err() != nil {
		return OutcomeCanceled
	}

	w.state = Polling
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			w.Log.Debug().Int("attempts", attempts).Msg("watch cancelled")
			return OutcomeCanceled
		case <-ticker.C:
		}

		attempts++
		current, err := w.TrainedAt(ctx)
		if err != nil {
			// Count the attempt and keep polling; one flaky tick must not
			// abort the watch.
			w.Log.Debug().Err(err).Int("attempt", attempts).Msg("poll tick failed")
		} else if current != "" && current != baseline {
			w.state = Completed
			ticker.Stop()
			w.Log.Info().
				Int("attempts", attempts).
				Str("trained_at", current).
				Msg("retrain completion detected")
			w.done(OutcomeCompleted)
			return OutcomeCompleted
		}

		if attempts >= maxAttempts {
			w.state = TimedOut
			ticker.Stop()
			w.Log.Warn().
				Int("attempts", attempts).
				Msg("retrain watch exhausted attempts, assuming completion")
			w.done(OutcomeTimedOut)
			return OutcomeTimedOut
		}
	}
}

func (w *Watcher) done(o Outcome) {
	if w.OnDone != nil {
		w.OnDone(o)
	}
}
