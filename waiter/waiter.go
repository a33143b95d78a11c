// Package waiter implements acceptor-driven polling with bounded
// jittered backoff (spec.md §4.7): a Waiter repeatedly invokes a command
// until an acceptor matches a terminal state, or the wait budget expires.
package waiter

import (
	"context"
	"time"

	"github.com/alexander-sdk/core/awserr"
	"github.com/alexander-sdk/core/internal/jitter"
	"github.com/rs/zerolog"
)

// State is the terminal (or non-terminal) classification an acceptor
// assigns to one polling attempt (spec.md §3 "Waiter").
type State int

const (
	StateRetry State = iota
	StateSuccess
	StateFailure
)

// Outcome is what one invocation of the polled command produced: either a
// decoded result or an error, never both. Matchers inspect whichever is
// set.
type Outcome struct {
	Result any
	Err    error
}

// Matcher decides whether an Outcome matches this acceptor.
type Matcher interface {
	Matches(o Outcome) bool
}

// Acceptor pairs a State with the Matcher that selects it (spec.md §3
// "Waiter": "{state, matcher}").
type Acceptor struct {
	State   State
	Matcher Matcher
}

// Waiter is the declarative polling spec itself: the acceptor list, the
// jittered-backoff bounds, and the command to poll (spec.md §3, §4.7).
type Waiter struct {
	Acceptors []Acceptor
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Command   func(ctx context.Context) (any, error)
}

// WaitUntil drives w.Command to a terminal acceptor-matched state, or
// returns a waiter failure/timeout error (spec.md §4.7).
//
//	deadline = now + maxWaitTime
//	loop: invoke command; classify via acceptors in declaration order,
//	defaulting to failure on error, else retry; success returns; failure
//	returns the underlying error; retry sleeps calculate_retry_wait_time.
func WaitUntil(ctx context.Context, w Waiter, maxWaitTime time.Duration, logger zerolog.Logger) error {
	deadline := time.Now().Add(maxWaitTime)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return &awserr.ClientError{Kind: awserr.KindCancelled, Message: "waiter cancelled", Cause: err}
		}

		result, cmdErr := w.Command(ctx)
		outcome := Outcome{Result: result, Err: cmdErr}

		state, matched := classify(w.Acceptors, outcome)
		if !matched {
			// spec.md §4.7: "default to failure on error, else retry".
			if cmdErr != nil {
				state = StateFailure
			} else {
				state = StateRetry
			}
		}

		switch state {
		case StateSuccess:
			logger.Debug().Int("attempt", attempt).Msg("waiter: acceptor matched success")
			return nil
		case StateFailure:
			if cmdErr != nil {
				return cmdErr
			}
			return &awserr.ClientError{Kind: awserr.KindWaiterFailure, Message: "waiter: acceptor matched failure"}
		}

		remaining := time.Until(deadline)
		delay, ok := jitter.WaiterDelay(w.MinDelay, w.MaxDelay, attempt, remaining)
		if !ok {
			return &awserr.ClientError{Kind: awserr.KindWaiterTimeout, Message: "waiter: deadline exceeded"}
		}
		logger.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("waiter: retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return &awserr.ClientError{Kind: awserr.KindCancelled, Message: "waiter cancelled during backoff", Cause: ctx.Err()}
		}
	}
}

// classify returns the first acceptor (in declaration order) matching
// outcome, and whether any acceptor matched at all.
func classify(acceptors []Acceptor, outcome Outcome) (State, bool) {
	for _, a := range acceptors {
		if a.Matcher.Matches(outcome) {
			return a.State, true
		}
	}
	return StateRetry, false
}
