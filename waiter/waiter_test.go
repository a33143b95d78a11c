package waiter

import (
	"context"
	"testing"
	"time"

	"github.com/alexander-sdk/core/awserr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWaitUntil_RetriesThenSucceeds is spec.md §8 scenario 6: an acceptor
// list [(retry, status=404), (success, success)] against a command that
// errors with 404 three times then succeeds sleeps thrice and returns ok.
func TestWaitUntil_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	w := Waiter{
		Acceptors: []Acceptor{
			{State: StateRetry, Matcher: ErrorStatus{Status: 404}},
			{State: StateSuccess, Matcher: Success{}},
		},
		MinDelay: time.Millisecond,
		MaxDelay: 4 * time.Millisecond,
		Command: func(ctx context.Context) (any, error) {
			calls++
			if calls <= 3 {
				return nil, &awserr.ResponseError{Code: "NotFound", Context: awserr.Context{Status: 404}}
			}
			return map[string]any{"state": "ready"}, nil
		},
	}

	err := WaitUntil(context.Background(), w, time.Second, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestWaitUntil_FailureAcceptorReturnsError(t *testing.T) {
	w := Waiter{
		Acceptors: []Acceptor{
			{State: StateFailure, Matcher: ErrorCode{Expected: "ResourceNotFoundException"}},
		},
		MinDelay: time.Millisecond,
		MaxDelay: time.Millisecond,
		Command: func(ctx context.Context) (any, error) {
			return nil, &awserr.ResponseError{Code: "ResourceNotFoundException"}
		},
	}

	err := WaitUntil(context.Background(), w, time.Second, zerolog.Nop())
	require.Error(t, err)
	var respErr *awserr.ResponseError
	require.ErrorAs(t, err, &respErr)
}

func TestWaitUntil_UnmatchedErrorDefaultsToFailure(t *testing.T) {
	w := Waiter{
		Acceptors: []Acceptor{{State: StateSuccess, Matcher: Success{}}},
		MinDelay:  time.Millisecond,
		MaxDelay:  time.Millisecond,
		Command: func(ctx context.Context) (any, error) {
			return nil, &awserr.ResponseError{Code: "InternalFailure"}
		},
	}

	err := WaitUntil(context.Background(), w, time.Second, zerolog.Nop())
	require.Error(t, err)
	var respErr *awserr.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "InternalFailure", respErr.Code)
}

func TestWaitUntil_TimeoutWhenDeadlineTooShort(t *testing.T) {
	w := Waiter{
		Acceptors: []Acceptor{{State: StateRetry, Matcher: ErrorStatus{Status: 404}}},
		MinDelay:  50 * time.Millisecond,
		MaxDelay:  100 * time.Millisecond,
		Command: func(ctx context.Context) (any, error) {
			return nil, &awserr.ResponseError{Code: "NotFound", Context: awserr.Context{Status: 404}}
		},
	}

	err := WaitUntil(context.Background(), w, 10*time.Millisecond, zerolog.Nop())
	require.Error(t, err)
	var clientErr *awserr.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, awserr.KindWaiterTimeout, clientErr.Kind)
}

func TestWaitUntil_CancelledContextStopsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := Waiter{
		Acceptors: []Acceptor{{State: StateSuccess, Matcher: Success{}}},
		MinDelay:  time.Millisecond,
		MaxDelay:  time.Millisecond,
		Command: func(ctx context.Context) (any, error) {
			t.Fatal("command should not be invoked on an already-cancelled context")
			return nil, nil
		},
	}

	err := WaitUntil(ctx, w, time.Second, zerolog.Nop())
	require.Error(t, err)
	var clientErr *awserr.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, awserr.KindCancelled, clientErr.Kind)
}

func TestPathEquals_TraversesDottedPath(t *testing.T) {
	m := PathEquals{Path: "status.phase", Expected: "ready"}
	ok := m.Matches(Outcome{Result: map[string]any{"status": map[string]any{"phase": "ready"}}})
	assert.True(t, ok)
}

func TestPathAny_MatchesOneOfExpected(t *testing.T) {
	m := PathAny{Path: "instances", Expected: []any{"running"}}
	ok := m.Matches(Outcome{Result: map[string]any{"instances": []any{"pending", "running"}}})
	assert.True(t, ok)
}

func TestPathAll_RequiresEveryElementMatch(t *testing.T) {
	m := PathAll{Path: "instances", Expected: []any{"running"}}
	assert.True(t, m.Matches(Outcome{Result: map[string]any{"instances": []any{"running", "running"}}}))
	assert.False(t, m.Matches(Outcome{Result: map[string]any{"instances": []any{"running", "pending"}}}))
}
