// Package retry implements the request pipeline's retry policies
// (spec.md §4.6): NoRetry, Exponential, and the default Jitter policy,
// plus the 5xx/429/transport-error retryability classification spec.md §9
// Open Question (a) resolves.
package retry

import (
	"errors"
	"net"
	"time"

	"github.com/alexander-sdk/core/awserr"
	"github.com/alexander-sdk/core/internal/jitter"
)

// Decision is what a Policy returns for one attempt: either Stop, or
// RetryAfter a delay.
type Decision struct {
	Retry bool
	After time.Duration
}

// Stop is the terminal decision.
var Stop = Decision{Retry: false}

// RetryAfter builds a retry decision with the given delay.
func RetryAfter(d time.Duration) Decision {
	return Decision{Retry: true, After: d}
}

// Policy decides whether an attempt should be retried (spec.md §4.6 step
// 10: "consult the retry policy with (attempt, error, response_status)").
type Policy interface {
	// Decide is called after attempt (1-based) failed with err (possibly
	// nil, if the failure was a non-2xx HTTP status) and statusCode
	// (0 if there was no HTTP response at all, e.g. a connection error).
	Decide(attempt int, err error, statusCode int) Decision

	// MaxAttempts bounds the total number of attempts (including the
	// first), for the pipeline's elapsed-time/attempt-count cap.
	MaxAttempts() int
}

// IsRetryableStatus reports whether statusCode is retryable under the
// spec's default classification: any 5xx, or 429 (throttling). Open
// Question (a) is resolved this way per spec.md §9.
func IsRetryableStatus(statusCode int) bool {
	return statusCode == 429 || (statusCode >= 500 && statusCode <= 599)
}

// IsRetryableError reports whether err represents a retryable
// transport-level failure: an awserr.TransportError, a DNS error, or a
// net.Error that reports a timeout.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var transportErr *awserr.TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// =============================================================================
// NoRetry
// =============================================================================

// NoRetry never retries.
type NoRetry struct{}

func (NoRetry) Decide(int, error, int) Decision { return Stop }
func (NoRetry) MaxAttempts() int                { return 1 }

// =============================================================================
// Exponential
// =============================================================================

// Exponential retries with delay = base * 2^attempt, clamped to Max, up
// to MaxRetries additional attempts (spec.md §4.6).
type Exponential struct {
	Base       time.Duration
	Max        time.Duration
	MaxRetries int
}

func (p Exponential) Decide(attempt int, err error, statusCode int) Decision {
	if attempt > p.MaxRetries {
		return Stop
	}
	if !IsRetryableStatus(statusCode) && !IsRetryableError(err) {
		return Stop
	}
	return RetryAfter(jitter.Exponential(p.Base, p.Max, attempt))
}

func (p Exponential) MaxAttempts() int { return p.MaxRetries + 1 }

// =============================================================================
// Jitter (default)
// =============================================================================

// Jitter retries with delay = uniform(0, base*2^attempt), clamped to Max,
// up to MaxRetries additional attempts. Retries only on 5xx/429 or a
// retryable transport error (spec.md §4.6: "default").
type Jitter struct {
	Base       time.Duration
	Max        time.Duration
	MaxRetries int
}

// DefaultJitter is the policy a Client uses when none is configured:
// base 1s, max 20s, up to 3 retries.
func DefaultJitter() Jitter {
	return Jitter{Base: time.Second, Max: 20 * time.Second, MaxRetries: 3}
}

func (p Jitter) Decide(attempt int, err error, statusCode int) Decision {
	if attempt > p.MaxRetries {
		return Stop
	}
	if !IsRetryableStatus(statusCode) && !IsRetryableError(err) {
		return Stop
	}
	ceiling := jitter.Exponential(p.Base, p.Max, attempt)
	return RetryAfter(jitter.Uniform(ceiling))
}

func (p Jitter) MaxAttempts() int { return p.MaxRetries + 1 }
