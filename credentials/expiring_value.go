package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/alexander-sdk/core/aws"
)

// RefreshWindow is the threshold before expiration at which ExpiringValue
// starts a background refresh while still serving the current value.
const RefreshWindow = 5 * time.Minute

// refreshFunc computes a fresh credential. It is invoked at most once per
// refresh cycle even when many callers race on an expired value (spec.md
// §8 universal property).
type refreshFunc func(ctx context.Context) (aws.Credential, error)

// ExpiringValue is the concurrency-safe cell described in spec.md §4.3's
// Rotating wrapper: concurrent callers on an expired value are serialized
// behind a single in-flight refresh (gate shape grounded on the teacher's
// lock.Locker Acquire/Release contract, generalized from a distributed
// lock to an in-process one since credential refresh is per-process
// state, not cluster-shared — see DESIGN.md).
type ExpiringValue struct {
	mu sync.Mutex

	current    aws.Credential
	hasValue   bool
	refreshing bool
	waiters    []chan struct{}
	lastErr    error
}

// NewExpiringValue returns an empty cell; the first GetValue call always
// triggers a synchronous refresh.
func NewExpiringValue() *ExpiringValue {
	return &ExpiringValue{}
}

// GetValue returns a non-expired credential, refreshing via fn if needed.
//
//   - If the cached value is non-expired and not within RefreshWindow,
//     return it immediately.
//   - If expired (or empty), compute a fresh value via fn, serializing
//     concurrent callers so fn runs at most once per cycle; all callers
//     observe the new value.
//   - If within RefreshWindow but not yet expired, return the current
//     value and, if no refresh is already in flight, start one in the
//     background.
func (v *ExpiringValue) GetValue(ctx context.Context, fn refreshFunc) (aws.Credential, error) {
	now := time.Now()

	v.mu.Lock()
	if v.hasValue && !v.current.Expired(now) {
		if !v.current.NearExpiration(now, RefreshWindow) {
			val := v.current
			v.mu.Unlock()
			return val, nil
		}
		// Near expiration but still valid: serve current value, kick a
		// background refresh if one isn't already running.
		val := v.current
		if !v.refreshing {
			v.refreshing = true
			v.mu.Unlock()
			go v.refresh(context.Background(), fn)
			return val, nil
		}
		v.mu.Unlock()
		return val, nil
	}

	// Expired or never populated: must refresh synchronously, coalescing
	// concurrent callers onto the same in-flight refresh.
	if v.refreshing {
		done := make(chan struct{})
		v.waiters = append(v.waiters, done)
		v.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return aws.Credential{}, ctx.Err()
		}

		v.mu.Lock()
		val, err := v.current, v.lastErr
		v.mu.Unlock()
		if !v.hasValue {
			return aws.Credential{}, err
		}
		return val, err
	}

	v.refreshing = true
	v.mu.Unlock()

	return v.refresh(ctx, fn)
}

func (v *ExpiringValue) refresh(ctx context.Context, fn refreshFunc) (aws.Credential, error) {
	cred, err := fn(ctx)

	v.mu.Lock()
	v.refreshing = false
	v.lastErr = err
	if err == nil {
		v.current = cred
		v.hasValue = true
	}
	waiters := v.waiters
	v.waiters = nil
	v.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}

	return cred, err
}
