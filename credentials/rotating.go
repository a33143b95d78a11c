package credentials

import (
	"context"
	"sync"

	"github.com/alexander-sdk/core/aws"
	"github.com/rs/zerolog"
)

// Rotating wraps any Provider yielding expiring credentials behind an
// ExpiringValue cell, so repeated Retrieve calls reuse a cached value
// until it needs refreshing (spec.md §4.3 "Rotating wrapper").
type Rotating struct {
	inner Provider
	cell  *ExpiringValue
}

// NewRotating wraps inner.
func NewRotating(inner Provider) *Rotating {
	return &Rotating{inner: inner, cell: NewExpiringValue()}
}

// Retrieve returns the cached credential, refreshing through inner when
// the cell requires it.
func (r *Rotating) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	return r.cell.GetValue(ctx, func(ctx context.Context) (aws.Credential, error) {
		return r.inner.Retrieve(ctx, logger)
	})
}

// Deferred delays constructing its inner Provider until the first
// Retrieve call, then reuses it (spec.md §4.3 "Deferred wrapper").
type Deferred struct {
	factory func() Provider

	mu    sync.Mutex
	inner Provider
}

// NewDeferred wraps factory, which is invoked at most once across the
// lifetime of the Deferred provider.
func NewDeferred(factory func() Provider) *Deferred {
	return &Deferred{factory: factory}
}

// Retrieve constructs the inner provider on first use, then memoizes it.
func (d *Deferred) Retrieve(ctx context.Context, logger zerolog.Logger) (aws.Credential, error) {
	d.mu.Lock()
	if d.inner == nil {
		d.inner = d.factory()
	}
	inner := d.inner
	d.mu.Unlock()

	return inner.Retrieve(ctx, logger)
}
