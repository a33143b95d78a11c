package retry

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alexander-sdk/core/awserr"
	"github.com/stretchr/testify/assert"
)

func TestNoRetry_NeverRetries(t *testing.T) {
	p := NoRetry{}
	assert.Equal(t, Stop, p.Decide(1, nil, 500))
	assert.Equal(t, 1, p.MaxAttempts())
}

func TestJitter_RetriesOn5xxAnd429(t *testing.T) {
	p := DefaultJitter()

	d := p.Decide(1, nil, 500)
	assert.True(t, d.Retry)

	d = p.Decide(1, nil, 429)
	assert.True(t, d.Retry)

	d = p.Decide(1, nil, 404)
	assert.False(t, d.Retry)
}

func TestJitter_StopsAfterMaxRetries(t *testing.T) {
	p := Jitter{Base: time.Second, Max: 20 * time.Second, MaxRetries: 2}
	assert.True(t, p.Decide(2, nil, 500).Retry)
	assert.False(t, p.Decide(3, nil, 500).Retry)
}

func TestJitter_RetriesOnTransportError(t *testing.T) {
	p := DefaultJitter()
	d := p.Decide(1, &awserr.TransportError{Cause: errors.New("connection reset")}, 0)
	assert.True(t, d.Retry)
}

func TestIsRetryableError_NetTimeout(t *testing.T) {
	err := &net.DNSError{IsTimeout: true}
	assert.True(t, IsRetryableError(err))
}

func TestIsRetryableError_NilIsNotRetryable(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
}

func TestExponential_DelayGrowsAndClamps(t *testing.T) {
	p := Exponential{Base: time.Second, Max: 10 * time.Second, MaxRetries: 5}
	d0 := p.Decide(0, nil, 500)
	d3 := p.Decide(3, nil, 500)
	assert.Equal(t, time.Second, d0.After)
	assert.Equal(t, 8*time.Second, d3.After)

	d10 := p.Decide(10, nil, 500)
	assert.Equal(t, Stop, d10)
}
