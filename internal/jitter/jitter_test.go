package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponential_ClampsToMax(t *testing.T) {
	assert.Equal(t, 2*time.Second, Exponential(2*time.Second, 120*time.Second, 0))
	assert.Equal(t, 4*time.Second, Exponential(2*time.Second, 120*time.Second, 1))
	assert.Equal(t, 120*time.Second, Exponential(2*time.Second, 120*time.Second, 10))
}

func TestUniform_BoundedByCeiling(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Uniform(5 * time.Second)
		assert.True(t, d >= 0 && d < 5*time.Second)
	}
}

func TestUniform_ZeroCeilingReturnsZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), Uniform(0))
}

// TestWaiterDelay_SeedScenario5 exercises spec.md §8 seed scenario 5: for
// min=2s, max=120s, attempt=1..10, remaining=600s, every returned wait is
// in [2s, min(120s, 2s*2^(attempt-1))].
func TestWaiterDelay_SeedScenario5(t *testing.T) {
	min := 2 * time.Second
	max := 120 * time.Second
	remaining := 600 * time.Second

	for attempt := 1; attempt <= 10; attempt++ {
		ceiling := min
		for i := 1; i < attempt; i++ {
			ceiling *= 2
			if ceiling > max {
				ceiling = max
				break
			}
		}

		for trial := 0; trial < 20; trial++ {
			delay, ok := WaiterDelay(min, max, attempt, remaining)
			assert.True(t, ok)
			assert.GreaterOrEqual(t, delay, min)
			assert.LessOrEqual(t, delay, ceiling)
		}
	}
}

func TestWaiterDelay_ReturnsNotOKWhenRemainingTooSmall(t *testing.T) {
	_, ok := WaiterDelay(2*time.Second, 120*time.Second, 1, time.Second)
	assert.False(t, ok)
}
