package credentials

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexander-sdk/core/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiringValue_RefreshesWhenExpired(t *testing.T) {
	v := NewExpiringValue()
	var calls int32

	fn := func(ctx context.Context) (aws.Credential, error) {
		atomic.AddInt32(&calls, 1)
		return aws.Credential{AccessKeyID: "A", Expiration: time.Now().Add(time.Hour)}, nil
	}

	cred, err := v.GetValue(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "A", cred.AccessKeyID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	cred, err = v.GetValue(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "A", cred.AccessKeyID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "second call within validity window should not refresh")
}

func TestExpiringValue_CoalescesConcurrentRefresh(t *testing.T) {
	v := NewExpiringValue()
	var calls int32
	release := make(chan struct{})

	fn := func(ctx context.Context) (aws.Credential, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return aws.Credential{AccessKeyID: "A", Expiration: time.Now().Add(time.Hour)}, nil
	}

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = v.GetValue(context.Background(), fn)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "closure must run at most once for N concurrent callers on an expired value")
}

func TestExpiringValue_NearExpirationTriggersBackgroundRefresh(t *testing.T) {
	v := NewExpiringValue()
	var calls int32

	first := true
	fn := func(ctx context.Context) (aws.Credential, error) {
		atomic.AddInt32(&calls, 1)
		if first {
			first = false
			return aws.Credential{AccessKeyID: "OLD", Expiration: time.Now().Add(RefreshWindow - time.Second)}, nil
		}
		return aws.Credential{AccessKeyID: "NEW", Expiration: time.Now().Add(time.Hour)}, nil
	}

	cred, err := v.GetValue(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "OLD", cred.AccessKeyID)

	cred, err = v.GetValue(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "OLD", cred.AccessKeyID, "near-expiration value is still served immediately")

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond, "background refresh should have run")
}
