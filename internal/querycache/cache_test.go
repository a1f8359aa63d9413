package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrFetchCachesPerKey(t *testing.T) {
	c := New(time.Minute, EventBus.New())
	var calls int32
	fetch := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a", "b"}, nil
	}

	ctx := context.Background()
	got, err := GetOrFetch(ctx, c, "orders", nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	// second read is served from cache
	_, err = GetOrFetch(ctx, c, "orders", nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// different parameters are a different address
	_, err = GetOrFetch(ctx, c, "orders", []string{"2024-01-01", "2024-01-31"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInvalidateDropsAllResourceEntries(t *testing.T) {
	bus := EventBus.New()
	c := New(time.Minute, bus)

	var invalidated string
	require.NoError(t, bus.Subscribe(TopicInvalidated, func(resource string) {
		invalidated = resource
	}))

	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	ctx := context.Background()
	_, _ = GetOrFetch(ctx, c, "orders", nil, fetch)
	_, _ = GetOrFetch(ctx, c, "orders", []string{"ranged"}, fetch)
	_, _ = GetOrFetch(ctx, c, "vendors", nil, fetch)
	require.Equal(t, 3, c.Len())

	c.Invalidate("orders")
	assert.Equal(t, "orders", invalidated)
	assert.Equal(t, 1, c.Len())

	// next read re-fetches
	v, err := GetOrFetch(ctx, c, "orders", nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	c := New(time.Minute, EventBus.New())
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("upstream down")
		}
		return "recovered", nil
	}

	ctx := context.Background()
	_, err := GetOrFetch(ctx, c, "vendors", nil, fetch)
	require.Error(t, err)

	got, err := GetOrFetch(ctx, c, "vendors", nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
}

func TestTTLExpiry(t *testing.T) {
	c := New(10*time.Millisecond, EventBus.New())
	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	ctx := context.Background()
	_, _ = GetOrFetch(ctx, c, "items", nil, fetch)
	time.Sleep(20 * time.Millisecond)

	v, err := GetOrFetch(ctx, c, "items", nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	c.Sweep()
	// the refreshed entry is still live after the sweep of expired ones
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateDuringFetchIsNotUndone(t *testing.T) {
	c := New(time.Minute, EventBus.New())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	slowFetch := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "pre-mutation", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := GetOrFetch(ctx, c, "assignments", nil, slowFetch)
		assert.NoError(t, err)
		// in-flight callers still get the result they waited for
		assert.Equal(t, "pre-mutation", v)
	}()

	// the mutation lands while the read's fetch is still in flight
	<-started
	c.Invalidate("assignments")
	close(release)
	<-done

	// the late fetch result must not have been cached: the next read
	// re-fetches and sees post-mutation data
	var calls int32
	v, err := GetOrFetch(ctx, c, "assignments", nil, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "post-mutation", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "post-mutation", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFlushDuringFetchIsNotUndone(t *testing.T) {
	c := New(time.Minute, EventBus.New())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := GetOrFetch(ctx, c, "orders", nil, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
	}()

	<-started
	c.Flush()
	close(release)
	<-done

	assert.Equal(t, 0, c.Len(), "a fetch racing a flush must not repopulate the cache")
}

func TestConcurrentFetchesAreDeduplicated(t *testing.T) {
	c := New(time.Minute, EventBus.New())
	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := GetOrFetch(context.Background(), c, "orders", nil, fetch)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
