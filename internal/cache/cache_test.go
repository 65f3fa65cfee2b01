package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/sentiment-pulse/pkg/clock"
	pkgerrors "github.com/selivandex/sentiment-pulse/pkg/errors"
)

var start = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func counting(calls *int32) ComputeFunc[int] {
	return func(context.Context) (int, error) {
		return int(atomic.AddInt32(calls, 1)), nil
	}
}

func TestCache_ComputesOnceWithinTTL(t *testing.T) {
	clk := clock.NewFixed(start)
	c := New(Options[int]{Clock: clk})
	ctx := context.Background()

	var calls int32
	first, err := c.Get(ctx, "data_all", 0, counting(&calls), false)
	require.NoError(t, err)

	clk.Advance(599 * time.Second)
	second, err := c.Get(ctx, "data_all", 0, counting(&calls), false)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, first, second)
}

func TestCache_ExpiresAtTTL(t *testing.T) {
	clk := clock.NewFixed(start)
	c := New(Options[int]{Clock: clk, TTL: time.Minute})
	ctx := context.Background()

	var calls int32
	_, err := c.Get(ctx, "k", 0, counting(&calls), false)
	require.NoError(t, err)

	clk.Advance(time.Minute)
	value, err := c.Get(ctx, "k", 0, counting(&calls), false)
	require.NoError(t, err)

	assert.Equal(t, 2, value, "now == expiresAt is already stale")
}

func TestCache_PerCallTTL(t *testing.T) {
	clk := clock.NewFixed(start)
	c := New(Options[int]{Clock: clk})
	ctx := context.Background()

	var calls int32
	_, _ = c.Get(ctx, "k", 10*time.Second, counting(&calls), false)
	clk.Advance(11 * time.Second)
	_, _ = c.Get(ctx, "k", 10*time.Second, counting(&calls), false)

	assert.Equal(t, int32(2), calls)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestCache_ForceRefresh(t *testing.T) {
	c := New(Options[int]{Clock: clock.NewFixed(start)})
	ctx := context.Background()

	var calls int32
	_, _ = c.Get(ctx, "k", 0, counting(&calls), false)
	refreshed, err := c.Get(ctx, "k", 0, counting(&calls), true)
	require.NoError(t, err)
	cached, err := c.Get(ctx, "k", 0, counting(&calls), false)
	require.NoError(t, err)

	assert.Equal(t, 2, refreshed)
	assert.Equal(t, 2, cached)
}

func TestCache_ComputeErrorIsNotStored(t *testing.T) {
	c := New(Options[int]{Clock: clock.NewFixed(start)})
	ctx := context.Background()
	boom := errors.New("source down")

	_, err := c.Get(ctx, "k", 0, func(context.Context) (int, error) { return 0, boom }, false)
	assert.ErrorIs(t, err, boom)

	var calls int32
	value, err := c.Get(ctx, "k", 0, counting(&calls), false)
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestCache_InvalidateAndClear(t *testing.T) {
	store := NewMemoryStore[int]()
	c := New(Options[int]{Clock: clock.NewFixed(start), Store: store})
	ctx := context.Background()

	var calls int32
	_, _ = c.Get(ctx, "a", 0, counting(&calls), false)
	_, _ = c.Get(ctx, "b", 0, counting(&calls), false)
	require.Equal(t, 2, store.Len())

	require.NoError(t, c.Invalidate(ctx, "a"))
	assert.Equal(t, 1, store.Len())

	_, _ = c.Get(ctx, "a", 0, counting(&calls), false)
	assert.Equal(t, int32(3), calls)

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, store.Len())
}

type failingStore struct {
	*MemoryStore[int]
}

func (failingStore) Save(context.Context, string, Entry[int], time.Duration) error {
	return errors.New("disk full")
}

func (failingStore) Delete(context.Context, ...string) error {
	return errors.New("disk full")
}

func TestCache_StoreFailureStillReturnsValue(t *testing.T) {
	c := New(Options[int]{
		Clock: clock.NewFixed(start),
		Store: failingStore{MemoryStore: NewMemoryStore[int]()},
	})
	ctx := context.Background()

	var calls int32
	value, err := c.Get(ctx, "k", 0, counting(&calls), false)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	err = c.Invalidate(ctx, "k")
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCacheStore))
}

func TestCache_ConcurrentCallersShareComputation(t *testing.T) {
	c := New(Options[int]{Clock: clock.NewFixed(start)})
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	slow := func(context.Context) (int, error) {
		<-release
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(ctx, "data_bitcoin", 0, slow, false)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 1, v)
	}
}

func TestCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := New(Options[int]{Clock: clock.NewFixed(start)})

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	leaving, cancel := context.WithCancel(context.Background())
	leavingErr := make(chan error, 1)
	go func() {
		_, err := c.Get(leaving, "data_all", 0, slow, false)
		leavingErr <- err
	}()
	<-started

	type result struct {
		value int
		err   error
	}
	staying := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "data_all", 0, slow, false)
		staying <- result{v, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-leavingErr, context.Canceled)

	close(release)
	got := <-staying
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cached, err := c.Get(context.Background(), "data_all", 0, counting(&calls), false)
	require.NoError(t, err)
	assert.Equal(t, 1, cached, "the detached computation was stored")
}

func TestLocalLocker(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k")
	require.NoError(t, err)

	other, err := locker.Lock(ctx, "other")
	require.NoError(t, err)
	other()

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(timeout, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()

	again, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	again()
}
