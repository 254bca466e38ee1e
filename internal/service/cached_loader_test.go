package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"survey-dashboard/internal/models"
	"survey-dashboard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls     atomic.Int32
	cancelled atomic.Int32
	err       error
	delay     time.Duration
}

func (l *countingLoader) Load(ctx context.Context) (*models.Table, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			l.cancelled.Add(1)
			return nil, &LoadFailure{Locator: l.Locator(), Cause: ctx.Err()}
		}
	}
	if l.err != nil {
		return nil, &LoadFailure{Locator: l.Locator(), Cause: l.err}
	}
	return BuildTable(l.Locator(), []string{"Rating"}, [][]string{{"4"}, {"5"}})
}

func (l *countingLoader) Locator() string {
	return "fake://survey"
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCachedLoader_ServesFreshTable(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	src := &countingLoader{}
	cl := NewCachedLoader(src, state.NewCacheWithClock(10*time.Second, clock.Now), 0)

	first, err := cl.Load(context.Background())
	require.NoError(t, err)
	clock.Advance(5 * time.Second)
	second, err := cl.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, src.calls.Load())

	clock.Advance(5 * time.Second)
	_, err = cl.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCachedLoader_FailuresAreNotCached(t *testing.T) {
	src := &countingLoader{err: errors.New("offline")}
	cl := NewCachedLoader(src, state.NewCache(time.Minute), 0)

	_, err := cl.Load(context.Background())
	require.Error(t, err)
	_, err = cl.Load(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	_, ok := cl.LastFetch()
	assert.False(t, ok)
}

func TestCachedLoader_InvalidateForcesRefetch(t *testing.T) {
	src := &countingLoader{}
	cl := NewCachedLoader(src, state.NewCache(time.Minute), 0)

	_, err := cl.Load(context.Background())
	require.NoError(t, err)
	cl.Invalidate()
	_, err = cl.Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCachedLoader_ConcurrentRefreshSharesFetch(t *testing.T) {
	src := &countingLoader{delay: 50 * time.Millisecond}
	cl := NewCachedLoader(src, state.NewCache(0), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cl.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(8))
	entry, ok := cl.LastFetch()
	require.True(t, ok)
	assert.Equal(t, 2, entry.Table.Rows)
}

func TestCachedLoader_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	src := &countingLoader{delay: 200 * time.Millisecond}
	cl := NewCachedLoader(src, state.NewCache(time.Minute), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cl.Refresh(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := cl.Refresh(context.Background())
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-first, context.Canceled)
	require.NoError(t, <-second)
	assert.EqualValues(t, 1, src.calls.Load())
	assert.EqualValues(t, 0, src.cancelled.Load())

	_, ok := cl.LastFetch()
	assert.True(t, ok)
}

func TestCachedLoader_TimeoutBoundsFetch(t *testing.T) {
	src := &countingLoader{delay: 5 * time.Second}
	cl := NewCachedLoader(src, state.NewCache(time.Minute), 20*time.Millisecond)

	_, err := cl.Refresh(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 1, src.cancelled.Load())
}
