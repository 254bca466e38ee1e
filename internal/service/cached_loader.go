package service

import (
	"context"
	"log/slog"
	"time"

	"survey-dashboard/internal/models"
	"survey-dashboard/internal/state"

	"golang.org/x/sync/singleflight"
)

// CachedLoader serves a table from the cache while it is fresh and refetches
// afterwards. Concurrent refetches of the same source share one request.
// Failures are never cached.
type CachedLoader struct {
	loader  Loader
	cache   *state.Cache
	timeout time.Duration
	group   singleflight.Group
}

// NewCachedLoader wraps loader; timeout bounds each shared fetch, 0 leaves it
// to the loader.
func NewCachedLoader(loader Loader, cache *state.Cache, timeout time.Duration) *CachedLoader {
	return &CachedLoader{loader: loader, cache: cache, timeout: timeout}
}

func (c *CachedLoader) Locator() string {
	return c.loader.Locator()
}

// Load returns the cached table or fetches a new one
func (c *CachedLoader) Load(ctx context.Context) (*models.Table, error) {
	if t, ok := c.cache.Get(c.Locator()); ok {
		return t, nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches unconditionally and replaces the cached table on success.
// The fetch is shared by every caller joined to it and is not cancelled with
// any one of them; a caller whose ctx ends stops waiting and gets ctx's error.
func (c *CachedLoader) Refresh(ctx context.Context) (*models.Table, error) {
	key := c.Locator()
	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		t, err := c.loader.Load(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Put(key, t)
		slog.Debug("source fetched", "source", key, "rows", t.Rows, "columns", len(t.Columns), "duration", time.Since(start))
		return t, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Table), nil
	case <-ctx.Done():
		return nil, loadFailure(key, "%w", ctx.Err())
	}
}

// Invalidate forces the next Load to refetch
func (c *CachedLoader) Invalidate() {
	c.cache.Invalidate(c.Locator())
}

// LastFetch returns the most recent successful fetch, fresh or not
func (c *CachedLoader) LastFetch() (state.Entry, bool) {
	return c.cache.Peek(c.Locator())
}
