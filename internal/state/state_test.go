package state

import (
	"testing"
	"time"

	"survey-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCacheWithClock(10*time.Second, func() time.Time { return now })
	table := &models.Table{Source: "s", Rows: 2}

	_, ok := c.Get("s")
	assert.False(t, ok)

	c.Put("s", table)
	got, ok := c.Get("s")
	require.True(t, ok)
	assert.Same(t, table, got)

	now = now.Add(10 * time.Second)
	_, ok = c.Get("s")
	assert.False(t, ok, "entries expire at the TTL")

	entry, ok := c.Peek("s")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Table.Rows)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), entry.FetchedAt)
}

func TestCache_ZeroTTLNeverHits(t *testing.T) {
	c := NewCache(0)
	c.Put("s", &models.Table{})
	_, ok := c.Get("s")
	assert.False(t, ok)
	_, ok = c.Peek("s")
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), c.TTL())
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("a", &models.Table{})
	c.Put("b", &models.Table{})
	c.Invalidate("a")

	_, ok := c.Peek("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}
