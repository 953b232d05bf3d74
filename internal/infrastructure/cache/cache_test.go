package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New()

	c.Set("key", "value", time.Minute)
	value, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", value)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestGetExpiredItem(t *testing.T) {
	c := New()

	c.Set("key", "value", -time.Second)
	_, found := c.Get("key")
	assert.False(t, found)
}

func TestGetOrLoadRunsLoaderOnce(t *testing.T) {
	c := New()

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	value, err := c.GetOrLoad(KeySteps, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, value)

	_, err = c.GetOrLoad(KeySteps, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New()

	boom := errors.New("boom")
	calls := 0
	_, err := c.GetOrLoad(KeySteps, time.Minute, func() (interface{}, error) {
		calls++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := c.GetOrLoad(KeySteps, time.Minute, func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}

func TestInvalidateForcesReload(t *testing.T) {
	c := New()

	c.Set(KeySteps, "stale", time.Minute)
	c.Set(KeySections, "stale", time.Minute)
	c.Invalidate(KeySteps, KeySections)

	_, found := c.Get(KeySteps)
	assert.False(t, found)
	_, found = c.Get(KeySections)
	assert.False(t, found)

	value, err := c.GetOrLoad(KeySteps, time.Minute, func() (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
}

func TestDeleteExpired(t *testing.T) {
	c := New()

	c.Set("stale", "value", -time.Second)
	c.Set("live", "value", time.Minute)
	c.DeleteExpired()

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotContains(t, c.items, "stale")
	assert.Contains(t, c.items, "live")
}

func TestClear(t *testing.T) {
	c := New()

	c.Set("key", "value", time.Minute)
	c.Clear()

	_, found := c.Get("key")
	assert.False(t, found)
}
