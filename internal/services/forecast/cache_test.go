package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache[string](time.Second)
	c.Set("key1", "value1")

	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_ExpiryAndPurge(t *testing.T) {
	now := time.Date(2020, 2, 19, 12, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "1")
	now = now.Add(30 * time.Second)
	c.Set("b", "2")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Purge())

	_, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCache_GetDropsExpiredEntry(t *testing.T) {
	now := time.Date(2020, 2, 19, 12, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "1")
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetSweepsExpiredEntries(t *testing.T) {
	now := time.Date(2020, 2, 19, 12, 0, 0, 0, time.UTC)
	c := NewCache[int](time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	assert.Equal(t, 100, c.Len())

	now = now.Add(2 * time.Minute)
	c.Set("fresh", 1)

	assert.Equal(t, 1, c.Len())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "53.90,27.56", cacheKey(53.9012, 27.5649))
	assert.Equal(t, "-33.87,151.21", cacheKey(-33.8688, 151.2093))
}
