package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendCache(t *testing.T) {
	t.Run("写入后可读取", func(t *testing.T) {
		c := NewRecommendCache[string](10, time.Minute)
		c.Set("k", "v")

		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", got)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("过期后不可读取", func(t *testing.T) {
		c := NewRecommendCache[int](10, 10*time.Millisecond)
		c.Set("k", 42)

		time.Sleep(30 * time.Millisecond)
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("清空", func(t *testing.T) {
		c := NewRecommendCache[int](10, time.Minute)
		c.Set("a", 1)
		c.Set("b", 2)
		c.Clear()

		assert.Equal(t, 0, c.Len())
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("删除单条", func(t *testing.T) {
		c := NewRecommendCache[int](10, time.Minute)
		c.Set("a", 1)
		c.Delete("a")
		_, ok := c.Get("a")
		assert.False(t, ok)
	})
}

func TestGlobalCache(t *testing.T) {
	InitCache()

	CacheSet("key", "value", time.Minute)
	got, ok := CacheGet("key")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	CacheDelete("key")
	_, ok = CacheGet("key")
	assert.False(t, ok)

	CacheSet("other", 1, time.Minute)
	CacheClear()
	_, ok = CacheGet("other")
	assert.False(t, ok)
}
