package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "record", GenerateCacheKey("record"))
	assert.Equal(t, "record:a:b", GenerateCacheKey("record", "a", "b"))
}

func TestNewCacheDefaultsToMemory(t *testing.T) {
	c, err := NewCache(Config{Type: "unknown"})
	require.NoError(t, err)
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}

// exerciseCache runs the shared contract against one implementation.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()

	t.Run("miss", func(t *testing.T) {
		_, found, err := c.Get("absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set("k1", "v1", time.Minute))
		got, found, err := c.Get("k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "v1", got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, c.Set("k1", "v2", time.Minute))
		got, _, err := c.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, "v2", got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("k2", "v", time.Minute))
		require.NoError(t, c.Delete("k2"))
		_, found, err := c.Get("k2")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set("k3", "v", time.Minute))
		require.NoError(t, c.Clear())
		_, found, err := c.Get("k3")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(DefaultConfig())
	require.NoError(t, err)
	exerciseCache(t, c)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, err := NewMemoryCache(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, c.Set("k", "v", 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, found, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Type:      "redis",
		RedisAddr: srv.Addr(),
	})
	require.NoError(t, err)
	exerciseCache(t, c)
}

func TestRedisCacheExpiry(t *testing.T) {
	srv := miniredis.RunT(t)

	c, err := NewRedisCache(Config{RedisAddr: srv.Addr()})
	require.NoError(t, err)

	require.NoError(t, c.Set("k", "v", time.Second))
	srv.FastForward(2 * time.Second)

	_, found, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache(Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
