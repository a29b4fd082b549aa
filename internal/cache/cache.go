package cache

import (
	"time"
)

// Cache stores processed document records keyed by content hash, so
// re-uploading the same document skips the pipeline and the external
// summarizer.
type Cache interface {
	Get(key string) (value string, found bool, err error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Factory cache factory function type.
type Factory func(config Config) (Cache, error)

// registered cache implementations
var registry = make(map[string]Factory)

// RegisterCache registers a cache implementation.
func RegisterCache(name string, factory Factory) {
	registry[name] = factory
}

// NewCache creates a cache from config, defaulting to the in-memory
// implementation.
func NewCache(config Config) (Cache, error) {
	if factory, ok := registry[config.Type]; ok {
		return factory(config)
	}
	return NewMemoryCache(config)
}

// Config cache configuration.
type Config struct {
	// cache type: "memory" or "redis"
	Type string
	// Redis address (redis only)
	RedisAddr string
	// Redis password (redis only)
	RedisPassword string
	// Redis database number (redis only)
	RedisDB int
	// default entry TTL
	DefaultTTL time.Duration
	// cleanup interval (memory only)
	CleanupInterval time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour * 24,
		CleanupInterval: time.Minute * 10,
	}
}

// GenerateCacheKey builds a normalized cache key from parts.
func GenerateCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	key := prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
