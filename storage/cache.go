package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache wraps a KV with a Redis read-through cache. Writes go to the base
// store first and then refresh the cached copy.
type Cache struct {
	base   KV
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCache creates a caching KV using the provided Redis client and TTL. A
// zero TTL disables caching of values but still evicts on writes.
func NewCache(base KV, client *redis.Client, ttl time.Duration, namespace string) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	prefix := "cache:"
	if namespace != "" {
		prefix = "cache:" + namespace + ":"
	}
	return &Cache{
		base:   base,
		redis:  client,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *Cache) Load(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.loadFromCache(ctx, key); ok {
		return data, nil
	}

	data, err := c.base.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, data)
	return data, nil
}

func (c *Cache) Save(ctx context.Context, key string, value []byte) error {
	if err := c.base.Save(ctx, key, value); err != nil {
		c.evict(ctx, key)
		return err
	}
	c.store(ctx, key, value)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.evict(ctx, key)
	return c.base.Delete(ctx, key)
}

func (c *Cache) loadFromCache(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.cacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			log.WithError(err).WithField("key", key).Warn("cache read failed")
			_ = c.redis.Del(ctx, c.cacheKey(key)).Err()
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) store(ctx context.Context, key string, data []byte) {
	if c.redis == nil {
		return
	}
	if c.ttl == 0 {
		c.evict(ctx, key)
		return
	}
	if err := c.redis.Set(ctx, c.cacheKey(key), data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *Cache) evict(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, c.cacheKey(key)).Result()
}

func (c *Cache) cacheKey(key string) string {
	return c.prefix + key
}
