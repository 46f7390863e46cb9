// Package backend builds the storage chain selected by configuration.
package backend

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"workload-board/api"
	"workload-board/config"
	"workload-board/storage"
)

// Backend bundles the persistence chain chosen by config.
type Backend struct {
	KV      storage.KV
	Deduper api.Deduper
	Redis   *redis.Client
	closers []func() error
}

func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open builds the KV for cfg.Backend. Remote stores are guarded by a
// circuit breaker, and non-Redis stores get a Redis read-through cache when
// CACHE_TTL is set.
func Open(cfg config.Config, logger *log.Logger) (*Backend, error) {
	b := &Backend{}
	if cfg.RedisConn != "" {
		opts, err := storage.ParseRedisOptions(cfg.RedisConn)
		if err != nil {
			return nil, fmt.Errorf("redis options: %w", err)
		}
		b.Redis = redis.NewClient(opts)
		b.closers = append(b.closers, b.Redis.Close)
	}

	switch cfg.Backend {
	case config.BackendMemory:
		b.KV = storage.NewMemoryKV()
	case config.BackendSQLite:
		kv, err := storage.OpenSQLite(cfg.SQLitePath, cfg.Namespace)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.KV = kv
		b.closers = append(b.closers, kv.Close)
	case config.BackendRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("backend %s requires REDIS_CONNECTION_STRING", cfg.Backend)
		}
		b.KV = storage.NewBreaker("redis", storage.NewRedisKV(b.Redis, cfg.Namespace), cfg.BreakerFailures, cfg.BreakerTimeout)
	case config.BackendTables:
		kv, err := storage.NewTableKV(cfg.StorageConn, cfg.BoardTable, cfg.Namespace)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("table storage: %w", err)
		}
		b.KV = storage.NewBreaker("tables", kv, cfg.BreakerFailures, cfg.BreakerTimeout)
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.CacheTTL > 0 && b.Redis != nil && cfg.Backend != config.BackendRedis {
		b.KV = storage.NewCache(b.KV, b.Redis, cfg.CacheTTL, cfg.Namespace)
	}

	if b.Redis != nil {
		b.Deduper = api.NewRedisDeduper(b.Redis, cfg.DeduperTTL)
	} else {
		b.Deduper = api.NewMemoryDeduper(cfg.DeduperTTL)
	}

	logger.WithFields(log.Fields{
		"backend":   cfg.Backend,
		"namespace": cfg.Namespace,
		"cache":     cfg.CacheTTL > 0 && b.Redis != nil,
	}).Info("board storage ready")
	return b, nil
}
