package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names the KV the board is persisted to.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendTables Backend = "tables"
)

// Config is read from the environment. An optional .env file in the working
// directory is loaded first; variables already set win.
type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	Debug     bool   `env:"DEBUG"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	Backend   Backend `env:"BOARD_BACKEND" envDefault:"sqlite"`
	Namespace string  `env:"BOARD_NAMESPACE" envDefault:"default"`

	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"board.db"`
	RedisConn       string        `env:"REDIS_CONNECTION_STRING"`
	StorageConn     string        `env:"STORAGE_CONNECTION_STRING"`
	BoardTable      string        `env:"BOARD_TABLE" envDefault:"board"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"0s"`
	DeduperTTL      time.Duration `env:"DEDUPER_TTL" envDefault:"10m"`
	BreakerFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"3"`
	BreakerTimeout  time.Duration `env:"BREAKER_TIMEOUT" envDefault:"5s"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.Namespace == "" {
		return errors.New("missing BOARD_NAMESPACE")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case BackendRedis:
		if c.RedisConn == "" {
			return errors.New("missing redis config")
		}
	case BackendTables:
		if c.StorageConn == "" || c.BoardTable == "" {
			return errors.New("missing storage config")
		}
	default:
		return fmt.Errorf("unknown BOARD_BACKEND %q", c.Backend)
	}
	if c.CacheTTL < 0 {
		return errors.New("invalid CACHE_TTL: must not be negative")
	}
	if c.CacheTTL > 0 && c.RedisConn == "" {
		return errors.New("CACHE_TTL requires REDIS_CONNECTION_STRING")
	}
	if c.DeduperTTL <= 0 {
		return errors.New("invalid DEDUPER_TTL: must be greater than zero")
	}
	return nil
}
