package cache

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

// Backend selects the CacheService implementation.
type Backend string

const (
	// BackendFIFO is the exact, insertion-ordered bounded cache.
	BackendFIFO Backend = "fifo"
	// BackendSturdyc trades exact FIFO ordering for sturdyc's sharded storage.
	// The size bound is best-effort: sturdyc evicts a percentage of entries when full.
	BackendSturdyc Backend = "sturdyc"
)

// DefaultMaxSize is the number of entries the catalog cache holds before evicting.
const DefaultMaxSize = 100

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend Backend `mapstructure:"backend"`
	MaxSize int     `mapstructure:"max_size"`

	// sturdyc only
	NumShards          int           `mapstructure:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	TTL                time.Duration `mapstructure:"ttl"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendFIFO,
		MaxSize:            DefaultMaxSize,
		NumShards:          8,
		EvictionPercentage: 10,
		TTL:                24 * time.Hour,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	sturdy := c.Backend == BackendSturdyc
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendFIFO, BackendSturdyc)),
		validation.Field(&c.MaxSize, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.When(sturdy, validation.Required, validation.Min(1))),
		validation.Field(&c.EvictionPercentage, validation.When(sturdy, validation.Required, validation.Min(1), validation.Max(100))),
		validation.Field(&c.TTL, validation.When(sturdy, validation.Required)),
	)
}

// Option customises NewCacheService.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used by the cache backend.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewCacheService constructs the configured cache backend.
func NewCacheService(cfg Config, opts ...Option) (CacheService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cache config: %w", err)
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Backend {
	case BackendSturdyc:
		sc, err := cacheinfra.NewSturdycCache(cfg.toSturdyc(), o.logger)
		if err != nil {
			return nil, err
		}
		return sc, nil
	default:
		return cacheinfra.NewFIFOCache(cfg.MaxSize, o.logger), nil
	}
}

func (c Config) toSturdyc() cacheinfra.SturdycConfig {
	return cacheinfra.SturdycConfig{
		Capacity:           c.MaxSize,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
	}
}
