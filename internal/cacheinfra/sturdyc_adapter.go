package cacheinfra

import (
	"sync"
	"time"

	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

// SturdycConfig holds the configuration for the sturdyc cache adapter.
type SturdycConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0.
	NumShards int

	// TTL is the time-to-live sturdyc requires for every entry. The catalog does not rely on
	// expiry for freshness, so this should be long; staleness is handled by Clear.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int
}

// Validate checks if the configuration values are valid.
func (c SturdycConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycCache adapts a sturdyc client to the catalog cache contract.
//
// Relaxations compared to FIFOCache: the bound is enforced by sturdyc's percentage
// eviction and eviction order is not insertion order. Clear stays atomic with respect
// to this adapter's own operations because it holds the write lock while deleting.
type SturdycCache struct {
	mu     sync.RWMutex
	client *sturdyc.Client[any]
	epoch  uint64
	logger *zap.Logger
}

// NewSturdycCache creates a new sturdyc cache service adapter.
func NewSturdycCache(cfg SturdycConfig, logger *zap.Logger) (*SturdycCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)

	return &SturdycCache{client: client, logger: logger}, nil
}

func (s *SturdycCache) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.client.Get(key)
}

func (s *SturdycCache) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client.Set(key, value)
	s.logger.Debug("cache put", zap.String("key", key), zap.Int("size", s.client.Size()))
}

func (s *SturdycCache) PutIfEpoch(epoch uint64, key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return false
	}
	s.client.Set(key, value)
	return true
}

func (s *SturdycCache) ContainsKey(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Clear deletes every key sturdyc reports and advances the epoch.
func (s *SturdycCache) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.client.ScanKeys()
	for _, key := range keys {
		s.client.Delete(key)
	}
	s.epoch++
	s.logger.Debug("cache cleared", zap.Int("dropped", len(keys)), zap.Uint64("epoch", s.epoch))
}

func (s *SturdycCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.client.Size()
}

func (s *SturdycCache) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.epoch
}
