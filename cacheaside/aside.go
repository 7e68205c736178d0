package cacheaside

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
)

// Aside binds a cache, a key serializer and a logger for use by entity services.
type Aside struct {
	cache  cache.CacheService
	keys   cache.KeySerializer
	logger *zap.Logger
}

// New creates an Aside. A nil serializer falls back to the default one.
func New(cacheService cache.CacheService, keys cache.KeySerializer, logger *zap.Logger) *Aside {
	if keys == nil {
		keys = cache.NewDefaultKeySerializer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aside{cache: cacheService, keys: keys, logger: logger}
}

// Cache returns the underlying cache service.
func (a *Aside) Cache() cache.CacheService {
	return a.cache
}

// Key builds the cache key for an entity query.
func (a *Aside) Key(entity, shape string, args ...any) string {
	return a.keys.SerializeKey(entity, shape, args...)
}

// Read returns the value cached under key, or fetches, caches and returns it.
// clone is applied to the value stored in the cache and to every value returned.
func Read[T any](ctx context.Context, a *Aside, key string, clone func(T) T, fetch cache.FetchFn[T]) (T, error) {
	var zero T

	value, outcome, err := cache.GetOrFetchOutcome(ctx, a.cache, key, func(ctx context.Context) (T, error) {
		fetched, err := fetch(ctx)
		if err != nil {
			return zero, err
		}
		return clone(fetched), nil
	})
	if err != nil {
		return zero, err
	}

	a.logger.Debug("cache "+outcome.String(), zap.String("key", key))
	return clone(value), nil
}

// Invalidate clears every cached entry.
func (a *Aside) Invalidate(ctx context.Context, reason string) {
	a.cache.Clear()
	a.logger.Info("cache invalidated", zap.String("reason", reason))
}

// Tx counts the store writes made by a single mutation.
type Tx struct {
	writes int
}

// Persisted records one successful store write.
func (t *Tx) Persisted() {
	t.writes++
}

// Writes returns the number of store writes recorded so far.
func (t *Tx) Writes() int {
	return t.writes
}

// Write runs a mutation and clears the cache once it has succeeded and
// persisted something. A failed mutation leaves the cache untouched, so fn
// must roll back whatever it wrote before returning an error.
func (a *Aside) Write(ctx context.Context, op string, fn func(tx *Tx) error) error {
	tx := &Tx{}
	if err := fn(tx); err != nil {
		a.logger.Warn("write failed", zap.String("op", op), zap.Error(err))
		return err
	}

	if tx.writes > 0 {
		a.Invalidate(ctx, op)
	}
	a.logger.Info("write committed", zap.String("op", op), zap.Int("persisted", tx.writes))
	return nil
}
