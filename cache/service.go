package cache

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// ErrInvalidResultType is returned when a cached value does not have the type the caller asked for.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// KeySerializer builds a cache key from an entity name, a query shape and the query arguments.
// Identical inputs must always produce identical keys, and inputs that differ in any part must not collide.
type KeySerializer interface {
	SerializeKey(entity, shape string, args ...any) string
}

// FetchFn is the function signature GetOrFetch expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is a bounded key/value cache with explicit full-clear invalidation.
// None of the operations fail: a missing key is reported through the boolean result.
type CacheService interface {
	Get(key string) (any, bool)
	Put(key string, value any)
	ContainsKey(key string) bool
	Clear()
	Len() int

	// Epoch returns the current clear generation. Every Clear advances it.
	Epoch() uint64
	// PutIfEpoch stores value only if no Clear happened since epoch was observed.
	PutIfEpoch(epoch uint64, key string, value any) bool
}

var flights singleflight.Group

// Outcome reports how a read was served.
type Outcome int

const (
	// Hit means the value came from the cache.
	Hit Outcome = iota
	// Miss means this caller ran the fetch.
	Miss
	// Shared means the caller waited on a fetch started by another caller.
	Shared
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// GetOrFetch is the typed cache-aside read used by every service.
//
// On a hit the cached value is returned without calling fetchFn. On a miss fetchFn
// runs, and its result is stored only when the cache was not cleared while the fetch
// was in flight, so a read racing a write cannot resurrect pre-write data.
// Fetch errors are returned as-is and never cached.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	value, _, err := GetOrFetchOutcome(ctx, service, key, fetchFn)
	return value, err
}

// GetOrFetchOutcome is GetOrFetch that also reports how the value was obtained.
//
// Concurrent misses on one key share a single fetch. The shared fetch runs detached
// from the starting caller's cancellation, so one caller giving up does not fail
// the others waiting on it.
func GetOrFetchOutcome[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, Outcome, error) {
	var zero T

	if cached, ok := service.Get(key); ok {
		value, err := typed[T](cached)
		return value, Hit, err
	}

	// flights are scoped to one cache instance and one epoch
	epoch := service.Epoch()
	flight := fmt.Sprintf("%p|%d|%s", service, epoch, key)
	fetchCtx := context.WithoutCancel(ctx)

	result, err, shared := flights.Do(flight, func() (any, error) {
		value, err := fetchFn(fetchCtx)
		if err != nil {
			return nil, err
		}
		service.PutIfEpoch(epoch, key, value)
		return value, nil
	})

	outcome := Miss
	if shared {
		outcome = Shared
	}
	if err != nil {
		return zero, outcome, err
	}

	value, err := typed[T](result)
	return value, outcome, err
}

func typed[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	v, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrInvalidResultType, value, zero)
	}
	return v, nil
}
