// Package cache provides the bounded catalog cache contract, its typed cache-aside
// helper and the key policy shared by every entity service.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: a size-bounded key/value store with full-clear invalidation
//   - KeySerializer: builds "<entities>_<shape>_<arg>" keys
//
// The default backend (BackendFIFO) evicts the entry inserted earliest once the
// configured MaxSize is reached. Reading an entry does not protect it from eviction.
// There is no TTL and no per-key delete: staleness is controlled only by Clear.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	keys := cache.NewDefaultKeySerializer()
//
//	key := keys.SerializeKey("album", cache.ShapeID, id) // "albums_id_<id>"
//	album, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (Album, error) {
//		return store.FindByID(ctx, id)
//	})
//
// # Races between reads and writes
//
// GetOrFetch records the cache epoch before calling the fetch function and stores
// the result with PutIfEpoch. If a writer clears the cache while the fetch is in
// flight, the fetched value is returned to its caller but not cached.
//
// # Key Serialization Strategy
//
// Entity names are lower-cased and pluralised. Arguments are rendered in their
// natural string form: fmt.Stringer values (uuid.UUID) through String, basic types
// through %v, and slices, maps and structs recursively with sorted map keys.
package cache
