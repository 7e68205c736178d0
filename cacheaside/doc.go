// Package cacheaside applies the cache-aside pattern at service level.
//
// # Overview
//
// Services route every read through Read, which consults the shared cache before
// calling the store, and every mutation through Write, which clears the whole cache
// once the mutation has committed. Invalidation is global: a write to any
// entity discards cached entries of every entity.
//
// # Basic Usage
//
//	aside := cacheaside.New(cacheService, cache.NewDefaultKeySerializer(), logger)
//
//	album, err := cacheaside.Read(ctx, aside, aside.Key("album", cache.ShapeID, id), Album.Clone,
//		func(ctx context.Context) (Album, error) {
//			return store.FindOne(ctx, id)
//		})
//
//	err = aside.Write(ctx, "album.update", func(tx *cacheaside.Tx) error {
//		if _, err := store.Save(ctx, album); err != nil {
//			return err
//		}
//		tx.Persisted()
//		return nil
//	})
//
// # Snapshots
//
// Read stores a copy of the fetched value and hands every caller its own copy, so
// callers can modify what they receive without affecting the cache or other readers.
//
// # Write Semantics
//
// A write that fails leaves the cache untouched. Callers run the mutation inside a
// store transaction, so a failure rolls back every save it made and the cached
// entries still match the store. A successful write that persisted nothing does
// not clear the cache either.
//
// Concurrent misses on one key share a single fetch; Read logs whether the caller
// was served by a hit, its own miss, or a shared fetch.
package cacheaside
