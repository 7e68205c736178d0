package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/cacheaside"
)

// Catalog exposes one cache-aside service per entity. All services share the
// same stores and the same cache, so a write through any of them invalidates
// reads cached by all of them.
type Catalog struct {
	Albums    *AlbumService
	Artists   *ArtistService
	Tracks    *TrackService
	Genres    *GenreService
	Playlists *PlaylistService
	Users     *UserService
}

type service struct {
	stores Stores
	aside  *cacheaside.Aside
	logger *zap.Logger
}

// New wires the six entity services.
func New(stores Stores, aside *cacheaside.Aside, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stores.Tx == nil {
		stores.Tx = unguarded{}
	}
	base := &service{stores: stores, aside: aside, logger: logger}

	return &Catalog{
		Albums:    &AlbumService{base},
		Artists:   &ArtistService{base},
		Tracks:    &TrackService{base},
		Genres:    &GenreService{base},
		Playlists: &PlaylistService{base},
		Users:     &UserService{base},
	}
}

// write runs fn as one store transaction. The cache is cleared only after the
// transaction commits.
func (s *service) write(ctx context.Context, op string, fn func(ctx context.Context, tx *cacheaside.Tx) error) error {
	return s.aside.Write(ctx, op, func(tx *cacheaside.Tx) error {
		return s.stores.Tx.RunInTx(ctx, func(ctx context.Context) error {
			return fn(ctx, tx)
		})
	})
}

type record[E any] interface {
	GetID() uuid.UUID
	Clone() E
}

func cloneOne[E record[E]](e E) E {
	return e.Clone()
}

func readAll[E record[E]](ctx context.Context, s *service, entity string, store Store[E]) ([]E, error) {
	return readList(ctx, s, entity, cache.ShapeAll, nil, store.FindAll)
}

func readByID[E record[E]](ctx context.Context, s *service, entity string, store Store[E], id uuid.UUID) (E, error) {
	key := s.aside.Key(entity, cache.ShapeID, id)
	return cacheaside.Read(ctx, s.aside, key, cloneOne[E], func(ctx context.Context) (E, error) {
		e, ok, err := store.FindByID(ctx, id)
		if err != nil {
			return e, storeFailed("find "+entity, err)
		}
		if !ok {
			return e, NotFound(entity, id)
		}
		return e, nil
	})
}

// readList caches plural lookups. An empty result is cached like any other.
func readList[E record[E]](ctx context.Context, s *service, entity, shape string, arg any, fetch func(context.Context) ([]E, error)) ([]E, error) {
	var key string
	if shape == cache.ShapeAll {
		key = s.aside.Key(entity, shape)
	} else {
		key = s.aside.Key(entity, shape, arg)
	}

	return cacheaside.Read(ctx, s.aside, key, cloneList[E], func(ctx context.Context) ([]E, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, storeFailed("list "+entity, err)
		}
		if items == nil {
			items = []E{}
		}
		return items, nil
	})
}

// readOneByName caches singular name lookups. Absence is not cached.
func readOneByName[E record[E]](ctx context.Context, s *service, entity, name string, fetch func(context.Context, string) (E, bool, error)) (E, error) {
	key := s.aside.Key(entity, cache.ShapeName, name)
	return cacheaside.Read(ctx, s.aside, key, cloneOne[E], func(ctx context.Context) (E, error) {
		e, ok, err := fetch(ctx, name)
		if err != nil {
			return e, storeFailed("find "+entity, err)
		}
		if !ok {
			return e, NotFoundByName(entity, name)
		}
		return e, nil
	})
}
