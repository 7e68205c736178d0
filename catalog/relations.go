package catalog

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/cacheaside"
)

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	return slices.Clone(ids)
}

// uniqueIDs drops duplicates, keeping first-seen order. A nil input stays nil.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func addID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(ids, func(v uuid.UUID) bool { return v == id })
}

// diffIDs returns the ids present only in next and the ids present only in prev.
func diffIDs(prev, next []uuid.UUID) (added, removed []uuid.UUID) {
	for _, id := range next {
		if !slices.Contains(prev, id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !slices.Contains(next, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// resolve loads every entity in ids or fails with one NotFound listing all missing ids.
func resolve[E entity](ctx context.Context, store Store[E], kind string, ids []uuid.UUID) ([]E, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := store.FindAllByID(ctx, ids)
	if err != nil {
		return nil, storeFailed("find "+kind, err)
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for _, e := range found {
		present[e.GetID()] = struct{}{}
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, NotFound(kind, missing...)
	}
	return found, nil
}

// load fetches a single entity for a write, bypassing the cache.
func load[E any](ctx context.Context, store Store[E], kind string, id uuid.UUID) (E, error) {
	e, ok, err := store.FindByID(ctx, id)
	if err != nil {
		return e, storeFailed("find "+kind, err)
	}
	if !ok {
		return e, NotFound(kind, id)
	}
	return e, nil
}

// linker accumulates edits to entities on the inverse side of a relationship.
// Entities are loaded once and saved once, after the owning entity is saved.
type linker[E entity] struct {
	store   Store[E]
	kind    string
	pending map[uuid.UUID]E
	order   []uuid.UUID
}

func newLinker[E entity](store Store[E], kind string) *linker[E] {
	return &linker[E]{store: store, kind: kind, pending: make(map[uuid.UUID]E)}
}

// preload registers entities already fetched by resolve.
func (l *linker[E]) preload(items []E) {
	for _, item := range items {
		if _, ok := l.pending[item.GetID()]; !ok {
			l.pending[item.GetID()] = item
			l.order = append(l.order, item.GetID())
		}
	}
}

// edit applies fn to the entity with id, loading it when needed.
// Ids that no longer exist are skipped.
func (l *linker[E]) edit(ctx context.Context, id uuid.UUID, fn func(*E)) error {
	item, ok := l.pending[id]
	if !ok {
		found, exists, err := l.store.FindByID(ctx, id)
		if err != nil {
			return storeFailed("find "+l.kind, err)
		}
		if !exists {
			return nil
		}
		item = found
		l.order = append(l.order, id)
	}
	fn(&item)
	l.pending[id] = item
	return nil
}

func (l *linker[E]) editAll(ctx context.Context, ids []uuid.UUID, fn func(*E)) error {
	for _, id := range ids {
		if err := l.edit(ctx, id, fn); err != nil {
			return err
		}
	}
	return nil
}

// forget drops pending edits for id so flush does not save it.
func (l *linker[E]) forget(id uuid.UUID) {
	if _, ok := l.pending[id]; !ok {
		return
	}
	delete(l.pending, id)
	l.order = removeID(l.order, id)
}

// flush saves every edited entity and records each save on tx. Callers run it
// inside the same store transaction as the owning save.
func (l *linker[E]) flush(ctx context.Context, tx *cacheaside.Tx) error {
	for _, id := range l.order {
		if _, err := l.store.Save(ctx, l.pending[id]); err != nil {
			return saveFailed(l.kind, l.pending[id], err)
		}
		tx.Persisted()
	}
	return nil
}

func save[E any](ctx context.Context, tx *cacheaside.Tx, store Store[E], kind string, e E) (E, error) {
	saved, err := store.Save(ctx, e)
	if err != nil {
		return saved, saveFailed(kind, e, err)
	}
	tx.Persisted()
	return saved, nil
}

func remove[E any](ctx context.Context, tx *cacheaside.Tx, store Store[E], kind string, id uuid.UUID) error {
	if err := store.Delete(ctx, id); err != nil {
		return storeFailed("delete "+kind, err)
	}
	tx.Persisted()
	return nil
}
