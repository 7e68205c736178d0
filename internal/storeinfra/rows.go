package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// newRepository builds a go-repository-bun repository for a row type keyed by a uuid id column.
func newRepository[R any](db *bun.DB, key func(*R) *uuid.UUID) repository.Repository[*R] {
	return repository.NewRepository[*R](db, repository.ModelHandlers[*R]{
		NewRecord: func() *R {
			return new(R)
		},
		GetID: func(row *R) uuid.UUID {
			if row == nil {
				return uuid.Nil
			}
			return *key(row)
		},
		SetID: func(row *R, id uuid.UUID) {
			*key(row) = id
		},
		GetIdentifier: func() string {
			return "name"
		},
	})
}

func orderByName(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.name ASC, ?TableAlias.id ASC")
}

func whereID(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}

func whereIDIn(ids []uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id IN (?)", bun.In(ids))
	}
}

func whereColumn(column string, value interface{}) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

// rowStore implements the read half of catalog.Store for one entity table.
// hydrate turns rows into entities, filling relationship lists from the join tables.
type rowStore[R any, E any] struct {
	db      *bun.DB
	repo    repository.Repository[*R]
	entity  string
	hydrate func(ctx context.Context, db bun.IDB, rows []*R) ([]E, error)
}

func (s *rowStore[R, E]) list(ctx context.Context, criteria ...repository.SelectCriteria) ([]E, error) {
	criteria = append(criteria, orderByName)
	db := conn(ctx, s.db)
	rows, _, err := s.repo.ListTx(ctx, db, criteria...)
	if err != nil {
		return nil, fmt.Errorf("storeinfra: list %s: %w", s.entity, err)
	}
	out, err := s.hydrate(ctx, db, rows)
	if err != nil {
		return nil, fmt.Errorf("storeinfra: load %s relations: %w", s.entity, err)
	}
	return out, nil
}

func (s *rowStore[R, E]) one(ctx context.Context, criteria ...repository.SelectCriteria) (E, bool, error) {
	var zero E
	found, err := s.list(ctx, criteria...)
	if err != nil || len(found) == 0 {
		return zero, false, err
	}
	return found[0], true, nil
}

func (s *rowStore[R, E]) FindAll(ctx context.Context) ([]E, error) {
	return s.list(ctx)
}

func (s *rowStore[R, E]) FindByID(ctx context.Context, id uuid.UUID) (E, bool, error) {
	return s.one(ctx, whereID(id))
}

func (s *rowStore[R, E]) FindAllByID(ctx context.Context, ids []uuid.UUID) ([]E, error) {
	if len(ids) == 0 {
		return []E{}, nil
	}
	return s.list(ctx, whereIDIn(ids))
}

// write inserts a new row through the repository or overwrites the listed
// columns of an existing one.
func (s *rowStore[R, E]) write(ctx context.Context, tx bun.Tx, row *R, isNew bool, columns ...string) error {
	if isNew {
		if _, err := s.repo.CreateTx(ctx, tx, row); err != nil {
			return writeFailed("insert", s.entity, err)
		}
		return nil
	}

	q := tx.NewInsert().Model(row).On("CONFLICT (id) DO UPDATE")
	for _, column := range columns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(column), bun.Ident(column))
	}
	if _, err := q.Exec(ctx); err != nil {
		return writeFailed("update", s.entity, err)
	}
	return nil
}

// inTx runs fn in the caller's transaction, or in a new one.
func (s *rowStore[R, E]) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return inTx(ctx, s.db, fn)
}

// drop deletes the row and every link row whose column references it.
func (s *rowStore[R, E]) drop(ctx context.Context, row *R, links ...func(context.Context, bun.Tx) error) error {
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, unlink := range links {
			if err := unlink(ctx, tx); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(ctx, tx, row)
	})
	if err != nil {
		return fmt.Errorf("storeinfra: delete %s: %w", s.entity, err)
	}
	return nil
}

// edges loads, for each owner id, the ids paired with it through rows of R
// whose column matches the owner. Rows are read in the given order.
func edges[R any](ctx context.Context, db bun.IDB, column, order string, owners []uuid.UUID, pair func(*R) (owner, other uuid.UUID)) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(owners))
	if len(owners) == 0 {
		return out, nil
	}

	var rows []*R
	err := db.NewSelect().
		Model(&rows).
		Where("? IN (?)", bun.Ident(column), bun.In(owners)).
		OrderExpr("? ASC", bun.Ident(order)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		owner, other := pair(row)
		out[owner] = append(out[owner], other)
	}
	return out, nil
}

// relink replaces the link rows owned by owner with one row per id, in order.
func relink[R any](ctx context.Context, tx bun.Tx, column string, owner uuid.UUID, ids []uuid.UUID, build func(owner, other uuid.UUID, position int) R) error {
	if err := unlink[R](column, owner)(ctx, tx); err != nil {
		return err
	}

	rows := make([]R, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, build(owner, id, len(rows)))
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert %T rows: %w", rows[0], err)
	}
	return nil
}

// unlink deletes the rows of R whose column equals id.
func unlink[R any](column string, id uuid.UUID) func(context.Context, bun.Tx) error {
	return func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*R)(nil)).
			Where("? = ?", bun.Ident(column), id).
			Exec(ctx)
		if err != nil {
			var zero R
			return fmt.Errorf("delete %T rows: %w", zero, err)
		}
		return nil
	}
}

func rowIDs[R any](rows []*R, key func(*R) *uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = *key(row)
	}
	return ids
}
