package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.GenreStore = (*GenreStore)(nil)

type GenreStore struct {
	*rowStore[genreRow, catalog.Genre]
}

func NewGenreStore(db *bun.DB) *GenreStore {
	return &GenreStore{&rowStore[genreRow, catalog.Genre]{
		db:      db,
		repo:    newRepository(db, func(r *genreRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityGenre,
		hydrate: hydrateGenres,
	}}
}

func hydrateGenres(ctx context.Context, db bun.IDB, rows []*genreRow) ([]catalog.Genre, error) {
	ids := rowIDs(rows, func(r *genreRow) *uuid.UUID { return &r.ID })

	tracks, err := edges(ctx, db, "genre_id", "track_id", ids, func(r *trackGenreRow) (uuid.UUID, uuid.UUID) {
		return r.GenreID, r.TrackID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Genre, len(rows))
	for i, row := range rows {
		out[i] = catalog.Genre{ID: row.ID, Name: row.Name, TrackIDs: tracks[row.ID]}
	}
	return out, nil
}

func (s *GenreStore) FindByName(ctx context.Context, name string) (catalog.Genre, bool, error) {
	return s.one(ctx, whereColumn("name", name))
}

func (s *GenreStore) Save(ctx context.Context, g catalog.Genre) (catalog.Genre, error) {
	g = g.Clone()
	isNew := g.ID == uuid.Nil
	if isNew {
		g.ID = uuid.New()
	}

	row := &genreRow{ID: g.ID, Name: g.Name}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.write(ctx, tx, row, isNew, "name")
	})
	if err != nil {
		return g, fmt.Errorf("storeinfra: save genre %s: %w", g.ID, err)
	}
	return g, nil
}

func (s *GenreStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drop(ctx, &genreRow{ID: id}, unlink[trackGenreRow]("genre_id", id))
}
