package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.ArtistStore = (*ArtistStore)(nil)

// ArtistStore reads Artist.AlbumIDs from album_artists and never writes it.
type ArtistStore struct {
	*rowStore[artistRow, catalog.Artist]
}

func NewArtistStore(db *bun.DB) *ArtistStore {
	return &ArtistStore{&rowStore[artistRow, catalog.Artist]{
		db:      db,
		repo:    newRepository(db, func(r *artistRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityArtist,
		hydrate: hydrateArtists,
	}}
}

func hydrateArtists(ctx context.Context, db bun.IDB, rows []*artistRow) ([]catalog.Artist, error) {
	ids := rowIDs(rows, func(r *artistRow) *uuid.UUID { return &r.ID })

	albums, err := edges(ctx, db, "artist_id", "album_id", ids, func(r *albumArtistRow) (uuid.UUID, uuid.UUID) {
		return r.ArtistID, r.AlbumID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Artist, len(rows))
	for i, row := range rows {
		out[i] = catalog.Artist{ID: row.ID, Name: row.Name, AlbumIDs: albums[row.ID]}
	}
	return out, nil
}

func (s *ArtistStore) FindByName(ctx context.Context, name string) (catalog.Artist, bool, error) {
	return s.one(ctx, whereColumn("name", name))
}

func (s *ArtistStore) Save(ctx context.Context, a catalog.Artist) (catalog.Artist, error) {
	a = a.Clone()
	isNew := a.ID == uuid.Nil
	if isNew {
		a.ID = uuid.New()
	}

	row := &artistRow{ID: a.ID, Name: a.Name}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.write(ctx, tx, row, isNew, "name")
	})
	if err != nil {
		return a, fmt.Errorf("storeinfra: save artist %s: %w", a.ID, err)
	}
	return a, nil
}

func (s *ArtistStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drop(ctx, &artistRow{ID: id}, unlink[albumArtistRow]("artist_id", id))
}
