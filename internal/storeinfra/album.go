package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.AlbumStore = (*AlbumStore)(nil)

// AlbumStore owns album_artists. Album.TrackIDs is derived from tracks.album_id.
type AlbumStore struct {
	*rowStore[albumRow, catalog.Album]
}

func NewAlbumStore(db *bun.DB) *AlbumStore {
	return &AlbumStore{&rowStore[albumRow, catalog.Album]{
		db:      db,
		repo:    newRepository(db, func(r *albumRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityAlbum,
		hydrate: hydrateAlbums,
	}}
}

func hydrateAlbums(ctx context.Context, db bun.IDB, rows []*albumRow) ([]catalog.Album, error) {
	ids := rowIDs(rows, func(r *albumRow) *uuid.UUID { return &r.ID })

	artists, err := edges(ctx, db, "album_id", "position", ids, func(r *albumArtistRow) (uuid.UUID, uuid.UUID) {
		return r.AlbumID, r.ArtistID
	})
	if err != nil {
		return nil, err
	}
	tracks, err := edges(ctx, db, "album_id", "name", ids, func(r *trackRow) (uuid.UUID, uuid.UUID) {
		return r.AlbumID.UUID, r.ID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Album, len(rows))
	for i, row := range rows {
		out[i] = catalog.Album{
			ID:        row.ID,
			Name:      row.Name,
			ArtistIDs: artists[row.ID],
			TrackIDs:  tracks[row.ID],
		}
	}
	return out, nil
}

func (s *AlbumStore) FindByName(ctx context.Context, name string) ([]catalog.Album, error) {
	return s.list(ctx, whereColumn("name", name))
}

// FindByGenreName returns albums holding at least one track tagged with the genre.
func (s *AlbumStore) FindByGenreName(ctx context.Context, genre string) ([]catalog.Album, error) {
	tagged := conn(ctx, s.db).NewSelect().
		TableExpr("tracks AS t").
		ColumnExpr("t.album_id").
		Join("JOIN track_genres AS tg ON tg.track_id = t.id").
		Join("JOIN genres AS g ON g.id = tg.genre_id").
		Where("g.name = ?", genre)

	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id IN (?)", tagged)
	})
}

func (s *AlbumStore) Save(ctx context.Context, a catalog.Album) (catalog.Album, error) {
	a = a.Clone()
	isNew := a.ID == uuid.Nil
	if isNew {
		a.ID = uuid.New()
	}

	row := &albumRow{ID: a.ID, Name: a.Name}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.write(ctx, tx, row, isNew, "name"); err != nil {
			return err
		}
		return relink(ctx, tx, "album_id", a.ID, a.ArtistIDs, func(album, artist uuid.UUID, pos int) albumArtistRow {
			return albumArtistRow{AlbumID: album, ArtistID: artist, Position: pos}
		})
	})
	if err != nil {
		return a, fmt.Errorf("storeinfra: save album %s: %w", a.ID, err)
	}
	return a, nil
}

// Delete removes the album, its artist links and detaches its tracks.
func (s *AlbumStore) Delete(ctx context.Context, id uuid.UUID) error {
	detach := func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*trackRow)(nil)).
			Set("album_id = NULL").
			Where("album_id = ?", id).
			Exec(ctx)
		return err
	}
	return s.drop(ctx, &albumRow{ID: id}, unlink[albumArtistRow]("album_id", id), detach)
}
