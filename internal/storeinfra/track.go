package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.TrackStore = (*TrackStore)(nil)

// TrackStore owns tracks.album_id and track_genres. Playlist membership and
// likes are read from the tables written by playlists and users.
type TrackStore struct {
	*rowStore[trackRow, catalog.Track]
}

func NewTrackStore(db *bun.DB) *TrackStore {
	return &TrackStore{&rowStore[trackRow, catalog.Track]{
		db:      db,
		repo:    newRepository(db, func(r *trackRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityTrack,
		hydrate: hydrateTracks,
	}}
}

func hydrateTracks(ctx context.Context, db bun.IDB, rows []*trackRow) ([]catalog.Track, error) {
	ids := rowIDs(rows, func(r *trackRow) *uuid.UUID { return &r.ID })

	genres, err := edges(ctx, db, "track_id", "position", ids, func(r *trackGenreRow) (uuid.UUID, uuid.UUID) {
		return r.TrackID, r.GenreID
	})
	if err != nil {
		return nil, err
	}
	playlists, err := edges(ctx, db, "track_id", "playlist_id", ids, func(r *playlistTrackRow) (uuid.UUID, uuid.UUID) {
		return r.TrackID, r.PlaylistID
	})
	if err != nil {
		return nil, err
	}
	likes, err := edges(ctx, db, "track_id", "user_id", ids, func(r *userLikedTrackRow) (uuid.UUID, uuid.UUID) {
		return r.TrackID, r.UserID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Track, len(rows))
	for i, row := range rows {
		out[i] = catalog.Track{
			ID:             row.ID,
			Name:           row.Name,
			Duration:       row.Duration,
			AlbumID:        row.AlbumID,
			GenreIDs:       genres[row.ID],
			PlaylistIDs:    playlists[row.ID],
			LikedByUserIDs: likes[row.ID],
		}
	}
	return out, nil
}

func (s *TrackStore) FindByName(ctx context.Context, name string) ([]catalog.Track, error) {
	return s.list(ctx, whereColumn("name", name))
}

// FindByArtistName returns the tracks on any album credited to the artist.
func (s *TrackStore) FindByArtistName(ctx context.Context, artist string) ([]catalog.Track, error) {
	credited := conn(ctx, s.db).NewSelect().
		TableExpr("album_artists AS aa").
		ColumnExpr("aa.album_id").
		Join("JOIN artists AS a ON a.id = aa.artist_id").
		Where("a.name = ?", artist)

	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.album_id IN (?)", credited)
	})
}

func (s *TrackStore) Save(ctx context.Context, t catalog.Track) (catalog.Track, error) {
	t = t.Clone()
	isNew := t.ID == uuid.Nil
	if isNew {
		t.ID = uuid.New()
	}

	row := &trackRow{ID: t.ID, Name: t.Name, Duration: t.Duration, AlbumID: t.AlbumID}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.write(ctx, tx, row, isNew, "name", "duration", "album_id"); err != nil {
			return err
		}
		return relink(ctx, tx, "track_id", t.ID, t.GenreIDs, func(track, genre uuid.UUID, pos int) trackGenreRow {
			return trackGenreRow{TrackID: track, GenreID: genre, Position: pos}
		})
	})
	if err != nil {
		return t, fmt.Errorf("storeinfra: save track %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *TrackStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drop(ctx, &trackRow{ID: id},
		unlink[trackGenreRow]("track_id", id),
		unlink[playlistTrackRow]("track_id", id),
		unlink[userLikedTrackRow]("track_id", id),
	)
}
