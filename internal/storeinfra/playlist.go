package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.PlaylistStore = (*PlaylistStore)(nil)

// PlaylistStore owns playlists.author_id, playlist_tracks and playlist_subscribers.
type PlaylistStore struct {
	*rowStore[playlistRow, catalog.Playlist]
}

func NewPlaylistStore(db *bun.DB) *PlaylistStore {
	return &PlaylistStore{&rowStore[playlistRow, catalog.Playlist]{
		db:      db,
		repo:    newRepository(db, func(r *playlistRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityPlaylist,
		hydrate: hydratePlaylists,
	}}
}

func hydratePlaylists(ctx context.Context, db bun.IDB, rows []*playlistRow) ([]catalog.Playlist, error) {
	ids := rowIDs(rows, func(r *playlistRow) *uuid.UUID { return &r.ID })

	tracks, err := edges(ctx, db, "playlist_id", "position", ids, func(r *playlistTrackRow) (uuid.UUID, uuid.UUID) {
		return r.PlaylistID, r.TrackID
	})
	if err != nil {
		return nil, err
	}
	subscribers, err := edges(ctx, db, "playlist_id", "position", ids, func(r *playlistSubscriberRow) (uuid.UUID, uuid.UUID) {
		return r.PlaylistID, r.UserID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Playlist, len(rows))
	for i, row := range rows {
		out[i] = catalog.Playlist{
			ID:            row.ID,
			Name:          row.Name,
			AuthorID:      row.AuthorID,
			TrackIDs:      tracks[row.ID],
			SubscriberIDs: subscribers[row.ID],
		}
	}
	return out, nil
}

func (s *PlaylistStore) FindByName(ctx context.Context, name string) ([]catalog.Playlist, error) {
	return s.list(ctx, whereColumn("name", name))
}

func (s *PlaylistStore) FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]catalog.Playlist, error) {
	return s.list(ctx, whereColumn("author_id", authorID))
}

func (s *PlaylistStore) Save(ctx context.Context, p catalog.Playlist) (catalog.Playlist, error) {
	p = p.Clone()
	isNew := p.ID == uuid.Nil
	if isNew {
		p.ID = uuid.New()
	}

	row := &playlistRow{ID: p.ID, Name: p.Name, AuthorID: p.AuthorID}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.write(ctx, tx, row, isNew, "name", "author_id"); err != nil {
			return err
		}
		err := relink(ctx, tx, "playlist_id", p.ID, p.TrackIDs, func(playlist, track uuid.UUID, pos int) playlistTrackRow {
			return playlistTrackRow{PlaylistID: playlist, TrackID: track, Position: pos}
		})
		if err != nil {
			return err
		}
		return relink(ctx, tx, "playlist_id", p.ID, p.SubscriberIDs, func(playlist, user uuid.UUID, pos int) playlistSubscriberRow {
			return playlistSubscriberRow{PlaylistID: playlist, UserID: user, Position: pos}
		})
	})
	if err != nil {
		return p, fmt.Errorf("storeinfra: save playlist %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *PlaylistStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drop(ctx, &playlistRow{ID: id},
		unlink[playlistTrackRow]("playlist_id", id),
		unlink[playlistSubscriberRow]("playlist_id", id),
	)
}
