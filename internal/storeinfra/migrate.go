package storeinfra

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates every catalog table and its lookup indexes. It is idempotent.
func Migrate(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range tableModels() {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("storeinfra: create table for %T: %w", model, err)
			}
		}

		indexes := []struct {
			model  interface{}
			name   string
			column string
		}{
			{(*trackRow)(nil), "tracks_album_id_idx", "album_id"},
			{(*playlistRow)(nil), "playlists_author_id_idx", "author_id"},
			{(*albumArtistRow)(nil), "album_artists_artist_id_idx", "artist_id"},
			{(*trackGenreRow)(nil), "track_genres_genre_id_idx", "genre_id"},
			{(*playlistTrackRow)(nil), "playlist_tracks_track_id_idx", "track_id"},
			{(*playlistSubscriberRow)(nil), "playlist_subscribers_user_id_idx", "user_id"},
			{(*userLikedTrackRow)(nil), "user_liked_tracks_track_id_idx", "track_id"},
		}
		for _, idx := range indexes {
			_, err := tx.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.column).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("storeinfra: create index %s: %w", idx.name, err)
			}
		}
		return nil
	})
}
