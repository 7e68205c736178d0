// Package storeinfra persists the catalog in a relational database through bun.
//
// Each join table is written by its owning side only: albums write
// album_artists, tracks write track_genres and their album_id column,
// playlists write playlist_tracks and playlist_subscribers, users write
// user_liked_tracks. The inverse lists are loaded from those tables and
// ignored on save. The catalog services save both sides of every
// relationship, so each write lands exactly once.
package storeinfra

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// NewStores builds every catalog store over db, with a Transactor making each
// service mutation one database transaction.
func NewStores(db *bun.DB) catalog.Stores {
	return catalog.Stores{
		Albums:    NewAlbumStore(db),
		Artists:   NewArtistStore(db),
		Tracks:    NewTrackStore(db),
		Genres:    NewGenreStore(db),
		Playlists: NewPlaylistStore(db),
		Users:     NewUserStore(db),
		Tx:        NewTransactor(db),
	}
}
