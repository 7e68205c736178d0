package storeinfra

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entity tables. Relationship lists are not columns: they live in the join
// tables below or are derived from a foreign key on the other side.

type albumRow struct {
	bun.BaseModel `bun:"table:albums,alias:al"`

	ID   uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name string    `bun:"name,notnull"`
}

type artistRow struct {
	bun.BaseModel `bun:"table:artists,alias:ar"`

	ID   uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name string    `bun:"name,notnull"`
}

type trackRow struct {
	bun.BaseModel `bun:"table:tracks,alias:tr"`

	ID       uuid.UUID     `bun:"id,pk,type:varchar(36)"`
	Name     string        `bun:"name,notnull"`
	Duration int           `bun:"duration,notnull"`
	AlbumID  uuid.NullUUID `bun:"album_id,type:varchar(36)"`
}

type genreRow struct {
	bun.BaseModel `bun:"table:genres,alias:ge"`

	ID   uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name string    `bun:"name,notnull,unique"`
}

type playlistRow struct {
	bun.BaseModel `bun:"table:playlists,alias:pl"`

	ID       uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name     string    `bun:"name,notnull"`
	AuthorID uuid.UUID `bun:"author_id,notnull,type:varchar(36)"`
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:us"`

	ID       uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name     string    `bun:"name,notnull"`
	Email    string    `bun:"email,notnull,unique"`
	Password string    `bun:"password,notnull"`
}

// Join tables. Position keeps the owner's list order.

type albumArtistRow struct {
	bun.BaseModel `bun:"table:album_artists"`

	AlbumID  uuid.UUID `bun:"album_id,pk,type:varchar(36)"`
	ArtistID uuid.UUID `bun:"artist_id,pk,type:varchar(36)"`
	Position int       `bun:"position,notnull"`
}

type trackGenreRow struct {
	bun.BaseModel `bun:"table:track_genres"`

	TrackID  uuid.UUID `bun:"track_id,pk,type:varchar(36)"`
	GenreID  uuid.UUID `bun:"genre_id,pk,type:varchar(36)"`
	Position int       `bun:"position,notnull"`
}

type playlistTrackRow struct {
	bun.BaseModel `bun:"table:playlist_tracks"`

	PlaylistID uuid.UUID `bun:"playlist_id,pk,type:varchar(36)"`
	TrackID    uuid.UUID `bun:"track_id,pk,type:varchar(36)"`
	Position   int       `bun:"position,notnull"`
}

type playlistSubscriberRow struct {
	bun.BaseModel `bun:"table:playlist_subscribers"`

	PlaylistID uuid.UUID `bun:"playlist_id,pk,type:varchar(36)"`
	UserID     uuid.UUID `bun:"user_id,pk,type:varchar(36)"`
	Position   int       `bun:"position,notnull"`
}

type userLikedTrackRow struct {
	bun.BaseModel `bun:"table:user_liked_tracks"`

	UserID   uuid.UUID `bun:"user_id,pk,type:varchar(36)"`
	TrackID  uuid.UUID `bun:"track_id,pk,type:varchar(36)"`
	Position int       `bun:"position,notnull"`
}

func tableModels() []interface{} {
	return []interface{}{
		(*albumRow)(nil),
		(*artistRow)(nil),
		(*trackRow)(nil),
		(*genreRow)(nil),
		(*playlistRow)(nil),
		(*userRow)(nil),
		(*albumArtistRow)(nil),
		(*trackGenreRow)(nil),
		(*playlistTrackRow)(nil),
		(*playlistSubscriberRow)(nil),
		(*userLikedTrackRow)(nil),
	}
}
