package catalog

import (
	"github.com/google/uuid"
)

// Entity names used as cache key prefixes and in error context.
const (
	EntityAlbum    = "album"
	EntityArtist   = "artist"
	EntityTrack    = "track"
	EntityGenre    = "genre"
	EntityPlaylist = "playlist"
	EntityUser     = "user"
)

// Album groups tracks released together by one or more artists.
type Album struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	ArtistIDs []uuid.UUID `json:"artist_ids"`
	TrackIDs  []uuid.UUID `json:"track_ids"`
}

// Artist performs on albums.
type Artist struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	AlbumIDs []uuid.UUID `json:"album_ids"`
}

// Track belongs to at most one album. Duration is in seconds.
type Track struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Duration       int           `json:"duration"`
	AlbumID        uuid.NullUUID `json:"album_id"`
	GenreIDs       []uuid.UUID   `json:"genre_ids"`
	PlaylistIDs    []uuid.UUID   `json:"playlist_ids"`
	LikedByUserIDs []uuid.UUID   `json:"liked_by_user_ids"`
}

// Genre names are unique.
type Genre struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	TrackIDs []uuid.UUID `json:"track_ids"`
}

// Playlist is authored by one user and followed by subscribers.
type Playlist struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	AuthorID      uuid.UUID   `json:"author_id"`
	TrackIDs      []uuid.UUID `json:"track_ids"`
	SubscriberIDs []uuid.UUID `json:"subscriber_ids"`
}

// User emails are unique. Password is never serialised.
type User struct {
	ID                    uuid.UUID   `json:"id"`
	Name                  string      `json:"name"`
	Email                 string      `json:"email"`
	Password              string      `json:"-"`
	LikedTrackIDs         []uuid.UUID `json:"liked_track_ids"`
	CreatedPlaylistIDs    []uuid.UUID `json:"created_playlist_ids"`
	SubscribedPlaylistIDs []uuid.UUID `json:"subscribed_playlist_ids"`
}

func (a Album) GetID() uuid.UUID    { return a.ID }
func (a Artist) GetID() uuid.UUID   { return a.ID }
func (t Track) GetID() uuid.UUID    { return t.ID }
func (g Genre) GetID() uuid.UUID    { return g.ID }
func (p Playlist) GetID() uuid.UUID { return p.ID }
func (u User) GetID() uuid.UUID     { return u.ID }

// uniqueKeyed entities name the field a store keeps unique.
type uniqueKeyed interface {
	uniqueKey() (field, value string)
}

func (g Genre) uniqueKey() (string, string) { return "name", g.Name }
func (u User) uniqueKey() (string, string)  { return "email", u.Email }

// Clone returns a deep copy.
func (a Album) Clone() Album {
	a.ArtistIDs = cloneIDs(a.ArtistIDs)
	a.TrackIDs = cloneIDs(a.TrackIDs)
	return a
}

// Clone returns a deep copy.
func (a Artist) Clone() Artist {
	a.AlbumIDs = cloneIDs(a.AlbumIDs)
	return a
}

// Clone returns a deep copy.
func (t Track) Clone() Track {
	t.GenreIDs = cloneIDs(t.GenreIDs)
	t.PlaylistIDs = cloneIDs(t.PlaylistIDs)
	t.LikedByUserIDs = cloneIDs(t.LikedByUserIDs)
	return t
}

// Clone returns a deep copy.
func (g Genre) Clone() Genre {
	g.TrackIDs = cloneIDs(g.TrackIDs)
	return g
}

// Clone returns a deep copy.
func (p Playlist) Clone() Playlist {
	p.TrackIDs = cloneIDs(p.TrackIDs)
	p.SubscriberIDs = cloneIDs(p.SubscriberIDs)
	return p
}

// Clone returns a deep copy.
func (u User) Clone() User {
	u.LikedTrackIDs = cloneIDs(u.LikedTrackIDs)
	u.CreatedPlaylistIDs = cloneIDs(u.CreatedPlaylistIDs)
	u.SubscribedPlaylistIDs = cloneIDs(u.SubscribedPlaylistIDs)
	return u
}

type entity interface {
	GetID() uuid.UUID
}

func cloneList[E interface{ Clone() E }](items []E) []E {
	if items == nil {
		return nil
	}
	out := make([]E, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
