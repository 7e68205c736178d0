package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract shared by every entity.
//
// FindByID reports absence through the boolean result, never through an error.
// Save inserts when the entity ID is uuid.Nil, assigning a new ID, and updates otherwise.
// FindAllByID returns the entities that exist and silently skips unknown ids.
type Store[E any] interface {
	FindAll(ctx context.Context) ([]E, error)
	FindByID(ctx context.Context, id uuid.UUID) (E, bool, error)
	FindAllByID(ctx context.Context, ids []uuid.UUID) ([]E, error)
	Save(ctx context.Context, entity E) (E, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AlbumStore interface {
	Store[Album]
	FindByName(ctx context.Context, name string) ([]Album, error)
	FindByGenreName(ctx context.Context, genre string) ([]Album, error)
}

type ArtistStore interface {
	Store[Artist]
	FindByName(ctx context.Context, name string) (Artist, bool, error)
}

type TrackStore interface {
	Store[Track]
	FindByName(ctx context.Context, name string) ([]Track, error)
	FindByArtistName(ctx context.Context, artist string) ([]Track, error)
}

type GenreStore interface {
	Store[Genre]
	FindByName(ctx context.Context, name string) (Genre, bool, error)
}

type PlaylistStore interface {
	Store[Playlist]
	FindByName(ctx context.Context, name string) ([]Playlist, error)
	FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]Playlist, error)
}

type UserStore interface {
	Store[User]
	FindByName(ctx context.Context, name string) (User, bool, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
}

// Transactor groups store calls into one unit. Every store call made with the
// ctx handed to fn joins the unit; when fn returns an error nothing it saved or
// deleted remains.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores bundles the stores every service reaches into when maintaining relationships.
type Stores struct {
	Albums    AlbumStore
	Artists   ArtistStore
	Tracks    TrackStore
	Genres    GenreStore
	Playlists PlaylistStore
	Users     UserStore

	// Tx makes each service mutation atomic. Without one, writes run unguarded.
	Tx Transactor
}

type unguarded struct{}

func (unguarded) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
