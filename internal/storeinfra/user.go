package storeinfra

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.UserStore = (*UserStore)(nil)

// UserStore owns user_liked_tracks. Created playlists come from
// playlists.author_id and subscriptions from playlist_subscribers.
type UserStore struct {
	*rowStore[userRow, catalog.User]
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{&rowStore[userRow, catalog.User]{
		db:      db,
		repo:    newRepository(db, func(r *userRow) *uuid.UUID { return &r.ID }),
		entity:  catalog.EntityUser,
		hydrate: hydrateUsers,
	}}
}

func hydrateUsers(ctx context.Context, db bun.IDB, rows []*userRow) ([]catalog.User, error) {
	ids := rowIDs(rows, func(r *userRow) *uuid.UUID { return &r.ID })

	liked, err := edges(ctx, db, "user_id", "position", ids, func(r *userLikedTrackRow) (uuid.UUID, uuid.UUID) {
		return r.UserID, r.TrackID
	})
	if err != nil {
		return nil, err
	}
	created, err := edges(ctx, db, "author_id", "name", ids, func(r *playlistRow) (uuid.UUID, uuid.UUID) {
		return r.AuthorID, r.ID
	})
	if err != nil {
		return nil, err
	}
	subscribed, err := edges(ctx, db, "user_id", "playlist_id", ids, func(r *playlistSubscriberRow) (uuid.UUID, uuid.UUID) {
		return r.UserID, r.PlaylistID
	})
	if err != nil {
		return nil, err
	}

	out := make([]catalog.User, len(rows))
	for i, row := range rows {
		out[i] = catalog.User{
			ID:                    row.ID,
			Name:                  row.Name,
			Email:                 row.Email,
			Password:              row.Password,
			LikedTrackIDs:         liked[row.ID],
			CreatedPlaylistIDs:    created[row.ID],
			SubscribedPlaylistIDs: subscribed[row.ID],
		}
	}
	return out, nil
}

func (s *UserStore) FindByName(ctx context.Context, name string) (catalog.User, bool, error) {
	return s.one(ctx, whereColumn("name", name))
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (catalog.User, bool, error) {
	return s.one(ctx, whereColumn("email", email))
}

func (s *UserStore) Save(ctx context.Context, u catalog.User) (catalog.User, error) {
	u = u.Clone()
	isNew := u.ID == uuid.Nil
	if isNew {
		u.ID = uuid.New()
	}

	row := &userRow{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password}
	err := s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.write(ctx, tx, row, isNew, "name", "email", "password"); err != nil {
			return err
		}
		return relink(ctx, tx, "user_id", u.ID, u.LikedTrackIDs, func(user, track uuid.UUID, pos int) userLikedTrackRow {
			return userLikedTrackRow{UserID: user, TrackID: track, Position: pos}
		})
	})
	if err != nil {
		return u, fmt.Errorf("storeinfra: save user %s: %w", u.ID, err)
	}
	return u, nil
}

// Delete removes the user, its likes and its subscriptions. Authored
// playlists are removed by the catalog before the user.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drop(ctx, &userRow{ID: id},
		unlink[userLikedTrackRow]("user_id", id),
		unlink[playlistSubscriberRow]("user_id", id),
	)
}
