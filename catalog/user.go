package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cacheaside"
)

type UserService struct {
	*service
}

func (s *UserService) GetAll(ctx context.Context) ([]User, error) {
	return readAll[User](ctx, s.service, EntityUser, s.stores.Users)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return readByID[User](ctx, s.service, EntityUser, s.stores.Users, id)
}

func (s *UserService) GetByName(ctx context.Context, name string) (User, error) {
	return readOneByName(ctx, s.service, EntityUser, name, s.stores.Users.FindByName)
}

// Create fails with Conflict when the email is already registered.
func (s *UserService) Create(ctx context.Context, dto UserCreate) (User, error) {
	if err := dto.Validate(); err != nil {
		return User{}, Invalid(EntityUser, err)
	}

	var created User
	err := s.write(ctx, "user.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		if err := s.ensureEmailFree(ctx, dto.Email, uuid.Nil); err != nil {
			return err
		}
		tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.LikedTrackIDs)
		if err != nil {
			return err
		}
		playlists, err := resolve[Playlist](ctx, s.stores.Playlists, EntityPlaylist, dto.SubscribedPlaylistIDs)
		if err != nil {
			return err
		}

		created, err = save[User](ctx, tx, s.stores.Users, EntityUser, User{
			Name:                  dto.Name,
			Email:                 dto.Email,
			Password:              dto.Password,
			LikedTrackIDs:         uniqueIDs(dto.LikedTrackIDs),
			SubscribedPlaylistIDs: uniqueIDs(dto.SubscribedPlaylistIDs),
		})
		if err != nil {
			return err
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		trackLinks.preload(tracks)
		if err := trackLinks.editAll(ctx, created.LikedTrackIDs, linkTrackLike(created.ID)); err != nil {
			return err
		}
		playlistLinks := newLinker[Playlist](s.stores.Playlists, EntityPlaylist)
		playlistLinks.preload(playlists)
		if err := playlistLinks.editAll(ctx, created.SubscribedPlaylistIDs, linkPlaylistSubscriber(created.ID)); err != nil {
			return err
		}

		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		return playlistLinks.flush(ctx, tx)
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Info("user created", zap.Stringer("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, dto UserUpdate) (User, error) {
	if err := dto.Validate(); err != nil {
		return User{}, Invalid(EntityUser, err)
	}

	var updated User
	err := s.write(ctx, "user.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		user, err := load[User](ctx, s.stores.Users, EntityUser, id)
		if err != nil {
			return err
		}

		if dto.Email != nil && *dto.Email != user.Email {
			if err := s.ensureEmailFree(ctx, *dto.Email, user.ID); err != nil {
				return err
			}
			user.Email = *dto.Email
		}
		if dto.Name != nil {
			user.Name = *dto.Name
		}
		if dto.Password != nil {
			user.Password = *dto.Password
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if dto.LikedTrackIDs != nil {
			tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.LikedTrackIDs)
			if err != nil {
				return err
			}
			next := uniqueIDs(dto.LikedTrackIDs)
			added, removed := diffIDs(user.LikedTrackIDs, next)
			trackLinks.preload(tracks)
			if err := trackLinks.editAll(ctx, added, linkTrackLike(user.ID)); err != nil {
				return err
			}
			if err := trackLinks.editAll(ctx, removed, unlinkTrackLike(user.ID)); err != nil {
				return err
			}
			user.LikedTrackIDs = next
		}

		playlistLinks := newLinker[Playlist](s.stores.Playlists, EntityPlaylist)
		if dto.SubscribedPlaylistIDs != nil {
			playlists, err := resolve[Playlist](ctx, s.stores.Playlists, EntityPlaylist, dto.SubscribedPlaylistIDs)
			if err != nil {
				return err
			}
			next := uniqueIDs(dto.SubscribedPlaylistIDs)
			added, removed := diffIDs(user.SubscribedPlaylistIDs, next)
			playlistLinks.preload(playlists)
			if err := playlistLinks.editAll(ctx, added, linkPlaylistSubscriber(user.ID)); err != nil {
				return err
			}
			if err := playlistLinks.editAll(ctx, removed, unlinkPlaylistSubscriber(user.ID)); err != nil {
				return err
			}
			user.SubscribedPlaylistIDs = next
		}

		if updated, err = save[User](ctx, tx, s.stores.Users, EntityUser, user); err != nil {
			return err
		}
		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		return playlistLinks.flush(ctx, tx)
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Info("user updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

// Delete removes the user together with the playlists they authored.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "user.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		user, err := load[User](ctx, s.stores.Users, EntityUser, id)
		if err != nil {
			return err
		}

		authored, err := s.stores.Playlists.FindAllByID(ctx, user.CreatedPlaylistIDs)
		if err != nil {
			return storeFailed("find playlist", err)
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		userLinks := newLinker[User](s.stores.Users, EntityUser)
		playlistLinks := newLinker[Playlist](s.stores.Playlists, EntityPlaylist)

		for _, p := range authored {
			if err := unlinkPlaylist(ctx, p, trackLinks, userLinks); err != nil {
				return err
			}
		}
		if err := trackLinks.editAll(ctx, user.LikedTrackIDs, unlinkTrackLike(user.ID)); err != nil {
			return err
		}
		if err := playlistLinks.editAll(ctx, user.SubscribedPlaylistIDs, unlinkPlaylistSubscriber(user.ID)); err != nil {
			return err
		}

		userLinks.forget(user.ID)
		for _, p := range authored {
			playlistLinks.forget(p.ID)
		}

		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := userLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := playlistLinks.flush(ctx, tx); err != nil {
			return err
		}
		for _, p := range authored {
			if err := remove[Playlist](ctx, tx, s.stores.Playlists, EntityPlaylist, p.ID); err != nil {
				return err
			}
		}
		return remove[User](ctx, tx, s.stores.Users, EntityUser, user.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Stringer("id", id))
	return nil
}

// ensureEmailFree fails with Conflict if a user other than self uses email.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, ok, err := s.stores.Users.FindByEmail(ctx, email)
	if err != nil {
		return storeFailed("find user", err)
	}
	if ok && existing.ID != self {
		return Conflict(EntityUser, "email", email)
	}
	return nil
}

func linkTrackLike(userID uuid.UUID) func(*Track) {
	return func(t *Track) { t.LikedByUserIDs = addID(t.LikedByUserIDs, userID) }
}

func unlinkTrackLike(userID uuid.UUID) func(*Track) {
	return func(t *Track) { t.LikedByUserIDs = removeID(t.LikedByUserIDs, userID) }
}

func linkPlaylistSubscriber(userID uuid.UUID) func(*Playlist) {
	return func(p *Playlist) { p.SubscriberIDs = addID(p.SubscriberIDs, userID) }
}

func unlinkPlaylistSubscriber(userID uuid.UUID) func(*Playlist) {
	return func(p *Playlist) { p.SubscriberIDs = removeID(p.SubscriberIDs, userID) }
}
