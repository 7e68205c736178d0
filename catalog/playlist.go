package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/cacheaside"
)

// ShapeAuthor keys playlist lookups by author id.
const ShapeAuthor = "author"

type PlaylistService struct {
	*service
}

func (s *PlaylistService) GetAll(ctx context.Context) ([]Playlist, error) {
	return readAll[Playlist](ctx, s.service, EntityPlaylist, s.stores.Playlists)
}

func (s *PlaylistService) GetByID(ctx context.Context, id uuid.UUID) (Playlist, error) {
	return readByID[Playlist](ctx, s.service, EntityPlaylist, s.stores.Playlists, id)
}

// GetByName returns every playlist with the given name.
func (s *PlaylistService) GetByName(ctx context.Context, name string) ([]Playlist, error) {
	return readList(ctx, s.service, EntityPlaylist, cache.ShapeName, name, func(ctx context.Context) ([]Playlist, error) {
		return s.stores.Playlists.FindByName(ctx, name)
	})
}

// GetByAuthorID returns the playlists created by a user.
func (s *PlaylistService) GetByAuthorID(ctx context.Context, authorID uuid.UUID) ([]Playlist, error) {
	return readList(ctx, s.service, EntityPlaylist, ShapeAuthor, authorID, func(ctx context.Context) ([]Playlist, error) {
		return s.stores.Playlists.FindByAuthorID(ctx, authorID)
	})
}

func (s *PlaylistService) Create(ctx context.Context, dto PlaylistCreate) (Playlist, error) {
	if err := dto.Validate(); err != nil {
		return Playlist{}, Invalid(EntityPlaylist, err)
	}

	var created Playlist
	err := s.write(ctx, "playlist.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		authors, err := resolve[User](ctx, s.stores.Users, EntityUser, []uuid.UUID{dto.AuthorID})
		if err != nil {
			return err
		}
		tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs)
		if err != nil {
			return err
		}
		subscribers, err := resolve[User](ctx, s.stores.Users, EntityUser, dto.SubscriberIDs)
		if err != nil {
			return err
		}

		created, err = save[Playlist](ctx, tx, s.stores.Playlists, EntityPlaylist, Playlist{
			Name:          dto.Name,
			AuthorID:      dto.AuthorID,
			TrackIDs:      uniqueIDs(dto.TrackIDs),
			SubscriberIDs: uniqueIDs(dto.SubscriberIDs),
		})
		if err != nil {
			return err
		}

		userLinks := newLinker[User](s.stores.Users, EntityUser)
		userLinks.preload(authors)
		userLinks.preload(subscribers)
		if err := userLinks.edit(ctx, created.AuthorID, linkUserCreated(created.ID)); err != nil {
			return err
		}
		if err := userLinks.editAll(ctx, created.SubscriberIDs, linkUserSubscription(created.ID)); err != nil {
			return err
		}
		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		trackLinks.preload(tracks)
		if err := trackLinks.editAll(ctx, created.TrackIDs, linkTrackPlaylist(created.ID)); err != nil {
			return err
		}

		if err := userLinks.flush(ctx, tx); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Playlist{}, err
	}

	s.logger.Info("playlist created", zap.Stringer("id", created.ID), zap.Stringer("author", created.AuthorID))
	return created, nil
}

func (s *PlaylistService) Update(ctx context.Context, id uuid.UUID, dto PlaylistUpdate) (Playlist, error) {
	if err := dto.Validate(); err != nil {
		return Playlist{}, Invalid(EntityPlaylist, err)
	}

	var updated Playlist
	err := s.write(ctx, "playlist.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		playlist, err := load[Playlist](ctx, s.stores.Playlists, EntityPlaylist, id)
		if err != nil {
			return err
		}

		var users []User
		if dto.AuthorID != nil {
			if users, err = resolve[User](ctx, s.stores.Users, EntityUser, []uuid.UUID{*dto.AuthorID}); err != nil {
				return err
			}
		}
		var tracks []Track
		if dto.TrackIDs != nil {
			if tracks, err = resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs); err != nil {
				return err
			}
		}
		if dto.SubscriberIDs != nil {
			subscribers, err := resolve[User](ctx, s.stores.Users, EntityUser, dto.SubscriberIDs)
			if err != nil {
				return err
			}
			users = append(users, subscribers...)
		}

		if dto.Name != nil {
			playlist.Name = *dto.Name
		}

		userLinks := newLinker[User](s.stores.Users, EntityUser)
		userLinks.preload(users)
		if dto.AuthorID != nil && *dto.AuthorID != playlist.AuthorID {
			if err := userLinks.edit(ctx, playlist.AuthorID, unlinkUserCreated(playlist.ID)); err != nil {
				return err
			}
			if err := userLinks.edit(ctx, *dto.AuthorID, linkUserCreated(playlist.ID)); err != nil {
				return err
			}
			playlist.AuthorID = *dto.AuthorID
		}
		if dto.SubscriberIDs != nil {
			next := uniqueIDs(dto.SubscriberIDs)
			added, removed := diffIDs(playlist.SubscriberIDs, next)
			if err := userLinks.editAll(ctx, added, linkUserSubscription(playlist.ID)); err != nil {
				return err
			}
			if err := userLinks.editAll(ctx, removed, unlinkUserSubscription(playlist.ID)); err != nil {
				return err
			}
			playlist.SubscriberIDs = next
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if dto.TrackIDs != nil {
			next := uniqueIDs(dto.TrackIDs)
			added, removed := diffIDs(playlist.TrackIDs, next)
			trackLinks.preload(tracks)
			if err := trackLinks.editAll(ctx, added, linkTrackPlaylist(playlist.ID)); err != nil {
				return err
			}
			if err := trackLinks.editAll(ctx, removed, unlinkTrackPlaylist(playlist.ID)); err != nil {
				return err
			}
			playlist.TrackIDs = next
		}

		if updated, err = save[Playlist](ctx, tx, s.stores.Playlists, EntityPlaylist, playlist); err != nil {
			return err
		}
		if err := userLinks.flush(ctx, tx); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Playlist{}, err
	}

	s.logger.Info("playlist updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

func (s *PlaylistService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "playlist.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		playlist, err := load[Playlist](ctx, s.stores.Playlists, EntityPlaylist, id)
		if err != nil {
			return err
		}

		userLinks := newLinker[User](s.stores.Users, EntityUser)
		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if err := unlinkPlaylist(ctx, playlist, trackLinks, userLinks); err != nil {
			return err
		}

		if err := userLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		return remove[Playlist](ctx, tx, s.stores.Playlists, EntityPlaylist, playlist.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("playlist deleted", zap.Stringer("id", id))
	return nil
}

// unlinkPlaylist removes p from its tracks, its author and its subscribers.
func unlinkPlaylist(ctx context.Context, p Playlist, tracks *linker[Track], users *linker[User]) error {
	if err := tracks.editAll(ctx, p.TrackIDs, unlinkTrackPlaylist(p.ID)); err != nil {
		return err
	}
	if err := users.edit(ctx, p.AuthorID, unlinkUserCreated(p.ID)); err != nil {
		return err
	}
	return users.editAll(ctx, p.SubscriberIDs, unlinkUserSubscription(p.ID))
}

func linkTrackPlaylist(playlistID uuid.UUID) func(*Track) {
	return func(t *Track) { t.PlaylistIDs = addID(t.PlaylistIDs, playlistID) }
}

func unlinkTrackPlaylist(playlistID uuid.UUID) func(*Track) {
	return func(t *Track) { t.PlaylistIDs = removeID(t.PlaylistIDs, playlistID) }
}

func linkUserCreated(playlistID uuid.UUID) func(*User) {
	return func(u *User) { u.CreatedPlaylistIDs = addID(u.CreatedPlaylistIDs, playlistID) }
}

func unlinkUserCreated(playlistID uuid.UUID) func(*User) {
	return func(u *User) { u.CreatedPlaylistIDs = removeID(u.CreatedPlaylistIDs, playlistID) }
}

func linkUserSubscription(playlistID uuid.UUID) func(*User) {
	return func(u *User) { u.SubscribedPlaylistIDs = addID(u.SubscribedPlaylistIDs, playlistID) }
}

func unlinkUserSubscription(playlistID uuid.UUID) func(*User) {
	return func(u *User) { u.SubscribedPlaylistIDs = removeID(u.SubscribedPlaylistIDs, playlistID) }
}
