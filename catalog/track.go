package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/cacheaside"
)

// ShapeArtist keys track lookups by artist name.
const ShapeArtist = "artist"

type TrackService struct {
	*service
}

func (s *TrackService) GetAll(ctx context.Context) ([]Track, error) {
	return readAll[Track](ctx, s.service, EntityTrack, s.stores.Tracks)
}

func (s *TrackService) GetByID(ctx context.Context, id uuid.UUID) (Track, error) {
	return readByID[Track](ctx, s.service, EntityTrack, s.stores.Tracks, id)
}

// GetByName returns every track with the given name.
func (s *TrackService) GetByName(ctx context.Context, name string) ([]Track, error) {
	return readList(ctx, s.service, EntityTrack, cache.ShapeName, name, func(ctx context.Context) ([]Track, error) {
		return s.stores.Tracks.FindByName(ctx, name)
	})
}

// GetByArtistName returns the tracks on albums by the named artist.
func (s *TrackService) GetByArtistName(ctx context.Context, artist string) ([]Track, error) {
	return readList(ctx, s.service, EntityTrack, ShapeArtist, artist, func(ctx context.Context) ([]Track, error) {
		return s.stores.Tracks.FindByArtistName(ctx, artist)
	})
}

func (s *TrackService) Create(ctx context.Context, dto TrackCreate) (Track, error) {
	if err := dto.Validate(); err != nil {
		return Track{}, Invalid(EntityTrack, err)
	}

	var created Track
	err := s.write(ctx, "track.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		albums, err := resolve[Album](ctx, s.stores.Albums, EntityAlbum, []uuid.UUID{dto.AlbumID})
		if err != nil {
			return err
		}
		genres, err := resolve[Genre](ctx, s.stores.Genres, EntityGenre, dto.GenreIDs)
		if err != nil {
			return err
		}

		created, err = save[Track](ctx, tx, s.stores.Tracks, EntityTrack, Track{
			Name:     dto.Name,
			Duration: dto.Duration,
			AlbumID:  uuid.NullUUID{UUID: dto.AlbumID, Valid: true},
			GenreIDs: uniqueIDs(dto.GenreIDs),
		})
		if err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		albumLinks.preload(albums)
		if err := albumLinks.edit(ctx, dto.AlbumID, linkAlbumTrack(created.ID)); err != nil {
			return err
		}
		genreLinks := newLinker[Genre](s.stores.Genres, EntityGenre)
		genreLinks.preload(genres)
		if err := genreLinks.editAll(ctx, created.GenreIDs, linkGenreTrack(created.ID)); err != nil {
			return err
		}

		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		return genreLinks.flush(ctx, tx)
	})
	if err != nil {
		return Track{}, err
	}

	s.logger.Info("track created", zap.Stringer("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update applies the set fields. A nil AlbumID keeps the current album.
func (s *TrackService) Update(ctx context.Context, id uuid.UUID, dto TrackUpdate) (Track, error) {
	if err := dto.Validate(); err != nil {
		return Track{}, Invalid(EntityTrack, err)
	}

	var updated Track
	err := s.write(ctx, "track.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		track, err := load[Track](ctx, s.stores.Tracks, EntityTrack, id)
		if err != nil {
			return err
		}

		var albums []Album
		if dto.AlbumID != nil {
			if albums, err = resolve[Album](ctx, s.stores.Albums, EntityAlbum, []uuid.UUID{*dto.AlbumID}); err != nil {
				return err
			}
		}
		var genres []Genre
		if dto.GenreIDs != nil {
			if genres, err = resolve[Genre](ctx, s.stores.Genres, EntityGenre, dto.GenreIDs); err != nil {
				return err
			}
		}
		var playlists []Playlist
		if dto.PlaylistIDs != nil {
			if playlists, err = resolve[Playlist](ctx, s.stores.Playlists, EntityPlaylist, dto.PlaylistIDs); err != nil {
				return err
			}
		}

		if dto.Name != nil {
			track.Name = *dto.Name
		}
		if dto.Duration != nil {
			track.Duration = *dto.Duration
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		if dto.AlbumID != nil && (!track.AlbumID.Valid || track.AlbumID.UUID != *dto.AlbumID) {
			albumLinks.preload(albums)
			if track.AlbumID.Valid {
				if err := albumLinks.edit(ctx, track.AlbumID.UUID, unlinkAlbumTrack(track.ID)); err != nil {
					return err
				}
			}
			if err := albumLinks.edit(ctx, *dto.AlbumID, linkAlbumTrack(track.ID)); err != nil {
				return err
			}
			track.AlbumID = uuid.NullUUID{UUID: *dto.AlbumID, Valid: true}
		}

		genreLinks := newLinker[Genre](s.stores.Genres, EntityGenre)
		if dto.GenreIDs != nil {
			next := uniqueIDs(dto.GenreIDs)
			added, removed := diffIDs(track.GenreIDs, next)
			genreLinks.preload(genres)
			if err := genreLinks.editAll(ctx, added, linkGenreTrack(track.ID)); err != nil {
				return err
			}
			if err := genreLinks.editAll(ctx, removed, unlinkGenreTrack(track.ID)); err != nil {
				return err
			}
			track.GenreIDs = next
		}

		playlistLinks := newLinker[Playlist](s.stores.Playlists, EntityPlaylist)
		if dto.PlaylistIDs != nil {
			next := uniqueIDs(dto.PlaylistIDs)
			added, removed := diffIDs(track.PlaylistIDs, next)
			playlistLinks.preload(playlists)
			if err := playlistLinks.editAll(ctx, added, linkPlaylistTrack(track.ID)); err != nil {
				return err
			}
			if err := playlistLinks.editAll(ctx, removed, unlinkPlaylistTrack(track.ID)); err != nil {
				return err
			}
			track.PlaylistIDs = next
		}

		if updated, err = save[Track](ctx, tx, s.stores.Tracks, EntityTrack, track); err != nil {
			return err
		}
		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := genreLinks.flush(ctx, tx); err != nil {
			return err
		}
		return playlistLinks.flush(ctx, tx)
	})
	if err != nil {
		return Track{}, err
	}

	s.logger.Info("track updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

// Delete removes the track from its album, genres, playlists and every user's likes.
func (s *TrackService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "track.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		track, err := load[Track](ctx, s.stores.Tracks, EntityTrack, id)
		if err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		if track.AlbumID.Valid {
			if err := albumLinks.edit(ctx, track.AlbumID.UUID, unlinkAlbumTrack(track.ID)); err != nil {
				return err
			}
		}
		genreLinks := newLinker[Genre](s.stores.Genres, EntityGenre)
		if err := genreLinks.editAll(ctx, track.GenreIDs, unlinkGenreTrack(track.ID)); err != nil {
			return err
		}
		playlistLinks := newLinker[Playlist](s.stores.Playlists, EntityPlaylist)
		if err := playlistLinks.editAll(ctx, track.PlaylistIDs, unlinkPlaylistTrack(track.ID)); err != nil {
			return err
		}
		userLinks := newLinker[User](s.stores.Users, EntityUser)
		if err := userLinks.editAll(ctx, track.LikedByUserIDs, unlinkUserLike(track.ID)); err != nil {
			return err
		}

		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := genreLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := playlistLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := userLinks.flush(ctx, tx); err != nil {
			return err
		}
		return remove[Track](ctx, tx, s.stores.Tracks, EntityTrack, track.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("track deleted", zap.Stringer("id", id))
	return nil
}

func linkAlbumTrack(trackID uuid.UUID) func(*Album) {
	return func(a *Album) { a.TrackIDs = addID(a.TrackIDs, trackID) }
}

func unlinkAlbumTrack(trackID uuid.UUID) func(*Album) {
	return func(a *Album) { a.TrackIDs = removeID(a.TrackIDs, trackID) }
}

func linkGenreTrack(trackID uuid.UUID) func(*Genre) {
	return func(g *Genre) { g.TrackIDs = addID(g.TrackIDs, trackID) }
}

func unlinkGenreTrack(trackID uuid.UUID) func(*Genre) {
	return func(g *Genre) { g.TrackIDs = removeID(g.TrackIDs, trackID) }
}

func linkPlaylistTrack(trackID uuid.UUID) func(*Playlist) {
	return func(p *Playlist) { p.TrackIDs = addID(p.TrackIDs, trackID) }
}

func unlinkPlaylistTrack(trackID uuid.UUID) func(*Playlist) {
	return func(p *Playlist) { p.TrackIDs = removeID(p.TrackIDs, trackID) }
}

func unlinkUserLike(trackID uuid.UUID) func(*User) {
	return func(u *User) { u.LikedTrackIDs = removeID(u.LikedTrackIDs, trackID) }
}
