package catalog

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/cacheaside"
)

// ShapeGenre keys album lookups by genre name.
const ShapeGenre = "genre"

type AlbumService struct {
	*service
}

func (s *AlbumService) GetAll(ctx context.Context) ([]Album, error) {
	return readAll[Album](ctx, s.service, EntityAlbum, s.stores.Albums)
}

func (s *AlbumService) GetByID(ctx context.Context, id uuid.UUID) (Album, error) {
	return readByID[Album](ctx, s.service, EntityAlbum, s.stores.Albums, id)
}

// GetByName returns every album with the given name.
func (s *AlbumService) GetByName(ctx context.Context, name string) ([]Album, error) {
	return readList(ctx, s.service, EntityAlbum, cache.ShapeName, name, func(ctx context.Context) ([]Album, error) {
		return s.stores.Albums.FindByName(ctx, name)
	})
}

// GetByGenreName returns the albums holding at least one track of the genre.
func (s *AlbumService) GetByGenreName(ctx context.Context, genre string) ([]Album, error) {
	return readList(ctx, s.service, EntityAlbum, ShapeGenre, genre, func(ctx context.Context) ([]Album, error) {
		return s.stores.Albums.FindByGenreName(ctx, genre)
	})
}

func (s *AlbumService) Create(ctx context.Context, dto AlbumCreate) (Album, error) {
	if err := dto.Validate(); err != nil {
		return Album{}, Invalid(EntityAlbum, err)
	}

	var created Album
	err := s.write(ctx, "album.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		artists, err := resolve[Artist](ctx, s.stores.Artists, EntityArtist, dto.ArtistIDs)
		if err != nil {
			return err
		}
		tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs)
		if err != nil {
			return err
		}

		created, err = save[Album](ctx, tx, s.stores.Albums, EntityAlbum, Album{
			Name:      dto.Name,
			ArtistIDs: uniqueIDs(dto.ArtistIDs),
			TrackIDs:  uniqueIDs(dto.TrackIDs),
		})
		if err != nil {
			return err
		}

		artistLinks := newLinker[Artist](s.stores.Artists, EntityArtist)
		artistLinks.preload(artists)
		if err := artistLinks.editAll(ctx, created.ArtistIDs, linkArtistAlbum(created.ID)); err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if err := s.attachTracks(ctx, created.ID, tracks, albumLinks, trackLinks); err != nil {
			return err
		}

		if err := artistLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Album{}, err
	}

	s.logger.Info("album created", zap.Stringer("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *AlbumService) Update(ctx context.Context, id uuid.UUID, dto AlbumUpdate) (Album, error) {
	if err := dto.Validate(); err != nil {
		return Album{}, Invalid(EntityAlbum, err)
	}

	var updated Album
	err := s.write(ctx, "album.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		album, err := load[Album](ctx, s.stores.Albums, EntityAlbum, id)
		if err != nil {
			return err
		}

		var artists []Artist
		if dto.ArtistIDs != nil {
			if artists, err = resolve[Artist](ctx, s.stores.Artists, EntityArtist, dto.ArtistIDs); err != nil {
				return err
			}
		}
		var tracks []Track
		if dto.TrackIDs != nil {
			if tracks, err = resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs); err != nil {
				return err
			}
		}

		artistLinks := newLinker[Artist](s.stores.Artists, EntityArtist)
		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)

		if dto.Name != nil {
			album.Name = *dto.Name
		}

		if dto.ArtistIDs != nil {
			next := uniqueIDs(dto.ArtistIDs)
			added, removed := diffIDs(album.ArtistIDs, next)
			artistLinks.preload(artists)
			if err := artistLinks.editAll(ctx, added, linkArtistAlbum(album.ID)); err != nil {
				return err
			}
			if err := artistLinks.editAll(ctx, removed, unlinkArtistAlbum(album.ID)); err != nil {
				return err
			}
			album.ArtistIDs = next
		}

		if dto.TrackIDs != nil {
			next := uniqueIDs(dto.TrackIDs)
			added, removed := diffIDs(album.TrackIDs, next)
			attach := make([]Track, 0, len(added))
			for _, t := range tracks {
				if slices.Contains(added, t.ID) {
					attach = append(attach, t)
				}
			}
			if err := s.attachTracks(ctx, album.ID, attach, albumLinks, trackLinks); err != nil {
				return err
			}
			if err := trackLinks.editAll(ctx, removed, detachTrack(album.ID)); err != nil {
				return err
			}
			album.TrackIDs = next
		}

		if updated, err = save[Album](ctx, tx, s.stores.Albums, EntityAlbum, album); err != nil {
			return err
		}

		if err := artistLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Album{}, err
	}

	s.logger.Info("album updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

// Delete removes the album, unlinks its artists and detaches its tracks.
func (s *AlbumService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "album.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		album, err := load[Album](ctx, s.stores.Albums, EntityAlbum, id)
		if err != nil {
			return err
		}

		artistLinks := newLinker[Artist](s.stores.Artists, EntityArtist)
		if err := artistLinks.editAll(ctx, album.ArtistIDs, unlinkArtistAlbum(album.ID)); err != nil {
			return err
		}
		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if err := trackLinks.editAll(ctx, album.TrackIDs, detachTrack(album.ID)); err != nil {
			return err
		}

		if err := artistLinks.flush(ctx, tx); err != nil {
			return err
		}
		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		return remove[Album](ctx, tx, s.stores.Albums, EntityAlbum, album.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("album deleted", zap.Stringer("id", id))
	return nil
}

// attachTracks points each track at albumID, pulling it out of the album it belonged to before.
func (s *AlbumService) attachTracks(ctx context.Context, albumID uuid.UUID, tracks []Track, albums *linker[Album], links *linker[Track]) error {
	for _, t := range tracks {
		if t.AlbumID.Valid && t.AlbumID.UUID != albumID {
			trackID := t.ID
			if err := albums.edit(ctx, t.AlbumID.UUID, func(a *Album) {
				a.TrackIDs = removeID(a.TrackIDs, trackID)
			}); err != nil {
				return err
			}
		}
	}
	links.preload(tracks)
	for _, t := range tracks {
		if err := links.edit(ctx, t.ID, func(tr *Track) {
			tr.AlbumID = uuid.NullUUID{UUID: albumID, Valid: true}
		}); err != nil {
			return err
		}
	}
	return nil
}

func linkArtistAlbum(albumID uuid.UUID) func(*Artist) {
	return func(a *Artist) { a.AlbumIDs = addID(a.AlbumIDs, albumID) }
}

func unlinkArtistAlbum(albumID uuid.UUID) func(*Artist) {
	return func(a *Artist) { a.AlbumIDs = removeID(a.AlbumIDs, albumID) }
}

func detachTrack(albumID uuid.UUID) func(*Track) {
	return func(t *Track) {
		if t.AlbumID.Valid && t.AlbumID.UUID == albumID {
			t.AlbumID = uuid.NullUUID{}
		}
	}
}
