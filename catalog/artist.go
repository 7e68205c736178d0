package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cacheaside"
)

type ArtistService struct {
	*service
}

func (s *ArtistService) GetAll(ctx context.Context) ([]Artist, error) {
	return readAll[Artist](ctx, s.service, EntityArtist, s.stores.Artists)
}

func (s *ArtistService) GetByID(ctx context.Context, id uuid.UUID) (Artist, error) {
	return readByID[Artist](ctx, s.service, EntityArtist, s.stores.Artists, id)
}

func (s *ArtistService) GetByName(ctx context.Context, name string) (Artist, error) {
	return readOneByName(ctx, s.service, EntityArtist, name, s.stores.Artists.FindByName)
}

func (s *ArtistService) Create(ctx context.Context, dto ArtistCreate) (Artist, error) {
	if err := dto.Validate(); err != nil {
		return Artist{}, Invalid(EntityArtist, err)
	}

	var created Artist
	err := s.write(ctx, "artist.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		albums, err := resolve[Album](ctx, s.stores.Albums, EntityAlbum, dto.AlbumIDs)
		if err != nil {
			return err
		}

		created, err = save[Artist](ctx, tx, s.stores.Artists, EntityArtist, Artist{
			Name:     dto.Name,
			AlbumIDs: uniqueIDs(dto.AlbumIDs),
		})
		if err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		albumLinks.preload(albums)
		if err := albumLinks.editAll(ctx, created.AlbumIDs, linkAlbumArtist(created.ID)); err != nil {
			return err
		}
		return albumLinks.flush(ctx, tx)
	})
	if err != nil {
		return Artist{}, err
	}

	s.logger.Info("artist created", zap.Stringer("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update renames the artist and, when AlbumIDs is set, relinks it so that both
// the artist and every affected album agree on the new set.
func (s *ArtistService) Update(ctx context.Context, id uuid.UUID, dto ArtistUpdate) (Artist, error) {
	if err := dto.Validate(); err != nil {
		return Artist{}, Invalid(EntityArtist, err)
	}

	var updated Artist
	err := s.write(ctx, "artist.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		artist, err := load[Artist](ctx, s.stores.Artists, EntityArtist, id)
		if err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		if dto.AlbumIDs != nil {
			albums, err := resolve[Album](ctx, s.stores.Albums, EntityAlbum, dto.AlbumIDs)
			if err != nil {
				return err
			}
			next := uniqueIDs(dto.AlbumIDs)
			added, removed := diffIDs(artist.AlbumIDs, next)

			albumLinks.preload(albums)
			if err := albumLinks.editAll(ctx, added, linkAlbumArtist(artist.ID)); err != nil {
				return err
			}
			if err := albumLinks.editAll(ctx, removed, unlinkAlbumArtist(artist.ID)); err != nil {
				return err
			}
			artist.AlbumIDs = next
		}
		if dto.Name != nil {
			artist.Name = *dto.Name
		}

		if updated, err = save[Artist](ctx, tx, s.stores.Artists, EntityArtist, artist); err != nil {
			return err
		}
		return albumLinks.flush(ctx, tx)
	})
	if err != nil {
		return Artist{}, err
	}

	s.logger.Info("artist updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

func (s *ArtistService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "artist.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		artist, err := load[Artist](ctx, s.stores.Artists, EntityArtist, id)
		if err != nil {
			return err
		}

		albumLinks := newLinker[Album](s.stores.Albums, EntityAlbum)
		if err := albumLinks.editAll(ctx, artist.AlbumIDs, unlinkAlbumArtist(artist.ID)); err != nil {
			return err
		}
		if err := albumLinks.flush(ctx, tx); err != nil {
			return err
		}
		return remove[Artist](ctx, tx, s.stores.Artists, EntityArtist, artist.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("artist deleted", zap.Stringer("id", id))
	return nil
}

func linkAlbumArtist(artistID uuid.UUID) func(*Album) {
	return func(a *Album) { a.ArtistIDs = addID(a.ArtistIDs, artistID) }
}

func unlinkAlbumArtist(artistID uuid.UUID) func(*Album) {
	return func(a *Album) { a.ArtistIDs = removeID(a.ArtistIDs, artistID) }
}
