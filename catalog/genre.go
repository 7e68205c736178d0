package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cacheaside"
)

type GenreService struct {
	*service
}

func (s *GenreService) GetAll(ctx context.Context) ([]Genre, error) {
	return readAll[Genre](ctx, s.service, EntityGenre, s.stores.Genres)
}

func (s *GenreService) GetByID(ctx context.Context, id uuid.UUID) (Genre, error) {
	return readByID[Genre](ctx, s.service, EntityGenre, s.stores.Genres, id)
}

func (s *GenreService) GetByName(ctx context.Context, name string) (Genre, error) {
	return readOneByName(ctx, s.service, EntityGenre, name, s.stores.Genres.FindByName)
}

// Create fails with Conflict when another genre already has the name.
func (s *GenreService) Create(ctx context.Context, dto GenreCreate) (Genre, error) {
	if err := dto.Validate(); err != nil {
		return Genre{}, Invalid(EntityGenre, err)
	}

	var created Genre
	err := s.write(ctx, "genre.create", func(ctx context.Context, tx *cacheaside.Tx) error {
		if err := s.ensureNameFree(ctx, dto.Name, uuid.Nil); err != nil {
			return err
		}
		tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs)
		if err != nil {
			return err
		}

		created, err = save[Genre](ctx, tx, s.stores.Genres, EntityGenre, Genre{
			Name:     dto.Name,
			TrackIDs: uniqueIDs(dto.TrackIDs),
		})
		if err != nil {
			return err
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		trackLinks.preload(tracks)
		if err := trackLinks.editAll(ctx, created.TrackIDs, linkTrackGenre(created.ID)); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Genre{}, err
	}

	s.logger.Info("genre created", zap.Stringer("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *GenreService) Update(ctx context.Context, id uuid.UUID, dto GenreUpdate) (Genre, error) {
	if err := dto.Validate(); err != nil {
		return Genre{}, Invalid(EntityGenre, err)
	}

	var updated Genre
	err := s.write(ctx, "genre.update", func(ctx context.Context, tx *cacheaside.Tx) error {
		genre, err := load[Genre](ctx, s.stores.Genres, EntityGenre, id)
		if err != nil {
			return err
		}

		if dto.Name != nil && *dto.Name != genre.Name {
			if err := s.ensureNameFree(ctx, *dto.Name, genre.ID); err != nil {
				return err
			}
			genre.Name = *dto.Name
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if dto.TrackIDs != nil {
			tracks, err := resolve[Track](ctx, s.stores.Tracks, EntityTrack, dto.TrackIDs)
			if err != nil {
				return err
			}
			next := uniqueIDs(dto.TrackIDs)
			added, removed := diffIDs(genre.TrackIDs, next)

			trackLinks.preload(tracks)
			if err := trackLinks.editAll(ctx, added, linkTrackGenre(genre.ID)); err != nil {
				return err
			}
			if err := trackLinks.editAll(ctx, removed, unlinkTrackGenre(genre.ID)); err != nil {
				return err
			}
			genre.TrackIDs = next
		}

		if updated, err = save[Genre](ctx, tx, s.stores.Genres, EntityGenre, genre); err != nil {
			return err
		}
		return trackLinks.flush(ctx, tx)
	})
	if err != nil {
		return Genre{}, err
	}

	s.logger.Info("genre updated", zap.Stringer("id", updated.ID))
	return updated, nil
}

func (s *GenreService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, "genre.delete", func(ctx context.Context, tx *cacheaside.Tx) error {
		genre, err := load[Genre](ctx, s.stores.Genres, EntityGenre, id)
		if err != nil {
			return err
		}

		trackLinks := newLinker[Track](s.stores.Tracks, EntityTrack)
		if err := trackLinks.editAll(ctx, genre.TrackIDs, unlinkTrackGenre(genre.ID)); err != nil {
			return err
		}
		if err := trackLinks.flush(ctx, tx); err != nil {
			return err
		}
		return remove[Genre](ctx, tx, s.stores.Genres, EntityGenre, genre.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("genre deleted", zap.Stringer("id", id))
	return nil
}

// ensureNameFree fails with Conflict if a genre other than self is called name.
func (s *GenreService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, ok, err := s.stores.Genres.FindByName(ctx, name)
	if err != nil {
		return storeFailed("find genre", err)
	}
	if ok && existing.ID != self {
		return Conflict(EntityGenre, "name", name)
	}
	return nil
}

func linkTrackGenre(genreID uuid.UUID) func(*Track) {
	return func(t *Track) { t.GenreIDs = addID(t.GenreIDs, genreID) }
}

func unlinkTrackGenre(genreID uuid.UUID) func(*Track) {
	return func(t *Track) { t.GenreIDs = removeID(t.GenreIDs, genreID) }
}
