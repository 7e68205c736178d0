package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackService_Create_LinksAlbumAndGenres(t *testing.T) {
	f := newFixture()
	album := f.db.albums.seed(Album{Name: "Mingus Ah Um"})
	genre := f.db.genres.seed(Genre{Name: "jazz"})

	created, err := f.catalog.Tracks.Create(context.Background(), TrackCreate{
		Name:     "Fables of Faubus",
		Duration: 490,
		AlbumID:  album.ID,
		GenreIDs: []uuid.UUID{genre.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.NullUUID{UUID: album.ID, Valid: true}, created.AlbumID)

	storedAlbum, _ := f.db.albums.get(album.ID)
	assert.Equal(t, []uuid.UUID{created.ID}, storedAlbum.TrackIDs)
	storedGenre, _ := f.db.genres.get(genre.ID)
	assert.Equal(t, []uuid.UUID{created.ID}, storedGenre.TrackIDs)
}

func TestTrackService_Create_Validation(t *testing.T) {
	f := newFixture()
	album, genre := uuid.New(), uuid.New()

	tests := []struct {
		name string
		dto  TrackCreate
	}{
		{name: "too short", dto: TrackCreate{Name: "x", Duration: 5, AlbumID: album, GenreIDs: []uuid.UUID{genre}}},
		{name: "too long", dto: TrackCreate{Name: "x", Duration: 3601, AlbumID: album, GenreIDs: []uuid.UUID{genre}}},
		{name: "no album", dto: TrackCreate{Name: "x", Duration: 60, GenreIDs: []uuid.UUID{genre}}},
		{name: "no genres", dto: TrackCreate{Name: "x", Duration: 60, AlbumID: album}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.Tracks.Create(context.Background(), tt.dto)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestTrackService_Create_MissingReferences(t *testing.T) {
	f := newFixture()
	album := f.db.albums.seed(Album{Name: "Real"})
	missingGenre := uuid.New()

	_, err := f.catalog.Tracks.Create(context.Background(), TrackCreate{
		Name: "Ghost", Duration: 60, AlbumID: album.ID, GenreIDs: []uuid.UUID{missingGenre},
	})

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), missingGenre.String())
	assert.Zero(t, f.db.tracks.count("Save"))
}

func TestTrackService_Update_MovesAlbumAndRelinks(t *testing.T) {
	f := newFixture()
	from := f.db.albums.seed(Album{Name: "From"})
	to := f.db.albums.seed(Album{Name: "To"})
	rock := f.db.genres.seed(Genre{Name: "rock"})
	blues := f.db.genres.seed(Genre{Name: "blues"})
	playlist := f.db.playlists.seed(Playlist{Name: "Mix"})
	track := f.db.tracks.seed(Track{
		Name:     "Song",
		Duration: 200,
		AlbumID:  uuid.NullUUID{UUID: from.ID, Valid: true},
		GenreIDs: []uuid.UUID{rock.ID},
	})
	from.TrackIDs = []uuid.UUID{track.ID}
	f.db.albums.seed(from)
	rock.TrackIDs = []uuid.UUID{track.ID}
	f.db.genres.seed(rock)

	duration := 240
	updated, err := f.catalog.Tracks.Update(context.Background(), track.ID, TrackUpdate{
		Duration:    &duration,
		AlbumID:     &to.ID,
		GenreIDs:    []uuid.UUID{blues.ID},
		PlaylistIDs: []uuid.UUID{playlist.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 240, updated.Duration)
	assert.Equal(t, "Song", updated.Name)
	assert.Equal(t, to.ID, updated.AlbumID.UUID)

	storedFrom, _ := f.db.albums.get(from.ID)
	storedTo, _ := f.db.albums.get(to.ID)
	assert.Empty(t, storedFrom.TrackIDs)
	assert.Equal(t, []uuid.UUID{track.ID}, storedTo.TrackIDs)

	storedRock, _ := f.db.genres.get(rock.ID)
	storedBlues, _ := f.db.genres.get(blues.ID)
	assert.Empty(t, storedRock.TrackIDs)
	assert.Equal(t, []uuid.UUID{track.ID}, storedBlues.TrackIDs)

	storedPlaylist, _ := f.db.playlists.get(playlist.ID)
	assert.Equal(t, []uuid.UUID{track.ID}, storedPlaylist.TrackIDs)
}

func TestTrackService_Update_EmptyGenresRejected(t *testing.T) {
	f := newFixture()
	track := f.db.tracks.seed(Track{Name: "Song", Duration: 100})

	_, err := f.catalog.Tracks.Update(context.Background(), track.ID, TrackUpdate{GenreIDs: []uuid.UUID{}})
	assert.True(t, IsValidation(err))
}

func TestTrackService_Delete_UnlinksEverywhere(t *testing.T) {
	f := newFixture()
	album := f.db.albums.seed(Album{Name: "A"})
	genre := f.db.genres.seed(Genre{Name: "g"})
	playlist := f.db.playlists.seed(Playlist{Name: "P"})
	user := f.db.users.seed(User{Name: "user", Email: "u@example.com"})
	track := f.db.tracks.seed(Track{
		Name:           "T",
		AlbumID:        uuid.NullUUID{UUID: album.ID, Valid: true},
		GenreIDs:       []uuid.UUID{genre.ID},
		PlaylistIDs:    []uuid.UUID{playlist.ID},
		LikedByUserIDs: []uuid.UUID{user.ID},
	})
	album.TrackIDs = []uuid.UUID{track.ID}
	f.db.albums.seed(album)
	genre.TrackIDs = []uuid.UUID{track.ID}
	f.db.genres.seed(genre)
	playlist.TrackIDs = []uuid.UUID{track.ID}
	f.db.playlists.seed(playlist)
	user.LikedTrackIDs = []uuid.UUID{track.ID}
	f.db.users.seed(user)

	require.NoError(t, f.catalog.Tracks.Delete(context.Background(), track.ID))

	a, _ := f.db.albums.get(album.ID)
	g, _ := f.db.genres.get(genre.ID)
	p, _ := f.db.playlists.get(playlist.ID)
	u, _ := f.db.users.get(user.ID)
	assert.Empty(t, a.TrackIDs)
	assert.Empty(t, g.TrackIDs)
	assert.Empty(t, p.TrackIDs)
	assert.Empty(t, u.LikedTrackIDs)
}

func TestTrackService_GetByArtistName(t *testing.T) {
	f := newFixture()
	album := f.db.albums.seed(Album{Name: "Time Out"})
	f.db.artists.seed(Artist{Name: "Brubeck", AlbumIDs: []uuid.UUID{album.ID}})
	track := f.db.tracks.seed(Track{Name: "Take Five", AlbumID: uuid.NullUUID{UUID: album.ID, Valid: true}})
	f.db.tracks.seed(Track{Name: "Loose"})

	for i := 0; i < 2; i++ {
		got, err := f.catalog.Tracks.GetByArtistName(context.Background(), "Brubeck")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, track.ID, got[0].ID)
	}
	assert.Equal(t, 1, f.db.tracks.count("FindByArtistName"))
	assert.True(t, f.cache.ContainsKey("tracks_artist_Brubeck"))

	byName, err := f.catalog.Tracks.GetByName(context.Background(), "Take Five")
	require.NoError(t, err)
	assert.Len(t, byName, 1)
}
