// Package seed loads a catalog from a YAML document. Entities refer to each
// other by name and are created through the catalog services, so every
// validation and relationship rule applies.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catalog-cache/catalog"
)

type File struct {
	Artists   []Artist   `yaml:"artists"`
	Genres    []Genre    `yaml:"genres"`
	Albums    []Album    `yaml:"albums"`
	Tracks    []Track    `yaml:"tracks"`
	Users     []User     `yaml:"users"`
	Playlists []Playlist `yaml:"playlists"`
}

type Artist struct {
	Name string `yaml:"name"`
}

type Genre struct {
	Name string `yaml:"name"`
}

type Album struct {
	Name    string   `yaml:"name"`
	Artists []string `yaml:"artists"`
}

type Track struct {
	Name     string   `yaml:"name"`
	Duration int      `yaml:"duration"`
	Album    string   `yaml:"album"`
	Genres   []string `yaml:"genres"`
}

type User struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Likes    []string `yaml:"likes"`
}

type Playlist struct {
	Name        string   `yaml:"name"`
	Author      string   `yaml:"author"`
	Tracks      []string `yaml:"tracks"`
	Subscribers []string `yaml:"subscribers"`
}

// Result counts the entities created by Apply.
type Result struct {
	Artists   int
	Genres    int
	Albums    int
	Tracks    int
	Users     int
	Playlists int
}

// Load decodes a seed document. Unknown fields are rejected.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("seed: decode: %w", err)
	}
	return f, nil
}

// names maps entity names to the ids they were created with.
type names map[string]uuid.UUID

func (n names) lookup(kind string, list ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(list))
	for _, name := range list {
		id, ok := n[name]
		if !ok {
			return nil, fmt.Errorf("seed: unknown %s %q", kind, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Apply creates every entity in f, in dependency order, stopping at the first failure.
func Apply(ctx context.Context, cat *catalog.Catalog, f File, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var res Result
	artists, genres, albums, tracks, users := names{}, names{}, names{}, names{}, names{}

	for _, a := range f.Artists {
		created, err := cat.Artists.Create(ctx, catalog.ArtistCreate{Name: a.Name})
		if err != nil {
			return res, fmt.Errorf("seed: artist %q: %w", a.Name, err)
		}
		artists[a.Name] = created.ID
		res.Artists++
	}

	for _, g := range f.Genres {
		created, err := cat.Genres.Create(ctx, catalog.GenreCreate{Name: g.Name})
		if err != nil {
			return res, fmt.Errorf("seed: genre %q: %w", g.Name, err)
		}
		genres[g.Name] = created.ID
		res.Genres++
	}

	for _, a := range f.Albums {
		artistIDs, err := artists.lookup("artist", a.Artists...)
		if err != nil {
			return res, err
		}
		created, err := cat.Albums.Create(ctx, catalog.AlbumCreate{Name: a.Name, ArtistIDs: artistIDs})
		if err != nil {
			return res, fmt.Errorf("seed: album %q: %w", a.Name, err)
		}
		albums[a.Name] = created.ID
		res.Albums++
	}

	for _, t := range f.Tracks {
		albumIDs, err := albums.lookup("album", t.Album)
		if err != nil {
			return res, err
		}
		genreIDs, err := genres.lookup("genre", t.Genres...)
		if err != nil {
			return res, err
		}
		created, err := cat.Tracks.Create(ctx, catalog.TrackCreate{
			Name:     t.Name,
			Duration: t.Duration,
			AlbumID:  albumIDs[0],
			GenreIDs: genreIDs,
		})
		if err != nil {
			return res, fmt.Errorf("seed: track %q: %w", t.Name, err)
		}
		tracks[t.Name] = created.ID
		res.Tracks++
	}

	for _, u := range f.Users {
		liked, err := tracks.lookup("track", u.Likes...)
		if err != nil {
			return res, err
		}
		created, err := cat.Users.Create(ctx, catalog.UserCreate{
			Name:          u.Name,
			Email:         u.Email,
			Password:      u.Password,
			LikedTrackIDs: liked,
		})
		if err != nil {
			return res, fmt.Errorf("seed: user %q: %w", u.Name, err)
		}
		users[u.Name] = created.ID
		res.Users++
	}

	for _, p := range f.Playlists {
		author, err := users.lookup("user", p.Author)
		if err != nil {
			return res, err
		}
		trackIDs, err := tracks.lookup("track", p.Tracks...)
		if err != nil {
			return res, err
		}
		subscribers, err := users.lookup("user", p.Subscribers...)
		if err != nil {
			return res, err
		}
		_, err = cat.Playlists.Create(ctx, catalog.PlaylistCreate{
			Name:          p.Name,
			AuthorID:      author[0],
			TrackIDs:      trackIDs,
			SubscriberIDs: subscribers,
		})
		if err != nil {
			return res, fmt.Errorf("seed: playlist %q: %w", p.Name, err)
		}
		res.Playlists++
	}

	logger.Info("catalog seeded",
		zap.Int("artists", res.Artists),
		zap.Int("genres", res.Genres),
		zap.Int("albums", res.Albums),
		zap.Int("tracks", res.Tracks),
		zap.Int("users", res.Users),
		zap.Int("playlists", res.Playlists),
	)
	return res, nil
}
