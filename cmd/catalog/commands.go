package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/seed"
	"github.com/goliatone/go-catalog-cache/internal/storeinfra"
)

func newMigrateCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := storeinfra.Migrate(ctx, c.DB()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func newSeedCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create catalog entities from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			f, err := seed.Load(file)
			if err != nil {
				return err
			}

			c, err := open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := seed.Apply(ctx, c.Catalog(), f, c.Logger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d artists, %d genres, %d albums, %d tracks, %d users, %d playlists\n",
				res.Artists, res.Genres, res.Albums, res.Tracks, res.Users, res.Playlists)
			return nil
		},
	}
}

func newShowCmd(open openFunc) *cobra.Command {
	var (
		seedPath string
		repeat   int
	)

	cmd := &cobra.Command{
		Use:   "show <entity> [id|name]",
		Short: "Print entities as JSON",
		Long: "Print one entity by id, the entities matching a name, or every entity when no\n" +
			"argument is given. Entity is one of album, artist, track, genre, playlist, user.\n" +
			"Repeated reads are served from the cache; run with debug logging to see hits.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			if seedPath != "" {
				file, err := os.Open(seedPath)
				if err != nil {
					return err
				}
				f, err := seed.Load(file)
				file.Close()
				if err != nil {
					return err
				}
				if _, err := seed.Apply(ctx, c.Catalog(), f, c.Logger()); err != nil {
					return err
				}
			}

			query := ""
			if len(args) == 2 {
				query = args[1]
			}

			var result any
			for i := 0; i < max(repeat, 1); i++ {
				result, err = lookup(ctx, c.Catalog(), args[0], query)
				if err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "seed file applied before reading")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of times to run the read")
	return cmd
}

// lookup dispatches a read: no query lists everything, a uuid reads by id,
// anything else reads by name.
func lookup(ctx context.Context, cat *catalog.Catalog, entity, query string) (any, error) {
	id, idErr := uuid.Parse(query)
	byID := idErr == nil

	switch strings.ToLower(entity) {
	case catalog.EntityAlbum:
		return read(ctx, query, byID, cat.Albums.GetAll, func() (any, error) { return cat.Albums.GetByID(ctx, id) },
			func() (any, error) { return cat.Albums.GetByName(ctx, query) })
	case catalog.EntityArtist:
		return read(ctx, query, byID, cat.Artists.GetAll, func() (any, error) { return cat.Artists.GetByID(ctx, id) },
			func() (any, error) { return cat.Artists.GetByName(ctx, query) })
	case catalog.EntityTrack:
		return read(ctx, query, byID, cat.Tracks.GetAll, func() (any, error) { return cat.Tracks.GetByID(ctx, id) },
			func() (any, error) { return cat.Tracks.GetByName(ctx, query) })
	case catalog.EntityGenre:
		return read(ctx, query, byID, cat.Genres.GetAll, func() (any, error) { return cat.Genres.GetByID(ctx, id) },
			func() (any, error) { return cat.Genres.GetByName(ctx, query) })
	case catalog.EntityPlaylist:
		return read(ctx, query, byID, cat.Playlists.GetAll, func() (any, error) { return cat.Playlists.GetByID(ctx, id) },
			func() (any, error) { return cat.Playlists.GetByName(ctx, query) })
	case catalog.EntityUser:
		return read(ctx, query, byID, cat.Users.GetAll, func() (any, error) { return cat.Users.GetByID(ctx, id) },
			func() (any, error) { return cat.Users.GetByName(ctx, query) })
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}

func read[E any](ctx context.Context, query string, byID bool, all func(context.Context) ([]E, error), one, named func() (any, error)) (any, error) {
	switch {
	case query == "":
		return all(ctx)
	case byID:
		return one()
	default:
		return named()
	}
}
