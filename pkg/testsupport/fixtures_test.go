package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewTestDB_AppliesSchema(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"albums", "artists", "tracks", "genres", "playlists", "users",
		"album_artists", "track_genres", "playlist_tracks", "playlist_subscribers", "user_liked_tracks",
	}
	for _, table := range tables {
		var count int
		err := db.NewSelect().TableExpr(table).ColumnExpr("count(*)").Scan(context.Background(), &count)
		if err != nil {
			t.Errorf("table %s not queryable: %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected empty %s, got %d rows", table, count)
		}
	}
}

func TestNewTestDB_IsolatedPerCall(t *testing.T) {
	ctx := context.Background()
	first := NewTestDB(t)
	second := NewTestDB(t)

	if _, err := first.ExecContext(ctx, "INSERT INTO genres (id, name) VALUES ('g1', 'rock')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var count int
	if err := second.NewSelect().TableExpr("genres").ColumnExpr("count(*)").Scan(ctx, &count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected databases to be isolated, second has %d genres", count)
	}
}

func TestLoadFixture(t *testing.T) {
	path := TempFile(t, "test.txt", []byte("test fixture content"))

	result := LoadFixture(t, path)
	if string(result) != "test fixture content" {
		t.Errorf("expected %q, got %q", "test fixture content", result)
	}
}

func TestLoadFixtureYAML(t *testing.T) {
	path := TempFile(t, "seed.yaml", []byte("genres:\n  - name: rock\n  - name: jazz\n"))

	var result struct {
		Genres []struct {
			Name string `yaml:"name"`
		} `yaml:"genres"`
	}
	LoadFixtureYAML(t, path, &result)

	if len(result.Genres) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(result.Genres))
	}
	if result.Genres[1].Name != "jazz" {
		t.Errorf("expected jazz, got %q", result.Genres[1].Name)
	}
}

func TestTempFile(t *testing.T) {
	path := TempFile(t, "catalog.yaml", []byte("content"))

	if filepath.Base(path) != "catalog.yaml" {
		t.Errorf("expected file name catalog.yaml, got %s", filepath.Base(path))
	}

	result, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read temp file: %v", err)
	}
	if string(result) != "content" {
		t.Errorf("expected %q, got %q", "content", result)
	}
}

func TestFixturePath(t *testing.T) {
	result := FixturePath("seed.yaml")
	expected := filepath.Join("testdata", "seed.yaml")

	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}
