package di

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// TestConcurrentReadWrite interleaves cached reads with writes that clear the cache.
func TestConcurrentReadWrite(t *testing.T) {
	container := newTestContainer(t, testConfig())
	cat := container.Catalog()
	ctx := context.Background()

	albums := make([]catalog.Album, 5)
	for i := range albums {
		albums[i], _ = seedAlbum(t, cat, fmt.Sprintf("Album %d", i))
	}

	const numReaders = 8
	const readsPerReader = 50

	var wg sync.WaitGroup
	errs := make(chan error, numReaders*readsPerReader+10)

	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < readsPerReader; j++ {
				a := albums[(workerID+j)%len(albums)]
				got, err := cat.Albums.GetByID(ctx, a.ID)
				if err != nil {
					errs <- fmt.Errorf("reader %d read %d: %w", workerID, j, err)
					continue
				}
				if got.ID != a.ID {
					errs <- fmt.Errorf("reader %d got album %s, want %s", workerID, got.ID, a.ID)
				}
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			name := fmt.Sprintf("Renamed %d", j)
			if _, err := cat.Albums.Update(ctx, albums[0].ID, catalog.AlbumUpdate{Name: &name}); err != nil {
				errs <- fmt.Errorf("writer update %d: %w", j, err)
			}
		}
	}()

	wg.Wait()
	close(errs)

	var errorCount int
	for err := range errs {
		t.Error(err)
		errorCount++
		if errorCount > 10 {
			t.Error("... and more errors")
			break
		}
	}

	// The last write happened after every read it could race with, so a fresh read sees it
	got, err := cat.Albums.GetByID(ctx, albums[0].ID)
	if err != nil {
		t.Fatalf("final read failed: %v", err)
	}
	if got.Name != "Renamed 9" {
		t.Errorf("Expected final name %q, got %q", "Renamed 9", got.Name)
	}
}

func BenchmarkCachedAlbumRead(b *testing.B) {
	cfg := testConfig()
	container, err := NewContainer(context.Background(), cfg, WithLogger(zap.NewNop()))
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	cat := container.Catalog()

	artist, err := cat.Artists.Create(ctx, catalog.ArtistCreate{Name: "Bench"})
	if err != nil {
		b.Fatal(err)
	}
	album, err := cat.Albums.Create(ctx, catalog.AlbumCreate{Name: "Bench", ArtistIDs: []uuid.UUID{artist.ID}})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := cat.Albums.GetByID(ctx, album.ID); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkUncachedArtistRead(b *testing.B) {
	cfg := testConfig()
	container, err := NewContainer(context.Background(), cfg, WithLogger(zap.NewNop()))
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	cat := container.Catalog()
	artist, err := cat.Artists.Create(ctx, catalog.ArtistCreate{Name: "Bench"})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		container.CacheService().Clear()
		if _, err := cat.Artists.GetByID(ctx, artist.ID); err != nil {
			b.Fatal(err)
		}
	}
}
