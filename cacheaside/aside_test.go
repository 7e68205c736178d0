package cacheaside

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}
	return append([]int(nil), v...)
}

func newAside(size int) *Aside {
	return New(cacheinfra.NewFIFOCache(size, nil), nil, nil)
}

func TestRead_MissThenHit(t *testing.T) {
	a := newAside(10)
	calls := 0
	fetch := func(ctx context.Context) ([]int, error) {
		calls++
		return []int{1, 2}, nil
	}

	key := a.Key("album", cache.ShapeAll)
	for i := 0; i < 2; i++ {
		got, err := Read(context.Background(), a, key, cloneInts, fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, got)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, "albums_all", key)
}

func TestRead_ReturnsSnapshots(t *testing.T) {
	a := newAside(10)
	source := []int{1, 2}
	fetch := func(ctx context.Context) ([]int, error) { return source, nil }

	first, err := Read(context.Background(), a, "k", cloneInts, fetch)
	require.NoError(t, err)
	first[0] = 99
	source[1] = 42

	second, err := Read(context.Background(), a, "k", cloneInts, fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, second, "cached value must not alias caller or source slices")
}

func TestRead_ErrorNotCached(t *testing.T) {
	a := newAside(10)
	boom := errors.New("not found")

	_, err := Read(context.Background(), a, "k", cloneInts, func(ctx context.Context) ([]int, error) {
		return nil, boom
	})

	require.ErrorIs(t, err, boom)
	assert.False(t, a.Cache().ContainsKey("k"))
}

func TestRead_EmptyListIsCached(t *testing.T) {
	a := newAside(10)
	calls := 0
	fetch := func(ctx context.Context) ([]int, error) {
		calls++
		return []int{}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Read(context.Background(), a, "k", cloneInts, fetch)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, calls)
}

func TestWrite_ClearsOnlyAfterSuccess(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(tx *Tx) error
		wantClear bool
		wantErr   bool
	}{
		{
			name:      "success",
			fn:        func(tx *Tx) error { tx.Persisted(); return nil },
			wantClear: true,
		},
		{
			name:    "rejected before store",
			fn:      func(tx *Tx) error { return errors.New("conflict") },
			wantErr: true,
		},
		{
			name: "failed after a rolled back save",
			fn: func(tx *Tx) error {
				tx.Persisted()
				return errors.New("second save failed")
			},
			wantErr: true,
		},
		{
			name: "no-op success",
			fn:   func(tx *Tx) error { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAside(10)
			a.Cache().Put("tracks_all", []int{1})

			err := a.Write(context.Background(), "test", tt.fn)

			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantClear, !a.Cache().ContainsKey("tracks_all"))
		})
	}
}

func TestTx_Writes(t *testing.T) {
	tx := &Tx{}
	tx.Persisted()
	tx.Persisted()
	assert.Equal(t, 2, tx.Writes())
}

func TestRead_LogsHowEachCallerWasServed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := New(cacheinfra.NewFIFOCache(10, nil), nil, zap.New(core))

	entered := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]int, error) {
		select {
		case <-entered:
		default:
			close(entered)
		}
		<-release
		return []int{1}, nil
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = Read(context.Background(), a, "k", cloneInts, fetch)
	}()
	<-entered
	go func() {
		defer wg.Done()
		_, _ = Read(context.Background(), a, "k", cloneInts, fetch)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	_, err := Read(context.Background(), a, "k", cloneInts, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("cache miss").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache shared").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache hit").Len())
}
