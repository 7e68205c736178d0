package di

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

// testConfig returns defaults over a private in-memory database.
func testConfig() AppConfig {
	cfg := DefaultAppConfig()
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return cfg
}

func newTestContainer(t *testing.T, cfg AppConfig) *Container {
	t.Helper()

	container, err := NewContainer(context.Background(), cfg, WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })

	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.MaxSize = 42

	container := newTestContainer(t, cfg)

	// Verify that dependencies are properly initialized
	if container.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Catalog() == nil {
		t.Error("Container should have a non-nil catalog")
	}
	if container.DB() == nil {
		t.Error("Container should have a non-nil database")
	}
	if container.Registry() != nil {
		t.Error("Registry should be nil when metrics are disabled")
	}

	fifo, ok := container.CacheService().(*cacheinfra.FIFOCache)
	if !ok {
		t.Fatalf("expected *cacheinfra.FIFOCache, got %T", container.CacheService())
	}
	if fifo.MaxSize() != 42 {
		t.Errorf("Expected max size 42, got %d", fifo.MaxSize())
	}

	if container.Config().Cache.MaxSize != 42 {
		t.Errorf("Expected stored config max size 42, got %d", container.Config().Cache.MaxSize)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(context.Background())
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	config := container.Config()
	if config.Cache.MaxSize != cache.DefaultMaxSize {
		t.Errorf("Expected default max size %d, got %d", cache.DefaultMaxSize, config.Cache.MaxSize)
	}
	if config.Cache.Backend != cache.BackendFIFO {
		t.Errorf("Expected fifo backend, got %q", config.Cache.Backend)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "cache size", mutate: func(c *AppConfig) { c.Cache.MaxSize = 0 }},
		{name: "database driver", mutate: func(c *AppConfig) { c.Database.Driver = "oracle" }},
		{name: "log level", mutate: func(c *AppConfig) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			if _, err := NewContainer(context.Background(), cfg); err == nil {
				t.Error("Expected NewContainer() to fail with invalid config")
			}
		})
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container := newTestContainer(t, testConfig())

	// Call getters multiple times to ensure they return the same instances
	if container.CacheService() != container.CacheService() {
		t.Error("CacheService() should return the same instance (singleton behavior)")
	}
	if container.KeySerializer() != container.KeySerializer() {
		t.Error("KeySerializer() should return the same instance (singleton behavior)")
	}
	if container.Catalog() != container.Catalog() {
		t.Error("Catalog() should return the same instance (singleton behavior)")
	}
}

func TestKeySerializerIntegration(t *testing.T) {
	container := newTestContainer(t, testConfig())
	keySerializer := container.KeySerializer()

	testCases := []struct {
		name     string
		entity   string
		shape    string
		args     []any
		expected string
	}{
		{name: "all", entity: "album", shape: cache.ShapeAll, expected: "albums_all"},
		{name: "by id", entity: "track", shape: cache.ShapeID, args: []any{"123"}, expected: "tracks_id_123"},
		{name: "by name", entity: "genre", shape: cache.ShapeName, args: []any{"jazz"}, expected: "genres_name_jazz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := keySerializer.SerializeKey(tc.entity, tc.shape, tc.args...)
			if result != tc.expected {
				t.Errorf("Expected key %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestNewContainer_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true

	container := newTestContainer(t, cfg)

	if container.Registry() == nil {
		t.Fatal("Registry should be set when metrics are enabled")
	}
	if _, ok := container.CacheService().(*cache.InstrumentedService); !ok {
		t.Errorf("expected *cache.InstrumentedService, got %T", container.CacheService())
	}
}

func TestNewContainer_SturdycBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = cache.BackendSturdyc

	container := newTestContainer(t, cfg)

	if _, ok := container.CacheService().(*cacheinfra.SturdycCache); !ok {
		t.Errorf("expected *cacheinfra.SturdycCache, got %T", container.CacheService())
	}
}
