package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/cacheaside"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/storeinfra"
)

// Container wires configuration, logging, the shared cache, the database and
// the catalog services. There is exactly one cache per container, shared by
// every entity service.
type Container struct {
	config        AppConfig
	logger        *zap.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	registry      *prometheus.Registry
	db            *bun.DB
	catalog       *catalog.Catalog
}

// Option customises NewContainer.
type Option func(*Container)

// WithLogger replaces the logger built from the logging config.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewContainer opens the database, migrating it when configured, and builds
// the cache and catalog services on top of it.
func NewContainer(ctx context.Context, config AppConfig, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{config: config}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		logger, err := NewLogger(config.Logging)
		if err != nil {
			return nil, err
		}
		c.logger = logger
	}

	cacheService, err := cache.NewCacheService(config.Cache, cache.WithLogger(c.logger.Named("cache")))
	if err != nil {
		return nil, err
	}

	if config.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		instrumented, err := cache.Instrument(cacheService, c.registry)
		if err != nil {
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
		cacheService = instrumented
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewDefaultKeySerializer()

	db, err := storeinfra.Open(ctx, config.Database, c.logger.Named("db"))
	if err != nil {
		return nil, err
	}
	c.db = db

	if config.Database.AutoMigrate {
		if err := storeinfra.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	aside := cacheaside.New(c.cacheService, c.keySerializer, c.logger.Named("aside"))
	c.catalog = catalog.New(storeinfra.NewStores(db), aside, c.logger.Named("catalog"))

	return c, nil
}

// NewContainerWithDefaults builds a container over DefaultAppConfig.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	return NewContainer(ctx, DefaultAppConfig())
}

// Catalog returns the entity services.
func (c *Container) Catalog() *catalog.Catalog {
	return c.catalog
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Registry returns the metrics registry, or nil when metrics are disabled.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Container) DB() *bun.DB {
	return c.db
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() AppConfig {
	return c.config
}

// Close releases the database and flushes the logger.
func (c *Container) Close() error {
	err := c.db.Close()
	_ = c.logger.Sync()
	return err
}
