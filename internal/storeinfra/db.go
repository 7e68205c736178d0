package storeinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects the relational backend behind the catalog stores.
type Config struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogQueries   bool   `mapstructure:"log_queries"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// DefaultConfig returns a shared in-memory SQLite database.
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "file::memory:?cache=shared",
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
}

// Open connects to the configured database and verifies the connection.
// SQLite connections are capped at one unless MaxOpenConns says otherwise,
// since writers on a shared in-memory database otherwise lock each other out.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storeinfra: invalid database config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storeinfra: open %s: %w", cfg.Driver, err)
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverPostgres:
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 1
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storeinfra: ping %s: %w", cfg.Driver, err)
	}

	if cfg.LogQueries {
		db.AddQueryHook(&queryLogger{logger: logger})
	}

	logger.Info("database opened", zap.String("driver", cfg.Driver))
	return db, nil
}

// queryLogger writes every executed statement to the debug log.
type queryLogger struct {
	logger *zap.Logger
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	fields := []zap.Field{
		zap.String("query", event.Query),
		zap.Duration("elapsed", time.Since(event.StartTime)),
	}
	if event.Err != nil && event.Err != sql.ErrNoRows {
		h.logger.Warn("query failed", append(fields, zap.Error(event.Err))...)
		return
	}
	h.logger.Debug("query", fields...)
}
