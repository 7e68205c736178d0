package di

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/storeinfra"
)

// EnvPrefix namespaces environment overrides, e.g. CATALOG_CACHE_MAX_SIZE.
const EnvPrefix = "CATALOG"

// AppConfig is the full configuration of a catalog process.
type AppConfig struct {
	Cache    cache.Config      `mapstructure:"cache"`
	Database storeinfra.Config `mapstructure:"database"`
	Logging  LoggingConfig     `mapstructure:"logging"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// MetricsConfig toggles the prometheus cache collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultAppConfig returns the configuration used when nothing is overridden.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Cache:    cache.DefaultConfig(),
		Database: storeinfra.DefaultConfig(),
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Cache),
		validation.Field(&c.Database),
		validation.Field(&c.Logging),
	)
}

func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("json", "console")),
	)
}

// LoadConfig reads configuration from an optional YAML file and CATALOG_*
// environment variables on top of DefaultAppConfig. An empty path searches
// for catalog.yaml in the working directory and tolerates its absence.
func LoadConfig(path string) (AppConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()

	v.SetDefault("cache.backend", string(d.Cache.Backend))
	v.SetDefault("cache.max_size", d.Cache.MaxSize)
	v.SetDefault("cache.num_shards", d.Cache.NumShards)
	v.SetDefault("cache.eviction_percentage", d.Cache.EvictionPercentage)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.log_queries", d.Database.LogQueries)
	v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

// NewLogger builds a zap logger: production encoding for json, development
// encoding for console.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
