package cache

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

// Config is the cache section of the storefront configuration.
type Config struct {
	Enabled              bool                `yaml:"enabled"`
	Capacity             int                 `yaml:"capacity"`
	NumShards            int                 `yaml:"num_shards"`
	TTL                  time.Duration       `yaml:"ttl"`
	EvictionPercentage   int                 `yaml:"eviction_percentage"`
	EarlyRefresh         *EarlyRefreshConfig `yaml:"early_refresh"`
	MissingRecordStorage bool                `yaml:"missing_record_storage"`
	EvictionInterval     time.Duration       `yaml:"eviction_interval"`
	MaxKeyLength         int                 `yaml:"max_key_length"`
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `yaml:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `yaml:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `yaml:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `yaml:"retry_base_delay"`
}

// DefaultConfig returns an enabled cache with the sturdyc defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.Enabled = true
	cfg.MaxKeyLength = DefaultMaxKeyLength
	return cfg
}

// Validate checks the sturdyc settings. A disabled cache is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return c.toInternal().Validate()
}

// NewCacheService builds the sturdyc backed CacheService.
func NewCacheService(cfg Config, logger *slog.Logger) (CacheService, error) {
	return cacheinfra.NewSturdycService(cfg.toInternal(), logger)
}

// NewKeySerializer returns the serializer matching cfg.MaxKeyLength.
func NewKeySerializer(cfg Config) KeySerializer {
	return NewHashedKeySerializer(NewDefaultKeySerializer(), cfg.MaxKeyLength)
}

func (c Config) toInternal() cacheinfra.Config {
	out := cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
	if c.EarlyRefresh != nil {
		early := cacheinfra.EarlyRefreshConfig(*c.EarlyRefresh)
		out.EarlyRefresh = &early
	}
	return out
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	out := Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
	if cfg.EarlyRefresh != nil {
		early := EarlyRefreshConfig(*cfg.EarlyRefresh)
		out.EarlyRefresh = &early
	}
	return out
}
