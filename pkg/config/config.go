// Package config loads the storefront YAML configuration.
package config

import (
	"bytes"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog/sqlstore"
	"github.com/goliatone/go-storefront/reactive"
)

// Catalog sources.
const (
	SourceHTTP = "http"
	SourceSQL  = "sql"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the root of storefront.yaml.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   cache.Config  `yaml:"cache"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig selects where products come from.
type CatalogConfig struct {
	// Source is "http" or "sql".
	Source string `yaml:"source"`

	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Driver is "sqlite3" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// CacheNamespace prefixes cache keys for this catalog.
	CacheNamespace string `yaml:"cache_namespace"`
}

type RuntimeConfig struct {
	MaxEffectRuns int `yaml:"max_effect_runs"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration that reads the public fake store API.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Source:         SourceHTTP,
			BaseURL:        "https://api.escuelajs.co",
			Timeout:        10 * time.Second,
			Driver:         sqlstore.DriverSQLite,
			DSN:            "file:storefront.db?cache=shared",
			CacheNamespace: "catalog",
		},
		Cache:   cache.DefaultConfig(),
		Runtime: RuntimeConfig{MaxEffectRuns: reactive.DefaultMaxEffectRuns},
		Log:     LogConfig{Level: "info", Format: FormatText},
	}
}

// Load reads path over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryOperation, "read config "+path)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "decode config").
				WithTextCode("CONFIG_DECODE")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Catalog),
		validation.Field(&c.Runtime),
		validation.Field(&c.Log),
	)
	if err == nil {
		err = c.Cache.Validate()
	}
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid config").
			WithTextCode("CONFIG_INVALID")
	}
	return nil
}

func (c CatalogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Source, validation.Required, validation.In(SourceHTTP, SourceSQL)),
		validation.Field(&c.BaseURL, validation.When(c.Source == SourceHTTP, validation.Required, is.URL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Driver, validation.When(c.Source == SourceSQL,
			validation.Required, validation.In(sqlstore.DriverSQLite, sqlstore.DriverPostgres))),
		validation.Field(&c.DSN, validation.When(c.Source == SourceSQL, validation.Required)),
	)
}

func (c RuntimeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxEffectRuns, validation.Required, validation.Min(1)),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.By(func(any) error {
			_, err := ParseLevel(c.Level)
			return err
		})),
		validation.Field(&c.Format, validation.In(FormatText, FormatJSON)),
	)
}
