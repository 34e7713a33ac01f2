package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewSturdycService(testConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Capacity != 2048 {
		t.Errorf("expected Capacity 2048, got %d", cfg.Capacity)
	}
	if cfg.TTL != 2*time.Minute {
		t.Errorf("expected TTL 2m, got %v", cfg.TTL)
	}
	if cfg.EarlyRefresh == nil {
		t.Fatal("expected EarlyRefresh to be configured")
	}
	if cfg.MissingRecordStorage {
		t.Error("expected MissingRecordStorage to be disabled")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero capacity", mutate: func(c *Config) { c.Capacity = 0 }, field: "Capacity"},
		{name: "zero shards", mutate: func(c *Config) { c.NumShards = 0 }, field: "NumShards"},
		{name: "more shards than capacity", mutate: func(c *Config) { c.NumShards = 101 }, field: "NumShards"},
		{name: "zero ttl", mutate: func(c *Config) { c.TTL = 0 }, field: "TTL"},
		{name: "eviction too low", mutate: func(c *Config) { c.EvictionPercentage = 0 }, field: "EvictionPercentage"},
		{name: "eviction too high", mutate: func(c *Config) { c.EvictionPercentage = 101 }, field: "EvictionPercentage"},
		{name: "negative eviction interval", mutate: func(c *Config) { c.EvictionInterval = -time.Second }, field: "EvictionInterval"},
		{
			name: "negative early refresh",
			mutate: func(c *Config) {
				c.EarlyRefresh = &EarlyRefreshConfig{RetryBaseDelay: -time.Millisecond}
			},
			field: "EarlyRefresh.RetryBaseDelay",
		},
		{
			name: "early refresh window inverted",
			mutate: func(c *Config) {
				c.EarlyRefresh = &EarlyRefreshConfig{MinAsyncRefreshTime: 2 * time.Second, MaxAsyncRefreshTime: time.Second}
			},
			field: "EarlyRefresh.MaxAsyncRefreshTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	cfg := testConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no options, got %d", got)
	}

	cfg = DefaultConfig()
	cfg.MissingRecordStorage = true
	cfg.EvictionInterval = time.Second
	if got := len(cfg.ToSturdycOptions()); got != 3 {
		t.Errorf("expected 3 options, got %d", got)
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	want := "config error in field TTL: must be greater than 0"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestNewSturdycService_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = 0
	if _, err := NewSturdycService(cfg, nil); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestService_GetOrFetch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return []string{"laptop", "phone"}, nil
	}

	for range 3 {
		got, err := svc.GetOrFetch(ctx, "products::electronics", fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items, ok := got.([]string); !ok || len(items) != 2 {
			t.Fatalf("unexpected value %#v", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected one fetch, got %d", calls.Load())
	}
	if svc.Size() != 1 {
		t.Errorf("expected one entry, got %d", svc.Size())
	}
}

func TestService_GetOrFetch_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	boom := errors.New("upstream down")
	_, err := svc.GetOrFetch(ctx, "categories", func(ctx context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected fetch error, got %v", err)
	}

	_, err = svc.GetOrFetch(ctx, "categories", nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *ConfigError for nil fetch, got %v", err)
	}
}

func TestService_Invalidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := func(key string) {
		t.Helper()
		if _, err := svc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) { return key, nil }); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	for _, key := range []string{"catalog::products::a", "catalog::products::b", "catalog::categories", "other::x"} {
		seed(key)
	}

	if err := svc.Delete(ctx, "other::x"); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteByPrefix(ctx, "catalog::products"); err != nil {
		t.Fatal(err)
	}

	keys := svc.client.ScanKeys()
	if len(keys) != 1 || keys[0] != "catalog::categories" {
		t.Fatalf("expected only categories to remain, got %v", keys)
	}

	if err := svc.InvalidateKeys(ctx, []string{"catalog::categories", "missing"}); err != nil {
		t.Fatal(err)
	}
	for _, key := range svc.client.ScanKeys() {
		if strings.HasPrefix(key, "catalog") {
			t.Errorf("key %s should have been invalidated", key)
		}
	}
}
