package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, SourceHTTP, cfg.Catalog.Source)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load("testdata/storefront.yaml")
	require.NoError(t, err)

	assert.Equal(t, SourceSQL, cfg.Catalog.Source)
	assert.Equal(t, "sqlite3", cfg.Catalog.Driver)
	assert.Equal(t, "LocalCatalog", cfg.Catalog.CacheNamespace)
	assert.Equal(t, "https://api.escuelajs.co", cfg.Catalog.BaseURL, "unset keys keep defaults")

	assert.Equal(t, 512, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Nil(t, cfg.Cache.EarlyRefresh)
	assert.Equal(t, 120, cfg.Cache.MaxKeyLength)

	assert.Equal(t, 500, cfg.Runtime.MaxEffectRuns)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "empty", yaml: ""},
		{name: "http", yaml: "catalog:\n  source: http\n  base_url: http://localhost:3000\n"},
		{name: "unknown source", yaml: "catalog:\n  source: ftp\n", wantErr: true},
		{name: "http without url", yaml: "catalog:\n  base_url: \"\"\n", wantErr: true},
		{name: "bad url", yaml: "catalog:\n  base_url: \"not a url\"\n", wantErr: true},
		{name: "sql without dsn", yaml: "catalog:\n  source: sql\n  dsn: \"\"\n", wantErr: true},
		{name: "unknown driver", yaml: "catalog:\n  source: sql\n  driver: mysql\n", wantErr: true},
		{name: "negative timeout", yaml: "catalog:\n  timeout: -1s\n", wantErr: true},
		{name: "bad cache", yaml: "cache:\n  ttl: 0s\n", wantErr: true},
		{name: "disabled cache skips checks", yaml: "cache:\n  enabled: false\n  ttl: 0s\n"},
		{name: "zero effect runs", yaml: "runtime:\n  max_effect_runs: 0\n", wantErr: true},
		{name: "bad level", yaml: "log:\n  level: loud\n", wantErr: true},
		{name: "bad format", yaml: "log:\n  format: xml\n", wantErr: true},
		{name: "unknown key", yaml: "catalog:\n  sauce: http\n", wantErr: true},
		{name: "malformed", yaml: "catalog: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParse_FromTempFile(t *testing.T) {
	path := testsupport.TempFile(t, "storefront.yaml", []byte("log:\n  level: WARN\n"))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "WARN", cfg.Log.Level)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: FormatJSON}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "slug", "laptop")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "laptop", record["slug"])

	buf.Reset()
	LogConfig{Format: FormatText}.NewLogger(&buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
