// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── env ──────────────────────────────────────────────────────────────────────

func TestParseEnv(t *testing.T) {
	t.Setenv("HALSYNC_BASE_URL", "https://repo.test")
	t.Setenv("HALSYNC_REQUEST_TIMEOUT", "30s")
	t.Setenv("HALSYNC_TOKEN", "env-token")
	t.Setenv("HALSYNC_READ_TTL", "5m")
	t.Setenv("HALSYNC_SNAPSHOT_PATH", "/tmp/halsync.db")
	t.Setenv("HALSYNC_FLUSH_INTERVAL", "45s")
	t.Setenv("HALSYNC_FLUSH_MAX_ATTEMPTS", "5")
	t.Setenv("HALSYNC_FLUSH_BACKOFF", "250ms")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://repo.test", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "env-token", cfg.Adapter.Token)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ReadTTL)
	assert.Equal(t, "/tmp/halsync.db", cfg.Cache.SnapshotPath)
	assert.Equal(t, 45*time.Second, cfg.Sync.FlushInterval)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.InitialBackoff)
}

func TestParseEnv_EmptyEnvironment(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cfg.Adapter.BaseURL)
}

// ── json ─────────────────────────────────────────────────────────────────────

func writeJSONConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeJSONConfig(t, `{
		"adapter": {
			"base_url": "https://repo.test",
			"request_timeout": "30s",
			"token": "json-token"
		},
		"cache": {
			"read_ttl": 60000000000,
			"snapshot_path": "halsync.db"
		},
		"sync": {
			"flush_interval": "1m",
			"flush_max_attempts": 4,
			"flush_backoff": "500ms"
		}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "https://repo.test", cfg.Adapter.BaseURL)
	// Строковая форма длительности
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	// Числовая форма — наносекунды
	assert.Equal(t, time.Minute, cfg.Cache.ReadTTL)
	assert.Equal(t, "halsync.db", cfg.Cache.SnapshotPath)
	assert.Equal(t, time.Minute, cfg.Sync.FlushInterval)
	assert.Equal(t, 4, cfg.Sync.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.InitialBackoff)
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	path := writeJSONConfig(t, `{"adapter": {"request_timeout": "soon"}}`)

	_, err := parseJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soon")
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

// ── builder ──────────────────────────────────────────────────────────────────

func TestBuild_EarlierSourcesWin(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		// Флаги: только базовый URL
		&StructuredConfig{Adapter: AdapterConfig{BaseURL: "https://from-flags.test"}},
		// Окружение: URL проигрывает, таймаут дополняет
		&StructuredConfig{Adapter: AdapterConfig{BaseURL: "https://from-env.test", RequestTimeout: 30 * time.Second}},
		// JSON: дополняет остальное
		&StructuredConfig{Sync: SyncConfig{FlushInterval: time.Minute}},
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "https://from-flags.test", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Sync.FlushInterval)
}

func TestBuild_RequiresBaseURL(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestBuild_RejectsNegativeAttempts(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter: AdapterConfig{BaseURL: "https://repo.test"},
		Sync:    SyncConfig{MaxAttempts: -1},
	})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrNegativeAttempts)
}

func TestWithJSON_PicksPathFromEarlierSource(t *testing.T) {
	path := writeJSONConfig(t, `{"adapter": {"base_url": "https://from-json.test"}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{jsonFilePath: path})

	cfg, err := b.withJSON().build()
	require.NoError(t, err)
	assert.Equal(t, "https://from-json.test", cfg.Adapter.BaseURL)
}

func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Adapter: AdapterConfig{BaseURL: "https://repo.test"}})

	cfg, err := b.withJSON().build()
	require.NoError(t, err)
	assert.Equal(t, "https://repo.test", cfg.Adapter.BaseURL)
}
