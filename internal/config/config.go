// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config assembles the halsync client configuration from command
// line flags, environment variables and an optional JSON file. The three
// sources are merged in that precedence order.
package config

import (
	"fmt"
	"time"
)

// AdapterConfig holds network settings for the HTTP transport.
type AdapterConfig struct {
	// BaseURL is the root URL of the remote repository API.
	BaseURL string `env:"HALSYNC_BASE_URL" json:"base_url"`
	// RequestTimeout is the per-request timeout for outbound calls.
	RequestTimeout time.Duration `env:"HALSYNC_REQUEST_TIMEOUT" json:"request_timeout"`
	// Token is an optional bearer token attached to every request.
	Token string `env:"HALSYNC_TOKEN" json:"token"`
}

// CacheConfig holds object-cache settings.
type CacheConfig struct {
	// ReadTTL bounds how long terminal read entries satisfy new requests.
	// Zero disables auto-expiry; entries then live until invalidated.
	ReadTTL time.Duration `env:"HALSYNC_READ_TTL" json:"read_ttl"`
	// SnapshotPath is the SQLite file the cache snapshot is persisted to.
	// Empty disables persistence.
	SnapshotPath string `env:"HALSYNC_SNAPSHOT_PATH" json:"snapshot_path"`
}

// SyncConfig holds sync-buffer settings.
type SyncConfig struct {
	// FlushInterval is the period of the background flush job.
	FlushInterval time.Duration `env:"HALSYNC_FLUSH_INTERVAL" json:"flush_interval"`
	// MaxAttempts bounds delivery attempts per flush.
	MaxAttempts int `env:"HALSYNC_FLUSH_MAX_ATTEMPTS" json:"flush_max_attempts"`
	// InitialBackoff is the delay before the first flush retry.
	InitialBackoff time.Duration `env:"HALSYNC_FLUSH_BACKOFF" json:"flush_backoff"`
}

// StructuredConfig is the merged configuration of the halsync client.
type StructuredConfig struct {
	// Adapter contains transport settings.
	Adapter AdapterConfig `json:"adapter"`
	// Cache contains object-cache settings.
	Cache CacheConfig `json:"cache"`
	// Sync contains sync-buffer settings.
	Sync SyncConfig `json:"sync"`

	// jsonFilePath carries the -config flag value between builder steps.
	jsonFilePath string
}

// GetStructuredConfig builds the merged configuration: flags take
// precedence over environment variables, which take precedence over the
// JSON file named by either.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withFlags().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error building structured config: %w", err)
	}

	return cfg, nil
}

func (c *StructuredConfig) validate() error {
	if c.Adapter.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Sync.MaxAttempts < 0 {
		return ErrNegativeAttempts
	}
	return nil
}
