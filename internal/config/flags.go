package config

import (
	"flag"
	"time"
)

// parseFlags parses all configuration flags.
//
// Flags:
//
//	-a base URL of the remote repository API
//	-token bearer token for authenticated requests
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-read-ttl staleness TTL for cached reads (0 disables auto-expiry)
//	-snapshot cache snapshot SQLite path
//	-flush-interval background flush period
//	-flush-max-attempts delivery attempts per flush
//	-flush-backoff initial retry backoff
//	-c/-config json file path with configs
func parseFlags() *StructuredConfig {
	var (
		baseURL        string
		token          string
		requestTimeout time.Duration
		readTTL        time.Duration
		snapshotPath   string
		flushInterval  time.Duration
		maxAttempts    int
		initialBackoff time.Duration
		jsonConfigPath string
	)

	flag.StringVar(&baseURL, "a", "", "Base URL of the remote repository API")
	flag.StringVar(&token, "token", "", "Bearer token")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&readTTL, "read-ttl", 0, "Staleness TTL for cached reads")
	flag.StringVar(&snapshotPath, "snapshot", "", "Cache snapshot SQLite path")
	flag.DurationVar(&flushInterval, "flush-interval", 0, "Background flush period")
	flag.IntVar(&maxAttempts, "flush-max-attempts", 0, "Delivery attempts per flush")
	flag.DurationVar(&initialBackoff, "flush-backoff", 0, "Initial flush retry backoff")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: AdapterConfig{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
			Token:          token,
		},
		Cache: CacheConfig{
			ReadTTL:      readTTL,
			SnapshotPath: snapshotPath,
		},
		Sync: SyncConfig{
			FlushInterval:  flushInterval,
			MaxAttempts:    maxAttempts,
			InitialBackoff: initialBackoff,
		},
		jsonFilePath: jsonConfigPath,
	}
}
