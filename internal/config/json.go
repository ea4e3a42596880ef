package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration parses JSON duration values given either as nanosecond numbers
// or as strings in time.ParseDuration format ("30s", "5m").
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

type structuredJSONConfig struct {
	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"adapter,omitempty"`

	Cache struct {
		ReadTTL      Duration `json:"read_ttl"`
		SnapshotPath string   `json:"snapshot_path"`
	} `json:"cache,omitempty"`

	Sync struct {
		FlushInterval  Duration `json:"flush_interval"`
		MaxAttempts    int      `json:"flush_max_attempts"`
		InitialBackoff Duration `json:"flush_backoff"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg structuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Adapter: AdapterConfig{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
		},
		Cache: CacheConfig{
			ReadTTL:      time.Duration(jsonCfg.Cache.ReadTTL),
			SnapshotPath: jsonCfg.Cache.SnapshotPath,
		},
		Sync: SyncConfig{
			FlushInterval:  time.Duration(jsonCfg.Sync.FlushInterval),
			MaxAttempts:    jsonCfg.Sync.MaxAttempts,
			InitialBackoff: time.Duration(jsonCfg.Sync.InitialBackoff),
		},
	}, nil
}
