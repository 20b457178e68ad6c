package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return raw.toConfig()
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return raw.toConfig()
}

// rawConfig accepts flush_interval as either a duration string ("90s")
// or a bare number of seconds.
type rawConfig struct {
	Token             string `yaml:"token" json:"token"`
	ServerURL         string `yaml:"server_url" json:"server_url"`
	FlushInterval     any    `yaml:"flush_interval" json:"flush_interval"`
	FlushOnBackground *bool  `yaml:"flush_on_background" json:"flush_on_background"`
	MaxQueueSize      int    `yaml:"max_queue_size" json:"max_queue_size"`
	MaxBatchSize      int    `yaml:"max_batch_size" json:"max_batch_size"`
	SnapshotPath      string `yaml:"snapshot_path" json:"snapshot_path"`
}

func (r rawConfig) toConfig() (Config, error) {
	cfg := Config{
		Token:             r.Token,
		ServerURL:         r.ServerURL,
		FlushOnBackground: r.FlushOnBackground,
		MaxQueueSize:      r.MaxQueueSize,
		MaxBatchSize:      r.MaxBatchSize,
		SnapshotPath:      r.SnapshotPath,
	}

	if r.FlushInterval != nil {
		interval, err := parseDuration(r.FlushInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.FlushInterval = interval
		cfg.FlushIntervalSet = true
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseDuration accepts a duration string, a number of seconds, or a
// time.Duration.
func parseDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("parse flush_interval: %w", err)
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case time.Duration:
		return val, nil
	default:
		return 0, fmt.Errorf("parse flush_interval: unsupported type %T", v)
	}
}
