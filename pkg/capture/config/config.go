// Package config provides file-based configuration for the capture
// client, with YAML and JSON loading and validated defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultServerURL     = "https://inputs.alooma.com"
	DefaultFlushInterval = 60 * time.Second
	DefaultMaxQueueSize  = 5000
	DefaultMaxBatchSize  = 50
)

// ErrTokenRequired indicates the config is missing the project token.
var ErrTokenRequired = errors.New("project token is required")

// Config holds the recognized client options.
// The zero value plus a token is valid after Normalize.
type Config struct {
	// Token is the project token. Immutable after construction.
	Token string `yaml:"token" json:"token"`

	// ServerURL is the ingestion endpoint.
	ServerURL string `yaml:"server_url" json:"server_url"`

	// FlushInterval is the periodic flush timer interval.
	// Zero disables the timer entirely.
	FlushInterval time.Duration `yaml:"flush_interval" json:"flush_interval"`

	// FlushIntervalSet distinguishes an explicit zero (timer disabled)
	// from an absent value (use the default).
	FlushIntervalSet bool `yaml:"-" json:"-"`

	// FlushOnBackground controls flushing when the app enters the
	// background. Default: true.
	FlushOnBackground *bool `yaml:"flush_on_background" json:"flush_on_background"`

	// MaxQueueSize bounds the pending queue; oldest events are evicted
	// first when exceeded.
	MaxQueueSize int `yaml:"max_queue_size" json:"max_queue_size"`

	// MaxBatchSize bounds how many events one delivery attempt carries.
	MaxBatchSize int `yaml:"max_batch_size" json:"max_batch_size"`

	// SnapshotPath is an optional directory for file-backed snapshots.
	// Empty means snapshots stay in memory unless a store is injected.
	SnapshotPath string `yaml:"snapshot_path" json:"snapshot_path"`
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.FlushInterval == 0 && !c.FlushIntervalSet {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.FlushOnBackground == nil {
		b := true
		c.FlushOnBackground = &b
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
}

// Validate checks that the config can construct a client.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrTokenRequired
	}
	if c.FlushInterval < 0 {
		return fmt.Errorf("flush interval must not be negative, got %s", c.FlushInterval)
	}
	return nil
}
