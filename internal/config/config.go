// Package config defines service configuration and how it is loaded.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// BigMoverThreshold is the minimum cell distance that flags a big mover.
	BigMoverThreshold int `koanf:"big_mover_threshold"`

	// CenterPosition is the grid cell the donut exercise is scoped to.
	CenterPosition int `koanf:"center_position"`

	// MaxSessions caps concurrently live sessions. Zero means unbounded.
	MaxSessions int `koanf:"max_sessions"`

	// SessionIdleTimeoutSec expires sessions left untouched this long.
	// Zero disables expiry.
	SessionIdleTimeoutSec int `koanf:"session_idle_timeout_sec"`

	// SweepIntervalSec sets how often idle sessions are looked for.
	SweepIntervalSec int `koanf:"sweep_interval_sec"`

	// MaxUploadBytes bounds a baseline upload body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// SheetName selects the baseline worksheet; empty means the first one.
	SheetName string `koanf:"sheet_name"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		BigMoverThreshold:     3,
		CenterPosition:        5,
		MaxSessions:           64,
		SessionIdleTimeoutSec: 0,
		SweepIntervalSec:      60,
		MaxUploadBytes:        10 << 20,
	}
}

// SessionIdleTimeout returns SessionIdleTimeoutSec as a duration.
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeoutSec) * time.Second
}

// SweepInterval returns SweepIntervalSec as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}
