package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "NINEBOX_"
	envFileVar = "NINEBOX_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if NINEBOX_CONFIG is set
//  3. env (prefix NINEBOX_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NINEBOX_MAX_SESSIONS -> max_sessions. Underscores are kept so keys
	// match the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BigMoverThreshold < 1 || c.BigMoverThreshold > 8:
		return fmt.Errorf("%w: big_mover_threshold must be in 1..8, got %d", ErrInvalidConfig, c.BigMoverThreshold)
	case c.CenterPosition < 1 || c.CenterPosition > 9:
		return fmt.Errorf("%w: center_position must be in 1..9, got %d", ErrInvalidConfig, c.CenterPosition)
	case c.MaxSessions < 0:
		return fmt.Errorf("%w: max_sessions must not be negative", ErrInvalidConfig)
	case c.SessionIdleTimeoutSec < 0:
		return fmt.Errorf("%w: session_idle_timeout_sec must not be negative", ErrInvalidConfig)
	case c.SessionIdleTimeoutSec > 0 && c.SweepIntervalSec <= 0:
		return fmt.Errorf("%w: sweep_interval_sec must be positive when sessions expire", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
