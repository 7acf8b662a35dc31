// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package config

import (
	"fmt"
	"time"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// Config is the top-level application configuration. It wraps the engine
// parameters with the surrounding process concerns: logging, the optional
// external scoring collaborator, and the booking-history store.
type Config struct {
	// Logging controls the process logger.
	Logging LoggingConfig `json:"logging"`

	// Engine contains all recommendation engine parameters.
	Engine *recommend.Config `json:"engine"`

	// Collaborator contains the external scoring service settings.
	Collaborator CollaboratorConfig `json:"collaborator"`

	// History contains the booking-history snapshot store settings.
	History HistoryConfig `json:"history"`
}

// LoggingConfig controls the global zerolog logger.
type LoggingConfig struct {
	// Level is the minimum level emitted: trace, debug, info, warn,
	// error, or fatal. Default: info.
	Level string `json:"level"`

	// Format selects the output encoding: json or console.
	// Default: json.
	Format string `json:"format"`

	// Caller adds file:line caller annotations when true.
	Caller bool `json:"caller"`
}

// CollaboratorConfig contains the external scoring service settings.
// Enabled and Timeout are mirrored into the engine configuration; the
// remaining fields configure the HTTP client around the service.
type CollaboratorConfig struct {
	// Enabled turns the collaborator on. Default: false.
	Enabled bool `json:"enabled"`

	// Endpoint is the scoring service URL. Required when enabled.
	Endpoint string `json:"endpoint"`

	// APIKey is sent as a bearer token when non-empty.
	APIKey string `json:"api_key"`

	// Timeout bounds a single scoring call. Default: 2s.
	Timeout time.Duration `json:"timeout"`

	// RequestsPerSecond rate-limits outbound calls. Default: 10.
	RequestsPerSecond float64 `json:"requests_per_second"`

	// FailureThreshold is the consecutive-failure count that opens the
	// circuit breaker. Default: 5.
	FailureThreshold uint32 `json:"failure_threshold"`

	// CooldownPeriod is how long the breaker stays open. Default: 30s.
	CooldownPeriod time.Duration `json:"cooldown_period"`
}

// HistoryConfig contains the booking-history snapshot store settings.
type HistoryConfig struct {
	// Enabled turns the store on. When disabled, requests must carry
	// their own history payload. Default: false.
	Enabled bool `json:"enabled"`

	// Path is the Badger database directory. Empty selects an
	// in-memory store, which does not survive restarts.
	Path string `json:"path"`

	// TTL is how long a saved snapshot stays readable. Default: 720h.
	TTL time.Duration `json:"ttl"`

	// Property is the default property code used to load a snapshot
	// when a request carries no history of its own.
	Property string `json:"property"`
}

// defaultConfig returns the fully-populated default configuration. The
// koanf structs provider loads this as the base layer before file and
// environment overrides are applied.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Engine: recommend.DefaultConfig(),
		Collaborator: CollaboratorConfig{
			Enabled:           false,
			Timeout:           2 * time.Second,
			RequestsPerSecond: 10,
			FailureThreshold:  5,
			CooldownPeriod:    30 * time.Second,
		},
		History: HistoryConfig{
			Enabled: false,
			TTL:     720 * time.Hour,
		},
	}
}

// Validate checks the configuration for internal consistency. It is
// called by Load after all layers are merged.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Engine == nil {
		return fmt.Errorf("engine configuration is required")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if c.Collaborator.Enabled {
		if c.Collaborator.Endpoint == "" {
			return fmt.Errorf("collaborator.endpoint is required when the collaborator is enabled")
		}
		if c.Collaborator.Timeout <= 0 {
			return fmt.Errorf("collaborator.timeout must be positive, got %v", c.Collaborator.Timeout)
		}
		if c.Collaborator.RequestsPerSecond <= 0 {
			return fmt.Errorf("collaborator.requests_per_second must be positive, got %v", c.Collaborator.RequestsPerSecond)
		}
	}

	if c.History.Enabled && c.History.TTL <= 0 {
		return fmt.Errorf("history.ttl must be positive, got %v", c.History.TTL)
	}

	return nil
}

// EngineConfig returns the engine configuration with the collaborator
// toggle and timeout folded in from the collaborator section.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := c.Engine.Clone()
	cfg.Collaborator.Enabled = c.Collaborator.Enabled
	if c.Collaborator.Timeout > 0 {
		cfg.Collaborator.Timeout = c.Collaborator.Timeout
	}
	return cfg
}
