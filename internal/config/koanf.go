// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no explicit config path
// is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/roomrec/config.yaml",
	"/etc/roomrec/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "ROOMREC_CONFIG"

// Load builds the configuration from three layers, later layers taking
// precedence: struct defaults, an optional YAML file, and environment
// variables. An empty path triggers the default file search; a missing
// file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "json"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("ROOMREC_", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing default config path, or
// empty string when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// envMappings maps ROOMREC_-prefixed environment variable suffixes to
// config paths. Underscores appear both inside field names and as
// section separators, so the mapping is explicit rather than derived.
var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"collaborator_enabled":             "collaborator.enabled",
	"collaborator_endpoint":            "collaborator.endpoint",
	"collaborator_api_key":             "collaborator.api_key",
	"collaborator_timeout":             "collaborator.timeout",
	"collaborator_requests_per_second": "collaborator.requests_per_second",
	"collaborator_failure_threshold":   "collaborator.failure_threshold",
	"collaborator_cooldown_period":     "collaborator.cooldown_period",

	"history_enabled":  "history.enabled",
	"history_path":     "history.path",
	"history_ttl":      "history.ttl",
	"history_property": "history.property",

	"option_count":    "engine.flows.option_count",
	"optimizer_top_k": "engine.optimizer.top_k",
	"max_slots":       "engine.partition.max_slots",
	"ai_blend_weight": "engine.scoring.ai_blend_weight",
}

// envTransformFunc resolves an environment variable name, already
// stripped of the ROOMREC_ prefix, to its config path. Unknown
// variables are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "ROOMREC_"))
	return envMappings[key]
}
