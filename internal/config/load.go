// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recommendarr/config.yaml",
	"/etc/recommendarr/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the application configuration from layered sources:
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
//
// The result is validated before being returned; an invalid
// configuration is an error, not a warning.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// SONARR_API_KEY -> sonarr.api_key, LLM_MODEL -> llm.model, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; known slice fields are comma-separated.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when
// running on defaults and environment alone.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice from the YAML layer.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are dropped so unrelated environment noise
// never leaks into the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_read_timeout":     "server.read_timeout",
		"http_write_timeout":    "server.write_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",
		"cors_origins":          "server.cors_origins",
		"rate_limit_requests":   "server.rate_limit",
		"rate_limit_window":     "server.rate_limit_window",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Auth mappings
		"auth_mode":      "auth.mode",
		"jwt_secret":     "auth.jwt_secret",
		"admin_username": "auth.admin_username",
		"admin_password": "auth.admin_password",
		"session_ttl":    "auth.session_ttl",

		// Database mappings
		"database_path": "database.path",

		// LLM mappings
		"llm_endpoint":            "llm.endpoint",
		"llm_api_key":             "llm.api_key",
		"llm_model":               "llm.model",
		"llm_temperature":         "llm.temperature",
		"llm_max_tokens":          "llm.max_tokens",
		"llm_timeout":             "llm.timeout",
		"llm_structured_output":   "llm.structured_output",
		"llm_requests_per_minute": "llm.requests_per_minute",

		// Recommendation pipeline mappings
		"recommend_prompt_style":       "recommend.prompt_style",
		"recommend_sampling_enabled":   "recommend.sampling_enabled",
		"recommend_sample_size":        "recommend.sample_size",
		"recommend_history_only":       "recommend.history_only",
		"recommend_custom_prompt_only": "recommend.custom_prompt_only",
		"recommend_genre":              "recommend.genre",
		"recommend_custom_vibe":        "recommend.custom_vibe",
		"recommend_language":           "recommend.language",

		// Sonarr mappings
		"sonarr_enabled": "sonarr.enabled",
		"sonarr_url":     "sonarr.url",
		"sonarr_api_key": "sonarr.api_key",

		// Radarr mappings
		"radarr_enabled": "radarr.enabled",
		"radarr_url":     "radarr.url",
		"radarr_api_key": "radarr.api_key",

		// Tautulli mappings
		"tautulli_enabled": "tautulli.enabled",
		"tautulli_url":     "tautulli.url",
		"tautulli_api_key": "tautulli.api_key",

		// Plex mappings
		"plex_enabled": "plex.enabled",
		"plex_url":     "plex.url",
		"plex_token":   "plex.token",

		// Jellyfin mappings
		"jellyfin_enabled": "jellyfin.enabled",
		"jellyfin_url":     "jellyfin.url",
		"jellyfin_api_key": "jellyfin.api_key",
		"jellyfin_user_id": "jellyfin.user_id",

		// Trakt mappings
		"trakt_enabled":      "trakt.enabled",
		"trakt_client_id":    "trakt.client_id",
		"trakt_access_token": "trakt.access_token",

		// Refresh mappings
		"refresh_enabled":  "refresh.enabled",
		"refresh_interval": "refresh.interval",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
