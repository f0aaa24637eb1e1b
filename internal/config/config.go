// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package config loads and validates application configuration.
//
// Configuration is layered via Koanf v2, highest priority last:
//
//  1. Built-in defaults
//  2. Config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (SERVER_PORT, LLM_API_KEY, ...)
//
// Struct validation runs after loading; the server refuses to start on
// an invalid configuration rather than failing mid-request.
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Auth      AuthConfig      `koanf:"auth"`
	Database  DatabaseConfig  `koanf:"database"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Sonarr    ArrConfig       `koanf:"sonarr"`
	Radarr    ArrConfig       `koanf:"radarr"`
	Tautulli  HistoryConfig   `koanf:"tautulli"`
	Plex      PlexConfig      `koanf:"plex"`
	Jellyfin  JellyfinConfig  `koanf:"jellyfin"`
	Trakt     TraktConfig     `koanf:"trakt"`
	Refresh   RefreshConfig   `koanf:"refresh"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// AuthConfig holds local authentication settings.
type AuthConfig struct {
	// Mode is "jwt" or "none". "none" disables authentication entirely
	// and is intended for development.
	Mode string `koanf:"mode" validate:"oneof=jwt none"`

	// JWTSecret signs access tokens. Required in jwt mode.
	JWTSecret string `koanf:"jwt_secret" validate:"required_if=Mode jwt,omitempty,min=32"`

	// AdminUsername/AdminPassword are the local credentials. The
	// password is bcrypt-hashed at startup and never kept in memory.
	AdminUsername string `koanf:"admin_username" validate:"required_if=Mode jwt"`
	AdminPassword string `koanf:"admin_password" validate:"required_if=Mode jwt,omitempty,min=8"`

	// SessionTTL bounds token and session lifetime.
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// DatabaseConfig holds the embedded profile-store settings.
type DatabaseConfig struct {
	// Path is the BadgerDB directory. Empty selects in-memory mode
	// (tests and ephemeral deployments).
	Path string `koanf:"path"`
}

// LLMConfig holds the chat-completion transport settings.
type LLMConfig struct {
	// Endpoint is the OpenAI-compatible base URL.
	Endpoint string `koanf:"endpoint" validate:"required,url"`

	// APIKey authenticates against the endpoint. Optional: local
	// inference servers commonly run without one.
	APIKey string `koanf:"api_key"`

	// Model is the chat-completion model identifier.
	Model string `koanf:"model" validate:"required"`

	Temperature float32       `koanf:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `koanf:"max_tokens" validate:"min=1"`
	Timeout     time.Duration `koanf:"timeout"`

	// StructuredOutput requests JSON-schema-constrained responses.
	// Disable for endpoints that reject the response_format parameter.
	StructuredOutput bool `koanf:"structured_output"`

	// RequestsPerMinute rate-limits outbound calls. 0 disables.
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"min=0"`
}

// RecommendConfig holds pipeline defaults, overridable per request.
type RecommendConfig struct {
	PromptStyle      string `koanf:"prompt_style" validate:"oneof=vibe analytical creative technical"`
	SamplingEnabled  bool   `koanf:"sampling_enabled"`
	SampleSize       int    `koanf:"sample_size" validate:"min=1"`
	HistoryOnly      bool   `koanf:"history_only"`
	CustomPromptOnly bool   `koanf:"custom_prompt_only"`
	Genre            string `koanf:"genre"`
	CustomVibe       string `koanf:"custom_vibe"`
	Language         string `koanf:"language"`
}

// ArrConfig holds a Sonarr or Radarr connection.
type ArrConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey  string `koanf:"api_key" validate:"required_if=Enabled true"`
}

// HistoryConfig holds a Tautulli connection.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey  string `koanf:"api_key" validate:"required_if=Enabled true"`
}

// PlexConfig holds a direct Plex connection.
type PlexConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url" validate:"required_if=Enabled true,omitempty,url"`
	Token   string `koanf:"token" validate:"required_if=Enabled true"`
}

// JellyfinConfig holds a direct Jellyfin connection.
type JellyfinConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey  string `koanf:"api_key" validate:"required_if=Enabled true"`
	UserID  string `koanf:"user_id"`
}

// TraktConfig holds a Trakt API connection.
type TraktConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ClientID    string `koanf:"client_id" validate:"required_if=Enabled true"`
	AccessToken string `koanf:"access_token" validate:"required_if=Enabled true"`
}

// RefreshConfig holds the background library-refresh settings.
type RefreshConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// defaultConfig returns a Config with all defaults applied. File and
// environment layers override these.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3579,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute, // LLM round-trips are slow
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{},
			RateLimit:       100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			Mode:       "jwt",
			SessionTTL: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Path: "/data/recommendarr",
		},
		LLM: LLMConfig{
			Endpoint:          "https://api.openai.com/v1",
			Model:             "",
			Temperature:       0.8,
			MaxTokens:         4000,
			Timeout:           5 * time.Minute,
			StructuredOutput:  true,
			RequestsPerMinute: 0,
		},
		Recommend: RecommendConfig{
			PromptStyle:     "vibe",
			SamplingEnabled: true,
			SampleSize:      100,
		},
		Refresh: RefreshConfig{
			Enabled:  true,
			Interval: 12 * time.Hour,
		},
	}
}
