// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recommendarr/recommendarr/internal/api"
	"github.com/recommendarr/recommendarr/internal/arr"
	"github.com/recommendarr/recommendarr/internal/auth"
	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/history"
	"github.com/recommendarr/recommendarr/internal/llm"
	"github.com/recommendarr/recommendarr/internal/logging"
	"github.com/recommendarr/recommendarr/internal/metrics"
	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
	"github.com/recommendarr/recommendarr/internal/refresh"
	"github.com/recommendarr/recommendarr/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("auth_mode", cfg.Auth.Mode).
		Msg("Starting Recommendarr")

	// === DATA LAYER ===

	store, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()

	// === AUTH ===

	authManager, err := auth.NewManager(&cfg.Auth, store.DB(), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize auth manager")
	}
	if !authManager.Enabled() {
		logging.Warn().Msg("================================================================")
		logging.Warn().Msg("SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("Every request is treated as the local user. Do NOT expose this")
		logging.Warn().Msg("instance to untrusted networks without a reverse proxy in front.")
		logging.Warn().Msg("================================================================")
	}

	// === RECOMMENDATION PIPELINE ===

	llmClient := llm.NewClient(&cfg.LLM, logger)

	engineCfg := recommend.DefaultConfig()
	engineCfg.MaxTokens = cfg.LLM.MaxTokens
	engineCfg.Temperature = cfg.LLM.Temperature
	engineCfg.StructuredOutput = cfg.LLM.StructuredOutput
	engineCfg.SamplingEnabled = cfg.Recommend.SamplingEnabled
	engineCfg.SampleSize = cfg.Recommend.SampleSize
	engineCfg.OnDrop = func(mt recommend.MediaType, reason string) {
		metrics.RecordRecommendationDrop(string(mt), reason)
	}

	engine, err := recommend.NewEngine(engineCfg, llmClient, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	// === INTEGRATIONS ===

	libraries := buildLibraryClients(cfg)
	sources := buildHistorySources(cfg)

	// === HTTP LAYER ===

	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimit,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	})
	handler := api.NewHandler(cfg, engine, store, sources, apiLibraries(libraries), authManager, logger)
	handler.ConfigureLLMStatus(llmClient)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(logger), treeCfg)

	// Value-log GC only applies to on-disk stores; the in-memory mode
	// has no value log to compact.
	if cfg.Database.Path != "" {
		tree.AddDataService(supervisor.NewGCService(store, time.Hour, logger))
	}

	if cfg.Refresh.Enabled && len(libraries) > 0 {
		tree.AddSyncService(refresh.New(cfg.Refresh.Interval, refreshLibraries(libraries), store, logger))
		logging.Info().Dur("interval", cfg.Refresh.Interval).Msg("Library refresh service added")
	}

	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Recommendarr stopped gracefully")
}

// openStore opens the profile store at the configured path, or an
// in-memory store when no path is set.
func openStore(cfg *config.Config) (*profile.Store, error) {
	if cfg.Database.Path == "" {
		logging.Warn().Msg("No database path configured, profiles will not survive restarts")
		return profile.OpenInMemory()
	}
	return profile.Open(cfg.Database.Path)
}

// buildLibraryClients constructs a client for every enabled *arr
// integration.
func buildLibraryClients(cfg *config.Config) []*arr.Client {
	var clients []*arr.Client
	if cfg.Sonarr.Enabled {
		clients = append(clients, arr.NewSonarr(&cfg.Sonarr))
		logging.Info().Str("url", cfg.Sonarr.URL).Msg("Sonarr library client configured")
	}
	if cfg.Radarr.Enabled {
		clients = append(clients, arr.NewRadarr(&cfg.Radarr))
		logging.Info().Str("url", cfg.Radarr.URL).Msg("Radarr library client configured")
	}
	if len(clients) == 0 {
		logging.Warn().Msg("No library sources configured, recommendations cannot exclude owned titles")
	}
	return clients
}

// buildHistorySources constructs a watch-history source for every
// enabled integration. Order determines aggregation priority.
func buildHistorySources(cfg *config.Config) []history.Source {
	var sources []history.Source
	if cfg.Tautulli.Enabled {
		sources = append(sources, history.NewTautulli(&cfg.Tautulli))
		logging.Info().Str("url", cfg.Tautulli.URL).Msg("Tautulli history source configured")
	}
	if cfg.Plex.Enabled {
		sources = append(sources, history.NewPlex(&cfg.Plex))
		logging.Info().Str("url", cfg.Plex.URL).Msg("Plex history source configured")
	}
	if cfg.Jellyfin.Enabled {
		sources = append(sources, history.NewJellyfin(&cfg.Jellyfin))
		logging.Info().Str("url", cfg.Jellyfin.URL).Msg("Jellyfin history source configured")
	}
	if cfg.Trakt.Enabled {
		sources = append(sources, history.NewTrakt(&cfg.Trakt))
		logging.Info().Msg("Trakt history source configured")
	}
	return sources
}

func apiLibraries(clients []*arr.Client) []api.LibraryClient {
	out := make([]api.LibraryClient, len(clients))
	for i, c := range clients {
		out[i] = c
	}
	return out
}

func refreshLibraries(clients []*arr.Client) []refresh.LibraryClient {
	out := make([]refresh.LibraryClient, len(clients))
	for i, c := range clients {
		out[i] = c
	}
	return out
}
