// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Command server runs the Recommendarr HTTP API.
//
// Startup proceeds in dependency order:
//
//  1. Load and validate configuration (file + environment).
//  2. Initialize structured logging.
//  3. Open the embedded profile store (BadgerDB).
//  4. Construct the auth manager, LLM client, and recommendation engine.
//  5. Construct Sonarr/Radarr library clients and watch-history sources
//     for every integration enabled in the configuration.
//  6. Build the HTTP handler, middleware stack, and router.
//  7. Assemble the supervisor tree and serve until SIGINT/SIGTERM.
//
// Long-running work (the HTTP listener, the periodic library refresh,
// and BadgerDB value-log GC) runs as supervised services so a crashing
// component is restarted with backoff instead of taking the process
// down.
package main
