// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package history fetches recent watch history from the supported
// media-server companions (Tautulli, Plex, Jellyfin, Trakt) and reduces
// it to title lists the prompt builder can use as taste context.
//
// Every source implements the same Source interface; Aggregate merges
// whatever sources are enabled, deduplicating while preserving
// most-recently-watched order.
package history
