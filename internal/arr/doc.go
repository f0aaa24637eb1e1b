// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package arr provides Sonarr and Radarr API clients. Recommendarr only
// needs one thing from them: the list of titles already in the library,
// which feeds the library snapshot used to verify recommendations.
//
// Both servers expose the same v3 API shape with different resource
// names (/api/v3/series vs /api/v3/movie), so a single client type
// covers both.
package arr
