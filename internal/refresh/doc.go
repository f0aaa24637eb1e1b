// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package refresh periodically syncs library titles from the connected
// media managers (Sonarr, Radarr) into the shared profile store, so
// recommendation rounds filter against a current library without
// querying the managers on every request.
//
// The service implements suture.Service and is run under the
// application's supervision tree. One failed manager never blocks the
// others; each sync is recorded in metrics per source.
package refresh
