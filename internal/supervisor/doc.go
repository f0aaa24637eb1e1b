// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package supervisor builds the suture supervision tree for the
// application: a data layer (store maintenance), a sync layer (library
// refresh), and an api layer (the HTTP server). Failure isolation runs
// along those layers - a crashing refresh loop never takes the API
// down, each service restarts under suture's backoff policy.
package supervisor
