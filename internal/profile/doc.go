// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package profile persists per-user taste profiles in BadgerDB: the
// media-server library snapshot, liked and disliked titles, and the
// rolling list of previously recommended titles.
//
// Each list is keyed by user and media type so TV and movie profiles
// never bleed into each other. The previously-recommended list is
// capped; once full, the oldest entries are dropped first so long-lived
// users keep getting fresh suggestions without unbounded growth.
package profile
