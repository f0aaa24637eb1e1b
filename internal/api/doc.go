// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package api provides the HTTP surface: a Chi router, standardized
// JSON response envelopes, and the middleware stack (request IDs,
// request logging, CORS, rate limiting, bearer-token authentication).
//
// Handlers are thin: they decode and validate the request, assemble a
// recommendation round from the profile store and history sources, and
// delegate to the recommendation engine. Conversations are kept
// in-process per user and media type so follow-up rounds reuse the
// model's own context.
package api
