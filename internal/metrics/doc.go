// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package metrics provides Prometheus instrumentation for the HTTP API,
// the LLM transport, the recommendation pipeline, and the background
// library refresh.
//
// All collectors are registered on the default registry via promauto
// and exposed at /metrics by the API server. Helper functions wrap the
// common record patterns so call sites stay one-liners.
package metrics
