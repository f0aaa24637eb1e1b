// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// LLM Transport Metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of chat-completion requests",
		},
		[]string{"model", "result"}, // result: "success", "error", "rejected"
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Chat-completion round-trip duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"model"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_used_total",
			Help: "Total tokens reported by the LLM provider",
		},
		[]string{"model", "kind"}, // kind: "prompt", "completion"
	)

	// Recommendation Pipeline Metrics
	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total recommendations returned after verification",
		},
		[]string{"media_type"},
	)

	RecommendationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_dropped_total",
			Help: "Total candidate recommendations dropped by verification",
		},
		[]string{"media_type", "reason"}, // reason: "library", "liked", "disliked", "previously_recommended", "empty_title"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_pipeline_duration_seconds",
			Help:    "End-to-end recommendation round duration in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"media_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Profile Store Metrics
	ProfileStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_operations_total",
			Help: "Total profile store operations",
		},
		[]string{"operation", "result"}, // operation: "get", "put", "delete"
	)

	ProfileStoreEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "profile_store_entries",
			Help: "Current number of titles per profile list",
		},
		[]string{"list"}, // "library", "liked", "disliked", "previous"
	)

	// Library Refresh Metrics
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_refresh_duration_seconds",
			Help:    "Duration of library refresh runs in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"source"}, // "sonarr", "radarr", "tautulli", "plex", "jellyfin", "trakt"
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_refresh_errors_total",
			Help: "Total number of library refresh errors",
		},
		[]string{"source"},
	)

	RefreshLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "library_refresh_last_success_timestamp",
			Help: "Unix timestamp of last successful refresh per source",
		},
		[]string{"source"},
	)

	RefreshTitlesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_refresh_titles_fetched_total",
			Help: "Total titles fetched by library refresh runs",
		},
		[]string{"source"},
	)

	// Auth Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	AuthActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_active_sessions",
			Help: "Current number of active sessions",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLLMRequest records the outcome of a chat-completion call.
func RecordLLMRequest(model, result string, duration time.Duration) {
	LLMRequestsTotal.WithLabelValues(model, result).Inc()
	LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordLLMTokens records provider-reported token usage.
func RecordLLMTokens(model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// RecordRecommendationRound records the result of one pipeline round.
func RecordRecommendationRound(mediaType string, kept int, duration time.Duration) {
	RecommendationsGenerated.WithLabelValues(mediaType).Add(float64(kept))
	RecommendationDuration.WithLabelValues(mediaType).Observe(duration.Seconds())
}

// RecordRecommendationDrop records a candidate rejected during verification.
func RecordRecommendationDrop(mediaType, reason string) {
	RecommendationsDropped.WithLabelValues(mediaType, reason).Inc()
}

// RecordProfileOperation records a profile store operation.
func RecordProfileOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProfileStoreOperations.WithLabelValues(operation, result).Inc()
}

// RecordRefresh records a library refresh run for one source.
func RecordRefresh(source string, fetched int, duration time.Duration, err error) {
	RefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		RefreshErrors.WithLabelValues(source).Inc()
		return
	}
	RefreshTitlesFetched.WithLabelValues(source).Add(float64(fetched))
	RefreshLastSuccess.WithLabelValues(source).Set(float64(time.Now().Unix()))
}

// RecordAuthAttempt records a login attempt.
func RecordAuthAttempt(success bool) {
	if success {
		AuthAttempts.WithLabelValues("success").Inc()
	} else {
		AuthAttempts.WithLabelValues("failure").Inc()
	}
}
