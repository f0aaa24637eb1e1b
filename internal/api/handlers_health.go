// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"net/http"
	"time"
)

// healthResponse is the GET /api/v1/health payload.
type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, healthResponse{Status: "ok", Timestamp: time.Now()})
}

// Health reports overall health: configured media-manager connections
// and the LLM circuit-breaker state. A degraded dependency does not
// fail the endpoint; its state is reported per service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	services := make(map[string]string, len(h.libraries)+2)

	if err := h.profiles.Ping(); err != nil {
		services["store"] = "unreachable"
		status = "degraded"
		h.logger.Error().Err(err).Msg("Profile store health check failed")
	} else {
		services["store"] = "ok"
	}

	for _, lib := range h.libraries {
		if err := lib.Ping(r.Context()); err != nil {
			services[lib.Name()] = "unreachable"
			status = "degraded"
			h.logger.Warn().Err(err).Str("service", lib.Name()).Msg("Health check failed")
			continue
		}
		services[lib.Name()] = "ok"
	}

	if h.llmStatus != nil {
		state := h.llmStatus.BreakerState()
		services["llm"] = state
		if state == "open" {
			status = "degraded"
		}
	}

	WriteSuccess(w, r, healthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	})
}
