// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

func TestSettingsRoundTrip(t *testing.T) {
	ts := newTestServer(t, &stubRecommender{})

	// A user with nothing saved gets an empty object.
	resp, env := doJSON(t, http.MethodGet, ts.server.URL+"/api/v1/settings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET settings status = %d, want 200", resp.StatusCode)
	}
	var got profile.Settings
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.PromptStyle != nil {
		t.Errorf("PromptStyle = %q, want unset", *got.PromptStyle)
	}

	resp, _ = doJSON(t, http.MethodPut, ts.server.URL+"/api/v1/settings", map[string]any{
		"prompt_style": "creative",
		"genre":        "sci-fi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT settings status = %d, want 200", resp.StatusCode)
	}

	// A partial update keeps earlier fields.
	resp, env = doJSON(t, http.MethodPut, ts.server.URL+"/api/v1/settings", map[string]any{
		"language": "korean",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT settings status = %d, want 200", resp.StatusCode)
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.PromptStyle == nil || *got.PromptStyle != "creative" {
		t.Errorf("PromptStyle = %v, want creative", got.PromptStyle)
	}
	if got.Genre == nil || *got.Genre != "sci-fi" {
		t.Errorf("Genre = %v, want sci-fi", got.Genre)
	}
	if got.Language == nil || *got.Language != "korean" {
		t.Errorf("Language = %v, want korean", got.Language)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.server.URL+"/api/v1/settings", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE settings status = %d, want 204", resp.StatusCode)
	}

	_, env = doJSON(t, http.MethodGet, ts.server.URL+"/api/v1/settings", nil)
	got = profile.Settings{}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.PromptStyle != nil || got.Genre != nil || got.Language != nil {
		t.Errorf("settings after delete = %+v, want empty", got)
	}
}

func TestSettingsRejectsInvalidPromptStyle(t *testing.T) {
	ts := newTestServer(t, &stubRecommender{})

	resp, env := doJSON(t, http.MethodPut, ts.server.URL+"/api/v1/settings", map[string]any{
		"prompt_style": "dramatic",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != ErrCodeBadRequest {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeBadRequest)
	}
}

func TestRecommendUsesSavedSettings(t *testing.T) {
	engine := &stubRecommender{recs: []recommend.Recommendation{{Title: "Dark"}}}
	ts := newTestServer(t, engine)

	style := "analytical"
	genre := "mystery"
	samplingOff := false
	if _, err := ts.profiles.SaveSettings(context.Background(), localUser, &profile.Settings{
		PromptStyle:     &style,
		Genre:           &genre,
		SamplingEnabled: &samplingOff,
	}); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	// Saved settings beat the configured defaults.
	resp, _ := doJSON(t, http.MethodPost, ts.server.URL+"/api/v1/recommendations/tv", map[string]any{"count": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if engine.lastReq.Style != recommend.StyleAnalytical {
		t.Errorf("Style = %q, want analytical", engine.lastReq.Style)
	}
	if engine.lastReq.Genre != "mystery" {
		t.Errorf("Genre = %q, want mystery", engine.lastReq.Genre)
	}
	if engine.lastReq.Sampling == nil || *engine.lastReq.Sampling {
		t.Errorf("Sampling = %v, want disabled per saved settings", engine.lastReq.Sampling)
	}

	// The request body beats saved settings.
	resp, _ = doJSON(t, http.MethodPost, ts.server.URL+"/api/v1/recommendations/tv", map[string]any{
		"count":            3,
		"genre":            "comedy",
		"style":            "vibe",
		"sampling_enabled": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if engine.lastReq.Style != recommend.StyleVibe {
		t.Errorf("Style = %q, want vibe", engine.lastReq.Style)
	}
	if engine.lastReq.Genre != "comedy" {
		t.Errorf("Genre = %q, want comedy", engine.lastReq.Genre)
	}
	if engine.lastReq.Sampling == nil || !*engine.lastReq.Sampling {
		t.Errorf("Sampling = %v, want enabled per request body", engine.lastReq.Sampling)
	}
}

type stubBreaker struct{ state string }

func (s stubBreaker) BreakerState() string { return s.state }

func TestHealthReportsBreakerState(t *testing.T) {
	ts := newTestServer(t, &stubRecommender{}, func(h *Handler) {
		h.ConfigureLLMStatus(stubBreaker{state: "open"})
	})

	resp, env := doJSON(t, http.MethodGet, ts.server.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("status = %q, want degraded", health.Status)
	}
	if health.Services["llm"] != "open" {
		t.Errorf("services[llm] = %q, want open", health.Services["llm"])
	}
	if health.Services["store"] != "ok" {
		t.Errorf("services[store] = %q, want ok", health.Services["store"])
	}
}
