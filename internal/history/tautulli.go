// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package history

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// TautulliSource reads playback history from Tautulli's get_history
// command.
type TautulliSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTautulli creates a Tautulli history source.
func NewTautulli(cfg *config.HistoryConfig) *TautulliSource {
	return &TautulliSource{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *TautulliSource) Name() string { return "tautulli" }

// RecentTitles returns recently watched titles, most recent first.
// Episodes collapse to their series title.
func (s *TautulliSource) RecentTitles(ctx context.Context, mediaType recommend.MediaType, limit int) ([]string, error) {
	tautulliType := "movie"
	if mediaType == recommend.MediaTypeTV {
		tautulliType = "episode"
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("cmd", "get_history")
	params.Set("media_type", tautulliType)
	params.Set("length", strconv.Itoa(limit))

	reqURL := s.baseURL + "/api/v2?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tautulli history request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("tautulli history returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("tautulli history returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Response struct {
			Result string `json:"result"`
			Data   struct {
				Data []struct {
					Title            string `json:"title"`
					GrandparentTitle string `json:"grandparent_title"`
					MediaType        string `json:"media_type"`
				} `json:"data"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tautulli history: %w", err)
	}
	if payload.Response.Result != "success" {
		return nil, fmt.Errorf("tautulli history returned result %q", payload.Response.Result)
	}

	titles := make([]string, 0, len(payload.Response.Data.Data))
	for _, entry := range payload.Response.Data.Data {
		title := entry.Title
		if entry.MediaType == "episode" && entry.GrandparentTitle != "" {
			title = entry.GrandparentTitle
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}
