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

// PlexSource reads watch history straight from a Plex server's session
// history endpoint.
type PlexSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewPlex creates a Plex history source.
func NewPlex(cfg *config.PlexConfig) *PlexSource {
	return &PlexSource{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *PlexSource) Name() string { return "plex" }

// RecentTitles returns recently watched titles, most recent first.
// Episodes collapse to their series (grandparent) title.
func (s *PlexSource) RecentTitles(ctx context.Context, mediaType recommend.MediaType, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("sort", "viewedAt:desc")
	params.Set("X-Plex-Container-Start", "0")
	params.Set("X-Plex-Container-Size", strconv.Itoa(limit))

	reqURL := s.baseURL + "/status/sessions/history/all?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex history request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("plex history returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("plex history returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		MediaContainer struct {
			Metadata []struct {
				Type             string `json:"type"`
				Title            string `json:"title"`
				GrandparentTitle string `json:"grandparentTitle"`
			} `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode plex history: %w", err)
	}

	wantType := "movie"
	if mediaType == recommend.MediaTypeTV {
		wantType = "episode"
	}

	var titles []string
	for _, entry := range payload.MediaContainer.Metadata {
		if entry.Type != wantType {
			continue
		}
		title := entry.Title
		if entry.Type == "episode" && entry.GrandparentTitle != "" {
			title = entry.GrandparentTitle
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}
