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

// JellyfinSource reads played items from a Jellyfin server, scoped to
// the configured user.
type JellyfinSource struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

// NewJellyfin creates a Jellyfin history source.
func NewJellyfin(cfg *config.JellyfinConfig) *JellyfinSource {
	return &JellyfinSource{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		userID:  cfg.UserID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *JellyfinSource) Name() string { return "jellyfin" }

// RecentTitles returns recently played titles, most recent first.
// Episodes collapse to their series name.
func (s *JellyfinSource) RecentTitles(ctx context.Context, mediaType recommend.MediaType, limit int) ([]string, error) {
	itemTypes := "Movie"
	if mediaType == recommend.MediaTypeTV {
		itemTypes = "Episode"
	}

	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("Filters", "IsPlayed")
	params.Set("IncludeItemTypes", itemTypes)
	params.Set("SortBy", "DatePlayed")
	params.Set("SortOrder", "Descending")
	params.Set("Limit", strconv.Itoa(limit))

	reqURL := s.baseURL + "/Users/" + url.PathEscape(s.userID) + "/Items?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", `MediaBrowser Token="`+s.apiKey+`"`)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jellyfin history request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("jellyfin history returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("jellyfin history returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Items []struct {
			Name       string `json:"Name"`
			SeriesName string `json:"SeriesName"`
		} `json:"Items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin history: %w", err)
	}

	titles := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		title := item.Name
		if mediaType == recommend.MediaTypeTV && item.SeriesName != "" {
			title = item.SeriesName
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}
