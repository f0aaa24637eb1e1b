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
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// traktAPIBase is the public Trakt API endpoint.
const traktAPIBase = "https://api.trakt.tv"

// TraktSource reads watch history from the Trakt API using an OAuth
// access token.
type TraktSource struct {
	baseURL     string
	clientID    string
	accessToken string
	httpClient  *http.Client
}

// NewTrakt creates a Trakt history source.
func NewTrakt(cfg *config.TraktConfig) *TraktSource {
	return &TraktSource{
		baseURL:     traktAPIBase,
		clientID:    cfg.ClientID,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *TraktSource) Name() string { return "trakt" }

// RecentTitles returns recently watched titles, most recent first.
func (s *TraktSource) RecentTitles(ctx context.Context, mediaType recommend.MediaType, limit int) ([]string, error) {
	resource := "movies"
	if mediaType == recommend.MediaTypeTV {
		resource = "shows"
	}

	reqURL := s.baseURL + "/users/me/history/" + resource + "?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", s.clientID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trakt history request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("trakt history returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("trakt history returned status %d: %s", resp.StatusCode, string(body))
	}

	var entries []struct {
		Show *struct {
			Title string `json:"title"`
		} `json:"show"`
		Movie *struct {
			Title string `json:"title"`
		} `json:"movie"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode trakt history: %w", err)
	}

	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Show != nil && entry.Show.Title != "":
			titles = append(titles, entry.Show.Title)
		case entry.Movie != nil && entry.Movie.Title != "":
			titles = append(titles, entry.Movie.Title)
		}
	}
	return titles, nil
}
