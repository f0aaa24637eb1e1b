// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package arr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// Client provides read access to a Sonarr or Radarr server.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	titlesPath string
	mediaType  recommend.MediaType
	httpClient *http.Client
}

// NewSonarr creates a client for a Sonarr (TV) server.
func NewSonarr(cfg *config.ArrConfig) *Client {
	return newClient("sonarr", cfg, "/api/v3/series", recommend.MediaTypeTV)
}

// NewRadarr creates a client for a Radarr (movie) server.
func NewRadarr(cfg *config.ArrConfig) *Client {
	return newClient("radarr", cfg, "/api/v3/movie", recommend.MediaTypeMovie)
}

func newClient(name string, cfg *config.ArrConfig, titlesPath string, mediaType recommend.MediaType) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		titlesPath: titlesPath,
		mediaType:  mediaType,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name identifies the server kind ("sonarr" or "radarr") in logs and
// metrics.
func (c *Client) Name() string {
	return c.name
}

// MediaType returns the media type this server's library holds.
func (c *Client) MediaType() recommend.MediaType {
	return c.mediaType
}

// Titles returns every title in the server's library.
func (c *Client) Titles(ctx context.Context) ([]string, error) {
	resp, err := c.doRequest(ctx, c.titlesPath)
	if err != nil {
		return nil, fmt.Errorf("%s library request failed: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s library returned status %d (failed to read body)", c.name, resp.StatusCode)
		}
		return nil, fmt.Errorf("%s library returned status %d: %s", c.name, resp.StatusCode, string(body))
	}

	var items []struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode %s library: %w", c.name, err)
	}

	titles := make([]string, 0, len(items))
	for _, item := range items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	return titles, nil
}

// Ping verifies connectivity and API key validity.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/api/v3/system/status")
	if err != nil {
		return fmt.Errorf("%s ping failed: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s ping returned status %d", c.name, resp.StatusCode)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}
