// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/recommendarr/recommendarr/internal/metrics"
	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// defaultInterval is used when the configured interval is missing.
const defaultInterval = 12 * time.Hour

// LibraryClient is a media-manager connection the service syncs from.
// Satisfied by arr.Client.
type LibraryClient interface {
	Name() string
	MediaType() recommend.MediaType
	Titles(ctx context.Context) ([]string, error)
}

// ListStore is the profile-store surface the service writes to.
type ListStore interface {
	Replace(ctx context.Context, user string, mediaType recommend.MediaType, list profile.List, titles []string) error
}

// Service syncs library titles on a fixed interval. It implements
// suture.Service.
type Service struct {
	interval time.Duration
	clients  []LibraryClient
	store    ListStore
	logger   zerolog.Logger
}

// New creates a refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(interval time.Duration, clients []LibraryClient, store ListStore, logger zerolog.Logger) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		interval: interval,
		clients:  clients,
		store:    store,
		logger:   logger.With().Str("component", "refresh").Logger(),
	}
}

// Serve runs an immediate sync, then one per interval, until the
// context is canceled.
func (s *Service) Serve(ctx context.Context) error {
	s.RefreshAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// RefreshAll syncs every configured manager once. Failures are logged
// and recorded per source; they never abort the other syncs.
func (s *Service) RefreshAll(ctx context.Context) {
	// Titles are grouped per media type so two managers serving the
	// same type (unusual, but allowed) merge instead of clobbering.
	merged := make(map[recommend.MediaType][]string)
	failed := make(map[recommend.MediaType]bool)

	for _, client := range s.clients {
		start := time.Now()
		titles, err := client.Titles(ctx)
		metrics.RecordRefresh(client.Name(), len(titles), time.Since(start), err)

		if err != nil {
			s.logger.Error().Err(err).
				Str("source", client.Name()).
				Msg("library refresh failed")
			failed[client.MediaType()] = true
			continue
		}

		s.logger.Info().
			Str("source", client.Name()).
			Int("titles", len(titles)).
			Dur("elapsed", time.Since(start)).
			Msg("library refresh complete")
		merged[client.MediaType()] = append(merged[client.MediaType()], titles...)
	}

	for mediaType, titles := range merged {
		// A partial fetch must not replace a fuller stored list.
		if failed[mediaType] {
			s.logger.Warn().
				Str("media_type", string(mediaType)).
				Msg("keeping stored library, refresh was partial")
			continue
		}
		if err := s.store.Replace(ctx, profile.LibraryOwner, mediaType, profile.ListLibrary, titles); err != nil {
			s.logger.Error().Err(err).
				Str("media_type", string(mediaType)).
				Msg("failed to store refreshed library")
		}
	}
}

// String implements fmt.Stringer; suture uses it in event logs.
func (s *Service) String() string {
	return fmt.Sprintf("library-refresh(%s)", s.interval)
}
