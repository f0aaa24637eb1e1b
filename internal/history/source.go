// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package history

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/recommendarr/recommendarr/internal/recommend"
)

// Source is one watch-history provider reduced to recent titles,
// most recent first.
type Source interface {
	Name() string
	RecentTitles(ctx context.Context, mediaType recommend.MediaType, limit int) ([]string, error)
}

// Aggregate queries every source and merges the results, deduplicating
// case-insensitively while preserving order. A failing source is logged
// and skipped so one dead integration never blanks the whole history.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Aggregate(ctx context.Context, logger zerolog.Logger, sources []Source, mediaType recommend.MediaType, limit int) []string {
	seen := make(map[string]struct{})
	var merged []string

	for _, src := range sources {
		titles, err := src.RecentTitles(ctx, mediaType, limit)
		if err != nil {
			logger.Warn().Err(err).Str("source", src.Name()).Msg("history source failed, skipping")
			continue
		}

		for _, title := range titles {
			trimmed := strings.TrimSpace(title)
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, trimmed)
		}
	}

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
