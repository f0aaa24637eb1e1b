// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// GCStore is the store maintenance surface. Satisfied by profile.Store.
type GCStore interface {
	RunGC() error
}

// GCService runs periodic badger value-log garbage collection. Badger
// does not reclaim value-log space on its own; without this loop a
// long-running store grows unbounded.
type GCService struct {
	store    GCStore
	interval time.Duration
	logger   zerolog.Logger
}

// NewGCService creates the store GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGCService(store GCStore, interval time.Duration, logger zerolog.Logger) *GCService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &GCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "store-gc").Logger(),
	}
}

// Serve implements suture.Service. One pass per interval; a pass that
// rewrote a log file is immediately followed by another, since badger
// collects at most one file per call.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				err := g.store.RunGC()
				if err == nil {
					g.logger.Debug().Msg("value-log file collected")
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					g.logger.Warn().Err(err).Msg("value-log gc failed")
				}
				break
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in event logs.
func (g *GCService) String() string {
	return "store-gc"
}
