// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/metrics"
)

const settingsKeyPrefix = "settings:"

// Settings are a user's saved recommendation defaults. All fields are
// pointers so a saved value is distinguishable from "never set"; unset
// fields fall back to the server configuration.
type Settings struct {
	PromptStyle      *string `json:"prompt_style,omitempty"`
	SamplingEnabled  *bool   `json:"sampling_enabled,omitempty"`
	HistoryOnly      *bool   `json:"history_only,omitempty"`
	CustomPromptOnly *bool   `json:"custom_prompt_only,omitempty"`
	Genre            *string `json:"genre,omitempty"`
	CustomVibe       *string `json:"custom_vibe,omitempty"`
	Language         *string `json:"language,omitempty"`
}

func settingsKey(user string) []byte {
	return []byte(settingsKeyPrefix + user)
}

// Settings returns a user's saved defaults. A user that never saved any
// gets the zero value, not an error.
func (s *Store) Settings(ctx context.Context, user string) (*Settings, error) {
	settings := &Settings{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(settingsKey(user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, settings)
		})
	})

	metrics.RecordProfileOperation("get", err)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings merges the given fields into the user's saved defaults.
// Only non-nil fields are written; existing values for omitted fields
// are kept.
func (s *Store) SaveSettings(ctx context.Context, user string, update *Settings) (*Settings, error) {
	merged := &Settings{}

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(settingsKey(user))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get settings: %w", err)
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, merged)
			}); err != nil {
				return fmt.Errorf("unmarshal settings: %w", err)
			}
		}

		mergeSettings(merged, update)

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		return txn.Set(settingsKey(user), data)
	})

	metrics.RecordProfileOperation("put", err)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// ClearSettings drops a user's saved defaults entirely.
func (s *Store) ClearSettings(ctx context.Context, user string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(settingsKey(user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})

	metrics.RecordProfileOperation("delete", err)
	return err
}

func mergeSettings(dst, src *Settings) {
	if src == nil {
		return
	}
	if src.PromptStyle != nil {
		dst.PromptStyle = src.PromptStyle
	}
	if src.SamplingEnabled != nil {
		dst.SamplingEnabled = src.SamplingEnabled
	}
	if src.HistoryOnly != nil {
		dst.HistoryOnly = src.HistoryOnly
	}
	if src.CustomPromptOnly != nil {
		dst.CustomPromptOnly = src.CustomPromptOnly
	}
	if src.Genre != nil {
		dst.Genre = src.Genre
	}
	if src.CustomVibe != nil {
		dst.CustomVibe = src.CustomVibe
	}
	if src.Language != nil {
		dst.Language = src.Language
	}
}
