// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/metrics"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// List names the profile lists a user carries per media type.
type List string

const (
	ListLibrary  List = "library"
	ListLiked    List = "liked"
	ListDisliked List = "disliked"
	ListPrevious List = "previous"
)

// LibraryOwner is the fixed owner key for server-wide lists. Library
// titles come from the connected media managers and are shared by every
// user; preference and previously-recommended lists stay per-user.
const LibraryOwner = "_library"

// maxPreviousTitles caps the previously-recommended list. Oldest
// entries are evicted first once the cap is reached.
const maxPreviousTitles = 500

const profileKeyPrefix = "profile:"

// Store is the BadgerDB-backed profile store. Safe for concurrent use;
// badger transactions provide the isolation.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a persistent store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open profile store at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Used by tests and deployments
// that opt out of persistence.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory profile store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying database so other components (session
// storage) can share the single badger instance.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Ping verifies the database is open and readable.
func (s *Store) Ping() error {
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// RunGC runs one value-log garbage collection pass. Badger returns
// ErrNoRewrite when nothing needed collecting, which callers should
// treat as a clean no-op.
func (s *Store) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}

func listKey(user string, mediaType recommend.MediaType, list List) []byte {
	return []byte(profileKeyPrefix + user + ":" + string(mediaType) + ":" + string(list))
}

// Titles returns one profile list. A missing key is an empty list, not
// an error.
func (s *Store) Titles(ctx context.Context, user string, mediaType recommend.MediaType, list List) ([]string, error) {
	var titles []string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(listKey(user, mediaType, list))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s list: %w", list, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &titles)
		})
	})

	metrics.RecordProfileOperation("get", err)
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Replace overwrites one profile list wholesale. Used by the library
// refresh and by the preference endpoints when the client sends the
// full list.
func (s *Store) Replace(ctx context.Context, user string, mediaType recommend.MediaType, list List, titles []string) error {
	titles = dedupe(titles)
	if list == ListPrevious && len(titles) > maxPreviousTitles {
		titles = titles[len(titles)-maxPreviousTitles:]
	}

	data, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("marshal %s list: %w", list, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(listKey(user, mediaType, list), data)
	})

	metrics.RecordProfileOperation("put", err)
	if err != nil {
		return err
	}
	metrics.ProfileStoreEntries.WithLabelValues(string(list)).Set(float64(len(titles)))
	return nil
}

// Add appends titles to a list, skipping duplicates (case-insensitive).
// Returns the resulting list.
func (s *Store) Add(ctx context.Context, user string, mediaType recommend.MediaType, list List, titles ...string) ([]string, error) {
	var result []string

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readList(txn, user, mediaType, list)
		if err != nil {
			return err
		}

		result = appendUnique(existing, titles)
		if list == ListPrevious && len(result) > maxPreviousTitles {
			result = result[len(result)-maxPreviousTitles:]
		}

		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal %s list: %w", list, err)
		}
		return txn.Set(listKey(user, mediaType, list), data)
	})

	metrics.RecordProfileOperation("put", err)
	if err != nil {
		return nil, err
	}
	metrics.ProfileStoreEntries.WithLabelValues(string(list)).Set(float64(len(result)))
	return result, nil
}

// Remove deletes titles from a list (case-insensitive match). Returns
// the resulting list.
func (s *Store) Remove(ctx context.Context, user string, mediaType recommend.MediaType, list List, titles ...string) ([]string, error) {
	drop := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		drop[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	var result []string

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readList(txn, user, mediaType, list)
		if err != nil {
			return err
		}

		result = make([]string, 0, len(existing))
		for _, t := range existing {
			if _, gone := drop[strings.ToLower(strings.TrimSpace(t))]; !gone {
				result = append(result, t)
			}
		}

		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal %s list: %w", list, err)
		}
		return txn.Set(listKey(user, mediaType, list), data)
	})

	metrics.RecordProfileOperation("put", err)
	if err != nil {
		return nil, err
	}
	metrics.ProfileStoreEntries.WithLabelValues(string(list)).Set(float64(len(result)))
	return result, nil
}

// Clear empties one profile list.
func (s *Store) Clear(ctx context.Context, user string, mediaType recommend.MediaType, list List) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(listKey(user, mediaType, list))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})

	metrics.RecordProfileOperation("delete", err)
	if err != nil {
		return err
	}
	metrics.ProfileStoreEntries.WithLabelValues(string(list)).Set(0)
	return nil
}

// Profile is a user's full exclusion state for one media type, shaped
// for handing straight to the recommendation engine.
type Profile struct {
	Library  []string
	Liked    []string
	Disliked []string
	Previous []string
}

// Load reads all four lists for one user and media type.
func (s *Store) Load(ctx context.Context, user string, mediaType recommend.MediaType) (*Profile, error) {
	p := &Profile{}

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if p.Library, err = readList(txn, user, mediaType, ListLibrary); err != nil {
			return err
		}
		if p.Liked, err = readList(txn, user, mediaType, ListLiked); err != nil {
			return err
		}
		if p.Disliked, err = readList(txn, user, mediaType, ListDisliked); err != nil {
			return err
		}
		p.Previous, err = readList(txn, user, mediaType, ListPrevious)
		return err
	})

	metrics.RecordProfileOperation("get", err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func readList(txn *badger.Txn, user string, mediaType recommend.MediaType, list List) ([]string, error) {
	item, err := txn.Get(listKey(user, mediaType, list))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s list: %w", list, err)
	}

	var titles []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &titles)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s list: %w", list, err)
	}
	return titles, nil
}

// appendUnique appends additions that are not already present,
// comparing case-insensitively and preserving original casing.
func appendUnique(existing, additions []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	result := existing
	for _, t := range additions {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

func dedupe(titles []string) []string {
	return appendUnique(nil, titles)
}
