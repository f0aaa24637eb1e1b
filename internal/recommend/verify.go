// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"strings"

	"github.com/rs/zerolog"
)

// The verifier is a defense-in-depth pass: the prompt already instructs
// the model not to recommend excluded titles, but compliance is not
// guaranteed. Every candidate is checked against all four exclusion sets
// and dropped on the first fuzzy match.

// Exclusion set names used in drop diagnostics, in priority order.
const (
	setLibrary  = "library"
	setLiked    = "liked"
	setDisliked = "disliked"
	setPrevious = "previously_recommended"
)

// FlattenTitles reduces a loosely-shaped exclusion-set input to a flat
// title list. Accepted shapes: nil, a single string, []string,
// []Recommendation, []any of strings or {title: ...} maps, and a
// {value: [...]} wrapper around any of those. Anything else fails closed
// to an empty list: a malformed exclusion source must weaken filtering,
// never break the round.
func FlattenTitles(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []Recommendation:
		out := make([]string, 0, len(t))
		for _, r := range t {
			if r.Title != "" {
				out = append(out, r.Title)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			switch v := e.(type) {
			case string:
				if v != "" {
					out = append(out, v)
				}
			case map[string]any:
				if title, ok := v["title"].(string); ok && title != "" {
					out = append(out, title)
				}
			}
		}
		return out
	case map[string]any:
		// Reactive-style wrapper exposing a value array.
		if inner, ok := t["value"]; ok {
			return FlattenTitles(inner)
		}
		return nil
	default:
		return nil
	}
}

// VerifyRecommendations filters candidates against the four exclusion
// sets in priority order: library, liked, disliked, previous. A dropped
// candidate is logged with the set that matched; the rest of the list is
// still processed. Candidates with empty titles are dropped
// unconditionally. Survivors keep their original order.
//
// onDrop, when non-nil, observes each rejected candidate with the
// reason ("empty_title" or the exclusion set name).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func VerifyRecommendations(logger zerolog.Logger, onDrop func(reason string), candidates []Recommendation, library, liked, disliked, previous any) []Recommendation {
	sets := []struct {
		name   string
		titles []string
	}{
		{setLibrary, FlattenTitles(library)},
		{setLiked, FlattenTitles(liked)},
		{setDisliked, FlattenTitles(disliked)},
		{setPrevious, FlattenTitles(previous)},
	}

	verified := make([]Recommendation, 0, len(candidates))

candidates:
	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == "" {
			logger.Debug().Msg("dropped recommendation with empty title")
			if onDrop != nil {
				onDrop("empty_title")
			}
			continue
		}

		for _, set := range sets {
			for _, excluded := range set.titles {
				if Similar(c.Title, excluded) {
					logger.Debug().
						Str("title", c.Title).
						Str("matched", excluded).
						Str("set", set.name).
						Msg("dropped excluded recommendation")
					if onDrop != nil {
						onDrop(set.name)
					}
					continue candidates
				}
			}
		}

		verified = append(verified, c)
	}

	return verified
}
