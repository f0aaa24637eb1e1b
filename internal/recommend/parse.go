// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// The parser tries an ordered list of strategies and the first success
// wins: strict JSON (what the prompt demands), then a legacy free-text
// parser for models that answer in numbered prose anyway. Malformed
// content never produces an error; the parser salvages what it can and
// an empty list is a valid result.

// ParseResponse extracts recommendations from a raw LLM reply.
func ParseResponse(raw string) []Recommendation {
	if recs, ok := parseStructured(raw); ok {
		return recs
	}
	return parseLegacy(raw)
}

// structuredPayload mirrors the JSON schema the prompt demands: one key,
// "recommendations", holding objects with exactly five string fields.
type structuredPayload struct {
	Recommendations []structuredEntry `json:"recommendations"`
}

type structuredEntry struct {
	Title       flexString `json:"title"`
	Description flexString `json:"description"`
	Reasoning   flexString `json:"reasoning"`
	Rating      flexString `json:"rating"`
	Streaming   flexString `json:"streaming"`
}

// flexString tolerates models that emit a bare number where the schema
// demands a string (ratings, most commonly).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

var codeFenceRe = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")

// parseStructured attempts the strict JSON parse. It strips markdown
// code fences, and if the whole string fails to parse it retries on the
// slice between the first '{' and the last '}' to recover from stray
// prefix/suffix prose some models emit.
func parseStructured(raw string) ([]Recommendation, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = codeFenceRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, false
	}

	var payload structuredPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, false
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
			return nil, false
		}
	}

	if payload.Recommendations == nil {
		return nil, false
	}

	recs := make([]Recommendation, 0, len(payload.Recommendations))
	for _, e := range payload.Recommendations {
		title := strings.TrimSpace(string(e.Title))
		if title == "" {
			continue
		}
		description := strings.TrimSpace(string(e.Description))
		reasoning := strings.TrimSpace(string(e.Reasoning))
		rating := strings.TrimSpace(string(e.Rating))
		streaming := strings.TrimSpace(string(e.Streaming))
		recs = append(recs, Recommendation{
			Title:       title,
			Description: description,
			Reasoning:   reasoning,
			Rating:      rating,
			Streaming:   streaming,
			FullText:    renderFullText(title, description, reasoning, rating, streaming),
		})
	}
	return recs, true
}

// Legacy free-text parsing below. Expected input is numbered prose:
//
//	1. Some Title: Description: ... Why you might like it: ...
//	2. Another Title: ...

var (
	listMarkerRe = regexp.MustCompile(`(?m)(?:^|\n)\s*\d+[.)]\s+`)
	preambleRe   = regexp.MustCompile(`(?i)here are .*(recommendation|tv show|movie)`)
	boldRe       = regexp.MustCompile(`\*\*`)
)

// fieldMarkers lists the marker synonyms per field, primary first.
var fieldMarkers = map[string][]string{
	"description": {"description:", "synopsis:", "about:"},
	"reasoning":   {"why you might like it:", "why you'll like it:", "reasoning:", "why:"},
	"rating":      {"recommendarr rating:", "recommendadarr rating:", "rating:"},
	"streaming":   {"available on:", "streaming:", "where to watch:"},
}

// titleLabels are marker names that indicate a mis-segmented section
// rather than an actual title.
var titleLabels = map[string]bool{
	"description":           true,
	"synopsis":              true,
	"about":                 true,
	"why you might like it": true,
	"reasoning":             true,
	"rating":                true,
	"recommendarr rating":   true,
	"available on":          true,
	"streaming":             true,
	"where to watch":        true,
}

func parseLegacy(raw string) []Recommendation {
	sections := listMarkerRe.Split(raw, -1)
	recs := make([]Recommendation, 0, len(sections))
	seen := make(map[string]bool)

	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" || preambleRe.MatchString(section) {
			continue
		}

		title := extractTitle(section)
		if title == "" || len(title) > 50 {
			continue
		}
		if titleLabels[strings.ToLower(title)] {
			continue
		}
		key := strings.ToLower(title)
		if seen[key] {
			// First occurrence wins.
			continue
		}

		description := extractField(section, fieldMarkers["description"])
		reasoning := extractField(section, fieldMarkers["reasoning"])
		rating := extractField(section, fieldMarkers["rating"])
		streaming := extractField(section, fieldMarkers["streaming"])

		// A section with none of the substantive fields is almost
		// certainly mis-segmented prose.
		if description == "" && reasoning == "" && streaming == "" {
			continue
		}

		if rating == "" {
			rating = "N/A"
		}
		if streaming == "" {
			streaming = "Unknown"
		}

		seen[key] = true
		recs = append(recs, Recommendation{
			Title:       title,
			Description: description,
			Reasoning:   reasoning,
			Rating:      rating,
			Streaming:   streaming,
			FullText:    renderFullText(title, description, reasoning, rating, streaming),
		})
	}

	return recs
}

// extractTitle takes the text before the first colon, or the first line
// when there is no colon, stripping markdown bold markers and
// surrounding brackets.
func extractTitle(section string) string {
	head := section
	if idx := strings.Index(section, ":"); idx >= 0 {
		head = section[:idx]
	} else if idx := strings.Index(section, "\n"); idx >= 0 {
		head = section[:idx]
	}
	head = boldRe.ReplaceAllString(head, "")
	head = strings.Trim(head, " \t\"'[](){}")
	return strings.TrimSpace(head)
}

// extractField finds the first of the marker synonyms in the section and
// returns the text up to the next known marker (any field's) or the end
// of the section. Matching is case-insensitive.
func extractField(section string, markers []string) string {
	lower := strings.ToLower(section)
	for _, marker := range markers {
		start := strings.Index(lower, marker)
		if start < 0 {
			continue
		}
		contentStart := start + len(marker)
		contentEnd := len(section)
		for _, all := range fieldMarkers {
			for _, m := range all {
				if idx := strings.Index(lower[contentStart:], m); idx >= 0 && contentStart+idx < contentEnd {
					contentEnd = contentStart + idx
				}
			}
		}
		value := strings.TrimSpace(section[contentStart:contentEnd])
		// A trailing newline block may carry the next unmarked field.
		if value != "" {
			return value
		}
	}
	return ""
}
