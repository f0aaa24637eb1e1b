// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"regexp"
	"strings"
)

// Title normalization canonicalizes a raw title for comparison. The
// pipeline runs to a fixpoint so Normalize is idempotent even when one
// pass exposes new strippable structure (e.g. "The A Team" loses "the "
// first, then "a " on the next pass).
//
// Year and subtitle handling run before punctuation stripping: once
// punctuation is gone there are no parentheses or separators left to
// recognize, so the later stages would be unreachable in any other order.

var (
	leadingArticleRe  = regexp.MustCompile(`^(?:the|a|an)\s+`)
	trailingArticleRe = regexp.MustCompile(`,\s*(?:the|a|an)$`)

	// A 4-digit year wrapped in parentheses, brackets, braces, or quotes.
	bracketYearRe = regexp.MustCompile(`["'([{]\s*(?:19|20)\d{2}\s*[)\]}"']`)

	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	partTokenRe = regexp.MustCompile(`\b(?:part|volume|vol)\s+\d+\b`)

	// Edition qualifiers: apostrophes are already stripped when these
	// run, so "director's" appears as "directors".
	editionPairRe   = regexp.MustCompile(`\b(?:special|extended|directors?|theatrical|ultimate|complete|collectors?|anniversary|definitive|final)\s+(?:cut|edition|version|collection|release)\b`)
	editionSoloRe   = regexp.MustCompile(`\b(?:remastered|unrated|uncut)\b`)
	suffixArticleRe = regexp.MustCompile(`\s+(?:the|a|an)$`)
)

// subtitleSeparators are checked in the raw (pre-punctuation-strip) title.
// The first occurrence of any separator splits title from subtitle.
var subtitleSeparators = []string{": ", " - ", " – ", ":", " | ", "~"}

// Normalize canonicalizes a title for comparison: lowercase, article and
// edition stripping, year and subtitle removal, punctuation collapse.
// It never fails; empty input yields an empty string.
func Normalize(title string) string {
	s := title
	// Fixpoint loop bounds at a small constant; in practice two passes
	// suffice and the loop exits as soon as a pass changes nothing.
	for i := 0; i < 4; i++ {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeOnce(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return ""
	}

	// A single leading article, or failing that a single trailing
	// ", the"-style article.
	if stripped := leadingArticleRe.ReplaceAllString(s, ""); stripped != s {
		s = stripped
	} else {
		s = trailingArticleRe.ReplaceAllString(s, "")
	}

	s = bracketYearRe.ReplaceAllString(s, " ")

	s = stripSubtitle(s)

	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	s = partTokenRe.ReplaceAllString(s, " ")
	s = editionPairRe.ReplaceAllString(s, " ")
	s = editionSoloRe.ReplaceAllString(s, " ")

	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripSubtitle drops everything from the first subtitle separator on,
// provided the kept portion is at least 3 characters. This collapses
// "Title: Subtitle" to "Title" while leaving short prefixes like "M:"
// alone.
func stripSubtitle(s string) string {
	cut := -1
	for _, sep := range subtitleSeparators {
		if idx := strings.Index(s, sep); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return s
	}
	head := strings.TrimSpace(s[:cut])
	if len(head) < 3 {
		return s
	}
	return head
}
