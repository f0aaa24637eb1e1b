// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"regexp"
	"strconv"
	"strings"
)

// Title similarity decides whether two title strings denote the same
// work. Media titles vary by punctuation, articles, franchise subtitles,
// and re-release naming, so no single rule suffices; several independent
// heuristics are OR'ed together, each tuned to avoid over-matching
// unrelated titles that merely share a short prefix ("The Duke" must not
// match "The Duke of Burgundy").
//
// The tuning below (franchise list, 0.9 overlap ratio, prefix boundary
// characters, word-count thresholds) was reverse-engineered from real
// title collisions. Changing it silently changes user-visible filtering.

// knownFranchises are title prefixes whose entries are treated as the
// same work when one title extends another ("Star Wars" vs
// "Star Wars: A New Hope").
var knownFranchises = []string{
	"star wars", "harry potter", "lord of the rings", "fast and furious",
	"mission impossible", "james bond", "marvel", "avengers", "spider man",
	"batman", "superman", "jurassic park", "transformers", "terminator",
	"alien", "predator", "pirates of the caribbean", "matrix",
	"indiana jones",
}

var trailingNumberRe = regexp.MustCompile(`^(.*\S)\s+(\d+)$`)

// Similar reports whether two titles likely denote the same work.
// Symmetric in intent; the prefix rule orders its operands by length so
// the implementation is symmetric in practice.
func Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	na := Normalize(a)
	nb := Normalize(b)
	if len(na) < 2 || len(nb) < 2 {
		// Too short to be meaningful after normalization.
		return false
	}
	if na == nb {
		return true
	}

	if prefixSimilar(na, nb) {
		return true
	}

	// Numbered sequels with the same base title are distinct works:
	// "Saw 2" and "Saw 3" share every word, so this must short-circuit
	// before the word-overlap rule can see them.
	if baseA, numA, okA := splitTrailingNumber(na); okA {
		if baseB, numB, okB := splitTrailingNumber(nb); okB && baseA == baseB {
			return numA == numB
		}
	}

	if wordOverlapSimilar(na, nb) {
		return true
	}

	// Second article pass catches "Matrix, The"-style suffixes that
	// survived normalization on one side only.
	if stripArticles(na) == stripArticles(nb) {
		return true
	}

	return false
}

// prefixSimilar handles the case where one normalized title extends the
// other. Only evaluated when both are longer than 4 characters, so very
// short titles ("Saw", "Up") never match by prefix alone.
func prefixSimilar(na, nb string) bool {
	if len(na) <= 4 || len(nb) <= 4 {
		return false
	}

	shorter, longer := na, nb
	if len(nb) < len(na) {
		shorter, longer = nb, na
	}
	if !strings.HasPrefix(longer, shorter) {
		return false
	}

	// The character after the shared prefix must be a word boundary.
	// Exact-length equality is handled by the caller's exact match.
	next := longer[len(shorter)]
	if next != ' ' && next != ':' && next != '-' {
		return false
	}

	if containsFranchise(shorter) {
		return true
	}

	words := strings.Fields(shorter)
	if len(words) <= 2 {
		// Short prefixes only match when the remainder looks like a
		// subtitle or part marker, not an unrelated longer title.
		remainder := strings.TrimSpace(longer[len(shorter):])
		return strings.HasPrefix(remainder, ":") ||
			strings.HasPrefix(remainder, "-") ||
			strings.HasPrefix(remainder, "(") ||
			strings.HasPrefix(remainder, "part ")
	}

	// Three or more shared words is specific enough on its own.
	return true
}

func containsFranchise(s string) bool {
	for _, f := range knownFranchises {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// wordOverlapSimilar compares the significant-word sets of both titles.
// The ratio uses the larger word count as denominator so a one-word
// title cannot trivially reach the threshold against a longer one.
func wordOverlapSimilar(na, nb string) bool {
	wa := significantWords(na)
	wb := significantWords(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}

	common := 0
	seen := make(map[string]bool, len(wa))
	for _, w := range wa {
		seen[w] = true
	}
	counted := make(map[string]bool, len(wb))
	for _, w := range wb {
		if seen[w] && !counted[w] {
			counted[w] = true
			common++
		}
	}

	if (len(wa) > 2 || len(wb) > 2) && common < 2 {
		return false
	}

	max := len(wa)
	if len(wb) > max {
		max = len(wb)
	}
	return float64(common)/float64(max) >= 0.9
}

// significantWords returns the words of length >= 3, dropping numbers
// and short connectives.
func significantWords(s string) []string {
	fields := strings.Fields(s)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 3 {
			words = append(words, f)
		}
	}
	return words
}

// splitTrailingNumber splits "saw 2" into ("saw", 2). The number is
// parsed so "saw 02" and "saw 2" compare equal.
func splitTrailingNumber(s string) (base string, num int, ok bool) {
	m := trailingNumberRe.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

func stripArticles(s string) string {
	s = leadingArticleRe.ReplaceAllString(s, "")
	s = suffixArticleRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
