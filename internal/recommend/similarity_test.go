// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import "testing"

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"both empty", "", "", false},
		{"one empty", "Inception", "", false},
		{"reflexive", "Inception", "Inception", true},
		{"too short after normalization", "M", "M", false},
		{"short but meaningful", "Up", "Up", true},
		{"case insensitive", "breaking bad", "Breaking Bad", true},

		// Articles and years.
		{"article transposition", "The Matrix", "Matrix, The", true},
		{"year variant", "The Matrix (1999)", "The Matrix", true},

		// Franchise prefixes.
		{"franchise subtitle", "Star Wars", "Star Wars: A New Hope", true},
		{"franchise extension", "Star Wars", "Star Wars Episode IV", true},
		{"franchise long entry", "Harry Potter", "Harry Potter and the Chamber of Secrets", true},

		// Prefix over-match protection.
		{"short shared prefix", "The Duke", "The Duke of Burgundy", false},
		{"pluralized title", "Alien", "Aliens", false},

		// Word overlap.
		{"regional variant", "The Office", "The Office (US)", true},
		{"unrelated titles", "Breaking Bad", "Better Call Saul", false},

		// Numbered sequels: same base with different numbers means
		// distinct works; a bare base extends into its sequel.
		{"base vs sequel", "Saw", "Saw 2", true},
		{"different sequels", "Saw 2", "Saw 3", false},
		{"different rocky sequels", "Rocky 1", "Rocky 2", false},
		{"same sequel", "Rocky 2", "Rocky 2", true},
		{"zero padded sequel", "Saw 02", "Saw 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Symmetric in intent: the reverse order must agree.
			if got := Similar(tt.b, tt.a); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilarReflexivity(t *testing.T) {
	titles := []string{
		"Breaking Bad",
		"The Wire",
		"Mission: Impossible - Fallout",
		"Star Wars: The Empire Strikes Back",
		"Saw 2",
		"Ocean's Eleven",
	}
	for _, title := range titles {
		if !Similar(title, title) {
			t.Errorf("Similar(%q, %q) = false, want true", title, title)
		}
	}
}
