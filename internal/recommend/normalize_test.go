// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercase trim", "  Breaking Bad  ", "breaking bad"},
		{"leading the", "The Matrix", "matrix"},
		{"leading a", "A Quiet Place", "quiet place"},
		{"leading an", "An American Werewolf", "american werewolf"},
		{"trailing article", "Matrix, The", "matrix"},
		{"parenthesized year", "The Matrix (1999)", "matrix"},
		{"bracketed year", "Dune [2021]", "dune"},
		{"subtitle colon", "Blade Runner: The Final Cut", "blade runner"},
		{"subtitle dash", "Mad Max - Fury Road", "mad max"},
		{"subtitle pipe", "Sherlock | Series One", "sherlock"},
		{"short head keeps subtitle", "M: The Movie", "m the movie"},
		{"punctuation", "WALL-E", "walle"},
		{"apostrophe", "Ocean's Eleven", "oceans eleven"},
		{"part token", "Back to the Future Part 2", "back to the future"},
		{"volume token", "Kill Bill Volume 1", "kill bill"},
		{"edition pair", "Terminator 2 Extended Edition", "terminator 2"},
		{"directors cut", "Apocalypse Now Director's Cut", "apocalypse now"},
		{"standalone remastered", "Akira Remastered", "akira"},
		{"standalone unrated", "Anchorman Unrated", "anchorman"},
		{"keeps numbers", "Saw 2", "saw 2"},
		{"stacked articles", "The A Team", "team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"The Matrix (1999)",
		"Blade Runner: The Final Cut",
		"Matrix, The",
		"The A Team",
		"Mission: Impossible - Fallout",
		"Star Wars: Episode IV - A New Hope",
		"Ocean's Eleven",
		"Back to the Future Part 2",
		"Kill Bill Volume 1 Ultimate Edition",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
