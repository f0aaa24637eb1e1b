// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(1)) //nolint:gosec // deterministic test rng
}

func TestBuildPromptCountClamp(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		count int
		want  string
	}{
		{0, "recommend 1 "},
		{-3, "recommend 1 "},
		{5, "recommend 5 "},
		{50, "recommend 50 "},
		{500, "recommend 50 "},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("count %d", tt.count), func(t *testing.T) {
			_, user := BuildPrompt(Request{MediaType: MediaTypeTV, Count: tt.count}, cfg, testRng())
			if !strings.Contains(user, tt.want) {
				t.Errorf("user prompt does not contain %q", tt.want)
			}
		})
	}
}

func TestBuildPromptSourceSelection(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "library available",
			req:  Request{MediaType: MediaTypeTV, Count: 5, Library: []string{"Dark"}},
			want: "Based on my TV library",
		},
		{
			name: "history only",
			req:  Request{MediaType: MediaTypeMovie, Count: 5, HistoryOnly: true, Watched: []string{"Heat"}},
			want: "Based on my watch history",
		},
		{
			name: "nothing available",
			req:  Request{MediaType: MediaTypeMovie, Count: 5},
			want: "Based on my general preferences",
		},
		{
			name: "custom prompt only ignores library",
			req:  Request{MediaType: MediaTypeTV, Count: 5, Library: []string{"Dark"}, CustomPromptOnly: true},
			want: "Based on my general preferences",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, user := BuildPrompt(tt.req, cfg, testRng())
			if !strings.Contains(user, tt.want) {
				t.Errorf("user prompt does not contain %q:\n%s", tt.want, user[:200])
			}
		})
	}
}

func TestBuildPromptConstraintClauses(t *testing.T) {
	cfg := DefaultConfig()
	req := Request{
		MediaType:  MediaTypeMovie,
		Count:      3,
		Genre:      "horror, thriller",
		CustomVibe: "slow dread",
		Language:   "Korean",
	}
	_, user := BuildPrompt(req, cfg, testRng())

	for _, want := range []string{"horror, thriller", "slow dread", "Korean"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing constraint %q", want)
		}
	}
}

func TestBuildPromptLibraryAndExclusions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplingEnabled = false
	req := Request{
		MediaType: MediaTypeTV,
		Count:     5,
		Library:   []string{"Dark", "Severance"},
		Liked:     []string{"The Wire"},
		Disliked:  []string{"Riverdale"},
		Watched:   []string{"Chernobyl"},
		Previous:  []string{"Previously Suggested Show"},
	}
	_, user := BuildPrompt(req, cfg, testRng())

	for _, want := range []string{
		"Dark, Severance",
		"Do not recommend anything from this list.",
		"must not recommend any TV show I already have",
		"The Wire",
		"Riverdale",
		"Chernobyl",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}

	// Previously-recommended titles are deliberately excluded from the
	// prompt; the verifier owns repeat filtering.
	if strings.Contains(user, "Previously Suggested Show") {
		t.Error("user prompt leaks previously-recommended titles")
	}
}

func TestBuildPromptCustomPromptOnly(t *testing.T) {
	cfg := DefaultConfig()
	req := Request{
		MediaType:        MediaTypeTV,
		Count:            5,
		Library:          []string{"Dark"},
		Watched:          []string{"Chernobyl"},
		CustomPromptOnly: true,
	}
	_, user := BuildPrompt(req, cfg, testRng())

	if strings.Contains(user, "Dark") {
		t.Error("custom-prompt-only prompt includes library titles")
	}
	if strings.Contains(user, "Chernobyl") {
		t.Error("custom-prompt-only prompt includes watch history")
	}
	// The blanket ownership exclusion survives even without a list.
	if !strings.Contains(user, "must not recommend any TV show I already have") {
		t.Error("blanket ownership exclusion missing")
	}
}

func TestBuildPromptSampling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplingEnabled = true
	cfg.SampleSize = 3

	library := make([]string, 20)
	for i := range library {
		library[i] = fmt.Sprintf("Show %02d", i)
	}
	req := Request{MediaType: MediaTypeTV, Count: 5, Library: library}

	_, user := BuildPrompt(req, cfg, testRng())
	if !strings.Contains(user, "random sample") {
		t.Error("sampled prompt does not mention sampling")
	}

	listed := 0
	for _, title := range library {
		if strings.Contains(user, title) {
			listed++
		}
	}
	if listed != 3 {
		t.Errorf("prompt lists %d library titles, want sample of 3", listed)
	}

	// Same seed, same sample.
	_, again := BuildPrompt(req, cfg, testRng())
	if user != again {
		t.Error("prompt not deterministic for a fixed rng seed")
	}
}

func TestBuildPromptSamplingOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SamplingEnabled = true
	cfg.SampleSize = 3

	library := make([]string, 20)
	for i := range library {
		library[i] = fmt.Sprintf("Show %02d", i)
	}

	// A per-request override beats the engine default in both directions.
	off := false
	req := Request{MediaType: MediaTypeTV, Count: 5, Library: library, Sampling: &off}
	_, user := BuildPrompt(req, cfg, testRng())
	for _, title := range library {
		if !strings.Contains(user, title) {
			t.Fatalf("sampling disabled per request, but %q missing from prompt", title)
		}
	}

	cfg.SamplingEnabled = false
	on := true
	req.Sampling = &on
	_, user = BuildPrompt(req, cfg, testRng())
	listed := 0
	for _, title := range library {
		if strings.Contains(user, title) {
			listed++
		}
	}
	if listed != 3 {
		t.Errorf("prompt lists %d library titles, want sample of 3", listed)
	}
}

func TestSampleTitles(t *testing.T) {
	titles := []string{"a", "b", "c", "d", "e"}

	sample := sampleTitles(testRng(), titles, 3)
	if len(sample) != 3 {
		t.Fatalf("sample size %d, want 3", len(sample))
	}
	seen := map[string]bool{}
	valid := map[string]bool{"a": true, "b": true, "c": true, "d": true, "e": true}
	for _, s := range sample {
		if !valid[s] {
			t.Errorf("sample contains unknown title %q", s)
		}
		if seen[s] {
			t.Errorf("sample contains duplicate %q", s)
		}
		seen[s] = true
	}

	// Requesting at least the population returns a copy of everything.
	all := sampleTitles(testRng(), titles, 10)
	if len(all) != 5 {
		t.Errorf("oversized sample returned %d titles, want 5", len(all))
	}
}

func TestSystemPromptsDistinctPerStyleAndType(t *testing.T) {
	cfg := DefaultConfig()
	styles := []PromptStyle{StyleVibe, StyleAnalytical, StyleCreative, StyleTechnical}
	types := []MediaType{MediaTypeTV, MediaTypeMovie}

	seen := map[string]string{}
	for _, style := range styles {
		for _, mt := range types {
			system, _ := BuildPrompt(Request{MediaType: mt, Count: 5, Style: style}, cfg, testRng())
			key := string(style) + "/" + string(mt)
			for prevKey, prev := range seen {
				if prev == system {
					t.Errorf("system prompts for %s and %s are identical", key, prevKey)
				}
			}
			seen[key] = system

			if !strings.Contains(system, jsonExample) {
				t.Errorf("system prompt for %s missing the JSON example", key)
			}
			if !strings.Contains(system, "Non-negotiable rules:") {
				t.Errorf("system prompt for %s missing the rules block", key)
			}
		}
	}
}

func TestFollowUpPrompt(t *testing.T) {
	got := followUpPrompt(7, vocabularies[MediaTypeMovie])
	if !strings.Contains(got, "7 more movies") {
		t.Errorf("follow-up prompt = %q", got)
	}
}
