// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"testing"

	"github.com/rs/zerolog"
)

func rec(title string) Recommendation {
	return Recommendation{Title: title}
}

func TestVerifyRecommendations(t *testing.T) {
	nop := zerolog.Nop()

	tests := []struct {
		name       string
		candidates []Recommendation
		library    any
		liked      any
		disliked   any
		previous   any
		want       []string
	}{
		{
			name:       "library exclusion",
			candidates: []Recommendation{rec("Inception")},
			library:    []string{"Inception"},
			want:       []string{},
		},
		{
			name:       "pass through with empty sets",
			candidates: []Recommendation{rec("Arrival")},
			want:       []string{"Arrival"},
		},
		{
			name:       "fuzzy library match",
			candidates: []Recommendation{rec("The Matrix")},
			library:    []string{"Matrix, The"},
			want:       []string{},
		},
		{
			name:       "liked exclusion",
			candidates: []Recommendation{rec("Severance"), rec("Dark")},
			liked:      []string{"Dark"},
			want:       []string{"Severance"},
		},
		{
			name:       "disliked exclusion",
			candidates: []Recommendation{rec("Riverdale")},
			disliked:   []string{"Riverdale"},
			want:       []string{},
		},
		{
			name:       "previous exclusion",
			candidates: []Recommendation{rec("Better Call Saul")},
			previous:   []string{"Better Call Saul"},
			want:       []string{},
		},
		{
			name:       "empty title dropped unconditionally",
			candidates: []Recommendation{rec("   "), rec("Arrival")},
			want:       []string{"Arrival"},
		},
		{
			name:       "order preserved",
			candidates: []Recommendation{rec("Arrival"), rec("Dune"), rec("Annihilation")},
			library:    []string{"Dune"},
			want:       []string{"Arrival", "Annihilation"},
		},
		{
			name:       "object shaped exclusions",
			candidates: []Recommendation{rec("Inception")},
			library:    []any{map[string]any{"title": "Inception"}},
			want:       []string{},
		},
		{
			name:       "wrapped value array",
			candidates: []Recommendation{rec("Inception")},
			library:    map[string]any{"value": []any{"Inception"}},
			want:       []string{},
		},
		{
			name:       "single string exclusion",
			candidates: []Recommendation{rec("Inception")},
			library:    "Inception",
			want:       []string{},
		},
		{
			name:       "unrecognized shape fails closed",
			candidates: []Recommendation{rec("Inception")},
			library:    42,
			want:       []string{"Inception"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyRecommendations(nop, nil, tt.candidates, tt.library, tt.liked, tt.disliked, tt.previous)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d recommendations, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestFlattenTitles(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"nil", nil, nil},
		{"string slice", []string{"a", "", "b"}, []string{"a", "b"}},
		{"any slice mixed", []any{"a", map[string]any{"title": "b"}, 7, map[string]any{"name": "c"}}, []string{"a", "b"}},
		{"recommendations", []Recommendation{rec("a"), rec("")}, []string{"a"}},
		{"wrapper", map[string]any{"value": []any{"a"}}, []string{"a"}},
		{"wrapper without value", map[string]any{"items": []any{"a"}}, nil},
		{"unrecognized", struct{}{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenTitles(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("FlattenTitles(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("FlattenTitles(%v)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVerifyRecommendationsDropObserver(t *testing.T) {
	nop := zerolog.Nop()
	candidates := []Recommendation{rec("Owned Show"), rec(""), rec("Fresh Pick")}

	var reasons []string
	got := VerifyRecommendations(nop, func(reason string) {
		reasons = append(reasons, reason)
	}, candidates, []string{"Owned Show"}, nil, nil, nil)

	if len(got) != 1 || got[0].Title != "Fresh Pick" {
		t.Fatalf("verified = %v, want just Fresh Pick", got)
	}
	want := []string{"library", "empty_title"}
	if len(reasons) != len(want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Errorf("reasons[%d] = %q, want %q", i, reasons[i], want[i])
		}
	}
}
