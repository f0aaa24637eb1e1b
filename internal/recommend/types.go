// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import "fmt"

// MediaType selects which catalogue a recommendation round targets.
type MediaType string

const (
	// MediaTypeTV targets television series (Sonarr libraries).
	MediaTypeTV MediaType = "tv"
	// MediaTypeMovie targets movies (Radarr libraries).
	MediaTypeMovie MediaType = "movie"
)

// Valid reports whether the media type is one of the supported values.
func (m MediaType) Valid() bool {
	return m == MediaTypeTV || m == MediaTypeMovie
}

// PromptStyle selects the analytical persona used to frame the LLM request.
type PromptStyle string

const (
	// StyleVibe asks for recommendations by emotional texture and mood.
	StyleVibe PromptStyle = "vibe"
	// StyleAnalytical asks for recommendations by formal technique.
	StyleAnalytical PromptStyle = "analytical"
	// StyleCreative asks for unconventional, cross-genre connections.
	StyleCreative PromptStyle = "creative"
	// StyleTechnical asks for recommendations by production craft.
	StyleTechnical PromptStyle = "technical"
)

// Valid reports whether the prompt style is one of the supported values.
func (s PromptStyle) Valid() bool {
	switch s {
	case StyleVibe, StyleAnalytical, StyleCreative, StyleTechnical:
		return true
	default:
		return false
	}
}

// Role tags a conversation message.
type Role string

const (
	// RoleSystem is the persona/instruction message, always first.
	RoleSystem Role = "system"
	// RoleUser is a caller-originated message.
	RoleUser Role = "user"
	// RoleAssistant is an LLM reply (or a synthetic chunking ack).
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn in a Conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Recommendation is one LLM-proposed item. It is immutable after the
// parser creates it; the verifier may drop it but never mutates it.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning"`
	Rating      string `json:"rating"`
	Streaming   string `json:"streaming"`

	// FullText is the fixed-template concatenation of the fields above,
	// kept for clients that render a single text block.
	FullText string `json:"full_text"`
}

// fullTextTemplate is the fixed rendering of a recommendation's fields.
// The parser synthesizes FullText with this template for both the
// structured and the legacy parse paths.
const fullTextTemplate = "%s:\nDescription: %s\nWhy you might like it: %s\nRecommendarr Rating: %s\nAvailable on: %s"

func renderFullText(title, description, reasoning, rating, streaming string) string {
	return fmt.Sprintf(fullTextTemplate, title, description, reasoning, rating, streaming)
}

// Request carries one recommendation round's inputs. Exclusion sets are
// plain title lists; the verifier additionally tolerates looser shapes
// at its own boundary (see FlattenTitles).
type Request struct {
	// MediaType selects TV or movie vocabulary and the conversation scope.
	MediaType MediaType

	// Count is the number of recommendations requested, clamped to [1,50].
	Count int

	// Genre optionally restricts recommendations to a genre list.
	Genre string

	// CustomVibe optionally adds free-text mood constraints.
	CustomVibe string

	// Language optionally restricts recommendations by language.
	Language string

	// Style selects the prompt persona. Empty defaults to StyleVibe.
	Style PromptStyle

	// Library is the full set of owned titles. Verification always uses
	// this full set even when the prompt was built from a sample.
	Library []string

	// Watched is the recently-watched title list from history sources.
	Watched []string

	// Liked and Disliked are explicit user preferences.
	Liked    []string
	Disliked []string

	// Previous is the previously-recommended set. It is never injected
	// into the prompt; repeats are filtered post-hoc by the verifier.
	Previous []string

	// HistoryOnly bases recommendations on watch history instead of the
	// owned library.
	HistoryOnly bool

	// CustomPromptOnly suppresses library and watch-history context,
	// leaving only the user's own constraints.
	CustomPromptOnly bool

	// Sampling overrides the engine's configured library sampling for
	// this round when set. Verification is unaffected either way.
	Sampling *bool
}

// normalized returns the request with defaults applied and the count
// clamped to the supported range.
func (r Request) normalized() Request {
	if r.Count < 1 {
		r.Count = 1
	}
	if r.Count > 50 {
		r.Count = 50
	}
	if !r.Style.Valid() {
		r.Style = StyleVibe
	}
	return r
}
