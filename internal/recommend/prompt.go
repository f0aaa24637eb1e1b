// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"fmt"
	"math/rand"
	"strings"
)

// The prompt builder produces one {system, user} pair per round. The
// eight persona texts (4 styles x 2 media types) are generated from four
// style templates and a per-media-type vocabulary table, so TV and movie
// prompts cannot drift apart.

// vocabulary holds the per-media-type wording substituted into the
// shared prompt templates.
type vocabulary struct {
	noun    string // "TV show" / "movie"
	plural  string // "TV shows" / "movies"
	library string // "TV library" / "movie library"
	craft   string // domain-specific craft vocabulary for the technical style
}

var vocabularies = map[MediaType]vocabulary{
	MediaTypeTV: {
		noun:    "TV show",
		plural:  "TV shows",
		library: "TV library",
		craft:   "episode structure, season arcs, writers' room consistency, and showrunner style",
	},
	MediaTypeMovie: {
		noun:    "movie",
		plural:  "movies",
		library: "movie library",
		craft:   "cinematography, editing rhythm, sound design, and directorial style",
	},
}

// personaTemplates are the four system-prompt personas. Each takes the
// vocabulary's plural form (and, for technical, its craft clause).
var personaTemplates = map[PromptStyle]string{
	StyleVibe: "You are a %s recommendation assistant with an exceptional feel for mood and emotional texture. " +
		"You recommend %s by the way they feel to watch: their atmosphere, pacing, emotional register, and the " +
		"lingering impression they leave, rather than by surface-level genre labels.",
	StyleAnalytical: "You are a %s recommendation assistant who reasons like a formal critic. " +
		"You recommend %s by analyzing narrative structure, thematic coherence, character construction, and formal " +
		"technique, and you justify every suggestion with concrete analytical observations.",
	StyleCreative: "You are a %s recommendation assistant who specializes in unconventional connections. " +
		"You recommend %s by finding surprising but defensible links across genres, eras, and traditions - " +
		"suggestions the viewer would not have found through ordinary genre browsing.",
	StyleTechnical: "You are a %s recommendation assistant focused on production craft. " +
		"You recommend %s by their %s, connecting works through the craftspeople and techniques behind them.",
}

// elaborationTemplates are the matching user-prompt elaboration
// paragraphs, mirroring the system persona axis.
var elaborationTemplates = map[PromptStyle]string{
	StyleVibe: "Focus on emotional texture: identify the dominant moods and atmospheres in what I watch and find %s " +
		"that evoke the same feeling, even when they belong to different genres.",
	StyleAnalytical: "Approach this analytically: identify the structural and thematic patterns in what I watch - " +
		"narrative devices, character dynamics, thematic preoccupations - and recommend %s that share those formal qualities.",
	StyleCreative: "Be adventurous: look past the obvious picks and find %s connected to my taste in unexpected ways - " +
		"shared creative DNA, spiritual successors, or works in other traditions that rhyme with what I enjoy.",
	StyleTechnical: "Focus on craft: identify the production qualities in what I watch - %s - and recommend works that " +
		"share that craftsmanship, naming the connection where relevant.",
}

// jsonFormatInstructions is appended to every system prompt regardless
// of style. The two-entry example is deliberately complete: models copy
// the shape they are shown.
const jsonFormatInstructions = "You must respond with a single JSON object in exactly this structure:\n\n" +
	"```json\n" + jsonExample + "\n```"

// jsonExample is the canonical response example embedded in prompts. The
// parser's structured path accepts exactly this shape.
const jsonExample = `{
  "recommendations": [
    {
      "title": "Example Title",
      "description": "One or two sentences describing the premise.",
      "reasoning": "Why this matches the viewer's taste.",
      "rating": "85%",
      "streaming": "Netflix"
    },
    {
      "title": "Second Example",
      "description": "Another brief premise summary.",
      "reasoning": "Another taste-based justification.",
      "rating": "78%",
      "streaming": "Hulu"
    }
  ]
}`

// nonNegotiableRules are appended verbatim to every system prompt.
func nonNegotiableRules(v vocabulary) string {
	return fmt.Sprintf(`Non-negotiable rules:
1. NEVER recommend a title from the user's library or from any exclusion list they provide.
2. Check the conversation history and never repeat a title you have already recommended.
3. Match the emotional and stylistic tone of the user's %s.
4. Respond ONLY in the exact JSON structure shown above.
5. Do not use markdown outside the fenced JSON block.
6. Do not add any prose before or after the JSON.
7. Every recommendation must contain exactly the five fields: title, description, reasoning, rating, streaming.
8. Every field value must be a plain string.`, v.library)
}

// ratingMethodology instructs the model how to synthesize the rating
// field without citing sources by name.
const ratingMethodology = "For each rating, privately synthesize a percentage score from several angles - statistical " +
	"reception data, quantitative popularity signals, qualitative critical assessment, comparison with similar titles, " +
	"and cultural impact - then report only the final percentage. Do not cite any source by name."

// BuildPrompt assembles the system/user message pair for a first-round
// request. The rng is used only for library sampling; pass the engine's
// seeded rng for reproducible prompts.
func BuildPrompt(req Request, cfg *Config, rng *rand.Rand) (system, user string) {
	req = req.normalized()
	v := vocabularies[req.MediaType]

	system = buildSystemPrompt(req.Style, v)
	user = buildUserPrompt(req, cfg, v, rng)
	return system, user
}

func buildSystemPrompt(style PromptStyle, v vocabulary) string {
	var persona string
	if style == StyleTechnical {
		persona = fmt.Sprintf(personaTemplates[style], v.noun, v.plural, v.craft)
	} else {
		persona = fmt.Sprintf(personaTemplates[style], v.noun, v.plural)
	}
	return persona + "\n\n" + jsonFormatInstructions + "\n\n" + nonNegotiableRules(v)
}

func buildUserPrompt(req Request, cfg *Config, v vocabulary, rng *rand.Rand) string {
	var b strings.Builder

	// 1. Base ask with source selection.
	source := "my general preferences"
	switch {
	case req.HistoryOnly && len(req.Watched) > 0:
		source = "my watch history"
	case len(req.Library) > 0 && !req.CustomPromptOnly:
		source = "my " + v.library
	}
	fmt.Fprintf(&b, "Based on %s, recommend %d high-quality %s I would genuinely enjoy.", source, req.Count, v.plural)

	// 2. Optional constraint clauses.
	if req.Genre != "" {
		fmt.Fprintf(&b, " Only recommend %s in the following genres: %s.", v.plural, req.Genre)
	}
	if req.CustomVibe != "" {
		fmt.Fprintf(&b, " I'm looking for something with this vibe: %s.", req.CustomVibe)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, " Only recommend %s in this language: %s.", v.plural, req.Language)
	}

	// 3. Style elaboration, mirroring the system persona.
	b.WriteString("\n\n")
	if req.Style == StyleTechnical {
		fmt.Fprintf(&b, elaborationTemplates[req.Style], v.craft)
	} else {
		fmt.Fprintf(&b, elaborationTemplates[req.Style], v.plural)
	}

	// 4. Library context, full or sampled.
	if !req.CustomPromptOnly {
		titles := req.Library
		if req.HistoryOnly {
			titles = req.Watched
		}
		sampling := cfg.SamplingEnabled
		if req.Sampling != nil {
			sampling = *req.Sampling
		}
		if len(titles) > 0 {
			if sampling && len(titles) > cfg.SampleSize {
				titles = sampleTitles(rng, titles, cfg.SampleSize)
				fmt.Fprintf(&b, "\n\nHere is a random sample of my %s:\n%s", v.library, strings.Join(titles, ", "))
			} else {
				fmt.Fprintf(&b, "\n\nHere is my %s:\n%s", v.library, strings.Join(titles, ", "))
			}
			b.WriteString("\nDo not recommend anything from this list.")
		}
	}

	// 5. Blanket ownership exclusion, present even in custom-prompt-only
	// mode where no list was included.
	fmt.Fprintf(&b, "\n\nYou must not recommend any %s I already have in my collection.", v.noun)

	// 6. Liked/disliked call-outs.
	if len(req.Liked) > 0 {
		fmt.Fprintf(&b, "\n\nI liked these %s: %s. Recommend more like them, but do not repeat any of them.",
			v.plural, strings.Join(req.Liked, ", "))
	}
	if len(req.Disliked) > 0 {
		fmt.Fprintf(&b, "\n\nI disliked these %s: %s. Avoid anything similar to them.",
			v.plural, strings.Join(req.Disliked, ", "))
	}

	// 7. Recently-watched context, unless redundant with step 4 or
	// suppressed entirely.
	if !req.CustomPromptOnly && !req.HistoryOnly && len(req.Watched) > 0 {
		fmt.Fprintf(&b, "\n\nI recently watched these: %s.", strings.Join(req.Watched, ", "))
	}

	// 8. The emphatic formatting block, restated at the end of the
	// prompt where models weight instructions most.
	b.WriteString("\n\nRespond in exactly this JSON structure:\n\n```json\n" + jsonExample + "\n```\n\n" +
		"Strict formatting constraints: output valid JSON only, with no prose before or after it; " +
		"include exactly the five fields title, description, reasoning, rating, and streaming per entry; " +
		"do not nest markdown inside any field.")

	// 9. Rating methodology.
	b.WriteString("\n\n" + ratingMethodology)

	return b.String()
}

// followUpPrompt is the short user message appended for subsequent
// rounds in the same conversation. The model's own context is the first
// line of defense against repeats; the verifier is the second.
func followUpPrompt(count int, v vocabulary) string {
	return fmt.Sprintf("Give me %d more %s. Do not repeat anything you have already recommended in this "+
		"conversation, and keep honoring every exclusion I listed earlier.", count, v.plural)
}

// sampleTitles draws n titles without replacement via a Fisher-Yates
// shuffle of a copy.
func sampleTitles(rng *rand.Rand, titles []string, n int) []string {
	if n >= len(titles) {
		out := make([]string, len(titles))
		copy(out, titles)
		return out
	}
	shuffled := make([]string, len(titles))
	copy(shuffled, titles)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}
