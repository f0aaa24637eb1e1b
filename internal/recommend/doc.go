// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package recommend implements the LLM-driven recommendation pipeline.
//
// # Architecture
//
// The pipeline is a chain of small, independently testable stages:
//
//   - Prompt Builder: assembles the system/user message pair from the
//     user's library, watch history, and preferences
//   - Conversation: an explicit, caller-owned message list per media type,
//     truncated beyond a message-count budget and chunked when a single
//     message exceeds the transport's size budget
//   - Transport: an external ChatCompleter collaborator (see internal/llm)
//   - Parser: strict JSON first, legacy numbered-prose fallback second
//   - Verifier: drops candidates that fuzzy-match the library, liked,
//     disliked, or previously-recommended title sets
//
// # Design Principles
//
//   - Deterministic: library sampling uses a seeded RNG
//   - Defensive: parsing and verification never fail a round; they salvage
//     what they can and return a possibly shorter list
//   - Heuristic: title matching is string-based because no canonical ID is
//     available at verification time; the tuning (franchise list, overlap
//     ratio, prefix boundary rules) is load-bearing and pinned by tests
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, llmClient, logger)
//
//	conv := recommend.NewConversation(recommend.MediaTypeTV)
//	recs, err := engine.Recommend(ctx, conv, recommend.Request{
//	    MediaType: recommend.MediaTypeTV,
//	    Count:     5,
//	    Library:   libraryTitles,
//	})
//
//	// Later in the same session:
//	more, err := engine.RecommendMore(ctx, conv, req)
//
// # Thread Safety
//
// The Engine is safe for concurrent use across distinct Conversation
// values. A single Conversation is not synchronized: the UI serializes
// rounds per user, and a concurrent append is last-writer-wins.
//
// This package has no dependencies on other internal packages so the
// pipeline can be exercised in isolation. The ChatCompleter interface
// decouples it from the transport implementation.
package recommend
