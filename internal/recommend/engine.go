// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// The ChatCompleter interface allows integration with the transport
// layer without creating circular imports.

// ChatRequest is one transport round-trip: the full message list plus
// the sampling and budget parameters for this call.
type ChatRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int

	// Structured requests a JSON-schema-constrained response format from
	// transports that support it. Intermediate chunk deliveries never
	// set it; only the final round-trip of a request does.
	Structured bool
}

// ChatCompleter is the external LLM transport. Implementations surface
// HTTP status and provider error detail in returned errors and own any
// retry policy; the engine never retries.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ackMessage is the synthetic assistant turn injected between chunk
// deliveries to preserve user/assistant alternation.
const ackMessage = "I'll wait for the remaining parts before responding."

// Engine is the recommendation orchestrator: it builds or extends a
// conversation, sends it through the transport (chunking when needed),
// parses the reply, and verifies the result against the exclusion sets.
// Safe for concurrent use across distinct Conversation values.
type Engine struct {
	config *Config
	logger zerolog.Logger
	llm    ChatCompleter

	// Random source for library sampling (protected for concurrent use).
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, llm ChatCompleter, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if llm == nil {
		return nil, fmt.Errorf("chat completer is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		llm:    llm,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for prompt sampling
	}, nil
}

// Recommend runs a first recommendation round: it seeds the conversation
// with a freshly built prompt, sends it, and returns the verified
// recommendations. An empty result with a nil error is valid - it means
// the model produced nothing usable, not that the round failed.
func (e *Engine) Recommend(ctx context.Context, conv *Conversation, req Request) ([]Recommendation, error) {
	if err := validateRound(conv, req); err != nil {
		return nil, err
	}
	req = req.normalized()

	e.rngMu.Lock()
	system, user := BuildPrompt(req, e.config, e.rng)
	e.rngMu.Unlock()

	conv.Seed(system, user)
	return e.run(ctx, conv, req)
}

// RecommendMore runs a follow-up round in an existing conversation. A
// short "give me more" message is appended instead of rebuilding the
// prompt, so the model's own context is the first line of defense
// against repeats. On an empty conversation it falls back to a first
// round.
func (e *Engine) RecommendMore(ctx context.Context, conv *Conversation, req Request) ([]Recommendation, error) {
	if err := validateRound(conv, req); err != nil {
		return nil, err
	}
	if conv.Len() == 0 {
		return e.Recommend(ctx, conv, req)
	}
	req = req.normalized()

	conv.Append(RoleUser, followUpPrompt(req.Count, vocabularies[req.MediaType]))
	return e.run(ctx, conv, req)
}

func validateRound(conv *Conversation, req Request) error {
	if conv == nil {
		return fmt.Errorf("conversation is required")
	}
	if !req.MediaType.Valid() {
		return fmt.Errorf("unsupported media type %q", req.MediaType)
	}
	if conv.MediaType() != req.MediaType {
		return fmt.Errorf("conversation is scoped to %q, request targets %q", conv.MediaType(), req.MediaType)
	}
	return nil
}

// run executes the shared tail of a round: budget enforcement, the
// transport round-trip(s), parsing, and verification.
func (e *Engine) run(ctx context.Context, conv *Conversation, req Request) ([]Recommendation, error) {
	conv.EnforceBudget(e.config.MaxConversationMessages)

	content, err := e.send(ctx, conv)
	if err != nil {
		return nil, err
	}

	// The raw reply joins the conversation before parsing so future
	// rounds see it even when parsing salvages nothing.
	conv.Append(RoleAssistant, content)

	recs := ParseResponse(content)
	if len(recs) == 0 {
		e.logger.Warn().
			Str("media_type", string(req.MediaType)).
			Int("response_length", len(content)).
			Msg("no recommendations parsed from response")
		return []Recommendation{}, nil
	}

	// Verification always uses the full, unsampled library: a sampled
	// prompt must never cause under-filtering. In history-only mode the
	// watch history takes the library's place as the owned-title set.
	library := req.Library
	if req.HistoryOnly {
		library = req.Watched
	}
	var onDrop func(string)
	if e.config.OnDrop != nil {
		onDrop = func(reason string) { e.config.OnDrop(req.MediaType, reason) }
	}
	verified := VerifyRecommendations(e.logger, onDrop, recs, library, req.Liked, req.Disliked, req.Previous)

	e.logger.Info().
		Str("media_type", string(req.MediaType)).
		Int("requested", req.Count).
		Int("parsed", len(recs)).
		Int("verified", len(verified)).
		Msg("recommendation round complete")

	return verified, nil
}

// send delivers the conversation through the transport. When the final
// user message exceeds the chunk budget it is split across multiple
// round-trips: every chunk but the last is sent with a minimal response
// budget and answered by a synthetic acknowledgment, and only the final
// chunk carries the full token budget and the structured-output request.
func (e *Engine) send(ctx context.Context, conv *Conversation) (string, error) {
	messages := conv.Messages()
	if len(messages) == 0 {
		return "", fmt.Errorf("cannot send an empty conversation")
	}

	last := messages[len(messages)-1]
	if last.Role != RoleUser || len(last.Content) <= e.config.ChunkSize {
		return e.llm.Complete(ctx, ChatRequest{
			Messages:    messages,
			Temperature: e.config.Temperature,
			MaxTokens:   e.config.MaxTokens,
			Structured:  e.config.StructuredOutput,
		})
	}

	chunks := chunkString(last.Content, e.config.ChunkSize)
	e.logger.Debug().
		Int("chunks", len(chunks)).
		Int("message_length", len(last.Content)).
		Msg("chunking oversized user message")

	working := make([]Message, len(messages)-1, len(messages)+2*len(chunks))
	copy(working, messages[:len(messages)-1])

	for i, chunk := range chunks[:len(chunks)-1] {
		part := fmt.Sprintf("part %d/%d:\n%s", i+1, len(chunks), chunk)
		working = append(working, Message{Role: RoleUser, Content: part})

		if _, err := e.llm.Complete(ctx, ChatRequest{
			Messages:    working,
			Temperature: e.config.Temperature,
			MaxTokens:   e.config.AckMaxTokens,
		}); err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}

		// The model's actual ack text is discarded; a fixed synthetic
		// ack keeps turn alternation deterministic.
		working = append(working, Message{Role: RoleAssistant, Content: ackMessage})
	}

	final := fmt.Sprintf("part %d/%d:\n%s", len(chunks), len(chunks), chunks[len(chunks)-1])
	working = append(working, Message{Role: RoleUser, Content: final})

	content, err := e.llm.Complete(ctx, ChatRequest{
		Messages:    working,
		Temperature: e.config.Temperature,
		MaxTokens:   e.config.MaxTokens,
		Structured:  e.config.StructuredOutput,
	})
	if err != nil {
		return "", err
	}

	// Record the expanded delivery so future rounds extend what was
	// actually sent.
	conv.replaceTail(working)
	return content, nil
}
