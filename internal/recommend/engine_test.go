// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// scriptedCompleter records every transport call and replays canned
// responses in order. The final response repeats once the script runs
// out, so chunk-ack calls can share one entry.
type scriptedCompleter struct {
	requests  []ChatRequest
	responses []string
	err       error
}

func (s *scriptedCompleter) Complete(ctx context.Context, req ChatRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.requests) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	if idx < 0 {
		return "", nil
	}
	return s.responses[idx], nil
}

func newTestEngine(t *testing.T, cfg *Config, llm ChatCompleter) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, llm, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestEngineEndToEnd(t *testing.T) {
	// The model recommends one title the user already owns; only the
	// other survives verification.
	llm := &scriptedCompleter{responses: []string{
		`{"recommendations":[
			{"title":"Better Call Saul","description":"d","reasoning":"r","rating":"95%","streaming":"Netflix"},
			{"title":"Breaking Bad","description":"d","reasoning":"r","rating":"99%","streaming":"Netflix"}
		]}`,
	}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	recs, err := engine.Recommend(context.Background(), conv, Request{
		MediaType: MediaTypeTV,
		Count:     2,
		Library:   []string{"Breaking Bad"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(recs) != 1 || recs[0].Title != "Better Call Saul" {
		t.Fatalf("got %+v, want only Better Call Saul", recs)
	}

	// system + user + assistant reply.
	if conv.Len() != 3 {
		t.Errorf("conversation has %d messages, want 3", conv.Len())
	}

	if len(llm.requests) != 1 {
		t.Fatalf("transport called %d times, want 1", len(llm.requests))
	}
	req := llm.requests[0]
	if !req.Structured {
		t.Error("first round did not request structured output")
	}
	if req.MaxTokens != DefaultConfig().MaxTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, DefaultConfig().MaxTokens)
	}
	if req.Messages[0].Role != RoleSystem {
		t.Error("first transport message is not the system prompt")
	}
}

func TestEngineRecommendMoreAppends(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		`{"recommendations":[{"title":"Dark","description":"d","reasoning":"r","rating":"90%","streaming":"Netflix"}]}`,
		`{"recommendations":[{"title":"Severance","description":"d","reasoning":"r","rating":"91%","streaming":"Apple TV+"}]}`,
	}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	req := Request{MediaType: MediaTypeTV, Count: 1}

	if _, err := engine.Recommend(context.Background(), conv, req); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	recs, err := engine.RecommendMore(context.Background(), conv, req)
	if err != nil {
		t.Fatalf("RecommendMore: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Severance" {
		t.Fatalf("got %+v, want Severance", recs)
	}

	// The second transport call extends the same conversation rather
	// than rebuilding it: [system, user, assistant, follow-up user].
	second := llm.requests[1]
	if len(second.Messages) != 4 {
		t.Fatalf("second call sent %d messages, want 4", len(second.Messages))
	}
	followUp := second.Messages[3]
	if followUp.Role != RoleUser || !strings.Contains(followUp.Content, "1 more TV show") {
		t.Errorf("follow-up message = %+v", followUp)
	}

	// Conversation ends with the second assistant reply appended.
	if conv.Len() != 5 {
		t.Errorf("conversation has %d messages, want 5", conv.Len())
	}
}

func TestEngineRecommendMoreOnEmptyConversation(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		`{"recommendations":[{"title":"Dark","description":"d","reasoning":"r","rating":"90%","streaming":"Netflix"}]}`,
	}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	recs, err := engine.RecommendMore(context.Background(), conv, Request{MediaType: MediaTypeTV, Count: 1})
	if err != nil {
		t.Fatalf("RecommendMore: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	// Fell back to a full first round: seeded system prompt.
	if llm.requests[0].Messages[0].Role != RoleSystem {
		t.Error("fallback round did not seed a system prompt")
	}
}

func TestEngineBudgetEnforcedBeforeSend(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		`{"recommendations":[{"title":"Dark","description":"d","reasoning":"r","rating":"90%","streaming":"Netflix"}]}`,
	}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	conv.Seed("system", "round 1")
	for i := 0; i < 6; i++ {
		conv.Append(RoleAssistant, "reply")
		conv.Append(RoleUser, "another round")
	}
	if conv.Len() <= 12 {
		t.Fatalf("test setup: conversation only %d messages", conv.Len())
	}

	if _, err := engine.RecommendMore(context.Background(), conv, Request{MediaType: MediaTypeTV, Count: 1}); err != nil {
		t.Fatalf("RecommendMore: %v", err)
	}

	sent := llm.requests[0].Messages
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (system + latest user)", len(sent))
	}
	if sent[0].Role != RoleSystem || sent[1].Role != RoleUser {
		t.Errorf("unexpected roles after truncation: %+v", sent)
	}
	if !strings.Contains(sent[1].Content, "more TV show") {
		t.Errorf("latest user message is not the follow-up: %q", sent[1].Content)
	}
}

func TestEngineChunkedSend(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"ok",
		"ok",
		`{"recommendations":[{"title":"Dark","description":"d","reasoning":"r","rating":"90%","streaming":"Netflix"}]}`,
	}}
	cfg := DefaultConfig()
	engine := newTestEngine(t, cfg, llm)

	conv := NewConversation(MediaTypeTV)
	conv.Seed("system", strings.Repeat("x", 30000))

	content, err := engine.send(context.Background(), conv)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(content, "Dark") {
		t.Errorf("unexpected final content %q", content)
	}

	// 30000 chars at a 12000-char budget: exactly 3 round-trips.
	if len(llm.requests) != 3 {
		t.Fatalf("transport called %d times, want 3", len(llm.requests))
	}

	for i, req := range llm.requests[:2] {
		if req.MaxTokens != cfg.AckMaxTokens {
			t.Errorf("intermediate call %d MaxTokens = %d, want %d", i, req.MaxTokens, cfg.AckMaxTokens)
		}
		if req.Structured {
			t.Errorf("intermediate call %d requested structured output", i)
		}
		last := req.Messages[len(req.Messages)-1]
		if !strings.HasPrefix(last.Content, "part ") {
			t.Errorf("intermediate call %d last message not tagged: %q", i, last.Content[:20])
		}
	}

	final := llm.requests[2]
	if final.MaxTokens != cfg.MaxTokens {
		t.Errorf("final call MaxTokens = %d, want %d", final.MaxTokens, cfg.MaxTokens)
	}
	if !final.Structured {
		t.Error("final call did not request structured output")
	}

	// The final call sees both synthetic acknowledgments.
	acks := 0
	for _, m := range final.Messages {
		if m.Role == RoleAssistant && m.Content == ackMessage {
			acks++
		}
	}
	if acks != 2 {
		t.Errorf("final call carries %d acks, want 2", acks)
	}

	// The conversation records the expanded chunk sequence:
	// system + 2x(part+ack) + final part = 6 messages.
	if conv.Len() != 6 {
		t.Errorf("conversation has %d messages, want 6", conv.Len())
	}
}

func TestEngineTransportErrorSurfaced(t *testing.T) {
	llm := &scriptedCompleter{err: errors.New("llm request failed (HTTP 401): invalid api key")}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	_, err := engine.Recommend(context.Background(), conv, Request{MediaType: MediaTypeTV, Count: 1})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error lost transport detail: %v", err)
	}
	if len(llm.requests) != 1 {
		t.Errorf("transport called %d times, want 1 (no retries)", len(llm.requests))
	}
}

func TestEngineUnparseableResponseIsEmptyNotError(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{"I am sorry, I cannot help with that."}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	recs, err := engine.Recommend(context.Background(), conv, Request{MediaType: MediaTypeTV, Count: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations from unparseable response, want 0", len(recs))
	}
	// The raw reply still joins the conversation for future rounds.
	if conv.Len() != 3 {
		t.Errorf("conversation has %d messages, want 3", conv.Len())
	}
}

func TestEngineHistoryOnlyVerifiesAgainstWatched(t *testing.T) {
	// In history-only mode the watch history stands in for the library,
	// so a just-watched title must not survive verification even when no
	// library is configured.
	llm := &scriptedCompleter{responses: []string{
		`{"recommendations":[
			{"title":"Breaking Bad","description":"d","reasoning":"r","rating":"99%","streaming":"Netflix"},
			{"title":"Severance","description":"d","reasoning":"r","rating":"94%","streaming":"Apple TV+"}
		]}`,
	}}
	engine := newTestEngine(t, nil, llm)

	conv := NewConversation(MediaTypeTV)
	recs, err := engine.Recommend(context.Background(), conv, Request{
		MediaType:   MediaTypeTV,
		Count:       2,
		HistoryOnly: true,
		Watched:     []string{"Breaking Bad"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Severance" {
		t.Fatalf("got %+v, want only Severance", recs)
	}
}

func TestEngineValidation(t *testing.T) {
	llm := &scriptedCompleter{}
	engine := newTestEngine(t, nil, llm)

	if _, err := engine.Recommend(context.Background(), nil, Request{MediaType: MediaTypeTV}); err == nil {
		t.Error("nil conversation accepted")
	}

	conv := NewConversation(MediaTypeTV)
	if _, err := engine.Recommend(context.Background(), conv, Request{MediaType: "music"}); err == nil {
		t.Error("unsupported media type accepted")
	}
	if _, err := engine.Recommend(context.Background(), conv, Request{MediaType: MediaTypeMovie}); err == nil {
		t.Error("media type mismatch accepted")
	}

	if _, err := NewEngine(DefaultConfig(), nil, zerolog.Nop()); err == nil {
		t.Error("nil transport accepted")
	}
	bad := DefaultConfig()
	bad.Temperature = 9
	if _, err := NewEngine(bad, llm, zerolog.Nop()); err == nil {
		t.Error("invalid config accepted")
	}
}
