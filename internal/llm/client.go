// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/metrics"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// breakerName labels the LLM circuit breaker in logs and metrics.
const breakerName = "llm-api"

// ErrUnavailable marks requests rejected while the circuit breaker is
// open or half-open. Callers can map it to a 503 without reaching into
// breaker internals.
var ErrUnavailable = errors.New("llm temporarily unavailable")

// recommendationSchema constrains structured responses to the payload
// the response parser expects.
var recommendationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title":       {"type": "string"},
					"description": {"type": "string"},
					"reasoning":   {"type": "string"},
					"rating":      {"type": "string"},
					"streaming":   {"type": "string"}
				},
				"required": ["title", "description", "reasoning", "rating", "streaming"],
				"additionalProperties": false
			}
		}
	},
	"required": ["recommendations"],
	"additionalProperties": false
}`)

// Client is the OpenAI-compatible chat-completion transport. It
// implements recommend.ChatCompleter and is safe for concurrent use.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger

	// limiter throttles outbound calls; nil when unlimited.
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[openai.ChatCompletionResponse]
}

// NewClient creates a transport for the configured endpoint.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg *config.LLMConfig, logger zerolog.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[openai.ChatCompletionResponse](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Open after a 60% failure rate with at least 5 requests.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Warn().Str("from", fromStr).Str("to", toStr).Msg("llm circuit breaker state change")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
		limiter: limiter,
		cb:      cb,
	}
}

// BreakerState reports the circuit breaker state ("closed",
// "half-open", "open") for health reporting.
func (c *Client) BreakerState() string {
	return stateToString(c.cb.State())
}

// Complete sends one chat-completion round-trip and returns the
// assistant content. Errors carry the provider's HTTP status and
// message where available; the caller owns any retry policy.
func (c *Client) Complete(ctx context.Context, req recommend.ChatRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Structured {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "recommendations",
				Schema: recommendationSchema,
				Strict: true,
			},
		}
	}

	start := time.Now()
	resp, err := c.cb.Execute(func() (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, chatReq)
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordLLMRequest(c.model, "rejected", elapsed)
			c.logger.Warn().Err(err).Msg("llm request rejected by circuit breaker")
			return "", fmt.Errorf("%w: %s", ErrUnavailable, err)
		}

		metrics.RecordLLMRequest(c.model, "error", elapsed)

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error().Int("status", apiErr.HTTPStatusCode).Str("provider_message", apiErr.Message).Msg("llm request failed")
			return "", fmt.Errorf("llm request failed (HTTP %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}

		c.logger.Error().Err(err).Msg("llm request failed")
		return "", fmt.Errorf("llm request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.RecordLLMRequest(c.model, "error", elapsed)
		return "", fmt.Errorf("llm returned no choices")
	}

	metrics.RecordLLMRequest(c.model, "success", elapsed)
	metrics.RecordLLMTokens(c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	c.logger.Debug().
		Dur("elapsed", elapsed).
		Int("messages", len(req.Messages)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("llm round-trip complete")

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []recommend.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
