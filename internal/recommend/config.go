// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package recommend

import "fmt"

// Config holds the pipeline tunables. Zero values are replaced by
// DefaultConfig values during validation where noted.
type Config struct {
	// MaxConversationMessages is the message-count ceiling. A conversation
	// longer than this is collapsed to [system, latest user] before
	// sending. Default: 12.
	MaxConversationMessages int

	// ChunkSize is the character budget for a single user message.
	// Longer messages are split across multiple round-trips. 12000 chars
	// is a conservative proxy for roughly 3000 tokens. Default: 12000.
	ChunkSize int

	// MaxTokens is the response-token budget for the final (or only)
	// round-trip of a request. Default: 4000.
	MaxTokens int

	// AckMaxTokens is the minimal response budget used for intermediate
	// chunk deliveries, where only an acknowledgment is needed.
	// Default: 16.
	AckMaxTokens int

	// Temperature is forwarded to the transport. Default: 0.8.
	Temperature float32

	// StructuredOutput requests a JSON-schema-constrained response format
	// from transports that support it. Default: true.
	StructuredOutput bool

	// SamplingEnabled draws a random library sample for the prompt
	// instead of the full title list. Verification is unaffected.
	SamplingEnabled bool

	// SampleSize is the library sample size when sampling is enabled.
	// Default: 100.
	SampleSize int

	// Seed seeds the sampling RNG for reproducible prompts. 0 selects
	// the fixed default seed.
	Seed int64

	// OnDrop, when set, observes every candidate rejected during
	// verification with the exclusion set that matched. Lets callers
	// feed instrumentation without coupling this package to a registry.
	OnDrop func(mediaType MediaType, reason string)
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxConversationMessages: 12,
		ChunkSize:               12000,
		MaxTokens:               4000,
		AckMaxTokens:            16,
		Temperature:             0.8,
		StructuredOutput:        true,
		SamplingEnabled:         true,
		SampleSize:              100,
	}
}

// Validate checks the configuration and applies defaults for zero values.
func (c *Config) Validate() error {
	if c.MaxConversationMessages == 0 {
		c.MaxConversationMessages = 12
	}
	if c.MaxConversationMessages < 2 {
		return fmt.Errorf("max conversation messages must be >= 2, got %d", c.MaxConversationMessages)
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 12000
	}
	if c.ChunkSize < 1000 {
		return fmt.Errorf("chunk size must be >= 1000 characters, got %d", c.ChunkSize)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4000
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.AckMaxTokens == 0 {
		c.AckMaxTokens = 16
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0,2], got %g", c.Temperature)
	}
	if c.SampleSize == 0 {
		c.SampleSize = 100
	}
	if c.SampleSize < 1 {
		return fmt.Errorf("sample size must be >= 1, got %d", c.SampleSize)
	}
	return nil
}
