// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package llm provides the chat-completion transport for the
// recommendation engine. It speaks the OpenAI wire protocol, which
// covers OpenAI itself plus the compatible local servers (Ollama,
// LM Studio, vLLM, LocalAI) when pointed at their /v1 endpoints.
//
// The client wraps every call with a client-side rate limiter and a
// circuit breaker so a misbehaving provider degrades recommendations
// without taking the rest of the application down with it.
package llm
