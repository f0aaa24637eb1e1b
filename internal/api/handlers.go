// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/recommendarr/recommendarr/internal/auth"
	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/history"
	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// defaultHistoryLimit bounds how many recently-watched titles are pulled
// from history sources for a recommendation round.
const defaultHistoryLimit = 30

// Recommender runs recommendation rounds. Satisfied by recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, conv *recommend.Conversation, req recommend.Request) ([]recommend.Recommendation, error)
	RecommendMore(ctx context.Context, conv *recommend.Conversation, req recommend.Request) ([]recommend.Recommendation, error)
}

// LibraryClient is a media-manager connection (Sonarr or Radarr).
// Satisfied by arr.Client.
type LibraryClient interface {
	Name() string
	MediaType() recommend.MediaType
	Titles(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// BreakerStatus exposes an upstream circuit breaker's state for health
// reporting. Satisfied by llm.Client.
type BreakerStatus interface {
	BreakerState() string
}

// Handler holds the HTTP handler dependencies.
type Handler struct {
	cfg           *config.Config
	engine        Recommender
	profiles      *profile.Store
	sources       []history.Source
	libraries     []LibraryClient
	auth          *auth.Manager
	conversations *conversationRegistry
	llmStatus     BreakerStatus
	logger        zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(
	cfg *config.Config,
	engine Recommender,
	profiles *profile.Store,
	sources []history.Source,
	libraries []LibraryClient,
	authManager *auth.Manager,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:           cfg,
		engine:        engine,
		profiles:      profiles,
		sources:       sources,
		libraries:     libraries,
		auth:          authManager,
		conversations: newConversationRegistry(),
		logger:        logger.With().Str("component", "api").Logger(),
	}
}

// ConfigureLLMStatus attaches the LLM transport's breaker state to the
// health endpoint. Optional; health simply omits the entry without it.
func (h *Handler) ConfigureLLMStatus(status BreakerStatus) {
	h.llmStatus = status
}

// mediaTypeParam parses the {mediaType} URL parameter. The second
// return value reports whether it was valid; an error response has
// already been written when it is false.
func mediaTypeParam(w http.ResponseWriter, r *http.Request) (recommend.MediaType, bool) {
	mt := recommend.MediaType(chi.URLParam(r, "mediaType"))
	if !mt.Valid() {
		NewResponseWriter(w, r).BadRequest("Media type must be \"tv\" or \"movie\"")
		return "", false
	}
	return mt, true
}

// listParam parses the {list} URL parameter for preference endpoints.
func listParam(w http.ResponseWriter, r *http.Request) (profile.List, bool) {
	switch chi.URLParam(r, "list") {
	case "liked":
		return profile.ListLiked, true
	case "disliked":
		return profile.ListDisliked, true
	default:
		NewResponseWriter(w, r).BadRequest("List must be \"liked\" or \"disliked\"")
		return "", false
	}
}
