// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/history"
	"github.com/recommendarr/recommendarr/internal/llm"
	"github.com/recommendarr/recommendarr/internal/metrics"
	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// recommendRequest is the POST /api/v1/recommendations/{mediaType} body.
// Every field is optional; omitted fields fall back to the server's
// configured defaults. Pointer fields distinguish "absent" from the
// zero value.
type recommendRequest struct {
	Count            int     `json:"count"`
	Genre            *string `json:"genre"`
	CustomVibe       *string `json:"custom_vibe"`
	Language         *string `json:"language"`
	Style            *string `json:"style"`
	HistoryOnly      *bool   `json:"history_only"`
	CustomPromptOnly *bool   `json:"custom_prompt_only"`
	SamplingEnabled  *bool   `json:"sampling_enabled"`

	// Fresh discards the live conversation before the round, forcing a
	// full prompt rebuild.
	Fresh bool `json:"fresh"`
}

// recommendResponse is the recommendation round payload.
type recommendResponse struct {
	MediaType       recommend.MediaType        `json:"media_type"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

// Recommend runs a first recommendation round for the authenticated user.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	h.runRound(w, r, false)
}

// RecommendMore runs a follow-up round in the user's live conversation.
func (h *Handler) RecommendMore(w http.ResponseWriter, r *http.Request) {
	h.runRound(w, r, true)
}

func (h *Handler) runRound(w http.ResponseWriter, r *http.Request, more bool) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())
	if user == "" {
		rw.Unauthorized("Authentication required")
		return
	}

	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if body.Style != nil && !recommend.PromptStyle(*body.Style).Valid() {
		rw.BadRequest("Style must be one of: vibe, analytical, creative, technical")
		return
	}

	req, err := h.buildRequest(r, mediaType, user, &body)
	if err != nil {
		rw.StoreError(err)
		return
	}

	if body.Fresh {
		h.conversations.reset(user, mediaType)
	}
	mc := h.conversations.get(user, mediaType)
	mc.mu.Lock()
	defer mc.mu.Unlock()

	start := time.Now()
	var recs []recommend.Recommendation
	if more {
		recs, err = h.engine.RecommendMore(r.Context(), mc.conv, req)
	} else {
		recs, err = h.engine.Recommend(r.Context(), mc.conv, req)
	}
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			rw.ServiceUnavailable("Recommendation service is temporarily unavailable")
			return
		}
		h.logger.Error().Err(err).
			Str("user", user).
			Str("media_type", string(mediaType)).
			Msg("Recommendation round failed")
		rw.ExternalServiceError("llm", err)
		return
	}
	metrics.RecordRecommendationRound(string(mediaType), len(recs), time.Since(start))

	// Accepted titles join the previously-recommended set so later
	// rounds filter repeats even after the conversation is discarded.
	if len(recs) > 0 {
		titles := make([]string, 0, len(recs))
		for _, rec := range recs {
			titles = append(titles, rec.Title)
		}
		if _, err := h.profiles.Add(r.Context(), user, mediaType, profile.ListPrevious, titles...); err != nil {
			h.logger.Error().Err(err).Str("user", user).Msg("Failed to record recommended titles")
		}
	}

	rw.Success(recommendResponse{
		MediaType:       mediaType,
		Recommendations: recs,
		Count:           len(recs),
	})
}

// buildRequest assembles a recommendation round. Defaults layer in
// priority order: server configuration, then the user's saved settings,
// then the request body.
func (h *Handler) buildRequest(r *http.Request, mediaType recommend.MediaType, user string, body *recommendRequest) (recommend.Request, error) {
	defaults := h.cfg.Recommend

	req := recommend.Request{
		MediaType:        mediaType,
		Count:            body.Count,
		Genre:            defaults.Genre,
		CustomVibe:       defaults.CustomVibe,
		Language:         defaults.Language,
		Style:            recommend.PromptStyle(defaults.PromptStyle),
		HistoryOnly:      defaults.HistoryOnly,
		CustomPromptOnly: defaults.CustomPromptOnly,
	}

	saved, err := h.profiles.Settings(r.Context(), user)
	if err != nil {
		return recommend.Request{}, err
	}
	if saved.Genre != nil {
		req.Genre = *saved.Genre
	}
	if saved.CustomVibe != nil {
		req.CustomVibe = *saved.CustomVibe
	}
	if saved.Language != nil {
		req.Language = *saved.Language
	}
	if saved.PromptStyle != nil {
		req.Style = recommend.PromptStyle(*saved.PromptStyle)
	}
	if saved.HistoryOnly != nil {
		req.HistoryOnly = *saved.HistoryOnly
	}
	if saved.CustomPromptOnly != nil {
		req.CustomPromptOnly = *saved.CustomPromptOnly
	}
	if saved.SamplingEnabled != nil {
		req.Sampling = saved.SamplingEnabled
	}

	if body.Genre != nil {
		req.Genre = *body.Genre
	}
	if body.CustomVibe != nil {
		req.CustomVibe = *body.CustomVibe
	}
	if body.Language != nil {
		req.Language = *body.Language
	}
	if body.Style != nil {
		req.Style = recommend.PromptStyle(*body.Style)
	}
	if body.HistoryOnly != nil {
		req.HistoryOnly = *body.HistoryOnly
	}
	if body.CustomPromptOnly != nil {
		req.CustomPromptOnly = *body.CustomPromptOnly
	}
	if body.SamplingEnabled != nil {
		req.Sampling = body.SamplingEnabled
	}

	stored, err := h.profiles.Load(r.Context(), user, mediaType)
	if err != nil {
		return recommend.Request{}, err
	}
	req.Liked = stored.Liked
	req.Disliked = stored.Disliked
	req.Previous = stored.Previous

	// The library list is server-wide, kept under the shared owner key.
	req.Library, err = h.profiles.Titles(r.Context(), profile.LibraryOwner, mediaType, profile.ListLibrary)
	if err != nil {
		return recommend.Request{}, err
	}

	// Watch history is skipped when the round ignores it anyway; the
	// sources are remote calls.
	if !req.CustomPromptOnly {
		req.Watched = history.Aggregate(r.Context(), h.logger, h.sources, mediaType, defaultHistoryLimit)
	}

	return req, nil
}
