// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/history"
	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// titlesRequest is the body for preference mutations.
type titlesRequest struct {
	Titles []string `json:"titles"`
}

// titlesResponse returns the full list after a read or mutation.
type titlesResponse struct {
	MediaType recommend.MediaType `json:"media_type"`
	List      string              `json:"list"`
	Titles    []string            `json:"titles"`
	Count     int                 `json:"count"`
}

func decodeTitles(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var body titlesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		NewResponseWriter(w, r).BadRequest("Invalid JSON body")
		return nil, false
	}

	titles := make([]string, 0, len(body.Titles))
	for _, t := range body.Titles {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	if len(titles) == 0 {
		NewResponseWriter(w, r).BadRequest("At least one non-empty title is required")
		return nil, false
	}
	return titles, true
}

// Preferences returns the user's liked or disliked titles.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}
	list, ok := listParam(w, r)
	if !ok {
		return
	}

	titles, err := h.profiles.Titles(r.Context(), UserFromContext(r.Context()), mediaType, list)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(list),
		Titles:    titles,
		Count:     len(titles),
	})
}

// AddPreferences appends titles to the liked or disliked list.
func (h *Handler) AddPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}
	list, ok := listParam(w, r)
	if !ok {
		return
	}
	titles, ok := decodeTitles(w, r)
	if !ok {
		return
	}

	updated, err := h.profiles.Add(r.Context(), UserFromContext(r.Context()), mediaType, list, titles...)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(list),
		Titles:    updated,
		Count:     len(updated),
	})
}

// RemovePreferences removes titles from the liked or disliked list.
func (h *Handler) RemovePreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}
	list, ok := listParam(w, r)
	if !ok {
		return
	}
	titles, ok := decodeTitles(w, r)
	if !ok {
		return
	}

	updated, err := h.profiles.Remove(r.Context(), UserFromContext(r.Context()), mediaType, list, titles...)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(list),
		Titles:    updated,
		Count:     len(updated),
	})
}

// Library returns the synced library titles for the media type.
func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}

	titles, err := h.profiles.Titles(r.Context(), profile.LibraryOwner, mediaType, profile.ListLibrary)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(profile.ListLibrary),
		Titles:    titles,
		Count:     len(titles),
	})
}

// RefreshLibrary forces an immediate library sync from the connected
// media managers for the media type, outside the periodic schedule.
func (h *Handler) RefreshLibrary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}

	var titles []string
	synced := false
	for _, lib := range h.libraries {
		if lib.MediaType() != mediaType {
			continue
		}
		fetched, err := lib.Titles(r.Context())
		if err != nil {
			rw.ExternalServiceError(lib.Name(), err)
			return
		}
		titles = append(titles, fetched...)
		synced = true
	}
	if !synced {
		rw.NotFound("No media manager is configured for this media type")
		return
	}

	if err := h.profiles.Replace(r.Context(), profile.LibraryOwner, mediaType, profile.ListLibrary, titles); err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(profile.ListLibrary),
		Titles:    titles,
		Count:     len(titles),
	})
}

// PreviousRecommendations returns the previously-recommended set.
func (h *Handler) PreviousRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}

	titles, err := h.profiles.Titles(r.Context(), UserFromContext(r.Context()), mediaType, profile.ListPrevious)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(titlesResponse{
		MediaType: mediaType,
		List:      string(profile.ListPrevious),
		Titles:    titles,
		Count:     len(titles),
	})
}

// ClearPreviousRecommendations empties the previously-recommended set
// and discards the live conversation, so the next round starts clean.
func (h *Handler) ClearPreviousRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	if err := h.profiles.Clear(r.Context(), user, mediaType, profile.ListPrevious); err != nil {
		rw.StoreError(err)
		return
	}
	h.conversations.reset(user, mediaType)

	rw.NoContent()
}

// watchHistoryResponse is the GET /api/v1/history/{mediaType} payload.
type watchHistoryResponse struct {
	MediaType recommend.MediaType `json:"media_type"`
	Titles    []string            `json:"titles"`
	Count     int                 `json:"count"`
}

// WatchHistory returns recently-watched titles aggregated across the
// configured history sources.
func (h *Handler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	mediaType, ok := mediaTypeParam(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			rw.BadRequest("Limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	titles := history.Aggregate(r.Context(), h.logger, h.sources, mediaType, limit)

	rw.Success(watchHistoryResponse{
		MediaType: mediaType,
		Titles:    titles,
		Count:     len(titles),
	})
}
