// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/profile"
	"github.com/recommendarr/recommendarr/internal/recommend"
)

// Settings returns the authenticated user's saved recommendation
// defaults. Fields the user never saved are omitted; clients fall back
// to their own defaults for those.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user := UserFromContext(r.Context())
	if user == "" {
		rw.Unauthorized("Authentication required")
		return
	}

	saved, err := h.profiles.Settings(r.Context(), user)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(saved)
}

// SaveSettings merges the request body into the user's saved defaults.
// Omitted fields keep their stored value.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user := UserFromContext(r.Context())
	if user == "" {
		rw.Unauthorized("Authentication required")
		return
	}

	var body profile.Settings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if body.PromptStyle != nil && !recommend.PromptStyle(*body.PromptStyle).Valid() {
		rw.BadRequest("Prompt style must be one of: vibe, analytical, creative, technical")
		return
	}

	saved, err := h.profiles.SaveSettings(r.Context(), user, &body)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(saved)
}

// ClearSettings drops the user's saved defaults.
func (h *Handler) ClearSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user := UserFromContext(r.Context())
	if user == "" {
		rw.Unauthorized("Authentication required")
		return
	}

	if err := h.profiles.ClearSettings(r.Context(), user); err != nil {
		rw.StoreError(err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
