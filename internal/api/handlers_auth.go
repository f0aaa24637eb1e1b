// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/recommendarr/recommendarr/internal/auth"
)

// loginRequest is the POST /api/v1/auth/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries the issued bearer token.
type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login authenticates the admin user and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.auth.Enabled() {
		rw.BadRequest("Authentication is disabled")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		rw.BadRequest("Username and password are required")
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			rw.Unauthorized("Invalid username or password")
			return
		}
		h.logger.Error().Err(err).Msg("Login failed")
		rw.InternalError("Login failed")
		return
	}

	rw.Success(loginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout revokes the presented bearer token's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.auth.Enabled() {
		rw.NoContent()
		return
	}

	token := bearerToken(r)
	if token == "" {
		rw.Unauthorized("Missing bearer token")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		rw.Unauthorized("Invalid or expired token")
		return
	}

	rw.NoContent()
}
