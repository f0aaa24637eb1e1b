// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/recommendarr/recommendarr/internal/config"
	"github.com/recommendarr/recommendarr/internal/metrics"
)

// ErrInvalidCredentials is returned on a failed login. Deliberately
// identical for unknown user and wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// bcryptCost balances hashing strength against login latency.
const bcryptCost = 12

// Manager owns the login lifecycle: credential verification, token
// issue, and session revocation.
type Manager struct {
	mode         string
	username     string
	passwordHash []byte
	tokens       *TokenManager
	sessions     *SessionStore
	logger       zerolog.Logger
}

// NewManager creates an auth manager. The admin password is bcrypt
// hashed once here and the plaintext is never retained.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(cfg *config.AuthConfig, db *badger.DB, logger zerolog.Logger) (*Manager, error) {
	if cfg.Mode == "none" {
		return &Manager{mode: "none", logger: logger}, nil
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials are required in jwt mode")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	tokens, err := NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	return &Manager{
		mode:         cfg.Mode,
		username:     cfg.AdminUsername,
		passwordHash: hash,
		tokens:       tokens,
		sessions:     NewSessionStore(db),
		logger:       logger,
	}, nil
}

// Enabled reports whether authentication is enforced.
func (m *Manager) Enabled() bool {
	return m.mode != "none"
}

// Login verifies credentials and returns a signed access token with its
// expiry. Comparison is constant-time on both username and password.
func (m *Manager) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil

	if !usernameMatch || !passwordMatch {
		metrics.RecordAuthAttempt(false)
		m.logger.Warn().Str("username", username).Msg("failed login attempt")
		return "", time.Time{}, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := m.tokens.Generate(username, sessionID)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		return "", time.Time{}, err
	}

	session := &Session{
		ID:        sessionID,
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		metrics.RecordAuthAttempt(false)
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	metrics.RecordAuthAttempt(true)
	metrics.AuthActiveSessions.Inc()
	m.logger.Info().Str("username", username).Msg("login successful")

	return token, expiresAt, nil
}

// Logout revokes the session behind a token. An invalid token is an
// error; an already-revoked session is not.
func (m *Manager) Logout(ctx context.Context, token string) error {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return err
	}

	if err := m.sessions.Delete(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	metrics.AuthActiveSessions.Dec()
	m.logger.Info().Str("username", claims.Username).Msg("logout")
	return nil
}

// Authenticate validates a token and checks its session is still live.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	if _, err := m.sessions.Get(ctx, claims.SessionID()); err != nil {
		return nil, fmt.Errorf("session check: %w", err)
	}

	return claims, nil
}
