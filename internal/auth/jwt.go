// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by an access token. The session ID
// lives in the registered ID (jti) claim and ties the token to a
// revocable server-side session.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionID returns the server-side session this token is bound to.
func (c *Claims) SessionID() string {
	return c.ID
}

// TokenManager creates and validates HMAC-SHA256 signed access tokens.
type TokenManager struct {
	secret  []byte
	timeout time.Duration
}

// NewTokenManager creates a token manager. The secret must be at least
// 32 bytes; config validation enforces that before we get here.
func NewTokenManager(secret string, timeout time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required but was empty")
	}

	return &TokenManager{
		secret:  []byte(secret),
		timeout: timeout,
	}, nil
}

// Generate creates a signed token for a user, bound to sessionID.
func (m *TokenManager) Generate(username, sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.timeout)

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, and time claims, returning the
// parsed claims. Rejecting non-HMAC algorithms blocks algorithm
// confusion attacks.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
