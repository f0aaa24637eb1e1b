// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/recommendarr/recommendarr/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(&config.AuthConfig{
		Mode:          "jwt",
		JWTSecret:     testSecret,
		AdminUsername: "admin",
		AdminPassword: "correct horse",
		SessionTTL:    time.Hour,
	}, newTestDB(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestLoginAndAuthenticate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, expiresAt, err := m.Login(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiresAt = %v, want future", expiresAt)
	}

	claims, err := m.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %q", claims.Username)
	}
	if claims.SessionID() == "" {
		t.Error("SessionID is empty")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"wrong username", "intruder", "correct horse"},
		{"both wrong", "intruder", "wrong"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := m.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Login(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := m.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	// The token still has a valid signature but its session is gone.
	if _, err := m.Authenticate(ctx, token); err == nil {
		t.Error("Authenticate() after logout = nil, want session error")
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Login(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.Authenticate(ctx, tampered); err == nil {
		t.Error("Authenticate() on tampered token = nil, want error")
	}
}

func TestAuthenticateRejectsTokenFromOtherSecret(t *testing.T) {
	m := newTestManager(t)

	other, err := NewTokenManager(strings.Repeat("x", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	foreign, _, err := other.Generate("admin", "some-session")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m.Authenticate(context.Background(), foreign); err == nil {
		t.Error("Authenticate() on foreign token = nil, want error")
	}
}

func TestTokenExpiry(t *testing.T) {
	tm, err := NewTokenManager(testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	expired, _, err := tm.Generate("admin", "sid")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := tm.Validate(expired); err == nil {
		t.Error("Validate() on expired token = nil, want error")
	}
}

func TestManagerModeNone(t *testing.T) {
	m, err := NewManager(&config.AuthConfig{Mode: "none"}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.Enabled() {
		t.Error("Enabled() = true in none mode")
	}
}

func TestManagerRequiresCredentialsInJWTMode(t *testing.T) {
	_, err := NewManager(&config.AuthConfig{
		Mode:      "jwt",
		JWTSecret: testSecret,
	}, newTestDB(t), zerolog.Nop())
	if err == nil {
		t.Error("NewManager() = nil, want error for missing credentials")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(newTestDB(t))
	ctx := context.Background()

	session := &Session{
		ID:        "expired-session",
		Username:  "admin",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	// Expired entries are rejected on read even before badger's TTL
	// sweep removes them.
	err := store.db.Update(func(txn *badger.Txn) error {
		data := []byte(`{"id":"expired-session","username":"admin","created_at":"2020-01-01T00:00:00Z","expires_at":"2020-01-01T01:00:00Z"}`)
		return txn.Set([]byte(sessionKeyPrefix+session.ID), data)
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := store.Get(ctx, "expired-session"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
}

func TestSessionStoreDeleteMissing(t *testing.T) {
	store := NewSessionStore(newTestDB(t))
	if err := store.Delete(context.Background(), "never-existed"); err != nil {
		t.Errorf("Delete() on missing session error = %v", err)
	}
}
