// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

// Package auth provides local-credential authentication for the API:
// bcrypt-verified admin login, HMAC-signed JWT access tokens, and a
// BadgerDB session store so logout actually revokes tokens instead of
// waiting for them to expire.
//
// Auth mode "none" disables the whole package for development
// deployments; the middleware then passes every request through with a
// fixed local identity.
package auth
