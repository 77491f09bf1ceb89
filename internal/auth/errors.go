// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import "errors"

var (
	// ErrNoCredentials means the request carried no token.
	ErrNoCredentials = errors.New("auth: no credentials provided")

	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnknownAccount means the token is valid but its account is gone.
	ErrUnknownAccount = errors.New("auth: account not found")

	// ErrInvalidCredentials is returned by Login for an unknown e-mail and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrEmailTaken      = errors.New("auth: e-mail already registered")
	ErrUsernameTaken   = errors.New("auth: username already taken")
	ErrTooManyAttempts = errors.New("auth: too many login attempts")
)
