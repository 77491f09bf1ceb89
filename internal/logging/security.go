// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package logging

import (
	"context"
	"strings"
)

// Account lifecycle and credential events. E-mail addresses are masked
// before they reach the log.

func LogRegistration(ctx context.Context, accountID, email string) {
	Ctx(ctx).Info().
		Str("event", "account_registered").
		Str("account_id", accountID).
		Str("email", SanitizeEmail(email)).
		Msg("Account registered")
}

func LogLoginSuccess(ctx context.Context, accountID, ip string) {
	Ctx(ctx).Info().
		Str("event", "login_success").
		Str("account_id", accountID).
		Str("ip", ip).
		Msg("Login succeeded")
}

// LogLoginFailure records a failed login. reason is for operators only and
// is never returned to the client.
func LogLoginFailure(ctx context.Context, email, ip, reason string) {
	Ctx(ctx).Warn().
		Str("event", "login_failed").
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Login failed")
}

func LogPasswordResetRequested(ctx context.Context, email string, known bool) {
	Ctx(ctx).Info().
		Str("event", "password_reset_requested").
		Str("email", SanitizeEmail(email)).
		Bool("account_exists", known).
		Msg("Password reset requested")
}

// SanitizeEmail keeps the first two characters of the local part.
// "john.doe@example.com" becomes "jo***@example.com".
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// SanitizeToken keeps the first and last four characters of a credential.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
