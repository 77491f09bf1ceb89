// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"errors"
	"net"
	"net/http"

	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/models"
)

// SessionUser is the account shown in register and login responses.
type SessionUser struct {
	ID             string   `json:"id"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	Username       string   `json:"username"`
	Photo          string   `json:"photo,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty"`
}

// SessionResponse carries a signed token and its account.
type SessionResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// Register creates an account.
//
// @Summary Register a new account
// @Description Creates an account and returns a signed token. A username is generated when none is chosen.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} APIResponse{data=SessionResponse}
// @Failure 400 {object} APIResponse "Validation error or e-mail already registered"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterRequest
	if !bind(rw, r, &req) {
		return
	}

	session, err := h.auth.Register(r.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		rw.Duplicate("User already exists with this email")
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		rw.Duplicate("Username already taken")
		return
	case err != nil:
		rw.Fail(err)
		return
	}

	h.setTokenCookie(w, session.Token)
	a := session.Account
	rw.Created(SessionResponse{
		Token: session.Token,
		User:  SessionUser{ID: a.ID, FullName: a.FullName, Email: a.Email, Username: a.Username},
	})
}

// Login authenticates with e-mail and password.
//
// @Summary Log in
// @Description Verifies credentials and returns a signed token. Unknown e-mail and wrong password are indistinguishable.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=SessionResponse}
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 429 {object} APIResponse "Too many attempts"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if !bind(rw, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		rw.Fail(err)
		return
	}

	h.setTokenCookie(w, session.Token)
	rw.Success(SessionResponse{Token: session.Token, User: sessionUser(session.Account)})
}

// Me returns the authenticated account.
//
// @Summary Get the current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=map[string]models.AccountProfile}
// @Failure 401 {object} APIResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	rw.Success(map[string]interface{}{"user": hctx.Account.Profile()})
}

// ForgotPassword accepts a reset request. The answer is the same whether or
// not the address is registered.
//
// @Summary Request a password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account e-mail"
// @Success 200 {object} APIResponse
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ForgotPasswordRequest
	if !bind(rw, r, &req) {
		return
	}

	h.auth.ForgotPassword(r.Context(), req.Email)
	rw.Message("If an account exists, a password reset email has been sent")
}

func sessionUser(a *models.Account) SessionUser {
	return SessionUser{
		ID:             a.ID,
		FullName:       a.FullName,
		Email:          a.Email,
		Username:       a.Username,
		Photo:          a.Photo,
		Bio:            a.Bio,
		FavoriteGenres: a.FavoriteGenres,
	}
}

// setTokenCookie mirrors the bearer token into an HttpOnly cookie for
// browser clients.
func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.Security.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP returns the host part of RemoteAddr, which RealIP has already
// replaced with the forwarded address when one is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
