// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/store"
)

const (
	defaultNotificationPageSize = 20

	userSearchMinLength = 2
	userSearchLimit     = 10
)

// FriendSummary is a friend as listed by GET /api/social/friends.
type FriendSummary struct {
	models.AccountSummary
	FavoriteGenres []string `json:"favoriteGenres"`
}

// FriendsResponse is the body of GET /api/social/friends.
type FriendsResponse struct {
	Friends []FriendSummary `json:"friends"`
	Count   int             `json:"count"`
}

// NotificationsResponse is the body of GET /api/social/notifications.
type NotificationsResponse struct {
	Notifications []models.NotificationView `json:"notifications"`
	UnreadCount   int                       `json:"unreadCount"`
}

// GetFriends lists the caller's accepted friends.
//
// @Summary List friends
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=FriendsResponse}
// @Router /social/friends [get]
func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	ids, err := h.friendIDs(ctx, hctx.AccountID)
	if err != nil {
		rw.Fail(err)
		return
	}

	friends := make([]FriendSummary, 0, len(ids))
	for _, id := range ids {
		account, err := h.store.Accounts.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			rw.Fail(err)
			return
		}
		friends = append(friends, FriendSummary{
			AccountSummary: account.Summary(),
			FavoriteGenres: account.FavoriteGenres,
		})
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].FullName < friends[j].FullName })

	rw.Success(FriendsResponse{Friends: friends, Count: len(friends)})
}

// SendFriendRequest creates a pending friendship and notifies the
// recipient.
//
// @Summary Send a friend request
// @Tags Social
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FriendRequestRequest true "Recipient"
// @Success 201 {object} APIResponse{data=map[string]models.Friendship}
// @Failure 400 {object} APIResponse "Self request or request already exists"
// @Failure 404 {object} APIResponse "User not found"
// @Router /social/friends/request [post]
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req FriendRequestRequest
	if !bind(rw, r, &req) {
		return
	}
	if req.UserID == hctx.AccountID {
		rw.BadRequest("Cannot send friend request to yourself")
		return
	}

	if _, err := h.store.Accounts.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.Fail(err)
		return
	}

	now := h.clock()
	friendship := &models.Friendship{
		ID:          uuid.NewString(),
		RequesterID: hctx.AccountID,
		RecipientID: req.UserID,
		Status:      models.FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.Friendships.Insert(ctx, friendship); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			rw.Duplicate("Friend request already exists")
			return
		}
		rw.Fail(err)
		return
	}

	h.notify.NotifyQuietly(ctx, notify.Event{
		UserID:        req.UserID,
		Type:          models.NotificationFriendRequest,
		Title:         "New Friend Request",
		Message:       fmt.Sprintf("%s sent you a friend request", hctx.Account.FullName),
		RelatedUserID: hctx.AccountID,
	})

	rw.Created(map[string]interface{}{"friendRequest": friendship})
}

// loadFriendRequest loads the request named by the requestId URL parameter
// and checks that the caller may respond to it.
func (h *Handler) loadFriendRequest(rw *ResponseWriter, r *http.Request, verb string) *models.Friendship {
	friendship, err := h.store.Friendships.Get(r.Context(), chi.URLParam(r, "requestId"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Friend request not found")
		return nil
	}
	if err != nil {
		rw.Fail(err)
		return nil
	}
	if err := h.context(r).Authorize(friendship, authz.ActionRespond); err != nil {
		if isForbidden(err) {
			rw.Forbidden(fmt.Sprintf("Not authorized to %s this request", verb))
			return nil
		}
		rw.Fail(err)
		return nil
	}
	return friendship
}

// AcceptFriendRequest accepts a pending request addressed to the caller.
//
// @Summary Accept a friend request
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Friend request ID"
// @Success 200 {object} APIResponse{data=map[string]models.Friendship}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/friends/accept/{requestId} [put]
func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	friendship := h.loadFriendRequest(rw, r, "accept")
	if friendship == nil {
		return
	}
	if friendship.Status == models.FriendshipAccepted {
		rw.BadRequest("Friend request already accepted")
		return
	}

	now := h.clock()
	updated, err := h.store.Friendships.Update(ctx, friendship.ID, func(f *models.Friendship) error {
		f.Status = models.FriendshipAccepted
		f.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Friend request not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	h.notify.NotifyQuietly(ctx, notify.Event{
		UserID:        updated.RequesterID,
		Type:          models.NotificationFriendAccepted,
		Title:         "Friend Request Accepted",
		Message:       fmt.Sprintf("%s accepted your friend request", hctx.Account.FullName),
		RelatedUserID: hctx.AccountID,
	})

	rw.Success(map[string]interface{}{"friendRequest": updated})
}

// RejectFriendRequest deletes a request addressed to the caller.
//
// @Summary Reject a friend request
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Friend request ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/friends/reject/{requestId} [put]
func (h *Handler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	friendship := h.loadFriendRequest(rw, r, "reject")
	if friendship == nil {
		return
	}
	if err := h.store.Friendships.Delete(r.Context(), friendship.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}

	rw.Message("Friend request rejected")
}

// GetFriendRequests lists pending requests sent or received by the caller,
// newest first.
//
// @Summary List pending friend requests
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=map[string][]models.FriendshipView}
// @Router /social/friends/requests [get]
func (h *Handler) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	pending, err := h.store.Friendships.FindWhere(ctx, store.UserRef(hctx.AccountID), func(f *models.Friendship) bool {
		return f.Status == models.FriendshipPending
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	store.SortNewestFirst(pending,
		func(f *models.Friendship) time.Time { return f.CreatedAt },
		func(f *models.Friendship) string { return f.ID })

	ids := make([]string, 0, 2*len(pending))
	for i := range pending {
		ids = append(ids, pending[i].RequesterID, pending[i].RecipientID)
	}
	accounts, err := h.accountSummaries(ctx, ids...)
	if err != nil {
		rw.Fail(err)
		return
	}

	views := make([]models.FriendshipView, 0, len(pending))
	for i := range pending {
		views = append(views, models.FriendshipView{
			Friendship: pending[i],
			Requester:  accounts[pending[i].RequesterID],
			Recipient:  accounts[pending[i].RecipientID],
		})
	}

	rw.Success(map[string]interface{}{"requests": views})
}

// SearchUsers finds accounts by name, e-mail or username, excluding the
// caller and existing friends.
//
// @Summary Search users
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param q query string true "At least two characters"
// @Success 200 {object} APIResponse{data=map[string][]FriendSummary}
// @Router /social/users/search [get]
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if len([]rune(q)) < userSearchMinLength {
		rw.Success(map[string]interface{}{"users": []FriendSummary{}})
		return
	}

	friends, err := h.friendIDs(ctx, hctx.AccountID)
	if err != nil {
		rw.Fail(err)
		return
	}
	excluded := make(map[string]struct{}, len(friends)+1)
	excluded[hctx.AccountID] = struct{}{}
	for _, id := range friends {
		excluded[id] = struct{}{}
	}

	matches, err := h.store.Accounts.FindWhere(ctx, "", func(a *models.Account) bool {
		if _, skip := excluded[a.ID]; skip {
			return false
		}
		return strings.Contains(strings.ToLower(a.FullName), q) ||
			strings.Contains(strings.ToLower(a.Email), q) ||
			strings.Contains(strings.ToLower(a.Username), q)
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].FullName != matches[j].FullName {
			return matches[i].FullName < matches[j].FullName
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > userSearchLimit {
		matches = matches[:userSearchLimit]
	}

	users := make([]FriendSummary, 0, len(matches))
	for i := range matches {
		users = append(users, FriendSummary{
			AccountSummary: matches[i].Summary(),
			FavoriteGenres: matches[i].FavoriteGenres,
		})
	}
	rw.Success(map[string]interface{}{"users": users})
}

// GetNotifications lists the caller's notifications, newest first.
//
// @Summary List notifications
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} APIResponse{data=NotificationsResponse}
// @Router /social/notifications [get]
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	all, err := h.store.Notifications.Find(ctx, store.UserRef(hctx.AccountID))
	if err != nil {
		rw.Fail(err)
		return
	}
	store.SortNewestFirst(all,
		func(n *models.Notification) time.Time { return n.CreatedAt },
		func(n *models.Notification) string { return n.ID })

	unread := 0
	for i := range all {
		if !all[i].IsRead {
			unread++
		}
	}

	offset, limit := listWindow(r, defaultNotificationPageSize, h.config.API.MaxPageSize)
	window := store.Paginate(all, offset, limit)

	ids := make([]string, 0, len(window))
	for i := range window {
		ids = append(ids, window[i].RelatedUserID)
	}
	accounts, err := h.accountSummaries(ctx, ids...)
	if err != nil {
		rw.Fail(err)
		return
	}
	views := make([]models.NotificationView, 0, len(window))
	for i := range window {
		views = append(views, models.NotificationView{
			Notification: window[i],
			RelatedUser:  accounts[window[i].RelatedUserID],
		})
	}

	rw.SuccessWithPagination(NotificationsResponse{Notifications: views, UnreadCount: unread},
		NewPagination(len(all), len(views), offset, limit))
}

// MarkNotificationRead marks one notification as read.
//
// @Summary Mark a notification read
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} APIResponse{data=map[string]models.Notification}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	notification, err := h.store.Notifications.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Notification not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}
	if err := hctx.Authorize(notification, authz.ActionUpdate); err != nil {
		if isForbidden(err) {
			rw.Forbidden("Not authorized")
			return
		}
		rw.Fail(err)
		return
	}

	now := h.clock()
	updated, err := h.store.Notifications.Update(ctx, notification.ID, func(n *models.Notification) error {
		n.MarkRead(now)
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(map[string]interface{}{"notification": updated})
}

// MarkAllNotificationsRead marks every unread notification of the caller as
// read.
//
// @Summary Mark all notifications read
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=map[string]int}
// @Router /social/notifications/read-all [put]
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	unread, err := h.store.Notifications.FindWhere(ctx, store.UserRef(hctx.AccountID), func(n *models.Notification) bool {
		return !n.IsRead
	})
	if err != nil {
		rw.Fail(err)
		return
	}

	now := h.clock()
	updated := 0
	for i := range unread {
		_, err := h.store.Notifications.Update(ctx, unread[i].ID, func(n *models.Notification) error {
			n.MarkRead(now)
			return nil
		})
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			rw.Fail(err)
			return
		}
		updated++
	}

	rw.Success(map[string]int{"updated": updated})
}

// NotificationStream upgrades to a websocket that receives the caller's new
// notifications as they are created.
//
// @Summary Stream notifications
// @Description Websocket. Browsers may pass the token as the token query parameter.
// @Tags Social
// @Security BearerAuth
// @Param token query string false "JWT when headers cannot be set"
// @Success 101 "Switching Protocols"
// @Failure 503 {object} APIResponse "Streaming disabled"
// @Router /social/notifications/stream [get]
func (h *Handler) NotificationStream(w http.ResponseWriter, r *http.Request) {
	hctx := h.context(r)

	if h.hub == nil || !h.notify.Enabled() {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Notification streaming is disabled")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Notification stream upgrade failed")
		return
	}
	if client := h.hub.ServeConn(conn, hctx.AccountID); client == nil {
		logging.Ctx(r.Context()).Warn().Msg("Notification hub stopped, stream closed")
	}
}
