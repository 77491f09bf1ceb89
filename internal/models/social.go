// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import "time"

// Friendship states.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is an edge between two accounts. At most one edge exists per
// unordered pair.
type Friendship struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	RecipientID string    `json:"recipientId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Other returns the account on the far side of the edge from accountID.
func (f *Friendship) Other(accountID string) string {
	if f.RequesterID == accountID {
		return f.RecipientID
	}
	return f.RequesterID
}

// FriendshipView is a Friendship with both accounts resolved.
type FriendshipView struct {
	Friendship
	Requester *AccountSummary `json:"requester,omitempty"`
	Recipient *AccountSummary `json:"recipient,omitempty"`
}

// Notification types.
const (
	NotificationFriendRequest    = "friend_request"
	NotificationFriendAccepted   = "friend_accepted"
	NotificationReviewLiked      = "review_liked"
	NotificationReviewComment    = "review_comment"
	NotificationWatchlistShared  = "watchlist_shared"
	NotificationMovieRecommended = "movie_recommended"
	NotificationBlogPublished    = "blog_published"
)

// Notification is an event addressed to one account.
type Notification struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	RelatedUserID   string     `json:"relatedUserId,omitempty"`
	RelatedMovieID  int        `json:"relatedMovieId,omitempty"`
	RelatedReviewID string     `json:"relatedReviewId,omitempty"`
	RelatedBlogID   string     `json:"relatedBlogId,omitempty"`
	IsRead          bool       `json:"isRead"`
	ReadAt          *time.Time `json:"readAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NotificationView is a Notification with the related account resolved.
type NotificationView struct {
	Notification
	RelatedUser *AccountSummary `json:"relatedUser,omitempty"`
}

// MarkRead flags n as read. Marking twice keeps the first timestamp.
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	t := now
	n.ReadAt = &t
	n.UpdatedAt = now
}
