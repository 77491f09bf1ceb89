// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"

	"github.com/tomtom215/cinescope/internal/models"
)

// Store groups the typed collections of every CineScope record.
type Store struct {
	backend Backend

	Accounts         *Collection[models.Account]
	Reviews          *Collection[models.Review]
	Blogs            *Collection[models.Blog]
	Watchlist        *Collection[models.WatchlistItem]
	SharedWatchlists *Collection[models.SharedWatchlist]
	Friendships      *Collection[models.Friendship]
	Notifications    *Collection[models.Notification]
}

// New builds the typed collections over backend.
func New(backend Backend) *Store {
	return &Store{
		backend:          backend,
		Accounts:         NewCollection(backend, CollAccounts, indexAccount),
		Reviews:          NewCollection(backend, CollReviews, indexReview),
		Blogs:            NewCollection(backend, CollBlogs, indexBlog),
		Watchlist:        NewCollection(backend, CollWatchlist, indexWatchlistItem),
		SharedWatchlists: NewCollection(backend, CollSharedWatchlists, indexSharedWatchlist),
		Friendships:      NewCollection(backend, CollFriendships, indexFriendship),
		Notifications:    NewCollection(backend, CollNotifications, indexNotification),
	}
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func indexAccount(a *models.Account) Keys {
	unique := []string{EmailKey(a.Email)}
	if a.Username != "" {
		unique = append(unique, UsernameKey(a.Username))
	}
	return Keys{ID: a.ID, Unique: unique}
}

func indexReview(r *models.Review) Keys {
	refs := []string{UserRef(r.UserID), MovieRef(r.MovieID)}
	if r.IsPublic {
		refs = append(refs, PublicRef)
	}
	return Keys{ID: r.ID, Unique: []string{UserMovieKey(r.UserID, r.MovieID)}, Refs: refs}
}

func indexBlog(b *models.Blog) Keys {
	refs := []string{AuthorRef(b.AuthorID)}
	if b.IsPublished {
		refs = append(refs, PublishedRef)
	}
	return Keys{ID: b.ID, Unique: []string{SlugKey(b.Slug)}, Refs: refs}
}

func indexWatchlistItem(w *models.WatchlistItem) Keys {
	return Keys{
		ID:     w.ID,
		Unique: []string{UserMovieKey(w.UserID, w.MovieID)},
		Refs:   []string{UserRef(w.UserID)},
	}
}

func indexSharedWatchlist(s *models.SharedWatchlist) Keys {
	refs := []string{MemberRef(s.OwnerID)}
	for _, m := range s.Members {
		if m.UserID != s.OwnerID {
			refs = append(refs, MemberRef(m.UserID))
		}
	}
	if s.IsPublic {
		refs = append(refs, PublicRef)
	}
	return Keys{ID: s.ID, Refs: refs}
}

func indexFriendship(f *models.Friendship) Keys {
	return Keys{
		ID:     f.ID,
		Unique: []string{PairKey(f.RequesterID, f.RecipientID)},
		Refs:   []string{UserRef(f.RequesterID), UserRef(f.RecipientID)},
	}
}

func indexNotification(n *models.Notification) Keys {
	return Keys{ID: n.ID, Refs: []string{UserRef(n.UserID)}}
}
