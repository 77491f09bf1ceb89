// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := store.OpenBadger(store.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	s := store.New(backend)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(t *testing.T, streaming bool) (*Service, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	svc := NewService(s.Notifications, &config.NotificationsConfig{StreamEnabled: streaming, BufferSize: 16})
	t.Cleanup(func() { _ = svc.Close() })
	return svc, s
}

func likeEvent(recipient string) Event {
	return Event{
		UserID:          recipient,
		Type:            models.NotificationReviewLiked,
		Title:           "Review Liked",
		Message:         "Bob Example liked your review of Fight Club",
		RelatedUserID:   "bob",
		RelatedMovieID:  550,
		RelatedReviewID: "review-1",
	}
}

func TestServiceNotifyStoresAndPublishes(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	n, err := svc.Notify(ctx, likeEvent("alice"))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if n.ID == "" || n.IsRead || n.CreatedAt.IsZero() {
		t.Errorf("Notify() = %+v, want unread notification with id and timestamp", n)
	}

	stored, err := s.Notifications.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.UserID != "alice" || stored.RelatedMovieID != 550 {
		t.Errorf("stored notification = %+v", stored)
	}

	select {
	case msg := <-feed:
		msg.Ack()
		got, err := Decode(msg)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got.ID != n.ID || got.Message != "Bob Example liked your review of Fight Club" {
			t.Errorf("published notification = %+v, want %+v", got, n)
		}
		if msg.Metadata.Get(metadataAccount) != "alice" {
			t.Errorf("metadata account = %q, want alice", msg.Metadata.Get(metadataAccount))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
	}
}

func TestServiceNotifyWithStreamingDisabled(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	n, err := svc.Notify(ctx, likeEvent("alice"))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if _, err := s.Notifications.Get(ctx, n.ID); err != nil {
		t.Errorf("notification not stored: %v", err)
	}

	select {
	case msg := <-feed:
		t.Errorf("unexpected published message %s", msg.UUID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServiceNotifyQuietlyStoresNotification(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t, false)
	ctx := context.Background()

	svc.NotifyQuietly(ctx, likeEvent("carol"))

	got, err := s.Notifications.Find(ctx, store.UserRef("carol"))
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(got) != 1 || got[0].Type != models.NotificationReviewLiked {
		t.Errorf("Find() = %+v, want one review_liked notification", got)
	}
}
