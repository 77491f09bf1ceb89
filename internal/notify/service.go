// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

// Topic is the pub/sub topic new notifications are published on.
const Topic = "notifications.created"

// metadataAccount carries the recipient so subscribers can route without
// decoding the payload.
const metadataAccount = "account_id"

// Event describes a notification to create.
type Event struct {
	UserID          string
	Type            string
	Title           string
	Message         string
	RelatedUserID   string
	RelatedMovieID  int
	RelatedReviewID string
	RelatedBlogID   string
}

// Service stores notifications and publishes them for live delivery.
type Service struct {
	notifications *store.Collection[models.Notification]
	pubsub        *gochannel.GoChannel
	enabled       bool
	now           func() time.Time
}

// NewService creates the notification service. With streaming disabled
// notifications are only stored.
func NewService(notifications *store.Collection[models.Notification], cfg *config.NotificationsConfig) *Service {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, watermill.NewSlogLogger(logging.NewSlogLogger()))

	return &Service{
		notifications: notifications,
		pubsub:        pubsub,
		enabled:       cfg.StreamEnabled,
		now:           time.Now,
	}
}

// Notify stores a notification for ev.UserID and publishes it. Only the
// store error is returned.
func (s *Service) Notify(ctx context.Context, ev Event) (*models.Notification, error) {
	now := s.now().UTC()
	n := &models.Notification{
		ID:              uuid.NewString(),
		UserID:          ev.UserID,
		Type:            ev.Type,
		Title:           ev.Title,
		Message:         ev.Message,
		RelatedUserID:   ev.RelatedUserID,
		RelatedMovieID:  ev.RelatedMovieID,
		RelatedReviewID: ev.RelatedReviewID,
		RelatedBlogID:   ev.RelatedBlogID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}
	metrics.NotificationsPublished.WithLabelValues(n.Type).Inc()

	if err := s.publish(n); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("notification_id", n.ID).
			Str("type", n.Type).
			Msg("Failed to publish notification")
	}
	return n, nil
}

// NotifyQuietly is Notify for callers that must not fail because a
// notification could not be stored.
func (s *Service) NotifyQuietly(ctx context.Context, ev Event) {
	if _, err := s.Notify(ctx, ev); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("type", ev.Type).
			Str("recipient", ev.UserID).
			Msg("Failed to create notification")
	}
}

func (s *Service) publish(n *models.Notification) error {
	if !s.enabled {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := message.NewMessage(n.ID, payload)
	msg.Metadata.Set(metadataAccount, n.UserID)
	return s.pubsub.Publish(Topic, msg)
}

// Subscribe returns the live notification feed. The channel closes when ctx
// is done or the service is closed.
func (s *Service) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return s.pubsub.Subscribe(ctx, Topic)
}

// Enabled reports whether notifications are pushed to websocket clients.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Close shuts the pub/sub down.
func (s *Service) Close() error {
	return s.pubsub.Close()
}

// Decode returns the notification carried by msg.
func Decode(msg *message.Message) (*models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return nil, fmt.Errorf("decode notification %s: %w", msg.UUID, err)
	}
	return &n, nil
}
