// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
	"github.com/tomtom215/cinescope/internal/models"
)

// Message types sent over the stream.
const (
	MessageTypeNotification = "notification"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the JSON frame written to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Feed is the source of newly created notifications.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Hub tracks websocket clients per account and delivers notifications to
// them.
type Hub struct {
	feed Feed

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client

	done     chan struct{}
	doneOnce sync.Once
}

// NewHub creates a hub fed by feed.
func NewHub(feed Feed) *Hub {
	return &Hub{
		feed:       feed,
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Serve runs the hub until ctx is done. It satisfies suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	feed, err := h.feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to notifications: %w", err)
	}

	for {
		// Registration changes take priority over deliveries.
		select {
		case <-ctx.Done():
			h.shutdown()
			h.doneOnce.Do(func() { close(h.done) })
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			h.doneOnce.Do(func() { close(h.done) })
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case msg, ok := <-feed:
			if !ok {
				h.shutdown()
				return fmt.Errorf("notification feed closed")
			}
			h.deliver(msg)
		}
	}
}

func (h *Hub) String() string { return "notification-hub" }

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	set, ok := h.clients[client.accountID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.accountID] = set
	}
	set[client] = struct{}{}
	h.mu.Unlock()

	metrics.NotificationStreamConnections.Inc()
	logging.Debug().Str("account_id", client.accountID).Uint64("client_id", client.id).Msg("Notification stream client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes the client and disconnects it. Callers hold h.mu.
func (h *Hub) dropLocked(client *Client) {
	set, ok := h.clients[client.accountID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.accountID)
	}
	client.disconnect()
	metrics.NotificationStreamConnections.Dec()
}

func (h *Hub) deliver(msg *message.Message) {
	defer msg.Ack()

	n, err := Decode(msg)
	if err != nil {
		logging.Warn().Err(err).Msg("Dropping undecodable notification")
		return
	}
	h.Send(n)
}

// Send pushes n to every open stream of its recipient. Clients whose
// buffers are full are disconnected.
func (h *Hub) Send(n *models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[n.UserID]
	if len(set) == 0 {
		return
	}

	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	frame := Message{Type: MessageTypeNotification, Data: n}
	for _, c := range clients {
		select {
		case c.send <- frame:
		default:
			logging.Warn().Uint64("client_id", c.id).Msg("Notification stream client too slow, disconnecting")
			h.dropLocked(c)
		}
	}
}

// ClientCount returns the number of open streams for accountID, or for all
// accounts when accountID is empty.
func (h *Hub) ClientCount(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if accountID != "" {
		return len(h.clients[accountID])
	}
	total := 0
	for _, set := range h.clients {
		total += len(set)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := 0
	for _, set := range h.clients {
		for c := range set {
			c.disconnect()
			closed++
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
	metrics.NotificationStreamConnections.Sub(float64(closed))

	logging.Info().
		Str("component", "notification-hub").
		Int("clients_closed", closed).
		Msg("Notification hub stopped")
}
