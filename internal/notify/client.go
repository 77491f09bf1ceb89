// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package notify

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cinescope/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

var clientIDCounter atomic.Uint64

// Client is one websocket connection of one account. send is never
// closed; the hub signals disconnection by closing done.
type Client struct {
	id        uint64
	accountID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan Message

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient creates a client for accountID over conn.
func NewClient(hub *Hub, conn *websocket.Conn, accountID string) *Client {
	return newClient(hub, conn, accountID, sendBuffer)
}

func newClient(hub *Hub, conn *websocket.Conn, accountID string, buffer int) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		accountID: accountID,
		hub:       hub,
		conn:      conn,
		send:      make(chan Message, buffer),
		done:      make(chan struct{}),
	}
}

// disconnect tells the pumps to stop. Safe to call more than once.
func (c *Client) disconnect() {
	c.doneOnce.Do(func() { close(c.done) })
}

// Done is closed once the hub has disconnected the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Upgrader returns the websocket upgrader. An empty allowed list accepts
// any origin; "*" does too.
func Upgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			logging.Warn().Str("origin", origin).Msg("Notification stream rejected from unauthorized origin")
			return false
		},
	}
}

// ServeConn registers conn for accountID and starts its pumps. It returns
// nil and closes conn if the hub has stopped.
func (h *Hub) ServeConn(conn *websocket.Conn, accountID string) *Client {
	client := NewClient(h, conn, accountID)
	select {
	case h.Register <- client:
	case <-h.done:
		_ = conn.Close()
		return nil
	}
	go client.writePump()
	go client.readPump()
	return client
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("Unexpected notification stream close")
			}
			return
		}
		if msg.Type == MessageTypePing {
			select {
			case <-c.done:
				return
			case c.send <- Message{Type: MessageTypePong}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("Notification stream write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
