// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cinescope/internal/models"
)

func startHub(t *testing.T, svc *Service) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub(svc)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.Serve(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, errc
}

func testClient(hub *Hub, accountID string, buffer int) *Client {
	return newClient(hub, nil, accountID, buffer)
}

func disconnected(c *Client) bool {
	select {
	case <-c.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func dialStream(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(serverURL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHubDeliversOnlyToRecipient(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	hub, _, _ := startHub(t, svc)

	alice := testClient(hub, "alice", 4)
	aliceTab := testClient(hub, "alice", 4)
	bob := testClient(hub, "bob", 4)
	for _, c := range []*Client{alice, aliceTab, bob} {
		hub.Register <- c
	}
	if got := hub.ClientCount("alice"); got != 2 {
		t.Fatalf("ClientCount(alice) = %d, want 2", got)
	}

	n, err := svc.Notify(context.Background(), likeEvent("alice"))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	for _, c := range []*Client{alice, aliceTab} {
		msg := receive(t, c)
		got, ok := msg.Data.(*models.Notification)
		if msg.Type != MessageTypeNotification || !ok || got.ID != n.ID {
			t.Errorf("client %d got %+v, want notification %s", c.id, msg, n.ID)
		}
	}

	select {
	case msg := <-bob.send:
		t.Errorf("bob received %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregister(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	hub, _, _ := startHub(t, svc)

	c := testClient(hub, "alice", 1)
	hub.Register <- c
	hub.Unregister <- c
	hub.Unregister <- c

	if !disconnected(c) {
		t.Error("client not disconnected after unregister")
	}
	if got := hub.ClientCount(""); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestHubSendDropsSlowClient(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	slow := testClient(hub, "alice", 0)
	hub.add(slow)

	hub.Send(&models.Notification{ID: "n1", UserID: "alice"})

	if !disconnected(slow) {
		t.Error("slow client was not disconnected")
	}
	// A late frame for a dropped client must not block or panic.
	hub.Send(&models.Notification{ID: "n2", UserID: "alice"})
	if got := hub.ClientCount("alice"); got != 0 {
		t.Errorf("ClientCount(alice) = %d, want 0", got)
	}
}

func TestHubServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	hub, cancel, errc := startHub(t, svc)

	c := testClient(hub, "alice", 1)
	hub.Register <- c
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if !disconnected(c) {
		t.Error("client left open after shutdown")
	}
	select {
	case <-hub.done:
	default:
		t.Error("done not closed after shutdown")
	}
}

func TestStreamOverWebsocket(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	hub, _, _ := startHub(t, svc)

	upgrader := Upgrader(nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeConn(conn, "alice")
	}))
	defer server.Close()

	conn := dialStream(t, server.URL)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount("alice") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil || pong.Type != MessageTypePong {
		t.Fatalf("ReadJSON() = %+v, %v; want pong", pong, err)
	}

	n, err := svc.Notify(context.Background(), likeEvent("alice"))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	var frame struct {
		Type string              `json:"type"`
		Data models.Notification `json:"data"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if frame.Type != MessageTypeNotification || frame.Data.ID != n.ID || frame.Data.Title != "Review Liked" {
		t.Errorf("frame = %+v, want notification %s", frame, n.ID)
	}
}

func TestStreamPingAfterSlowClientDrop(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, true)
	hub, _, _ := startHub(t, svc)
	upgrader := Upgrader(nil)
	clients := make(chan *Client, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := newClient(hub, conn, "alice", 1)
		hub.add(c)
		clients <- c
		go c.readPump()
	}))
	defer server.Close()

	conn := dialStream(t, server.URL)
	var c *Client
	select {
	case c = <-clients:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered")
	}

	// Nothing drains the buffer yet, so the second frame overflows it.
	hub.Send(&models.Notification{ID: "n1", UserID: "alice"})
	hub.Send(&models.Notification{ID: "n2", UserID: "alice"})
	if !disconnected(c) {
		t.Fatal("slow client was not disconnected")
	}
	if got := hub.ClientCount("alice"); got != 0 {
		t.Errorf("ClientCount(alice) = %d, want 0", got)
	}
	go c.writePump()

	for i := 0; i < 3; i++ {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			break
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err == nil {
			continue
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.Fatalf("connection still open after drop: %v", err)
		}
		break
	}
}

func TestUpgraderOrigins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://app.example"}, "", true},
		{"no allow list", nil, "https://evil.example", true},
		{"listed", []string{"https://app.example"}, "https://app.example", true},
		{"wildcard", []string{"*"}, "https://any.example", true},
		{"unlisted", []string{"https://app.example"}, "https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/api/social/notifications/stream", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			u := Upgrader(tt.allowed)
			if got := u.CheckOrigin(r); got != tt.want {
				t.Errorf("CheckOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
