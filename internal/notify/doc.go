// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package notify creates notifications and pushes them to connected clients.

Service persists each notification and publishes it on an in-process
Watermill topic. Hub subscribes to that topic and forwards every message to
the websocket connections of the addressed account:

	svc := notify.NewService(st.Notifications, &cfg.Notifications)
	hub := notify.NewHub(svc)
	supervisor.Add(hub)

A failed publish never fails the write that caused it; the notification is
still stored and visible through the REST endpoints.
*/
package notify
