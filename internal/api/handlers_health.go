// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"time"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Message           string  `json:"message"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	CatalogBreaker    string  `json:"catalog_breaker,omitempty"`
	StreamClients     int     `json:"stream_clients"`
	Uptime            float64 `json:"uptime"`
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns store connectivity, the TMDB circuit breaker state and uptime
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "healthy",
		Message:           "CineScope API is running",
		Version:           Version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		health.Status = "degraded"
	}
	if h.breaker != nil {
		health.CatalogBreaker = h.breaker.State()
		if health.CatalogBreaker == "open" {
			health.Status = "degraded"
		}
	}
	if h.hub != nil {
		health.StreamClients = h.hub.ClientCount("")
	}

	rw.Success(health)
}
