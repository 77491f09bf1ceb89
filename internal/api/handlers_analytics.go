// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"mime"
	"net/http"

	"github.com/tomtom215/cinescope/internal/analytics"
	"github.com/tomtom215/cinescope/internal/logging"
)

// GetAnalytics returns the caller's viewing statistics.
//
// @Summary Viewing analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=analytics.Summary}
// @Router /analytics [get]
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	summary, err := h.analytics.Summary(r.Context(), hctx.Account)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(summary)
}

// ExportAnalyticsPDF renders the caller's statistics as a PDF download.
// The file is removed from disk shortly after it is served.
//
// @Summary Export analytics as PDF
// @Tags Analytics
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 500 {object} APIResponse
// @Router /analytics/pdf [get]
func (h *Handler) ExportAnalyticsPDF(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	summary, err := h.analytics.Summary(r.Context(), hctx.Account)
	if err != nil {
		rw.Fail(err)
		return
	}

	path, err := h.reports.Generate(hctx.Account, summary)
	if err != nil {
		rw.Fail(err)
		return
	}
	defer h.reports.ScheduleRemoval(path)

	logging.Ctx(r.Context()).Debug().Str("path", path).Msg("Serving analytics report")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": analytics.DownloadName(hctx.AccountID),
	}))
	http.ServeFile(w, r, path)
}
