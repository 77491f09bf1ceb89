// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
	"github.com/tomtom215/cinescope/internal/models"
)

const reportPrefix = "analytics-"

// RenderPDF writes summary as a one-page PDF report for account.
func RenderPDF(w io.Writer, account *models.Account, summary *Summary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("CineScope Analytics Report", true)
	pdf.SetAuthor("CineScope", true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(8, 145, 178)
	pdf.CellFormat(0, 12, "CineScope Analytics Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 7, tr(account.FullName+" (@"+account.Username+")"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Generated "+summary.GeneratedAt.Format("January 2, 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	section(pdf, "Overview")
	stats := [][2]string{
		{"Movies watched", fmt.Sprintf("%d", summary.MoviesWatched)},
		{"Total watch time", fmt.Sprintf("%.1f hours", summary.TotalWatchTime)},
		{"Average rating", fmt.Sprintf("%.1f / 5", summary.AverageRating)},
		{"Reviews written", fmt.Sprintf("%d", summary.ReviewsWritten)},
		{"Watchlist", fmt.Sprintf("%d titles", summary.WatchlistCount)},
	}
	pdf.SetFont("Helvetica", "", 12)
	for i, row := range stats {
		fill := i%2 == 0
		pdf.SetFillColor(240, 249, 255)
		pdf.CellFormat(90, 9, row[0], "", 0, "L", fill, 0, "")
		pdf.CellFormat(0, 9, row[1], "", 1, "R", fill, 0, "")
	}
	pdf.Ln(6)

	section(pdf, "Watch time, last 7 days")
	maxHours := 0.0
	for _, d := range summary.WeeklyWatchTime {
		if d.Hours > maxHours {
			maxHours = d.Hours
		}
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range summary.WeeklyWatchTime {
		pdf.CellFormat(20, 8, d.Day, "", 0, "L", false, 0, "")
		width := 0.0
		if maxHours > 0 {
			width = d.Hours / maxHours * 110
		}
		x, y := pdf.GetXY()
		if width > 0 {
			pdf.SetFillColor(147, 51, 234)
			pdf.Rect(x, y+1.5, width, 5, "F")
		}
		pdf.SetX(x + 115)
		pdf.CellFormat(0, 8, fmt.Sprintf("%.1f h", d.Hours), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section(pdf, "Genres on your watchlist")
	pdf.SetFont("Helvetica", "", 11)
	if len(summary.GenreFrequency) == 0 {
		pdf.CellFormat(0, 8, "Add movies to your watchlist to see genre trends.", "", 1, "L", false, 0, "")
	}
	for _, g := range summary.GenreFrequency {
		pdf.CellFormat(90, 8, tr(g.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, fmt.Sprintf("%d (%.1f%%)", g.Value, g.Percentage), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render analytics pdf: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 10, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetTextColor(50, 50, 50)
}

// Reports manages generated report files.
type Reports struct {
	dir         string
	deleteAfter time.Duration
	sweepEvery  time.Duration
	maxAge      time.Duration
	now         func() time.Time
}

// NewReports creates the report manager, creating cfg.Dir if needed.
func NewReports(cfg *config.ReportsConfig) (*Reports, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &Reports{
		dir:         cfg.Dir,
		deleteAfter: cfg.DeleteAfter,
		sweepEvery:  cfg.SweepInterval,
		maxAge:      cfg.MaxAge,
		now:         time.Now,
	}, nil
}

// DownloadName is the attachment file name offered to the client.
func DownloadName(accountID string) string {
	return "cinescope-analytics-" + accountID + ".pdf"
}

// Generate renders a report for account to a new file and returns its path.
func (r *Reports) Generate(account *models.Account, summary *Summary) (string, error) {
	name := fmt.Sprintf("%s%s-%d.pdf", reportPrefix, account.ID, r.now().UnixMilli())
	path := filepath.Join(r.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create report file: %w", err)
	}

	renderErr := RenderPDF(f, account, summary)
	closeErr := f.Close()
	if err := errors.Join(renderErr, closeErr); err != nil {
		_ = os.Remove(path)
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.ReportsGenerated.WithLabelValues("ok").Inc()
	return path, nil
}

// ScheduleRemoval deletes path after the configured delay.
func (r *Reports) ScheduleRemoval(path string) {
	time.AfterFunc(r.deleteAfter, func() {
		r.remove(path, "delivered")
	})
}

func (r *Reports) remove(path, reason string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		metrics.ReportsRemoved.WithLabelValues(reason).Inc()
	case !errors.Is(err, os.ErrNotExist):
		logging.Warn().Err(err).Str("path", path).Msg("Failed to remove analytics report")
	}
}

// Sweep removes report files older than the maximum age and returns how
// many it removed.
func (r *Reports) Sweep() (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0, fmt.Errorf("read reports directory: %w", err)
	}

	cutoff := r.now().Add(-r.maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), reportPrefix) || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		r.remove(filepath.Join(r.dir, e.Name()), "stale")
		removed++
	}
	return removed, nil
}

// Serve sweeps immediately and then every sweep interval until ctx is
// done. It satisfies suture.Service.
func (r *Reports) Serve(ctx context.Context) error {
	log := logging.WithComponent("report-janitor")

	interval := r.sweepEvery
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := r.Sweep(); err != nil {
			log.Warn().Err(err).Msg("Report sweep failed")
		} else if n > 0 {
			log.Info().Int("removed", n).Msg("Removed stale analytics reports")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Reports) String() string { return "report-janitor" }
