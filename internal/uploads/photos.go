// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package uploads stores profile photos on local disk and serves them back.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
)

const profilesDir = "profiles"

// sniffLen is how much of the upload is inspected for its content type.
const sniffLen = 3072

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for anything but JPEG, PNG or GIF.
	ErrUnsupportedType = errors.New("only image files are allowed (jpeg, jpg, png, gif)")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Photos writes profile photos below a directory exposed at a URL prefix.
type Photos struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

// NewPhotos creates the photo store, creating its directories if needed.
func NewPhotos(cfg *config.UploadsConfig) (*Photos, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, profilesDir), 0o750); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Photos{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
		maxBytes:  cfg.MaxPhotoBytes,
		now:       time.Now,
	}, nil
}

// MaxBytes is the largest accepted photo.
func (p *Photos) MaxBytes() int64 {
	return p.maxBytes
}

// URLPrefix is the path photos are served under.
func (p *Photos) URLPrefix() string {
	return p.urlPrefix
}

// Save stores the photo read from r for accountID and returns its public
// URL. Both the extension of filename and the sniffed content must be an
// allowed image type.
func (p *Photos) Save(accountID, filename string, r io.Reader) (string, error) {
	url, err := p.save(accountID, filename, r)
	switch {
	case err == nil:
		metrics.PhotoUploads.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrTooLarge), errors.Is(err, ErrUnsupportedType):
		metrics.PhotoUploads.WithLabelValues("rejected").Inc()
	default:
		metrics.PhotoUploads.WithLabelValues("error").Inc()
	}
	return url, err
}

func (p *Photos) save(accountID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowedExtensions[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !mimetype.Detect(head).Is(want) {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("profile-%s-%d-%d%s", accountID, p.now().UnixMilli(), rand.IntN(1_000_000_000), ext)
	dest := filepath.Join(p.dir, profilesDir, name)

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	written, copyErr := io.Copy(f, io.LimitReader(body, p.maxBytes+1))
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("write photo: %w", err)
	}
	if written > p.maxBytes {
		_ = os.Remove(dest)
		return "", ErrTooLarge
	}

	return path.Join(p.urlPrefix, profilesDir, name), nil
}

// Remove deletes a photo previously returned by Save. URLs outside the
// photo directory are ignored.
func (p *Photos) Remove(url string) {
	prefix := path.Join(p.urlPrefix, profilesDir) + "/"
	if !strings.HasPrefix(url, prefix) {
		return
	}
	name := path.Base(url)
	if name != strings.TrimPrefix(url, prefix) {
		return
	}
	if err := os.Remove(filepath.Join(p.dir, profilesDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Str("photo", name).Msg("Failed to remove replaced profile photo")
	}
}

// Handler serves stored photos. Mount it at URLPrefix. Directory listings
// are not served.
func (p *Photos) Handler() http.Handler {
	files := http.StripPrefix(p.urlPrefix, http.FileServer(http.Dir(p.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
