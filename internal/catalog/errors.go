// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("catalog: invalid API credentials")
	ErrNotFound           = errors.New("catalog: resource not found")
	ErrUnavailable        = errors.New("catalog: service unavailable")
)

// UpstreamError describes a failed catalog call. Kind is one of the package
// sentinels; Cause is the transport or decode error, if any.
type UpstreamError struct {
	Endpoint string
	Status   int
	Kind     error
	Cause    error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Endpoint)
	if e.Status != 0 {
		msg += fmt.Sprintf(" returned status %d", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}
