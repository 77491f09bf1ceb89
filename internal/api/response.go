// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/telemetry"
	"github.com/tomtom215/cinescope/internal/validation"
)

// APIResponse is the envelope of every API response.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (omitted on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (omitted on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains metadata about the response
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta contains pagination information for list responses.
type PaginationMeta struct {
	// Total is the number of items matching the filters
	Total int `json:"total"`

	// Count is the number of items in this response
	Count int `json:"count"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// Page and Pages are 1-based page-number equivalents of Offset/Limit
	Page  int `json:"page"`
	Pages int `json:"pages"`

	// HasMore indicates if there are more items
	HasMore bool `json:"has_more"`
}

// NewPagination fills a PaginationMeta for a window of count items taken at
// offset from total.
func NewPagination(total, count, offset, limit int) *PaginationMeta {
	p := &PaginationMeta{
		Total:   total,
		Count:   count,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+count < total,
	}
	if limit > 0 {
		p.Page = offset/limit + 1
		p.Pages = (total + limit - 1) / limit
	}
	return p
}

// Error codes for API responses
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeDuplicate       = "DUPLICATE_RESOURCE"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeAuthRequired    = "AUTH_REQUIRED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeExternalService = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

type debugErrorsKey struct{}

// WithDebugErrors marks ctx so internal errors carry the error text and a
// stack trace in their details.
func WithDebugErrors(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugErrorsKey{}, enabled)
}

func debugErrors(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugErrorsKey{}).(bool)
	return enabled
}

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// SuccessWithPagination writes a 200 list response.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, pagination *PaginationMeta) {
	meta := rw.meta()
	meta.Pagination = pagination
	rw.writeJSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Message writes a 200 response whose data is just a message.
func (rw *ResponseWriter) Message(message string) {
	rw.Success(map[string]string{"message": message})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	meta := rw.meta()
	rw.writeJSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: meta.RequestID,
		},
		Meta: meta,
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Duplicate writes the 400 uniqueness-conflict error.
func (rw *ResponseWriter) Duplicate(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeDuplicate, message)
}

// ValidationError writes a 400 error listing every failing field.
func (rw *ResponseWriter) ValidationError(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, apiErr.Message, apiErr.Details)
}

// AuthRequired writes a 401 for requests without usable credentials.
func (rw *ResponseWriter) AuthRequired(message string) {
	rw.Error(http.StatusUnauthorized, ErrCodeAuthRequired, message)
}

// Unauthorized writes a 401 for rejected credentials.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden writes a 403 Forbidden error.
func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// TooManyRequests writes a 429 Too Many Requests error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeRateLimited, message)
}

// ExternalServiceError writes a 502 for a failed upstream call. The details
// carry the upstream status when one is known.
func (rw *ResponseWriter) ExternalServiceError(service string, upstreamStatus int, err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("service", service).Int("upstream_status", upstreamStatus).Msg("External service error")

	details := map[string]interface{}{"service": service}
	if upstreamStatus != 0 {
		details["upstream_status"] = upstreamStatus
	}
	rw.ErrorWithDetails(http.StatusBadGateway, ErrCodeExternalService, "External service unavailable: "+service, details)
}

// InternalError logs and reports err and writes a 500. Outside production
// the details carry the error and a stack trace.
func (rw *ResponseWriter) InternalError(err error) {
	ctx := rw.r.Context()
	logging.Ctx(ctx).Error().Err(err).Str("path", rw.r.URL.Path).Msg("Internal error")
	telemetry.CaptureError(ctx, err, map[string]string{"path": rw.r.URL.Path})
	rw.writeInternalError(err)
}

// writeInternalError writes the 500 envelope without logging or reporting.
func (rw *ResponseWriter) writeInternalError(err error) {
	var details interface{}
	if debugErrors(rw.r.Context()) {
		details = map[string]interface{}{
			"error": err.Error(),
			"stack": string(debug.Stack()),
		}
	}
	rw.ErrorWithDetails(http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred", details)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
