// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the magazine.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	store           store.Store
	sm              *scs.SessionManager
	loginProtection *middleware.LoginProtection
	sanitizer       *bluemonday.Policy
	masterCode      string
	version         string
	startTime       time.Time
}

// NewHandler creates a new API handler. loginProtection may be nil to disable
// account lockout (used by tests).
func NewHandler(s store.Store, sm *scs.SessionManager, lp *middleware.LoginProtection, masterCode, version string) *Handler {
	return &Handler{
		store:           s,
		sm:              sm,
		loginProtection: lp,
		sanitizer:       bluemonday.UGCPolicy(),
		masterCode:      masterCode,
		version:         version,
		startTime:       time.Now(),
	}
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 400 Bad Request response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// decodeJSON decodes the request body into dst.
// Returns false after writing a 400 response when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid request data", nil)
		return false
	}
	return true
}

// logEvent records an audit event. Failures only warn; auditing must never
// fail the request.
func (h *Handler) logEvent(level, category, message, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.store.CreateEvent(ctx, store.CreateEventParams{
		Level:    level,
		Category: category,
		Message:  message,
		UserID:   userID,
	})
	if err != nil {
		slog.Warn("failed to record audit event", "error", err, "message", message)
	}
}
