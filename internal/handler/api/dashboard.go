// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/policy"
)

const defaultEventLimit = 50

// DashboardStats handles GET /api/dashboard/stats.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionViewDashboard, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to load stats")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// DashboardEvents handles GET /api/dashboard/events: the recent audit trail.
func (h *Handler) DashboardEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionViewDashboard, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	limit := defaultEventLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > 500 {
			WriteBadRequest(w, "Invalid limit", nil)
			return
		}
		limit = parsed
	}

	events, err := h.store.ListRecentEvents(r.Context(), limit)
	if err != nil {
		WriteInternalError(w, "Failed to load events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	WriteJSON(w, http.StatusOK, events)
}
