// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jellymag/jelly/internal/content"
	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/policy"
	"github.com/jellymag/jelly/internal/store"
)

// UpdateContentRequest is the request body for PUT /api/content/{section}/{key}.
type UpdateContentRequest struct {
	Value string `json:"value"`
}

// ListContent handles GET /api/content.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionEditSiteContent, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	items, err := h.store.ListContent(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to fetch content")
		return
	}
	if items == nil {
		items = []model.SiteContent{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// ListContentSection handles GET /api/content/{section}.
func (h *Handler) ListContentSection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionEditSiteContent, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	items, err := h.store.ListContentBySection(r.Context(), chi.URLParam(r, "section"))
	if err != nil {
		WriteInternalError(w, "Failed to fetch content")
		return
	}
	if items == nil {
		items = []model.SiteContent{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// GetContentItem handles GET /api/content/{section}/{key}. When no override
// row exists the embedded default copy is returned, so the frontend never has
// to carry its own fallbacks.
func (h *Handler) GetContentItem(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	key := chi.URLParam(r, "key")

	item, err := h.store.GetContent(r.Context(), section, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if def, ok := content.Default(section, key); ok {
				WriteJSON(w, http.StatusOK, def)
				return
			}
			WriteNotFound(w, "Content not found")
			return
		}
		WriteInternalError(w, "Failed to fetch content")
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// UpdateContentItem handles PUT /api/content/{section}/{key}.
func (h *Handler) UpdateContentItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionEditSiteContent, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	var req UpdateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	section := chi.URLParam(r, "section")
	key := chi.URLParam(r, "key")

	// The type follows the stored row, or the embedded default for keys that
	// have never been overridden. HTML-typed snippets are sanitized like
	// article bodies.
	contentType := model.ContentTypeText
	if existing, err := h.store.GetContent(r.Context(), section, key); err == nil {
		contentType = existing.Type
	} else if def, ok := content.Default(section, key); ok {
		contentType = def.Type
	}

	value := req.Value
	if contentType == model.ContentTypeHTML {
		value = h.sanitizer.Sanitize(value)
	}

	item, err := h.store.UpsertContent(r.Context(), section, key, value, contentType)
	if err != nil {
		WriteInternalError(w, "Failed to update content")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryContent,
		"site copy updated: "+section+"."+key, user.ID)
	WriteJSON(w, http.StatusOK, item)
}
