// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/policy"
	"github.com/jellymag/jelly/internal/store"
)

// UpdateRoleRequest is the request body for PUT /api/users/role.
type UpdateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// UpdateProfileRequest is the request body for PUT /api/users/{id}/profile.
// Absent fields keep their stored values.
type UpdateProfileRequest struct {
	Name              *string `json:"name,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionViewAllUsers, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	public := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	WriteJSON(w, http.StatusOK, public)
}

// UpdateRole handles PUT /api/users/role.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	if !policy.Can(actor, policy.ActionManageRoles, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	var req UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID == "" || !model.IsValidRole(req.Role) {
		WriteBadRequest(w, "Invalid request data", nil)
		return
	}

	user, err := h.store.UpdateUserRole(r.Context(), req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "User not found")
			return
		}
		WriteInternalError(w, "Failed to update role")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryUser,
		"role changed to "+req.Role+" for "+user.Email, actor.ID)
	WriteJSON(w, http.StatusOK, user.Public())
}

// UpdateProfile handles PUT /api/users/{id}/profile. Users edit their own
// profile; the owner may edit anyone's.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	targetID := chi.URLParam(r, "id")

	if !policy.Can(actor, policy.ActionEditProfile, targetID) {
		WriteForbidden(w, "Not authorized to edit this profile")
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "Name must not be empty"})
		return
	}

	user, err := h.store.UpdateUser(r.Context(), targetID, store.UpdateUserParams{
		Name:              req.Name,
		Bio:               req.Bio,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "User not found")
			return
		}
		WriteInternalError(w, "Failed to update profile")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryUser, "profile updated: "+user.Email, actor.ID)
	WriteJSON(w, http.StatusOK, user.Public())
}
