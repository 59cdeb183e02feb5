// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/jellymag/jelly/internal/auth"
	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
)

const minPasswordLength = 8

// invalidCredentialsMessage is shared between the unknown-email and
// wrong-password paths so the two are indistinguishable to callers.
const invalidCredentialsMessage = "Invalid credentials"

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the request body for POST /api/auth/signup.
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	MasterCode string `json:"masterCode,omitempty"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)), nil)
			return
		}
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.failLogin(w, email)
			return
		}
		WriteInternalError(w, "Failed to look up user")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(w, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Rotate the session token on privilege change
	if err := h.sm.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to establish session")
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.logEvent(model.EventLevelInfo, model.EventCategoryAuth, "user logged in: "+user.Email, user.ID)
	WriteJSON(w, http.StatusOK, user.Public())
}

func (h *Handler) failLogin(w http.ResponseWriter, email string) {
	if h.loginProtection != nil {
		if locked, duration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.Warn("account locked after failed logins", "email", email, "duration", duration)
		}
	}
	h.logEvent(model.EventLevelWarning, model.EventCategoryAuth, "failed login attempt: "+email, "")
	WriteUnauthorized(w, invalidCredentialsMessage)
}

// Signup handles POST /api/auth/signup. A matching master code elevates the
// new account to owner; any other value silently yields a reader. The new
// session is authenticated immediately.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrors["email"] = "A valid email is required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	role := model.RoleReader
	if h.masterCode != "" &&
		subtle.ConstantTimeCompare([]byte(req.MasterCode), []byte(h.masterCode)) == 1 {
		role = model.RoleOwner
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to create account")
		return
	}

	user, err := h.store.CreateUser(r.Context(), store.CreateUserParams{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			WriteBadRequest(w, "User already exists", nil)
			return
		}
		WriteInternalError(w, "Failed to create account")
		return
	}

	// Signup implies login
	if err := h.sm.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to establish session")
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.logEvent(model.EventLevelInfo, model.EventCategoryAuth, "user signed up: "+user.Email, user.ID)
	WriteJSON(w, http.StatusOK, user.Public())
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, user.Public())
}

// Logout handles POST /api/auth/logout. Destroying an absent session is fine,
// so logout is idempotent.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	if err := h.sm.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Could not log out")
		return
	}

	if userID != "" {
		h.logEvent(model.EventLevelInfo, model.EventCategoryAuth, "user logged out", userID)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
