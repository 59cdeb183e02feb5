// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/jellymag/jelly/internal/model"
)

const maxContactMessageLength = 5000

// ContactRequest is the payload for the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact handles POST /api/contact. Submissions are recorded in the event
// log where the owner reviews them from the dashboard; there is no mail
// delivery.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.Email == "" {
		fieldErrors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrors["email"] = "Invalid email address"
	}
	if req.Message == "" {
		fieldErrors["message"] = "Message is required"
	} else if len(req.Message) > maxContactMessageLength {
		fieldErrors["message"] = "Message is too long"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryContact,
		fmt.Sprintf("contact message from %s <%s>: %s", req.Name, req.Email, req.Message), "")

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}
