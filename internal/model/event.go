// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryArticle = "article"
	EventCategoryUser    = "user"
	EventCategoryContent = "content"
	EventCategoryContact = "contact"
	EventCategorySystem  = "system"
)

// Event is a single audit log entry. Auth and administrative actions are
// recorded here, and WARN+ application logs are mirrored into the same table.
type Event struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
