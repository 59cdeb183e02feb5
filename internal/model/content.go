// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Site content value types
const (
	ContentTypeText  = "text"
	ContentTypeHTML  = "html"
	ContentTypeImage = "image"
	ContentTypeLink  = "link"
)

// SiteContent is an owner-editable piece of site copy, keyed by (section, key).
// Rows override the embedded defaults; reads fall back to the default when no
// row exists.
type SiteContent struct {
	ID        string    `json:"id"`
	Section   string    `json:"section"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
}
