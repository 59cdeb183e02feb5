// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Article statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// IsValidStatus reports whether status is a known article status.
func IsValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}

// Article represents a magazine article.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	AuthorID    string     `json:"authorId"`
	Category    string     `json:"category,omitempty"`
	Status      string     `json:"status"`
	PublishDate *time.Time `json:"publishDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// ListedAt returns the timestamp an article is ordered by in listings:
// the publish date when set, otherwise the creation time.
func (a *Article) ListedAt() time.Time {
	if a.PublishDate != nil {
		return *a.PublishDate
	}
	return a.CreatedAt
}

// ArticleWithAuthor is the read-only display composite of an article and its
// author. It is never persisted independently.
type ArticleWithAuthor struct {
	Article
	Author PublicUser `json:"author"`
}

// DashboardStats holds aggregate counts for the owner dashboard.
type DashboardStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalArticles     int64 `json:"totalArticles"`
	PublishedArticles int64 `json:"publishedArticles"`
	DraftArticles     int64 `json:"draftArticles"`
}
