// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store defines the persistence contract shared by the in-memory and
// SQLite backends. The backend is selected at startup by configuration and
// injected into the API layer; nothing holds a global store instance.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jellymag/jelly/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Sort orders for article listings.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Name              string
	Email             string
	PasswordHash      string
	Role              string // defaults to reader when empty
	Bio               string
	ProfilePictureURL string
}

// UpdateUserParams holds the profile fields a user update may change.
// Nil pointers leave the current value untouched.
type UpdateUserParams struct {
	Name              *string
	Bio               *string
	ProfilePictureURL *string
	PasswordHash      *string
}

// ArticleFilter selects, orders and paginates article listings.
type ArticleFilter struct {
	Search   string // case-insensitive substring match over title and content
	Category string // exact match
	Status   string // exact match
	AuthorID string // exact match
	Sort     string // newest (default) | oldest | title
	Limit    int
	Offset   int
}

// CreateArticleParams holds the fields for creating an article.
type CreateArticleParams struct {
	Title    string
	Content  string
	Excerpt  string
	ImageURL string
	AuthorID string
	Category string
	Status   string // defaults to draft when empty
}

// UpdateArticleParams holds the fields an article update may change.
// Nil pointers leave the current value untouched.
type UpdateArticleParams struct {
	Title    *string
	Content  *string
	Excerpt  *string
	ImageURL *string
	Category *string
	Status   *string
}

// CreateEventParams holds the fields for recording an audit event.
type CreateEventParams struct {
	Level    string
	Category string
	Message  string
	UserID   string
	Metadata string
}

// Store is the persistence contract. Absent entities are reported via
// ErrNotFound; DeleteArticle alone is an idempotent no-op on a missing id.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, p CreateUserParams) (model.User, error)
	UpdateUser(ctx context.Context, id string, p UpdateUserParams) (model.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// Articles
	GetArticle(ctx context.Context, id string) (model.ArticleWithAuthor, error)
	ListArticles(ctx context.Context, f ArticleFilter) ([]model.ArticleWithAuthor, error)
	ListAllArticles(ctx context.Context) ([]model.Article, error)
	CreateArticle(ctx context.Context, p CreateArticleParams) (model.Article, error)
	UpdateArticle(ctx context.Context, id string, p UpdateArticleParams) (model.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	FeaturedArticle(ctx context.Context) (model.ArticleWithAuthor, error)

	// Aggregations
	ListAuthorsWithArticleCount(ctx context.Context) ([]model.AuthorWithCount, error)
	DashboardStats(ctx context.Context) (model.DashboardStats, error)

	// Site content
	ListContent(ctx context.Context) ([]model.SiteContent, error)
	ListContentBySection(ctx context.Context, section string) ([]model.SiteContent, error)
	GetContent(ctx context.Context, section, key string) (model.SiteContent, error)
	UpsertContent(ctx context.Context, section, key, value, contentType string) (model.SiteContent, error)
	SeedContentDefaults(ctx context.Context, defaults []model.SiteContent) error

	// Event log
	CreateEvent(ctx context.Context, p CreateEventParams) (model.Event, error)
	ListRecentEvents(ctx context.Context, limit int) ([]model.Event, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
