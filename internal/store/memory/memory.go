// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package memory implements store.Store on plain maps. It is the fallback
// backend for development and tests; it assumes a single server instance owns
// the data and keeps nothing across restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	articles map[string]model.Article
	content  map[string]model.SiteContent // keyed by section + "\x00" + key
	events   []model.Event
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		articles: make(map[string]model.Article),
		content:  make(map[string]model.SiteContent),
	}
}

func contentKey(section, key string) string {
	return section + "\x00" + key
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return u, nil
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

// CreateUser creates a new user with a generated id. The role defaults to
// reader when empty.
func (s *Store) CreateUser(_ context.Context, p store.CreateUserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == p.Email {
			return model.User{}, store.ErrDuplicateEmail
		}
	}

	role := p.Role
	if role == "" {
		role = model.RoleReader
	}

	u := model.User{
		ID:                uuid.NewString(),
		Name:              p.Name,
		Email:             p.Email,
		PasswordHash:      p.PasswordHash,
		Role:              role,
		Bio:               p.Bio,
		ProfilePictureURL: p.ProfilePictureURL,
		CreatedAt:         time.Now(),
	}
	s.users[u.ID] = u
	return u, nil
}

// UpdateUser applies the non-nil profile fields to the user.
func (s *Store) UpdateUser(_ context.Context, id string, p store.UpdateUserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}

	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = *p.ProfilePictureURL
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}

	s.users[id] = u
	return u, nil
}

// UpdateUserRole sets the user's role.
func (s *Store) UpdateUserRole(_ context.Context, id, role string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}

	u.Role = role
	s.users[id] = u
	return u, nil
}

// ListUsers returns all users ordered by creation time, newest first.
func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetArticle returns the article joined with its author. A missing author is
// reported as not found, matching the defensive join-miss handling of the
// SQLite backend.
func (s *Store) GetArticle(_ context.Context, id string) (model.ArticleWithAuthor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return model.ArticleWithAuthor{}, store.ErrNotFound
	}

	author, ok := s.users[a.AuthorID]
	if !ok {
		return model.ArticleWithAuthor{}, store.ErrNotFound
	}

	return model.ArticleWithAuthor{Article: a, Author: author.Public()}, nil
}

// ListArticles returns articles matching the filter, ordered and paginated.
func (s *Store) ListArticles(_ context.Context, f store.ArticleFilter) ([]model.ArticleWithAuthor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Article
	search := strings.ToLower(f.Search)
	for _, a := range s.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.AuthorID != "" && a.AuthorID != f.AuthorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Content), search) {
			continue
		}
		matched = append(matched, a)
	}

	sortArticles(matched, f.Sort)

	// Paginate
	if f.Offset > len(matched) {
		matched = nil
	} else {
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}

	out := make([]model.ArticleWithAuthor, 0, len(matched))
	for _, a := range matched {
		author, ok := s.users[a.AuthorID]
		if !ok {
			continue
		}
		out = append(out, model.ArticleWithAuthor{Article: a, Author: author.Public()})
	}
	return out, nil
}

// sortArticles orders articles in place. Ties break on id so the order is
// deterministic even for equal timestamps or titles.
func sortArticles(articles []model.Article, order string) {
	sort.Slice(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		switch order {
		case store.SortOldest:
			if !a.ListedAt().Equal(b.ListedAt()) {
				return a.ListedAt().Before(b.ListedAt())
			}
		case store.SortTitle:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		default: // newest
			if !a.ListedAt().Equal(b.ListedAt()) {
				return a.ListedAt().After(b.ListedAt())
			}
		}
		return a.ID > b.ID
	})
}

// ListAllArticles returns every article, newest creation first, without the
// author join. Administrative use only.
func (s *Store) ListAllArticles(_ context.Context) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// CreateArticle creates a new article. The publish date is set iff the
// article is created already published.
func (s *Store) CreateArticle(_ context.Context, p store.CreateArticleParams) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := p.Status
	if status == "" {
		status = model.StatusDraft
	}

	now := time.Now()
	a := model.Article{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		ImageURL:  p.ImageURL,
		AuthorID:  p.AuthorID,
		Category:  p.Category,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == model.StatusPublished {
		a.PublishDate = &now
	}

	s.articles[a.ID] = a
	return a, nil
}

// UpdateArticle merges the non-nil fields into the article. The publish date
// is set exactly once, on the first draft-to-published transition, and is
// never cleared afterwards.
func (s *Store) UpdateArticle(_ context.Context, id string, p store.UpdateArticleParams) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return model.Article{}, store.ErrNotFound
	}

	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		a.Category = *p.Category
	}

	now := time.Now()
	if p.Status != nil {
		if *p.Status == model.StatusPublished && a.PublishDate == nil {
			a.PublishDate = &now
		}
		a.Status = *p.Status
	}
	a.UpdatedAt = now

	s.articles[id] = a
	return a, nil
}

// DeleteArticle removes the article. Deleting a missing id is a no-op.
func (s *Store) DeleteArticle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.articles, id)
	return nil
}

// FeaturedArticle returns the most recently published article.
func (s *Store) FeaturedArticle(_ context.Context) (model.ArticleWithAuthor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var featured *model.Article
	for _, a := range s.articles {
		if a.Status != model.StatusPublished || a.PublishDate == nil {
			continue
		}
		if featured == nil ||
			a.PublishDate.After(*featured.PublishDate) ||
			(a.PublishDate.Equal(*featured.PublishDate) && a.ID > featured.ID) {
			cp := a
			featured = &cp
		}
	}
	if featured == nil {
		return model.ArticleWithAuthor{}, store.ErrNotFound
	}

	author, ok := s.users[featured.AuthorID]
	if !ok {
		return model.ArticleWithAuthor{}, store.ErrNotFound
	}
	return model.ArticleWithAuthor{Article: *featured, Author: author.Public()}, nil
}

// ListAuthorsWithArticleCount returns all non-reader users annotated with
// their published article count, most prolific first.
func (s *Store) ListAuthorsWithArticleCount(_ context.Context) ([]model.AuthorWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, a := range s.articles {
		if a.Status == model.StatusPublished {
			counts[a.AuthorID]++
		}
	}

	var out []model.AuthorWithCount
	for _, u := range s.users {
		if u.Role == model.RoleReader {
			continue
		}
		out = append(out, model.AuthorWithCount{
			PublicUser:   u.Public(),
			ArticleCount: counts[u.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ArticleCount != out[j].ArticleCount {
			return out[i].ArticleCount > out[j].ArticleCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DashboardStats returns aggregate user and article counts.
func (s *Store) DashboardStats(_ context.Context) (model.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.DashboardStats{
		TotalUsers:    int64(len(s.users)),
		TotalArticles: int64(len(s.articles)),
	}
	for _, a := range s.articles {
		if a.Status == model.StatusPublished {
			stats.PublishedArticles++
		} else {
			stats.DraftArticles++
		}
	}
	return stats, nil
}

// ListContent returns all site content overrides, ordered by section then key.
func (s *Store) ListContent(_ context.Context) ([]model.SiteContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SiteContent, 0, len(s.content))
	for _, c := range s.content {
		out = append(out, c)
	}
	sortContent(out)
	return out, nil
}

// ListContentBySection returns the content overrides for one section.
func (s *Store) ListContentBySection(_ context.Context, section string) ([]model.SiteContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.SiteContent
	for _, c := range s.content {
		if c.Section == section {
			out = append(out, c)
		}
	}
	sortContent(out)
	return out, nil
}

func sortContent(items []model.SiteContent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Section != items[j].Section {
			return items[i].Section < items[j].Section
		}
		return items[i].Key < items[j].Key
	})
}

// GetContent returns the stored content row for (section, key).
func (s *Store) GetContent(_ context.Context, section, key string) (model.SiteContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.content[contentKey(section, key)]
	if !ok {
		return model.SiteContent{}, store.ErrNotFound
	}
	return c, nil
}

// UpsertContent updates the value for (section, key) in place, or inserts a
// new row with the given type. The type of an existing row is preserved.
func (s *Store) UpsertContent(_ context.Context, section, key, value, contentType string) (model.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contentType == "" {
		contentType = model.ContentTypeText
	}
	k := contentKey(section, key)
	c, ok := s.content[k]
	if !ok {
		c = model.SiteContent{
			ID:      uuid.NewString(),
			Section: section,
			Key:     key,
			Type:    contentType,
		}
	}
	c.Value = value
	c.UpdatedAt = time.Now()
	s.content[k] = c
	return c, nil
}

// SeedContentDefaults bulk-inserts the default copy table when the store holds
// no content rows yet.
func (s *Store) SeedContentDefaults(_ context.Context, defaults []model.SiteContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.content) > 0 {
		return nil
	}

	now := time.Now()
	for _, c := range defaults {
		c.ID = uuid.NewString()
		c.UpdatedAt = now
		s.content[contentKey(c.Section, c.Key)] = c
	}
	return nil
}

// CreateEvent appends an audit event.
func (s *Store) CreateEvent(_ context.Context, p store.CreateEventParams) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := model.Event{
		ID:        uuid.NewString(),
		Level:     p.Level,
		Category:  p.Category,
		Message:   p.Message,
		UserID:    p.UserID,
		Metadata:  p.Metadata,
		CreatedAt: time.Now(),
	}
	s.events = append(s.events, e)
	return e, nil
}

// ListRecentEvents returns the most recent events, newest first.
func (s *Store) ListRecentEvents(_ context.Context, limit int) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// DeleteEventsBefore removes events created before the cutoff.
func (s *Store) DeleteEventsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var removed int64
	for _, e := range s.events {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
