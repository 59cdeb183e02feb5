// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/policy"
	"github.com/jellymag/jelly/internal/store"
)

// Public listing page size and recent-articles count.
const (
	articlesPerPage = 9
	recentArticles  = 6
)

// CreateArticleRequest is the request body for POST /api/articles.
type CreateArticleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt"`
	ImageURL string `json:"imageUrl,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UpdateArticleRequest is the request body for PUT /api/articles/{id}.
// Absent fields keep their stored values.
type UpdateArticleRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Excerpt  *string `json:"excerpt,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Category *string `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ListArticles handles GET /api/articles. Only published articles are
// returned, nine per page.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p := q.Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			WriteBadRequest(w, "Invalid page number", nil)
			return
		}
		page = parsed
	}

	sort := q.Get("sort")
	switch sort {
	case "", store.SortNewest, store.SortOldest, store.SortTitle:
	default:
		WriteBadRequest(w, "Invalid sort order", nil)
		return
	}

	articles, err := h.store.ListArticles(r.Context(), store.ArticleFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   model.StatusPublished,
		Sort:     sort,
		Limit:    articlesPerPage,
		Offset:   (page - 1) * articlesPerPage,
	})
	if err != nil {
		WriteInternalError(w, "Failed to list articles")
		return
	}
	if articles == nil {
		articles = []model.ArticleWithAuthor{}
	}
	WriteJSON(w, http.StatusOK, articles)
}

// FeaturedArticle handles GET /api/articles/featured.
func (h *Handler) FeaturedArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.FeaturedArticle(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "No published articles")
			return
		}
		WriteInternalError(w, "Failed to load featured article")
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// RecentArticles handles GET /api/articles/recent.
func (h *Handler) RecentArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.store.ListArticles(r.Context(), store.ArticleFilter{
		Status: model.StatusPublished,
		Sort:   store.SortNewest,
		Limit:  recentArticles,
	})
	if err != nil {
		WriteInternalError(w, "Failed to list recent articles")
		return
	}
	if articles == nil {
		articles = []model.ArticleWithAuthor{}
	}
	WriteJSON(w, http.StatusOK, articles)
}

// AllArticles handles GET /api/articles/all: every article regardless of
// status, for the editorial views.
func (h *Handler) AllArticles(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionViewAllArticles, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	articles, err := h.store.ListAllArticles(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list articles")
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}
	WriteJSON(w, http.StatusOK, articles)
}

// GetArticle handles GET /api/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Article not found")
			return
		}
		WriteInternalError(w, "Failed to load article")
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// CreateArticle handles POST /api/articles. Contributors may create articles
// but not publish them: a contributor-supplied "published" status is coerced
// to draft.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if !policy.Can(user, policy.ActionCreateArticle, "") {
		WriteForbidden(w, "Permission denied")
		return
	}

	var req CreateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if strings.TrimSpace(req.Content) == "" {
		fieldErrors["content"] = "Content is required"
	}
	if req.Status != "" && !model.IsValidStatus(req.Status) {
		fieldErrors["status"] = "Status must be draft or published"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	status := req.Status
	if status == model.StatusPublished && !policy.Can(user, policy.ActionSetArticleStatus, "") {
		status = model.StatusDraft
	}

	article, err := h.store.CreateArticle(r.Context(), store.CreateArticleParams{
		Title:    req.Title,
		Content:  h.sanitizer.Sanitize(req.Content),
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
		AuthorID: user.ID,
		Category: req.Category,
		Status:   status,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create article")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryArticle, "article created: "+article.Title, user.ID)
	WriteJSON(w, http.StatusOK, article)
}

// UpdateArticle handles PUT /api/articles/{id}. Authors may edit their own
// articles; owners and editors may edit any. Status changes additionally
// require the publish permission.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	existing, err := h.store.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Article not found")
			return
		}
		WriteInternalError(w, "Failed to load article")
		return
	}

	if !policy.Can(user, policy.ActionEditArticle, existing.AuthorID) {
		WriteForbidden(w, "Permission denied")
		return
	}

	var req UpdateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			WriteValidationError(w, map[string]string{"status": "Status must be draft or published"})
			return
		}
		if *req.Status != existing.Status && !policy.Can(user, policy.ActionSetArticleStatus, existing.AuthorID) {
			// Contributors cannot change publication state.
			req.Status = nil
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "Title must not be empty"})
		return
	}
	if req.Content != nil {
		clean := h.sanitizer.Sanitize(*req.Content)
		req.Content = &clean
	}

	article, err := h.store.UpdateArticle(r.Context(), existing.ID, store.UpdateArticleParams{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Article not found")
			return
		}
		WriteInternalError(w, "Failed to update article")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryArticle, "article updated: "+article.Title, user.ID)
	WriteJSON(w, http.StatusOK, article)
}

// DeleteArticle handles DELETE /api/articles/{id}. Authors may delete their
// own articles; only owners may delete others'.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	existing, err := h.store.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Article not found")
			return
		}
		WriteInternalError(w, "Failed to load article")
		return
	}

	if !policy.Can(user, policy.ActionDeleteArticle, existing.AuthorID) {
		WriteForbidden(w, "Permission denied")
		return
	}

	if err := h.store.DeleteArticle(r.Context(), existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete article")
		return
	}

	h.logEvent(model.EventLevelInfo, model.EventCategoryArticle, "article deleted: "+existing.Title, user.ID)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Article deleted successfully"})
}

// ListAuthors handles GET /api/authors.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.store.ListAuthorsWithArticleCount(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list authors")
		return
	}
	if authors == nil {
		authors = []model.AuthorWithCount{}
	}
	WriteJSON(w, http.StatusOK, authors)
}
