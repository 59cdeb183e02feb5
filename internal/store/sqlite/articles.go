// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
)

const articleColumns = "a.id, a.title, a.content, a.excerpt, a.image_url, a.author_id, a.category, a.status, a.publish_date, a.created_at, a.updated_at"

// joinedColumns selects an article together with its author's public fields.
const joinedColumns = articleColumns + ", u.id, u.name, u.email, u.role, u.bio, u.profile_picture_url, u.created_at"

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	var publishDate sql.NullTime
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.ImageURL,
		&a.AuthorID, &a.Category, &a.Status, &publishDate, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Article{}, store.ErrNotFound
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("scanning article: %w", err)
	}
	if publishDate.Valid {
		a.PublishDate = &publishDate.Time
	}
	return a, nil
}

func scanArticleWithAuthor(row interface{ Scan(...any) error }) (model.ArticleWithAuthor, error) {
	var out model.ArticleWithAuthor
	var publishDate sql.NullTime
	a := &out.Article
	u := &out.Author
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.ImageURL,
		&a.AuthorID, &a.Category, &a.Status, &publishDate, &a.CreatedAt, &a.UpdatedAt,
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Bio, &u.ProfilePictureURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ArticleWithAuthor{}, store.ErrNotFound
	}
	if err != nil {
		return model.ArticleWithAuthor{}, fmt.Errorf("scanning article with author: %w", err)
	}
	if publishDate.Valid {
		a.PublishDate = &publishDate.Time
	}
	return out, nil
}

func (s *Store) GetArticle(ctx context.Context, id string) (model.ArticleWithAuthor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+joinedColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = ?`, id)
	return scanArticleWithAuthor(row)
}

func (s *Store) ListArticles(ctx context.Context, f store.ArticleFilter) ([]model.ArticleWithAuthor, error) {
	var where []string
	var args []any

	if f.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "a.category = ?")
		args = append(args, f.Category)
	}
	if f.AuthorID != "" {
		where = append(where, "a.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.Search != "" {
		where = append(where, "(a.title LIKE '%' || ? || '%' OR a.content LIKE '%' || ? || '%')")
		args = append(args, f.Search, f.Search)
	}

	query := `SELECT ` + joinedColumns + `
		FROM articles a
		JOIN users u ON u.id = a.author_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	// Listings order by publish date when set, creation time otherwise, with
	// the id as a deterministic tie-break.
	switch f.Sort {
	case store.SortOldest:
		query += " ORDER BY COALESCE(a.publish_date, a.created_at) ASC, a.id DESC"
	case store.SortTitle:
		query += " ORDER BY a.title ASC, a.id DESC"
	default:
		query += " ORDER BY COALESCE(a.publish_date, a.created_at) DESC, a.id DESC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var out []model.ArticleWithAuthor
	for rows.Next() {
		a, err := scanArticleWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ListAllArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		ORDER BY a.created_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing all articles: %w", err)
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateArticle(ctx context.Context, p store.CreateArticleParams) (model.Article, error) {
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

	var publishDate sql.NullTime
	if status == model.StatusPublished {
		publishDate = sql.NullTime{Time: now, Valid: true}
		a.PublishDate = &now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, content, excerpt, image_url, author_id, category, status, publish_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, a.Excerpt, a.ImageURL, a.AuthorID, a.Category, a.Status,
		publishDate, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return model.Article{}, fmt.Errorf("inserting article: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateArticle(ctx context.Context, id string, p store.UpdateArticleParams) (model.Article, error) {
	// The publish date is written once, on the first transition to published,
	// and survives later status changes.
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			excerpt = COALESCE(?, excerpt),
			image_url = COALESCE(?, image_url),
			category = COALESCE(?, category),
			publish_date = CASE
				WHEN ? = 'published' AND publish_date IS NULL THEN ?
				ELSE publish_date
			END,
			status = COALESCE(?, status),
			updated_at = ?
		WHERE id = ?`,
		p.Title, p.Content, p.Excerpt, p.ImageURL, p.Category,
		p.Status, now, p.Status, now, id)
	if err != nil {
		return model.Article{}, fmt.Errorf("updating article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Article{}, store.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles a WHERE a.id = ?", id)
	return scanArticle(row)
}

func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	// Deleting a missing id is a deliberate no-op.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	return nil
}

func (s *Store) FeaturedArticle(ctx context.Context) (model.ArticleWithAuthor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+joinedColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.status = 'published' AND a.publish_date IS NOT NULL
		ORDER BY a.publish_date DESC, a.id DESC
		LIMIT 1`)
	return scanArticleWithAuthor(row)
}

func (s *Store) ListAuthorsWithArticleCount(ctx context.Context) ([]model.AuthorWithCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.role, u.bio, u.profile_picture_url, u.created_at,
			COUNT(a.id) AS article_count
		FROM users u
		LEFT JOIN articles a ON a.author_id = u.id AND a.status = 'published'
		WHERE u.role != 'reader'
		GROUP BY u.id
		ORDER BY article_count DESC, u.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	defer rows.Close()

	var out []model.AuthorWithCount
	for rows.Next() {
		var a model.AuthorWithCount
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.Bio,
			&a.ProfilePictureURL, &a.CreatedAt, &a.ArticleCount); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM articles WHERE status = 'published'),
			(SELECT COUNT(*) FROM articles WHERE status != 'published')`).
		Scan(&stats.TotalUsers, &stats.TotalArticles, &stats.PublishedArticles, &stats.DraftArticles)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("reading dashboard stats: %w", err)
	}
	return stats, nil
}
