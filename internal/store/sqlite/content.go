// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
)

const contentColumns = "id, section, key, value, type, updated_at"

func scanContent(row interface{ Scan(...any) error }) (model.SiteContent, error) {
	var c model.SiteContent
	err := row.Scan(&c.ID, &c.Section, &c.Key, &c.Value, &c.Type, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SiteContent{}, store.ErrNotFound
	}
	if err != nil {
		return model.SiteContent{}, fmt.Errorf("scanning site content: %w", err)
	}
	return c, nil
}

func (s *Store) ListContent(ctx context.Context) ([]model.SiteContent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contentColumns+" FROM site_content ORDER BY section, key")
	if err != nil {
		return nil, fmt.Errorf("listing site content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

func (s *Store) ListContentBySection(ctx context.Context, section string) ([]model.SiteContent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contentColumns+" FROM site_content WHERE section = ? ORDER BY key", section)
	if err != nil {
		return nil, fmt.Errorf("listing site content by section: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

func collectContent(rows *sql.Rows) ([]model.SiteContent, error) {
	var out []model.SiteContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContent(ctx context.Context, section, key string) (model.SiteContent, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM site_content WHERE section = ? AND key = ?", section, key)
	return scanContent(row)
}

func (s *Store) UpsertContent(ctx context.Context, section, key, value, contentType string) (model.SiteContent, error) {
	if contentType == "" {
		contentType = model.ContentTypeText
	}
	// Existing rows keep their id and type; the type only applies to brand-new keys.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_content (id, section, key, value, type, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(section, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		uuid.NewString(), section, key, value, contentType, time.Now())
	if err != nil {
		return model.SiteContent{}, fmt.Errorf("upserting site content: %w", err)
	}
	return s.GetContent(ctx, section, key)
}

func (s *Store) SeedContentDefaults(ctx context.Context, defaults []model.SiteContent) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_content").Scan(&count); err != nil {
		return fmt.Errorf("counting site content: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, c := range defaults {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO site_content (id, section, key, value, type, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), c.Section, c.Key, c.Value, c.Type, now); err != nil {
			return fmt.Errorf("seeding %s.%s: %w", c.Section, c.Key, err)
		}
	}
	return tx.Commit()
}
