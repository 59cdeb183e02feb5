// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package sqlite

import (
	"context"
	"database/sql"
)

// Store implements store.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// New wraps an open database connection. The caller is responsible for
// running Migrate first.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for components that need raw access,
// such as the session store.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
