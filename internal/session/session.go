// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager. Sessions are
// persisted in SQLite when that backend is active, and held in memory
// otherwise, so a restart logs everyone out only in memory mode.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := configure(scs.New(), isDev)
	sm.Store = sqlite3store.New(db)
	return sm
}

// NewMemory creates a session manager with the default in-memory store.
func NewMemory(isDev bool) *scs.SessionManager {
	return configure(scs.New(), isDev)
}

func configure(sm *scs.SessionManager, isDev bool) *scs.SessionManager {
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	if !isDev {
		// The __Host- prefix locks the cookie to this host over HTTPS.
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}
	return sm
}
