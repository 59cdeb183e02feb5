// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/jellymag/jelly/internal/model"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerUser := env.loginAs("Owner", "owner@example.com", model.RoleOwner)
	env.createUser("Reader", "reader@example.com", model.RoleReader)
	env.createArticle(ownerUser.ID, "Live", model.StatusPublished)
	env.createArticle(ownerUser.ID, "Pending", model.StatusDraft)

	status, body := env.do(owner, http.MethodGet, "/api/dashboard/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	stats := decode[model.DashboardStats](t, body)
	if stats.TotalUsers != 2 {
		t.Errorf("totalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalArticles != 2 || stats.PublishedArticles != 1 || stats.DraftArticles != 1 {
		t.Errorf("article stats = %+v", stats)
	}
}

func TestDashboard_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	editor, _ := env.loginAs("Editor", "editor@example.com", model.RoleEditor)

	for _, path := range []string{"/api/dashboard/stats", "/api/dashboard/events"} {
		status, _ := env.do(editor, http.MethodGet, path, nil)
		if status != http.StatusForbidden {
			t.Errorf("editor GET %s: status = %d, want 403", path, status)
		}
		status, _ = env.do(env.client(), http.MethodGet, path, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("anonymous GET %s: status = %d, want 401", path, status)
		}
	}
}

func TestDashboardEvents(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.loginAs("Owner", "owner@example.com", model.RoleOwner)

	// The login above already produced an auth event.
	status, body := env.do(owner, http.MethodGet, "/api/dashboard/events", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	events := decode[[]model.Event](t, body)
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	if events[0].Category != model.EventCategoryAuth {
		t.Errorf("latest event category = %q, want auth", events[0].Category)
	}

	status, _ = env.do(owner, http.MethodGet, "/api/dashboard/events?limit=0", nil)
	if status != http.StatusBadRequest {
		t.Errorf("limit=0: status = %d, want 400", status)
	}
}
