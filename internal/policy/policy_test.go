// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package policy

import (
	"testing"

	"github.com/jellymag/jelly/internal/model"
)

func userWithRole(role string) *model.User {
	return &model.User{ID: "actor-1", Role: role}
}

// TestCan_Matrix enumerates the full permission matrix for every role.
// "own" rows use a resource owned by the acting user, "any" rows one owned by
// somebody else.
func TestCan_Matrix(t *testing.T) {
	const (
		self  = "actor-1"
		other = "someone-else"
	)

	tests := []struct {
		name   string
		action Action
		owner  string
		// expected results per role
		ownerRole, editor, contributor, reader bool
	}{
		{"create article", ActionCreateArticle, "", true, true, true, false},
		{"edit own article", ActionEditArticle, self, true, true, true, false},
		{"edit any article", ActionEditArticle, other, true, true, false, false},
		{"delete own article", ActionDeleteArticle, self, true, true, true, false},
		{"delete any article", ActionDeleteArticle, other, true, false, false, false},
		{"set article status", ActionSetArticleStatus, "", true, true, false, false},
		{"view all articles", ActionViewAllArticles, "", true, true, false, false},
		{"manage roles", ActionManageRoles, "", true, false, false, false},
		{"view all users", ActionViewAllUsers, "", true, false, false, false},
		{"view dashboard", ActionViewDashboard, "", true, false, false, false},
		{"edit site content", ActionEditSiteContent, "", true, false, false, false},
		{"edit own profile", ActionEditProfile, self, true, true, true, true},
		{"edit others profile", ActionEditProfile, other, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := []struct {
				role string
				want bool
			}{
				{model.RoleOwner, tt.ownerRole},
				{model.RoleEditor, tt.editor},
				{model.RoleContributor, tt.contributor},
				{model.RoleReader, tt.reader},
			}
			for _, c := range checks {
				got := Can(userWithRole(c.role), tt.action, tt.owner)
				if got != c.want {
					t.Errorf("Can(%s, %s, owner=%q) = %v, want %v",
						c.role, tt.action, tt.owner, got, c.want)
				}
			}
		})
	}
}

func TestCan_NilUser(t *testing.T) {
	if Can(nil, ActionCreateArticle, "") {
		t.Error("nil user should never be authorized")
	}
}

func TestCan_UnknownAction(t *testing.T) {
	if Can(userWithRole(model.RoleOwner), Action("bogus"), "") {
		t.Error("unknown actions should be denied even for owners")
	}
}

func TestCan_UnknownRole(t *testing.T) {
	u := &model.User{ID: "x", Role: "superuser"}
	if Can(u, ActionCreateArticle, "") {
		t.Error("unknown roles should be denied")
	}
	// Self-profile edits only require ownership, not a known role.
	if !Can(u, ActionEditProfile, "x") {
		t.Error("any authenticated user may edit their own profile")
	}
}
