// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy is the single authorization decision point. Every mutating
// endpoint consults Can instead of checking role strings ad hoc, so the
// permission matrix cannot drift between enforcement points.
package policy

import "github.com/jellymag/jelly/internal/model"

// Action identifies an operation a user may attempt.
type Action string

// Actions. Ownership-qualified actions (edit/delete article, edit profile)
// take the resource owner's user ID into account.
const (
	ActionCreateArticle    Action = "article:create"
	ActionEditArticle      Action = "article:edit"
	ActionDeleteArticle    Action = "article:delete"
	ActionSetArticleStatus Action = "article:set_status"
	ActionViewAllArticles  Action = "article:view_all"
	ActionManageRoles      Action = "user:manage_roles"
	ActionViewAllUsers     Action = "user:view_all"
	ActionEditProfile      Action = "user:edit_profile"
	ActionViewDashboard    Action = "dashboard:view"
	ActionEditSiteContent  Action = "content:edit"
)

// Can reports whether the user may perform action. For ownership-qualified
// actions, resourceOwnerID is the user ID owning the target resource (the
// article's author, or the profile's user); pass "" for unqualified actions.
//
// Roles are NOT a strict hierarchy: an editor may edit any article but delete
// only their own, while the owner may do both.
func Can(user *model.User, action Action, resourceOwnerID string) bool {
	if user == nil {
		return false
	}

	own := resourceOwnerID != "" && resourceOwnerID == user.ID

	switch action {
	case ActionCreateArticle:
		return user.Role == model.RoleOwner || user.Role == model.RoleEditor || user.Role == model.RoleContributor

	case ActionEditArticle:
		switch user.Role {
		case model.RoleOwner, model.RoleEditor:
			return true
		case model.RoleContributor:
			return own
		}
		return false

	case ActionDeleteArticle:
		switch user.Role {
		case model.RoleOwner:
			return true
		case model.RoleEditor, model.RoleContributor:
			return own
		}
		return false

	case ActionSetArticleStatus:
		return user.Role == model.RoleOwner || user.Role == model.RoleEditor

	case ActionViewAllArticles:
		return user.Role == model.RoleOwner || user.Role == model.RoleEditor

	case ActionManageRoles, ActionViewAllUsers, ActionViewDashboard, ActionEditSiteContent:
		return user.Role == model.RoleOwner

	case ActionEditProfile:
		return user.Role == model.RoleOwner || own
	}

	return false
}
