// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, Article, SiteContent and event structures.
package model

import "time"

// User roles.
const (
	RoleOwner       = "owner"
	RoleEditor      = "editor"
	RoleContributor = "contributor"
	RoleReader      = "reader"
)

// Roles lists all valid user roles.
var Roles = []string{RoleOwner, RoleEditor, RoleContributor, RoleReader}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a magazine user.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"` // Never expose in JSON
	Role              string    `json:"role"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// IsOwner returns true if the user has the owner role.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// PublicUser is the client-facing projection of a User. It structurally cannot
// carry the password hash, so serializing it can never leak credentials.
type PublicUser struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Public returns the client-facing projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
	}
}

// AuthorWithCount is a PublicUser annotated with the number of published
// articles the author has written. Used on the authors listing.
type AuthorWithCount struct {
	PublicUser
	ArticleCount int64 `json:"articleCount"`
}
