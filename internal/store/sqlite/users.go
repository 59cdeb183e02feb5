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

const userColumns = "id, name, email, password_hash, role, bio, profile_picture_url, created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Bio, &u.ProfilePictureURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *Store) CreateUser(ctx context.Context, p store.CreateUserParams) (model.User, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, bio, profile_picture_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Bio, u.ProfilePictureURL, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return model.User{}, store.ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, p store.UpdateUserParams) (model.User, error) {
	// COALESCE keeps the stored value for fields the caller did not send.
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE(?, name),
			bio = COALESCE(?, bio),
			profile_picture_url = COALESCE(?, profile_picture_url),
			password_hash = COALESCE(?, password_hash)
		WHERE id = ?`,
		p.Name, p.Bio, p.ProfilePictureURL, p.PasswordHash, id)
	if err != nil {
		return model.User{}, fmt.Errorf("updating user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.User{}, store.ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (model.User, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return model.User{}, fmt.Errorf("updating role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.User{}, store.ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
