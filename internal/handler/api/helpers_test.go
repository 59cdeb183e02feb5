// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jellymag/jelly/internal/auth"
	"github.com/jellymag/jelly/internal/middleware"
	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/session"
	"github.com/jellymag/jelly/internal/store"
	"github.com/jellymag/jelly/internal/store/memory"
)

const (
	testMasterCode = "super-secret-master-code"
	testPassword   = "password123"
)

// testEnv wires a complete API stack against the in-memory store.
type testEnv struct {
	t      *testing.T
	server *httptest.Server
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	sm := session.NewMemory(true)
	h := NewHandler(st, sm, nil, testMasterCode, "test")

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadUser(sm, st))
	r.Mount("/api", h.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, server: srv, store: st}
}

// client returns a fresh HTTP client with its own cookie jar, representing
// one browser session.
func (e *testEnv) client() *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		e.t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// do sends a JSON request and returns the status code and raw response body.
func (e *testEnv) do(c *http.Client, method, path string, body any) (int, []byte) {
	e.t.Helper()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		e.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, raw
}

// createUser inserts a user with the given role directly into the store.
func (e *testEnv) createUser(name, email, role string) model.User {
	e.t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		e.t.Fatalf("hash password: %v", err)
	}
	u, err := e.store.CreateUser(context.Background(), store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		e.t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// loginAs creates a user with the given role and returns a client that is
// logged in as them, together with the user record.
func (e *testEnv) loginAs(name, email, role string) (*http.Client, model.User) {
	e.t.Helper()

	u := e.createUser(name, email, role)
	c := e.client()
	status, body := e.do(c, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	if status != http.StatusOK {
		e.t.Fatalf("login as %s: status %d, body %s", email, status, body)
	}
	return c, u
}

// createArticle inserts an article directly into the store.
func (e *testEnv) createArticle(authorID, title, status string) model.Article {
	e.t.Helper()

	a, err := e.store.CreateArticle(context.Background(), store.CreateArticleParams{
		Title:    title,
		Content:  "<p>" + title + " body</p>",
		AuthorID: authorID,
		Category: "design",
		Status:   status,
	})
	if err != nil {
		e.t.Fatalf("create article %q: %v", title, err)
	}
	return a
}

// decode unmarshals a response body, failing the test on bad JSON.
func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

// errorCode extracts the code from an error envelope.
func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[ErrorResponse](t, raw).Error.Code
}
