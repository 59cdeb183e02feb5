// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/jellymag/jelly/internal/middleware"
)

// Routes returns the API router, intended to be mounted at /api. The caller
// is responsible for session loading and user resolution; handlers here only
// assume middleware.LoadUser has run.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Health
	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	// Auth
	r.Route("/auth", func(r chi.Router) {
		login := r.With()
		if h.loginProtection != nil {
			login = r.With(h.loginProtection.Middleware())
		}
		login.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)
	})

	// Articles. Static segments before the {id} catch-all.
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.ListArticles)
		r.Get("/featured", h.FeaturedArticle)
		r.Get("/recent", h.RecentArticles)
		r.Get("/{id}", h.GetArticle)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Get("/all", h.AllArticles)
			r.Post("/", h.CreateArticle)
			r.Put("/{id}", h.UpdateArticle)
			r.Delete("/{id}", h.DeleteArticle)
		})
	})

	r.Get("/authors", h.ListAuthors)
	r.Post("/contact", h.Contact)

	// Users
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Get("/", h.ListUsers)
		r.Put("/role", h.UpdateRole)
		r.Put("/{id}/profile", h.UpdateProfile)
	})

	// Site content. Reads are public so the frontend can render the copy;
	// listings and writes are owner-only.
	r.Route("/content", func(r chi.Router) {
		r.Get("/{section}/{key}", h.GetContentItem)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Get("/", h.ListContent)
			r.Get("/{section}", h.ListContentSection)
			r.Put("/{section}/{key}", h.UpdateContentItem)
		})
	})

	// Dashboard
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Get("/stats", h.DashboardStats)
		r.Get("/events", h.DashboardEvents)
	})

	return r
}
