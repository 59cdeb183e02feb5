// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jellymag/jelly/internal/auth"
	"github.com/jellymag/jelly/internal/model"
)

// Default demo credentials
const (
	DemoOwnerEmail   = "owner@jelly.com"
	DemoEditorEmail  = "editor@jelly.com"
	DemoUserPassword = "password123"
	DemoOwnerName    = "Jelly Owner"
	DemoEditorName   = "Creative Editor"
)

// SeedDemo creates a demo owner, a demo editor and a handful of sample
// articles. It is idempotent: when the demo owner already exists nothing is
// created.
func SeedDemo(ctx context.Context, s Store) error {
	if _, err := s.GetUserByEmail(ctx, DemoOwnerEmail); err == nil {
		slog.Info("demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for demo owner: %w", err)
	}

	passwordHash, err := auth.HashPassword(DemoUserPassword)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	owner, err := s.CreateUser(ctx, CreateUserParams{
		Name:         DemoOwnerName,
		Email:        DemoOwnerEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleOwner,
		Bio:          "Founder of Jelly Magazine - spreading colorful creativity!",
	})
	if err != nil {
		return fmt.Errorf("creating demo owner: %w", err)
	}

	editor, err := s.CreateUser(ctx, CreateUserParams{
		Name:         DemoEditorName,
		Email:        DemoEditorEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleEditor,
		Bio:          "Passionate about design trends and colorful content!",
	})
	if err != nil {
		return fmt.Errorf("creating demo editor: %w", err)
	}

	samples := []CreateArticleParams{
		{
			Title: "The Power of Color in Modern Design",
			Content: `<h2>Welcome to the Colorful World of Design!</h2>
<p>Color is one of the most powerful tools in a designer's arsenal. It can evoke emotions, create atmosphere, and guide user attention in ways that few other design elements can match.</p>
<h3>Understanding Color Psychology</h3>
<p>Different colors trigger different emotional responses. Warm colors like red, orange, and yellow tend to be energizing and exciting, while cool colors like blue, green, and purple are calming and professional.</p>
<h3>Creating Effective Color Palettes</h3>
<p>The key to great color design is balance. Start with a primary color that represents your brand or message, then build a palette that supports and enhances that foundation.</p>`,
			Excerpt:  "Discover how color psychology can transform your design work and create more engaging user experiences.",
			AuthorID: editor.ID,
			Category: "design",
			Status:   model.StatusPublished,
		},
		{
			Title: "Mobile-First Design: Creating Responsive Experiences",
			Content: `<h2>Designing for Mobile</h2>
<p>With mobile devices accounting for over 60% of web traffic, mobile-first design isn't just a trend. It is essential for success.</p>
<h3>Key Principles of Mobile Design</h3>
<ul>
<li>Touch-friendly interface elements</li>
<li>Optimized loading speeds</li>
<li>Intuitive navigation patterns</li>
<li>Readable typography at all screen sizes</li>
</ul>`,
			Excerpt:  "Learn the essential principles of mobile-first design and create experiences that work perfectly on every device.",
			AuthorID: owner.ID,
			Category: "mobile",
			Status:   model.StatusPublished,
		},
		{
			Title: "Animation Trends",
			Content: `<h2>The Future of Web Animation</h2>
<p>This article is still being written... Coming soon with exciting animation trends!</p>`,
			Excerpt:  "Explore the latest animation trends that will define digital experiences.",
			AuthorID: editor.ID,
			Category: "animation",
			Status:   model.StatusDraft,
		},
	}

	for _, p := range samples {
		if _, err := s.CreateArticle(ctx, p); err != nil {
			return fmt.Errorf("creating sample article %q: %w", p.Title, err)
		}
	}

	slog.Info("seeded demo data",
		"owner", owner.Email,
		"editor", editor.Email,
		"password", DemoUserPassword,
		"articles", len(samples),
	)
	return nil
}
