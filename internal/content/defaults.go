// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content holds the embedded default site copy. The owner can
// override any entry through the site-content API; reads fall back to these
// defaults when no override row exists.
package content

import "github.com/jellymag/jelly/internal/model"

// defaults is the built-in site copy, keyed by (section, key).
var defaults = []model.SiteContent{
	// Hero section
	{Section: "hero", Key: "title", Value: "Welcome to Jelly", Type: model.ContentTypeText},
	{Section: "hero", Key: "subtitle", Value: "A colorful magazine for creative minds", Type: model.ContentTypeText},
	{Section: "hero", Key: "description", Value: "Discover inspiring stories, vibrant designs, and creative insights that spark imagination.", Type: model.ContentTypeText},
	{Section: "hero", Key: "ctaText", Value: "Start Reading", Type: model.ContentTypeText},
	{Section: "hero", Key: "ctaLink", Value: "/archive", Type: model.ContentTypeLink},

	// Articles section
	{Section: "articles", Key: "title", Value: "Latest Stories", Type: model.ContentTypeText},
	{Section: "articles", Key: "subtitle", Value: "Fresh content delivered weekly, bursting with creativity and inspiration!", Type: model.ContentTypeText},

	// About section
	{Section: "about", Key: "title", Value: "About Jelly", Type: model.ContentTypeText},
	{Section: "about", Key: "description", Value: "Jelly is where creativity meets inspiration. We curate colorful content that celebrates design, innovation, and the joy of creative expression.", Type: model.ContentTypeHTML},

	// Footer
	{Section: "footer", Key: "copyright", Value: "© 2024 Jelly Magazine. All rights reserved.", Type: model.ContentTypeText},
	{Section: "footer", Key: "tagline", Value: "Stay colorful, stay creative", Type: model.ContentTypeText},

	// Navigation
	{Section: "nav", Key: "logo", Value: "Jelly", Type: model.ContentTypeText},

	// Authors page
	{Section: "authors", Key: "title", Value: "Meet Our Authors", Type: model.ContentTypeText},
	{Section: "authors", Key: "subtitle", Value: "The creative minds behind our colorful content", Type: model.ContentTypeText},

	// Contact page
	{Section: "contact", Key: "title", Value: "Get in Touch", Type: model.ContentTypeText},
	{Section: "contact", Key: "description", Value: "We'd love to hear from you! Send us your thoughts, ideas, or collaboration proposals.", Type: model.ContentTypeHTML},
}

// Defaults returns a copy of the full default site copy table.
func Defaults() []model.SiteContent {
	out := make([]model.SiteContent, len(defaults))
	copy(out, defaults)
	return out
}

// Default returns the built-in copy for (section, key), if any.
func Default(section, key string) (model.SiteContent, bool) {
	for _, c := range defaults {
		if c.Section == section && c.Key == key {
			return c, true
		}
	}
	return model.SiteContent{}, false
}
