// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
)

func mustCreateUser(t *testing.T, s *Store, name, email, role string) model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return u
}

func mustCreateArticle(t *testing.T, s *Store, p store.CreateArticleParams) model.Article {
	t.Helper()
	a, err := s.CreateArticle(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateArticle(%s) failed: %v", p.Title, err)
	}
	return a
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.Role != model.RoleEditor {
		t.Errorf("expected editor role, got %s", u.Role)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("expected ada@example.com, got %s", got.Email)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("expected id %s, got %s", u.ID, byEmail.ID)
	}

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_DefaultRoleIsReader(t *testing.T) {
	s := New()
	u := mustCreateUser(t, s, "Ada", "ada@example.com", "")
	if u.Role != model.RoleReader {
		t.Errorf("expected reader, got %s", u.Role)
	}
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := New()
	mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleReader)

	_, err := s.CreateUser(context.Background(), store.CreateUserParams{
		Name:         "Other",
		Email:        "ada@example.com",
		PasswordHash: "x",
	})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUsers_Update(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleContributor)

	bio := "Writes about systems."
	name := "Ada L."
	got, err := s.UpdateUser(ctx, u.ID, store.UpdateUserParams{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if got.Name != "Ada L." || got.Bio != "Writes about systems." {
		t.Errorf("unexpected update result: %+v", got)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("email should be untouched, got %s", got.Email)
	}

	got, err = s.UpdateUserRole(ctx, u.ID, model.RoleEditor)
	if err != nil {
		t.Fatalf("UpdateUserRole failed: %v", err)
	}
	if got.Role != model.RoleEditor {
		t.Errorf("expected editor, got %s", got.Role)
	}

	if _, err := s.UpdateUser(ctx, "missing", store.UpdateUserParams{Name: &name}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArticles_CreateDefaultsToDraft(t *testing.T) {
	s := New()
	author := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleContributor)

	a := mustCreateArticle(t, s, store.CreateArticleParams{
		Title:    "First",
		Content:  "body",
		AuthorID: author.ID,
	})
	if a.Status != model.StatusDraft {
		t.Errorf("expected draft, got %s", a.Status)
	}
	if a.PublishDate != nil {
		t.Error("draft must not carry a publish date")
	}
}

func TestArticles_PublishDateSetOnceAndKept(t *testing.T) {
	s := New()
	ctx := context.Background()
	author := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)

	a := mustCreateArticle(t, s, store.CreateArticleParams{
		Title:    "Lifecycle",
		Content:  "body",
		AuthorID: author.ID,
	})

	published := model.StatusPublished
	got, err := s.UpdateArticle(ctx, a.ID, store.UpdateArticleParams{Status: &published})
	if err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}
	if got.PublishDate == nil {
		t.Fatal("publishing must set the publish date")
	}
	firstDate := *got.PublishDate

	// Unpublishing keeps the date.
	draft := model.StatusDraft
	got, err = s.UpdateArticle(ctx, a.ID, store.UpdateArticleParams{Status: &draft})
	if err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}
	if got.PublishDate == nil || !got.PublishDate.Equal(firstDate) {
		t.Errorf("publish date must survive unpublishing, got %v", got.PublishDate)
	}

	// Republishing does not move it.
	got, err = s.UpdateArticle(ctx, a.ID, store.UpdateArticleParams{Status: &published})
	if err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}
	if !got.PublishDate.Equal(firstDate) {
		t.Errorf("republishing must not move the publish date, got %v", got.PublishDate)
	}
}

func TestArticles_UpdateMergesFields(t *testing.T) {
	s := New()
	ctx := context.Background()
	author := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)

	a := mustCreateArticle(t, s, store.CreateArticleParams{
		Title:    "Original",
		Content:  "body",
		Excerpt:  "short",
		Category: "tech",
		AuthorID: author.ID,
	})

	title := "Revised"
	got, err := s.UpdateArticle(ctx, a.ID, store.UpdateArticleParams{Title: &title})
	if err != nil {
		t.Fatalf("UpdateArticle failed: %v", err)
	}
	if got.Title != "Revised" {
		t.Errorf("expected Revised, got %s", got.Title)
	}
	if got.Content != "body" || got.Excerpt != "short" || got.Category != "tech" {
		t.Errorf("untouched fields must keep their values: %+v", got)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) && !got.UpdatedAt.Equal(a.UpdatedAt) {
		t.Errorf("UpdatedAt went backwards: %v -> %v", a.UpdatedAt, got.UpdatedAt)
	}
}

func TestArticles_DeleteIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	author := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)
	a := mustCreateArticle(t, s, store.CreateArticleParams{Title: "Gone", Content: "x", AuthorID: author.ID})

	if err := s.DeleteArticle(ctx, a.ID); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	if _, err := s.GetArticle(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteArticle(ctx, a.ID); err != nil {
		t.Errorf("deleting a missing article must be a no-op, got %v", err)
	}
	if err := s.DeleteArticle(ctx, "never-existed"); err != nil {
		t.Errorf("deleting an unknown id must be a no-op, got %v", err)
	}
}

func TestListArticles_FilterAndSearch(t *testing.T) {
	s := New()
	ctx := context.Background()
	ada := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)
	bob := mustCreateUser(t, s, "Bob", "bob@example.com", model.RoleContributor)

	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Go Concurrency", Content: "channels", Category: "tech",
		AuthorID: ada.ID, Status: model.StatusPublished,
	})
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Garden Notes", Content: "tomatoes and CHANNELS of water", Category: "life",
		AuthorID: bob.ID, Status: model.StatusPublished,
	})
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Unfinished", Content: "draft text", Category: "tech",
		AuthorID: ada.ID,
	})

	published, err := s.ListArticles(ctx, store.ArticleFilter{Status: model.StatusPublished})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published articles, got %d", len(published))
	}

	tech, err := s.ListArticles(ctx, store.ArticleFilter{Status: model.StatusPublished, Category: "tech"})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(tech) != 1 || tech[0].Title != "Go Concurrency" {
		t.Errorf("category filter mismatch: %+v", tech)
	}

	// Search is case-insensitive and matches title or body.
	found, err := s.ListArticles(ctx, store.ArticleFilter{Status: model.StatusPublished, Search: "channels"})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected search to match both articles, got %d", len(found))
	}

	byAuthor, err := s.ListArticles(ctx, store.ArticleFilter{AuthorID: ada.ID})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(byAuthor) != 2 {
		t.Errorf("expected 2 articles by Ada, got %d", len(byAuthor))
	}
}

func TestListArticles_SortAndPaginate(t *testing.T) {
	s := New()
	ctx := context.Background()
	ada := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)

	titles := []string{"Bravo", "Alpha", "Charlie"}
	for _, title := range titles {
		mustCreateArticle(t, s, store.CreateArticleParams{
			Title: title, Content: "x", AuthorID: ada.ID, Status: model.StatusPublished,
		})
		time.Sleep(2 * time.Millisecond)
	}

	newest, err := s.ListArticles(ctx, store.ArticleFilter{Sort: store.SortNewest})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if newest[0].Title != "Charlie" || newest[2].Title != "Bravo" {
		t.Errorf("newest order wrong: %s, %s, %s", newest[0].Title, newest[1].Title, newest[2].Title)
	}

	oldest, err := s.ListArticles(ctx, store.ArticleFilter{Sort: store.SortOldest})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if oldest[0].Title != "Bravo" {
		t.Errorf("oldest order wrong, first = %s", oldest[0].Title)
	}

	byTitle, err := s.ListArticles(ctx, store.ArticleFilter{Sort: store.SortTitle})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if byTitle[0].Title != "Alpha" || byTitle[2].Title != "Charlie" {
		t.Errorf("title order wrong, got %s .. %s", byTitle[0].Title, byTitle[2].Title)
	}

	page, err := s.ListArticles(ctx, store.ArticleFilter{Sort: store.SortTitle, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(page) != 2 || page[0].Title != "Bravo" {
		t.Errorf("pagination wrong: %+v", page)
	}

	empty, err := s.ListArticles(ctx, store.ArticleFilter{Offset: 100})
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("out-of-range offset must return an empty page, got %d", len(empty))
	}
}

func TestFeaturedArticle(t *testing.T) {
	s := New()
	ctx := context.Background()
	ada := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)

	if _, err := s.FeaturedArticle(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound with no published articles, got %v", err)
	}

	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Older", Content: "x", AuthorID: ada.ID, Status: model.StatusPublished,
	})
	time.Sleep(2 * time.Millisecond)
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Newer", Content: "x", AuthorID: ada.ID, Status: model.StatusPublished,
	})
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Draft", Content: "x", AuthorID: ada.ID,
	})

	got, err := s.FeaturedArticle(ctx)
	if err != nil {
		t.Fatalf("FeaturedArticle failed: %v", err)
	}
	if got.Title != "Newer" {
		t.Errorf("expected Newer, got %s", got.Title)
	}
	if got.Author.Name != "Ada" {
		t.Errorf("author join missing: %+v", got.Author)
	}
}

func TestListAuthorsWithArticleCount(t *testing.T) {
	s := New()
	ctx := context.Background()
	ada := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)
	bob := mustCreateUser(t, s, "Bob", "bob@example.com", model.RoleContributor)
	mustCreateUser(t, s, "Rex", "rex@example.com", model.RoleReader)

	for i := 0; i < 2; i++ {
		mustCreateArticle(t, s, store.CreateArticleParams{
			Title: "By Bob", Content: "x", AuthorID: bob.ID, Status: model.StatusPublished,
		})
	}
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "By Ada", Content: "x", AuthorID: ada.ID, Status: model.StatusPublished,
	})
	mustCreateArticle(t, s, store.CreateArticleParams{
		Title: "Ada Draft", Content: "x", AuthorID: ada.ID,
	})

	authors, err := s.ListAuthorsWithArticleCount(ctx)
	if err != nil {
		t.Fatalf("ListAuthorsWithArticleCount failed: %v", err)
	}
	if len(authors) != 2 {
		t.Fatalf("readers must be excluded, got %d authors", len(authors))
	}
	if authors[0].Name != "Bob" || authors[0].ArticleCount != 2 {
		t.Errorf("expected Bob with 2 published articles first, got %s/%d", authors[0].Name, authors[0].ArticleCount)
	}
	if authors[1].Name != "Ada" || authors[1].ArticleCount != 1 {
		t.Errorf("drafts must not count, got %s/%d", authors[1].Name, authors[1].ArticleCount)
	}
}

func TestDashboardStats(t *testing.T) {
	s := New()
	ctx := context.Background()
	ada := mustCreateUser(t, s, "Ada", "ada@example.com", model.RoleEditor)
	mustCreateUser(t, s, "Rex", "rex@example.com", model.RoleReader)

	mustCreateArticle(t, s, store.CreateArticleParams{Title: "P", Content: "x", AuthorID: ada.ID, Status: model.StatusPublished})
	mustCreateArticle(t, s, store.CreateArticleParams{Title: "D", Content: "x", AuthorID: ada.ID})

	stats, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	want := model.DashboardStats{TotalUsers: 2, TotalArticles: 2, PublishedArticles: 1, DraftArticles: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestContent_UpsertAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := s.UpsertContent(ctx, "hero", "title", "Welcome", "")
	if err != nil {
		t.Fatalf("UpsertContent failed: %v", err)
	}
	if c.Type != model.ContentTypeText {
		t.Errorf("new rows default to text, got %s", c.Type)
	}

	got, err := s.GetContent(ctx, "hero", "title")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Value != "Welcome" {
		t.Errorf("expected Welcome, got %s", got.Value)
	}

	updated, err := s.UpsertContent(ctx, "hero", "title", "Hello", model.ContentTypeText)
	if err != nil {
		t.Fatalf("UpsertContent failed: %v", err)
	}
	if updated.ID != c.ID {
		t.Error("upsert must update in place, not create a new row")
	}
	if updated.Value != "Hello" {
		t.Errorf("expected Hello, got %s", updated.Value)
	}

	html, err := s.UpsertContent(ctx, "about", "body", "<p>New</p>", model.ContentTypeHTML)
	if err != nil {
		t.Fatalf("UpsertContent failed: %v", err)
	}
	if html.Type != model.ContentTypeHTML {
		t.Errorf("new row Type = %q, want html", html.Type)
	}

	if _, err := s.GetContent(ctx, "hero", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContent_SeedDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()

	defaults := []model.SiteContent{
		{Section: "hero", Key: "title", Value: "Welcome", Type: model.ContentTypeText},
		{Section: "about", Key: "description", Value: "<p>Hi</p>", Type: model.ContentTypeHTML},
	}
	if err := s.SeedContentDefaults(ctx, defaults); err != nil {
		t.Fatalf("SeedContentDefaults failed: %v", err)
	}

	all, err := s.ListContent(ctx)
	if err != nil {
		t.Fatalf("ListContent failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}

	// Reseeding a populated store must not clobber edits.
	if _, err := s.UpsertContent(ctx, "hero", "title", "Edited", model.ContentTypeText); err != nil {
		t.Fatalf("UpsertContent failed: %v", err)
	}
	if err := s.SeedContentDefaults(ctx, defaults); err != nil {
		t.Fatalf("SeedContentDefaults failed: %v", err)
	}
	got, err := s.GetContent(ctx, "hero", "title")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Value != "Edited" {
		t.Errorf("reseed overwrote an edit: %s", got.Value)
	}

	section, err := s.ListContentBySection(ctx, "about")
	if err != nil {
		t.Fatalf("ListContentBySection failed: %v", err)
	}
	if len(section) != 1 || section[0].Key != "description" {
		t.Errorf("section filter mismatch: %+v", section)
	}
}

func TestEvents_CreateListPrune(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateEvent(ctx, store.CreateEventParams{
			Level:    model.EventLevelInfo,
			Category: model.EventCategoryAuth,
			Message:  "login",
		})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	events, err := s.ListRecentEvents(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected limit of 2, got %d", len(events))
	}

	removed, err := s.DeleteEventsBefore(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteEventsBefore failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}

	events, err = s.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty log after pruning, got %d", len(events))
	}
}
