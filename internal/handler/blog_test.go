// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sandeshshrestha/studio-go/internal/ai"
	"github.com/sandeshshrestha/studio-go/internal/markdown"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

func blogTestRouter(t *testing.T) (*chi.Mux, *scs.SessionManager, *sql.DB) {
	t.Helper()

	db, sm := testHandlerSetup(t)
	h := NewBlogHandler(db, testRenderer(t, sm), testCacheManager(t), markdown.NewRenderer(), ai.NewService("", ""))

	r := chi.NewRouter()
	r.Get(RoutePosts, h.List)
	r.Post(RoutePosts, h.Create)
	r.Post(RoutePosts+RouteSuffixSuggest, h.Suggest)
	r.Get(RoutePosts+RouteParamID, h.EditForm)
	r.Post(RoutePosts+RouteParamID, h.Update)
	r.Post(RoutePosts+RouteParamID+RouteSuffixPublish, h.TogglePublished)
	r.Post(RoutePosts+RouteParamID+RouteSuffixFeature, h.ToggleFeatured)
	r.Post(RoutePosts+RouteParamID+RouteSuffixDelete, h.Delete)
	return r, sm, db
}

func TestBlogCreate(t *testing.T) {
	r, sm, db := blogTestRouter(t)

	form := url.Values{
		"title":    {"Shipping the redesign"},
		"content":  {"# Heading\n\nSome **bold** process notes."},
		"category": {"process"},
		"tags":     {"design, process"},
	}
	rec := serveWithSession(sm, r, postForm(RoutePosts, form))
	assertRedirect(t, rec, redirectAdminPosts)

	posts, err := store.New(db).ListBlogPosts(context.Background())
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}

	p := posts[0]
	if p.Title != "Shipping the redesign" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.Contains(p.Content, "<strong>bold</strong>") {
		t.Errorf("content should be rendered to HTML, got %q", p.Content)
	}
	if p.Excerpt == "" {
		t.Error("excerpt should be auto-generated when empty")
	}
	if strings.Contains(p.Excerpt, "#") || strings.Contains(p.Excerpt, "**") {
		t.Errorf("excerpt should be plain text, got %q", p.Excerpt)
	}
	if p.ReadTime != "1 min read" {
		t.Errorf("ReadTime = %q", p.ReadTime)
	}
	if p.AuthorName == "" {
		t.Error("author should fall back to the default byline")
	}
	if p.Published {
		t.Error("post should default to draft")
	}
}

func TestBlogCreate_Scheduled(t *testing.T) {
	r, sm, db := blogTestRouter(t)

	form := url.Values{
		"title":        {"Scheduled piece"},
		"content":      {"Body"},
		"scheduled_at": {"2027-01-15T08:00"},
	}
	rec := serveWithSession(sm, r, postForm(RoutePosts, form))
	assertRedirect(t, rec, redirectAdminPosts)

	posts, _ := store.New(db).ListBlogPosts(context.Background())
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if !posts[0].ScheduledAt.Valid {
		t.Error("scheduled_at should be stored")
	}
	if !posts[0].IsScheduled() {
		t.Error("post should report as scheduled")
	}
}

func TestBlogCreate_PastedHTMLIsSanitized(t *testing.T) {
	r, sm, db := blogTestRouter(t)

	form := url.Values{
		"title":   {"Pasted"},
		"content": {`<p>fine</p><script>alert("xss")</script>`},
		"format":  {"html"},
	}
	rec := serveWithSession(sm, r, postForm(RoutePosts, form))
	assertRedirect(t, rec, redirectAdminPosts)

	posts, _ := store.New(db).ListBlogPosts(context.Background())
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if strings.Contains(posts[0].Content, "<script>") {
		t.Errorf("script tags should be stripped, got %q", posts[0].Content)
	}
	if !strings.Contains(posts[0].Content, "<p>fine</p>") {
		t.Errorf("safe markup should survive, got %q", posts[0].Content)
	}
}

func TestBlogList_SearchMatchesAuthor(t *testing.T) {
	r, sm, db := blogTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	for _, p := range []struct{ title, author string }{
		{"Studio notes", "Maya Lindholm"},
		{"Process diary", "Jonas Berg"},
	} {
		if _, err := queries.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
			Title:      p.title,
			Excerpt:    "e",
			Content:    "c",
			AuthorName: p.author,
			Tags:       "[]",
			ReadTime:   "1 min read",
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			t.Fatalf("CreateBlogPost failed: %v", err)
		}
	}

	t.Run("title match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, RoutePosts+"?q=diary", nil)
		rec := serveWithSession(sm, r, req)
		if !strings.Contains(rec.Body.String(), "posts:1") {
			t.Errorf("body = %q, want posts:1", rec.Body.String())
		}
	})

	t.Run("author match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, RoutePosts+"?q=lindholm", nil)
		rec := serveWithSession(sm, r, req)
		if !strings.Contains(rec.Body.String(), "posts:1") {
			t.Errorf("body = %q, want posts:1", rec.Body.String())
		}
	})
}

func TestBlogTogglePublished(t *testing.T) {
	r, sm, db := blogTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	post, err := queries.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
		Title:       "Draft",
		Excerpt:     "e",
		Content:     "c",
		AuthorName:  "A",
		Tags:        "[]",
		ReadTime:    "1 min read",
		ScheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/posts/%d/publish", post.ID), url.Values{}))
	assertRedirect(t, rec, redirectAdminPosts)

	got, _ := queries.GetBlogPostByID(context.Background(), post.ID)
	if !got.Published {
		t.Error("post should be published")
	}
	if got.ScheduledAt.Valid {
		t.Error("publishing should clear the schedule")
	}
}

func TestBlogUpdate_StaleWrite(t *testing.T) {
	r, sm, db := blogTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	post, err := queries.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
		Title:      "Original",
		Excerpt:    "e",
		Content:    "c",
		AuthorName: "A",
		Tags:       "[]",
		ReadTime:   "1 min read",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	form := url.Values{
		"title":     {"Changed"},
		"content":   {"Body"},
		"loaded_at": {formatLoadedAt(post.UpdatedAt.Add(-time.Minute))},
	}
	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/posts/%d", post.ID), form))
	assertRedirect(t, rec, fmt.Sprintf(redirectAdminPostsID, post.ID))

	got, _ := queries.GetBlogPostByID(context.Background(), post.ID)
	if got.Title != "Original" {
		t.Errorf("stale write should not land, Title = %q", got.Title)
	}
}

func TestBlogDelete(t *testing.T) {
	r, sm, db := blogTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	post, err := queries.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
		Title:      "Doomed",
		Excerpt:    "e",
		Content:    "c",
		AuthorName: "A",
		Tags:       "[]",
		ReadTime:   "1 min read",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/posts/%d/delete", post.ID), url.Values{}))
	assertRedirect(t, rec, redirectAdminPosts)

	if _, err := queries.GetBlogPostByID(context.Background(), post.ID); err == nil {
		t.Error("post should be gone")
	}
}

func TestBlogSuggest_NotConfigured(t *testing.T) {
	r, sm, _ := blogTestRouter(t)

	form := url.Values{"title": {"T"}, "content": {"C"}}
	rec := serveWithSession(sm, r, postForm("/posts/suggest", form))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	resp := decodeJSONBody(t, rec)
	if success, _ := resp["success"].(bool); success {
		t.Error("success should be false")
	}
}

func TestAuthorOrDefault(t *testing.T) {
	if got := authorOrDefault(""); got == "" {
		t.Error("empty author should fall back to a default")
	}
	if got := authorOrDefault("Guest Writer"); got != "Guest Writer" {
		t.Errorf("authorOrDefault = %q", got)
	}
}
