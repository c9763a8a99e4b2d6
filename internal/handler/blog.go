// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/ai"
	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/markdown"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
	"github.com/sandeshshrestha/studio-go/internal/util"
)

// excerptMaxLength caps auto-generated excerpts.
const excerptMaxLength = 200

// BlogHandler handles admin blog post CRUD.
type BlogHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	caches       *cache.Manager
	markdown     *markdown.Renderer
	ai           *ai.Service
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager, md *markdown.Renderer, aiService *ai.Service) *BlogHandler {
	return &BlogHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		caches:       caches,
		markdown:     md,
		ai:           aiService,
	}
}

// BlogListData holds data for the blog posts list page.
type BlogListData struct {
	Posts      []model.BlogPost
	Query      string
	Category   string
	Categories []string
	LoadError  bool
}

// List renders the blog posts list with an in-memory search and category filter.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	data := BlogListData{
		Query:    formValue(r, "q"),
		Category: formValue(r, "category"),
	}

	posts, err := h.queries.ListBlogPosts(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		data.Categories = collectFacets(posts, func(p model.BlogPost) string { return p.Category })
		data.Posts = filterList(posts, data.Query, data.Category,
			func(p model.BlogPost) []string { return []string{p.Title, p.Excerpt, p.AuthorName} },
			func(p model.BlogPost) string { return p.Category })
	}

	if err := h.renderer.Render(w, r, "admin/posts", adminData(r, "Journal Posts", data)); err != nil {
		logAndInternalError(w, "failed to render posts list", "error", err)
	}
}

// BlogFormData holds data for the post create/edit form.
type BlogFormData struct {
	Post        model.BlogPost
	Tags        string
	ScheduledAt string
	LoadedAt    string
	IsEdit      bool
	AIEnabled   bool
}

// NewForm renders the post creation form.
func (h *BlogHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := BlogFormData{
		Post:      model.BlogPost{AuthorName: model.DefaultAuthorName},
		AIEnabled: h.ai.Enabled(),
	}
	if err := h.renderer.Render(w, r, "admin/post_form", adminData(r, "New Post", data)); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Create handles post creation. Content arrives as markdown (or pasted
// HTML with format=html) and is sanitized before storage.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPostsNew) {
		return
	}

	title := formValue(r, "title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Title and content are required")
		return
	}

	html, err := h.renderContent(r, content)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Error rendering content")
		return
	}

	excerpt := formValue(r, "excerpt")
	if excerpt == "" {
		excerpt = markdown.Excerpt(content, excerptMaxLength)
	}

	now := time.Now()
	post, err := h.queries.CreateBlogPost(r.Context(), store.CreateBlogPostParams{
		Title:        title,
		Excerpt:      excerpt,
		Content:      string(html),
		AuthorName:   authorOrDefault(formValue(r, "author_name")),
		AuthorAvatar: formValue(r, "author_avatar"),
		AuthorRole:   formValue(r, "author_role"),
		Category:     formValue(r, "category"),
		Tags:         postTagsFromForm(r),
		Published:    formChecked(r, "published"),
		Featured:     formChecked(r, "featured"),
		ImageURL:     formValue(r, "image_url"),
		ReadTime:     estimateReadTime(content),
		ScheduledAt:  parseScheduledAt(r),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Error creating post")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Post created: "+post.Title, middleware.GetAccountIDPtr(r), map[string]any{"post_id": post.ID})
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post created")
}

// EditForm renders the post edit form.
func (h *BlogHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	data := BlogFormData{
		Post:      post,
		Tags:      joinTags(post.GetTags()),
		LoadedAt:  formatLoadedAt(post.UpdatedAt),
		IsEdit:    true,
		AIEnabled: h.ai.Enabled(),
	}
	if post.ScheduledAt.Valid {
		data.ScheduledAt = post.ScheduledAt.Time.Format(datetimeLocalFormat)
	}
	if err := h.renderer.Render(w, r, "admin/post_form", adminData(r, "Edit Post", data)); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Update handles post updates with the stale-write precondition.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid post ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminPostsID, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	title := formValue(r, "title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		flashError(w, r, h.renderer, editURL, "Title and content are required")
		return
	}

	html, err := h.renderContent(r, content)
	if err != nil {
		flashError(w, r, h.renderer, editURL, "Error rendering content")
		return
	}

	excerpt := formValue(r, "excerpt")
	if excerpt == "" {
		excerpt = markdown.Excerpt(content, excerptMaxLength)
	}

	post, err := h.queries.UpdateBlogPost(r.Context(), store.UpdateBlogPostParams{
		ID:           id,
		Title:        title,
		Excerpt:      excerpt,
		Content:      string(html),
		AuthorName:   authorOrDefault(formValue(r, "author_name")),
		AuthorAvatar: formValue(r, "author_avatar"),
		AuthorRole:   formValue(r, "author_role"),
		Category:     formValue(r, "category"),
		Tags:         postTagsFromForm(r),
		Published:    formChecked(r, "published"),
		Featured:     formChecked(r, "featured"),
		ImageURL:     formValue(r, "image_url"),
		ReadTime:     estimateReadTime(content),
		ScheduledAt:  parseScheduledAt(r),
		UpdatedAt:    time.Now(),
		LoadedAt:     parseLoadedAt(r),
	})
	if err != nil {
		flashUpdateError(w, r, h.renderer, editURL, "Post", err)
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Post updated: "+post.Title, middleware.GetAccountIDPtr(r), map[string]any{"post_id": post.ID})
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post updated")
}

// TogglePublished flips the published flag unconditionally.
func (h *BlogHandler) TogglePublished(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetBlogPostPublished(r.Context(), id, !post.Published, time.Now()); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Error updating post")
		return
	}

	h.invalidate(r)
	action := "published"
	if post.Published {
		action = "unpublished"
	}
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Post "+action+": "+post.Title, middleware.GetAccountIDPtr(r), map[string]any{"post_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post "+action)
}

// ToggleFeatured flips the featured flag unconditionally.
func (h *BlogHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetBlogPostFeatured(r.Context(), id, !post.Featured, time.Now()); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Error updating post")
		return
	}

	h.invalidate(r)
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post updated")
}

// Delete removes a blog post.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid post ID")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", id,
		func(id int64) (model.BlogPost, error) { return h.queries.GetBlogPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteBlogPost(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Error deleting post")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Post deleted: "+post.Title, middleware.GetAccountIDPtr(r), map[string]any{"post_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post deleted")
}

// Suggest returns an AI-generated excerpt and tags for the submitted
// draft. POST /admin/posts/suggest, JSON response for the form script.
func (h *BlogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !h.ai.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, "AI suggestions are not configured")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	title := formValue(r, "title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		writeJSONError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	suggestion, err := h.ai.SuggestMetadata(r.Context(), title, content)
	if err != nil {
		slog.Error("ai suggestion failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "Suggestion failed, try again")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"excerpt": suggestion.Excerpt,
		"tags":    suggestion.Tags,
	})
}

// renderContent converts submitted content to sanitized HTML. Markdown
// is the default; format=html marks pasted HTML, which is sanitized
// without markdown conversion.
func (h *BlogHandler) renderContent(r *http.Request, content string) (string, error) {
	if formValue(r, "format") == "html" {
		return string(h.markdown.RenderTrusted(content)), nil
	}
	html, err := h.markdown.Render(content)
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func (h *BlogHandler) invalidate(r *http.Request) {
	if h.caches != nil {
		h.caches.InvalidatePosts(r.Context())
	}
}

// authorOrDefault falls back to the studio's default byline.
func authorOrDefault(name string) string {
	if name == "" {
		return model.DefaultAuthorName
	}
	return name
}

// postTagsFromForm normalizes the comma-separated tags input into the
// stored JSON array form.
func postTagsFromForm(r *http.Request) string {
	p := model.BlogPost{}
	p.SetTags(util.SplitCommaList(r.FormValue("tags")))
	return p.Tags
}
