// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// dashboardRecentEvents is how many recent audit events the dashboard shows.
const dashboardRecentEvents = 8

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	caches   *cache.Manager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
		caches:   caches,
	}
}

// adminData builds TemplateData for an admin page, attaching the
// signed-in admin from the request identity.
func adminData(r *http.Request, title string, data any) render.TemplateData {
	td := render.TemplateData{Title: title, Data: data}
	if identity := middleware.GetIdentity(r); identity != nil {
		td.Admin = &identity.Admin
	}
	return td
}

// DashboardData holds counts and recent activity for the dashboard.
type DashboardData struct {
	ProjectCount    int64
	ServiceCount    int64
	PostCount       int64
	ContactCount    int64
	NewContactCount int64
	UserCount       int64
	RecentEvents    []model.Event
	CacheStats      cache.Stats
	HasCacheStats   bool
}

// Dashboard renders the admin dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := DashboardData{}

	var err error
	if data.ProjectCount, err = h.queries.CountProjects(ctx); err != nil {
		logAndInternalError(w, "failed to count projects", "error", err)
		return
	}
	if data.ServiceCount, err = h.queries.CountServices(ctx); err != nil {
		logAndInternalError(w, "failed to count services", "error", err)
		return
	}
	if data.PostCount, err = h.queries.CountBlogPosts(ctx); err != nil {
		logAndInternalError(w, "failed to count blog posts", "error", err)
		return
	}
	if data.ContactCount, err = h.queries.CountContactSubmissions(ctx); err != nil {
		logAndInternalError(w, "failed to count contact submissions", "error", err)
		return
	}
	if data.NewContactCount, err = h.queries.CountContactSubmissionsByStatus(ctx, model.ContactStatusNew); err != nil {
		logAndInternalError(w, "failed to count new contact submissions", "error", err)
		return
	}
	if data.UserCount, err = h.queries.CountAdminUsers(ctx); err != nil {
		logAndInternalError(w, "failed to count admin users", "error", err)
		return
	}

	events, err := h.queries.ListEvents(ctx, store.ListEventsParams{Limit: dashboardRecentEvents, Offset: 0})
	if err != nil {
		slog.Error("failed to load recent events", "error", err)
	} else {
		data.RecentEvents = events
	}

	if h.caches != nil {
		data.CacheStats, data.HasCacheStats = h.caches.Stats()
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", adminData(r, "Dashboard", data)); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
