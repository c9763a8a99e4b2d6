// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
	"github.com/sandeshshrestha/studio-go/internal/util"
)

// ProjectsHandler handles admin project CRUD.
type ProjectsHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	caches       *cache.Manager
}

// NewProjectsHandler creates a new ProjectsHandler.
func NewProjectsHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager) *ProjectsHandler {
	return &ProjectsHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		caches:       caches,
	}
}

// ProjectsListData holds data for the projects list page.
type ProjectsListData struct {
	Projects   []model.Project
	Query      string
	Category   string
	Categories []string
	LoadError  bool
}

// List renders the projects list with an in-memory search and category filter.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	data := ProjectsListData{
		Query:    formValue(r, "q"),
		Category: formValue(r, "category"),
	}

	projects, err := h.queries.ListProjects(r.Context())
	if err != nil {
		// Load failure renders an error panel, distinct from an empty list
		data.LoadError = true
	} else {
		data.Categories = collectFacets(projects, func(p model.Project) string { return p.Category })
		data.Projects = filterList(projects, data.Query, data.Category,
			func(p model.Project) []string { return []string{p.Title, p.Description, p.Client} },
			func(p model.Project) string { return p.Category })
	}

	if err := h.renderer.Render(w, r, "admin/projects", adminData(r, "Projects", data)); err != nil {
		logAndInternalError(w, "failed to render projects list", "error", err)
	}
}

// ProjectFormData holds data for the project create/edit form.
type ProjectFormData struct {
	Project  model.Project
	Tags     string
	LoadedAt string
	IsEdit   bool
}

// NewForm renders the project creation form.
func (h *ProjectsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := ProjectFormData{
		Project: model.Project{Year: fmt.Sprintf("%d", time.Now().Year())},
	}
	if err := h.renderer.Render(w, r, "admin/project_form", adminData(r, "New Project", data)); err != nil {
		logAndInternalError(w, "failed to render project form", "error", err)
	}
}

// Create handles project creation.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminProjectsNew) {
		return
	}

	title := formValue(r, "title")
	description := formValue(r, "description")
	if title == "" || description == "" {
		flashError(w, r, h.renderer, redirectAdminProjectsNew, "Title and description are required")
		return
	}

	now := time.Now()
	project, err := h.queries.CreateProject(r.Context(), store.CreateProjectParams{
		Title:       title,
		Description: description,
		Category:    formValue(r, "category"),
		Client:      formValue(r, "client"),
		Year:        formValue(r, "year"),
		ImageURL:    formValue(r, "image_url"),
		Tags:        tagsFromForm(r),
		Featured:    formChecked(r, "featured"),
		ProjectType: formValue(r, "project_type"),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjectsNew, "Error creating project")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Project created: "+project.Title, middleware.GetAccountIDPtr(r), map[string]any{"project_id": project.ID})
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project created")
}

// EditForm renders the project edit form.
func (h *ProjectsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Invalid project ID")
		return
	}

	project, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProjects, "Project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	data := ProjectFormData{
		Project:  project,
		Tags:     joinTags(project.GetTags()),
		LoadedAt: formatLoadedAt(project.UpdatedAt),
		IsEdit:   true,
	}
	if err := h.renderer.Render(w, r, "admin/project_form", adminData(r, "Edit Project", data)); err != nil {
		logAndInternalError(w, "failed to render project form", "error", err)
	}
}

// Update handles project updates with the stale-write precondition.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Invalid project ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminProjectsID, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	title := formValue(r, "title")
	description := formValue(r, "description")
	if title == "" || description == "" {
		flashError(w, r, h.renderer, editURL, "Title and description are required")
		return
	}

	project, err := h.queries.UpdateProject(r.Context(), store.UpdateProjectParams{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    formValue(r, "category"),
		Client:      formValue(r, "client"),
		Year:        formValue(r, "year"),
		ImageURL:    formValue(r, "image_url"),
		Tags:        tagsFromForm(r),
		Featured:    formChecked(r, "featured"),
		ProjectType: formValue(r, "project_type"),
		UpdatedAt:   time.Now(),
		LoadedAt:    parseLoadedAt(r),
	})
	if err != nil {
		flashUpdateError(w, r, h.renderer, editURL, "Project", err)
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Project updated: "+project.Title, middleware.GetAccountIDPtr(r), map[string]any{"project_id": project.ID})
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project updated")
}

// ToggleFeatured flips the featured flag unconditionally.
func (h *ProjectsHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Invalid project ID")
		return
	}

	project, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProjects, "Project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetProjectFeatured(r.Context(), id, !project.Featured, time.Now()); err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Error updating project")
		return
	}

	h.invalidate(r)
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project updated")
}

// Delete removes a project. Deletion is confirmed client-side and
// submitted as a POST.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Invalid project ID")
		return
	}

	project, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProjects, "Project", id,
		func(id int64) (model.Project, error) { return h.queries.GetProjectByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteProject(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminProjects, "Error deleting project")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Project deleted: "+project.Title, middleware.GetAccountIDPtr(r), map[string]any{"project_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminProjects, "Project deleted")
}

func (h *ProjectsHandler) invalidate(r *http.Request) {
	if h.caches != nil {
		h.caches.InvalidateProjects(r.Context())
	}
}

// tagsFromForm normalizes the comma-separated tags input into the
// stored JSON array form.
func tagsFromForm(r *http.Request) string {
	p := model.Project{}
	p.SetTags(util.SplitCommaList(r.FormValue("tags")))
	return p.Tags
}

// joinTags renders stored tags back into the comma-separated form value.
func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
