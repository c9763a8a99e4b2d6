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

// ServicesHandler handles admin service CRUD.
type ServicesHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	caches       *cache.Manager
}

// NewServicesHandler creates a new ServicesHandler.
func NewServicesHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager) *ServicesHandler {
	return &ServicesHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		caches:       caches,
	}
}

// ServicesListData holds data for the services list page.
type ServicesListData struct {
	Services  []model.Service
	Query     string
	LoadError bool
}

// List renders the services list with an in-memory search filter.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	data := ServicesListData{Query: formValue(r, "q")}

	services, err := h.queries.ListServices(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		data.Services = filterList(services, data.Query, "",
			func(s model.Service) []string { return []string{s.Title, s.Description} },
			func(s model.Service) string { return "" })
	}

	if err := h.renderer.Render(w, r, "admin/services", adminData(r, "Services", data)); err != nil {
		logAndInternalError(w, "failed to render services list", "error", err)
	}
}

// ServiceFormData holds data for the service create/edit form.
type ServiceFormData struct {
	Service  model.Service
	Features string
	Icons    []model.ServiceIcon
	LoadedAt string
	IsEdit   bool
}

// NewForm renders the service creation form.
func (h *ServicesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := ServiceFormData{Icons: model.AllServiceIcons()}
	if err := h.renderer.Render(w, r, "admin/service_form", adminData(r, "New Service", data)); err != nil {
		logAndInternalError(w, "failed to render service form", "error", err)
	}
}

// Create handles service creation.
func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminServicesNew) {
		return
	}

	title := formValue(r, "title")
	description := formValue(r, "description")
	if title == "" || description == "" {
		flashError(w, r, h.renderer, redirectAdminServicesNew, "Title and description are required")
		return
	}

	now := time.Now()
	svc, err := h.queries.CreateService(r.Context(), store.CreateServiceParams{
		Title:         title,
		Description:   description,
		Features:      featuresFromForm(r),
		Price:         formValue(r, "price"),
		OriginalPrice: formValue(r, "original_price"),
		Timeline:      formValue(r, "timeline"),
		Popular:       formChecked(r, "popular"),
		Icon:          string(model.ParseServiceIcon(formValue(r, "icon"))),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminServicesNew, "Error creating service")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Service created: "+svc.Title, middleware.GetAccountIDPtr(r), map[string]any{"service_id": svc.ID})
	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service created")
}

// EditForm renders the service edit form.
func (h *ServicesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Invalid service ID")
		return
	}

	svc, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminServices, "Service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}

	data := ServiceFormData{
		Service:  svc,
		Features: strings.Join(svc.GetFeatures(), "\n"),
		Icons:    model.AllServiceIcons(),
		LoadedAt: formatLoadedAt(svc.UpdatedAt),
		IsEdit:   true,
	}
	if err := h.renderer.Render(w, r, "admin/service_form", adminData(r, "Edit Service", data)); err != nil {
		logAndInternalError(w, "failed to render service form", "error", err)
	}
}

// Update handles service updates with the stale-write precondition.
func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Invalid service ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminServicesID, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	title := formValue(r, "title")
	description := formValue(r, "description")
	if title == "" || description == "" {
		flashError(w, r, h.renderer, editURL, "Title and description are required")
		return
	}

	svc, err := h.queries.UpdateService(r.Context(), store.UpdateServiceParams{
		ID:            id,
		Title:         title,
		Description:   description,
		Features:      featuresFromForm(r),
		Price:         formValue(r, "price"),
		OriginalPrice: formValue(r, "original_price"),
		Timeline:      formValue(r, "timeline"),
		Popular:       formChecked(r, "popular"),
		Icon:          string(model.ParseServiceIcon(formValue(r, "icon"))),
		UpdatedAt:     time.Now(),
		LoadedAt:      parseLoadedAt(r),
	})
	if err != nil {
		flashUpdateError(w, r, h.renderer, editURL, "Service", err)
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Service updated: "+svc.Title, middleware.GetAccountIDPtr(r), map[string]any{"service_id": svc.ID})
	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service updated")
}

// TogglePopular flips the popular flag unconditionally.
func (h *ServicesHandler) TogglePopular(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Invalid service ID")
		return
	}

	svc, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminServices, "Service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.SetServicePopular(r.Context(), id, !svc.Popular, time.Now()); err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Error updating service")
		return
	}

	h.invalidate(r)
	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service updated")
}

// Delete removes a service.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Invalid service ID")
		return
	}

	svc, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminServices, "Service", id,
		func(id int64) (model.Service, error) { return h.queries.GetServiceByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteService(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminServices, "Error deleting service")
		return
	}

	h.invalidate(r)
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Service deleted: "+svc.Title, middleware.GetAccountIDPtr(r), map[string]any{"service_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminServices, "Service deleted")
}

func (h *ServicesHandler) invalidate(r *http.Request) {
	if h.caches != nil {
		h.caches.InvalidateServices(r.Context())
	}
}

// featuresFromForm normalizes the one-per-line features textarea into
// the stored JSON array form.
func featuresFromForm(r *http.Request) string {
	s := model.Service{}
	s.SetFeatures(util.NormalizeList(strings.Split(r.FormValue("features"), "\n")))
	return s.Features
}
