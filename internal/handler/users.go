// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/auth"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// UsersHandler handles admin user management.
type UsersHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer) *UsersHandler {
	return &UsersHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// UsersListData holds data for the admin users list page.
type UsersListData struct {
	Users     []model.AdminUser
	LoadError bool
}

// List renders the admin users list.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	data := UsersListData{}

	users, err := h.queries.ListAdminUsers(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		data.Users = users
	}

	if err := h.renderer.Render(w, r, "admin/users", adminData(r, "Admin Users", data)); err != nil {
		logAndInternalError(w, "failed to render users list", "error", err)
	}
}

// UserFormData holds data for the admin user create/edit form.
type UserFormData struct {
	User   model.AdminUser
	Roles  []string
	IsEdit bool
}

// NewForm renders the admin user creation form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := UserFormData{Roles: model.ValidRoles}
	if err := h.renderer.Render(w, r, "admin/user_form", adminData(r, "New Admin User", data)); err != nil {
		logAndInternalError(w, "failed to render user form", "error", err)
	}
}

// Create adds an admin_users gate record. The matching account is
// created separately through registration; a gate record alone grants
// no access until its owner can sign in.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsersNew) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	name := formValue(r, "name")
	role := formValue(r, "role")

	if email == "" || name == "" {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Email and name are required")
		return
	}
	if !isValidEmail(email) {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Invalid email address")
		return
	}
	if !model.IsValidRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Invalid role")
		return
	}

	if _, err := h.queries.GetAdminUserByEmail(r.Context(), email); err == nil {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "An admin user with this email already exists")
		return
	}

	user, err := h.queries.CreateAdminUser(r.Context(), store.CreateAdminUserParams{
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Error creating admin user")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "Admin user created: "+user.Email, middleware.GetAccountIDPtr(r), map[string]any{"admin_id": user.ID, "role": role})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Admin user created")
}

// EditForm renders the admin user edit form.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "Admin user", id,
		func(id int64) (model.AdminUser, error) { return h.queries.GetAdminUserByID(r.Context(), id) })
	if !ok {
		return
	}

	data := UserFormData{User: user, Roles: model.ValidRoles, IsEdit: true}
	if err := h.renderer.Render(w, r, "admin/user_form", adminData(r, "Edit Admin User", data)); err != nil {
		logAndInternalError(w, "failed to render user form", "error", err)
	}
}

// Update changes an admin user's profile. Demoting the last admin is
// refused so the back office cannot lock itself out.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminUsersID, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "Admin user", id,
		func(id int64) (model.AdminUser, error) { return h.queries.GetAdminUserByID(r.Context(), id) })
	if !ok {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	name := formValue(r, "name")
	role := formValue(r, "role")

	if email == "" || name == "" {
		flashError(w, r, h.renderer, editURL, "Email and name are required")
		return
	}
	if !isValidEmail(email) {
		flashError(w, r, h.renderer, editURL, "Invalid email address")
		return
	}
	if !model.IsValidRole(role) {
		flashError(w, r, h.renderer, editURL, "Invalid role")
		return
	}

	if user.Role == model.RoleAdmin && role != model.RoleAdmin {
		isLast, err := h.isLastAdmin(r)
		if err != nil {
			logAndInternalError(w, "failed to count admins", "error", err)
			return
		}
		if isLast {
			flashError(w, r, h.renderer, editURL, "Cannot demote the last admin")
			return
		}
	}

	updated, err := h.queries.UpdateAdminUser(r.Context(), store.UpdateAdminUserParams{
		ID:    id,
		Email: email,
		Name:  name,
		Role:  role,
	})
	if err != nil {
		flashError(w, r, h.renderer, editURL, "Error updating admin user")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "Admin user updated: "+updated.Email, middleware.GetAccountIDPtr(r), map[string]any{"admin_id": id, "role": role})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Admin user updated")
}

// Delete removes an admin user's gate record. Self-deletion and
// deleting the last admin are refused.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "Admin user", id,
		func(id int64) (model.AdminUser, error) { return h.queries.GetAdminUserByID(r.Context(), id) })
	if !ok {
		return
	}

	if identity := middleware.GetIdentity(r); identity != nil && identity.Admin.ID == id {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	if user.Role == model.RoleAdmin {
		isLast, err := h.isLastAdmin(r)
		if err != nil {
			logAndInternalError(w, "failed to count admins", "error", err)
			return
		}
		if isLast {
			flashError(w, r, h.renderer, redirectAdminUsers, "Cannot delete the last admin")
			return
		}
	}

	if err := h.queries.DeleteAdminUser(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Error deleting admin user")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "Admin user deleted: "+user.Email, middleware.GetAccountIDPtr(r), map[string]any{"admin_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Admin user deleted")
}

func (h *UsersHandler) isLastAdmin(r *http.Request) (bool, error) {
	count, err := h.queries.CountAdminUsersByRole(r.Context(), model.RoleAdmin)
	if err != nil {
		return false, err
	}
	return count <= 1, nil
}
