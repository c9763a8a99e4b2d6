// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

func usersTestRouter(t *testing.T) (*chi.Mux, *scs.SessionManager, *sql.DB) {
	t.Helper()

	db, sm := testHandlerSetup(t)
	h := NewUsersHandler(db, testRenderer(t, sm))

	r := chi.NewRouter()
	r.Get(RouteUsers, h.List)
	r.Post(RouteUsers, h.Create)
	r.Get(RouteUsers+RouteParamID, h.EditForm)
	r.Post(RouteUsers+RouteParamID, h.Update)
	r.Post(RouteUsers+RouteParamID+RouteSuffixDelete, h.Delete)
	return r, sm, db
}

func seedAdminUser(t *testing.T, db *sql.DB, email, role string) model.AdminUser {
	t.Helper()

	user, err := store.New(db).CreateAdminUser(context.Background(), store.CreateAdminUserParams{
		Email:     email,
		Name:      "Seeded",
		Role:      role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAdminUser failed: %v", err)
	}
	return user
}

func TestUsersCreate(t *testing.T) {
	r, sm, db := usersTestRouter(t)

	form := url.Values{
		"email": {"editor@example.com"},
		"name":  {"New Editor"},
		"role":  {model.RoleEditor},
	}
	rec := serveWithSession(sm, r, postForm(RouteUsers, form))
	assertRedirect(t, rec, redirectAdminUsers)

	user, err := store.New(db).GetAdminUserByEmail(context.Background(), "editor@example.com")
	if err != nil {
		t.Fatalf("gate record not created: %v", err)
	}
	if user.Role != model.RoleEditor {
		t.Errorf("Role = %q", user.Role)
	}
}

func TestUsersCreate_Validation(t *testing.T) {
	r, sm, db := usersTestRouter(t)

	t.Run("invalid role", func(t *testing.T) {
		form := url.Values{"email": {"x@example.com"}, "name": {"X"}, "role": {"superuser"}}
		rec := serveWithSession(sm, r, postForm(RouteUsers, form))
		assertRedirect(t, rec, redirectAdminUsersNew)
	})

	t.Run("invalid email", func(t *testing.T) {
		form := url.Values{"email": {"not-an-email"}, "name": {"X"}, "role": {model.RoleViewer}}
		rec := serveWithSession(sm, r, postForm(RouteUsers, form))
		assertRedirect(t, rec, redirectAdminUsersNew)
	})

	t.Run("duplicate email", func(t *testing.T) {
		seedAdminUser(t, db, "dupe@example.com", model.RoleEditor)
		form := url.Values{"email": {"dupe@example.com"}, "name": {"X"}, "role": {model.RoleViewer}}
		rec := serveWithSession(sm, r, postForm(RouteUsers, form))
		assertRedirect(t, rec, redirectAdminUsersNew)
	})
}

func TestUsersUpdate_LastAdminGuard(t *testing.T) {
	r, sm, db := usersTestRouter(t)
	queries := store.New(db)

	admin := seedAdminUser(t, db, "solo@example.com", model.RoleAdmin)
	editURL := fmt.Sprintf(redirectAdminUsersID, admin.ID)

	t.Run("demoting the last admin is refused", func(t *testing.T) {
		form := url.Values{"email": {admin.Email}, "name": {"Solo"}, "role": {model.RoleEditor}}
		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/users/%d", admin.ID), form))
		assertRedirect(t, rec, editURL)

		got, _ := queries.GetAdminUserByID(context.Background(), admin.ID)
		if got.Role != model.RoleAdmin {
			t.Errorf("Role = %q, last admin should keep the admin role", got.Role)
		}
	})

	t.Run("demotion works once another admin exists", func(t *testing.T) {
		seedAdminUser(t, db, "second@example.com", model.RoleAdmin)

		form := url.Values{"email": {admin.Email}, "name": {"Solo"}, "role": {model.RoleEditor}}
		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/users/%d", admin.ID), form))
		assertRedirect(t, rec, redirectAdminUsers)

		got, _ := queries.GetAdminUserByID(context.Background(), admin.ID)
		if got.Role != model.RoleEditor {
			t.Errorf("Role = %q, want %q", got.Role, model.RoleEditor)
		}
	})
}

func TestUsersDelete(t *testing.T) {
	r, sm, db := usersTestRouter(t)
	queries := store.New(db)

	t.Run("deleting the last admin is refused", func(t *testing.T) {
		solo := seedAdminUser(t, db, "solo@example.com", model.RoleAdmin)

		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/users/%d/delete", solo.ID), url.Values{}))
		assertRedirect(t, rec, redirectAdminUsers)

		if _, err := queries.GetAdminUserByID(context.Background(), solo.ID); err != nil {
			t.Error("last admin should survive")
		}
	})

	t.Run("deleting an editor works", func(t *testing.T) {
		editor := seedAdminUser(t, db, "editor@example.com", model.RoleEditor)

		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/users/%d/delete", editor.ID), url.Values{}))
		assertRedirect(t, rec, redirectAdminUsers)

		if _, err := queries.GetAdminUserByID(context.Background(), editor.ID); err == nil {
			t.Error("editor should be gone")
		}
	})
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role  string
		valid bool
	}{
		{model.RoleAdmin, true},
		{model.RoleEditor, true},
		{model.RoleViewer, true},
		{"", false},
		{"invalid", false},
		{"Admin", false},
		{"superadmin", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := model.IsValidRole(tt.role)
			if got != tt.valid {
				t.Errorf("IsValidRole(%q) = %v; want %v", tt.role, got, tt.valid)
			}
		})
	}
}
