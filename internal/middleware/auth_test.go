// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandeshshrestha/studio-go/internal/auth"
	"github.com/sandeshshrestha/studio-go/internal/model"
)

func requestWithIdentity(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	identity := Identity{
		Account: model.Account{ID: 7, Email: "editor@example.com"},
		Admin:   model.AdminUser{ID: 3, Email: "editor@example.com", Role: role},
	}
	ctx := context.WithValue(req.Context(), ContextKeyIdentity, identity)
	return req.WithContext(ctx)
}

func TestGetIdentity_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetIdentity(req) != nil {
		t.Error("GetIdentity on bare request should be nil")
	}
	if GetAccountID(req) != 0 {
		t.Error("GetAccountID on bare request should be 0")
	}
	if GetAccountIDPtr(req) != nil {
		t.Error("GetAccountIDPtr on bare request should be nil")
	}
}

func TestGetIdentity_Present(t *testing.T) {
	req := requestWithIdentity(model.RoleEditor)

	id := GetIdentity(req)
	if id == nil {
		t.Fatal("GetIdentity returned nil")
	}
	if id.Account.ID != 7 {
		t.Errorf("Account.ID = %d, want 7", id.Account.ID)
	}
	if id.Admin.Role != model.RoleEditor {
		t.Errorf("Admin.Role = %q", id.Admin.Role)
	}
	if GetAccountID(req) != 7 {
		t.Errorf("GetAccountID = %d, want 7", GetAccountID(req))
	}
	if ptr := GetAccountIDPtr(req); ptr == nil || *ptr != 7 {
		t.Errorf("GetAccountIDPtr = %v", ptr)
	}
}

func TestRequireAction_Allowed(t *testing.T) {
	handler := RequireAction(auth.ActionManageContent, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithIdentity(model.RoleEditor))
	if rec.Code != http.StatusOK {
		t.Errorf("editor managing content = %d, want 200", rec.Code)
	}
}

func TestRequireAction_Forbidden(t *testing.T) {
	handler := RequireAction(auth.ActionManageUsers, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithIdentity(model.RoleEditor))
	if rec.Code != http.StatusForbidden {
		t.Errorf("editor managing users = %d, want 403", rec.Code)
	}
}

func TestRequireAction_AdminAllowed(t *testing.T) {
	handler := RequireAction(auth.ActionManageUsers, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithIdentity(model.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin managing users = %d, want 200", rec.Code)
	}
}

func TestRequireAction_ViewerReadOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Viewers reach read-only screens
	rec := httptest.NewRecorder()
	RequireAction(auth.ActionViewContent, nil)(ok).ServeHTTP(rec, requestWithIdentity(model.RoleViewer))
	if rec.Code != http.StatusOK {
		t.Errorf("viewer listing content = %d, want 200", rec.Code)
	}

	// but not mutating ones
	rec = httptest.NewRecorder()
	RequireAction(auth.ActionManageContent, nil)(ok).ServeHTTP(rec, requestWithIdentity(model.RoleViewer))
	if rec.Code != http.StatusForbidden {
		t.Errorf("viewer managing content = %d, want 403", rec.Code)
	}
}

func TestRequireAction_Unauthenticated(t *testing.T) {
	handler := RequireAction(auth.ActionManageContent, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("unauthenticated = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("redirect = %q, want /admin/login", loc)
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/work/3", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "/work/3" {
		t.Errorf("GetRequestPath = %q, want /work/3", got)
	}
}
