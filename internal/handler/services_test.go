// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

func servicesTestRouter(t *testing.T) (*chi.Mux, *scs.SessionManager, *sql.DB) {
	t.Helper()

	db, sm := testHandlerSetup(t)
	h := NewServicesHandler(db, testRenderer(t, sm), testCacheManager(t))

	r := chi.NewRouter()
	r.Get(RouteServices, h.List)
	r.Post(RouteServices, h.Create)
	r.Get(RouteServices+RouteParamID, h.EditForm)
	r.Post(RouteServices+RouteParamID, h.Update)
	r.Post(RouteServices+RouteParamID+RouteSuffixPopular, h.TogglePopular)
	r.Post(RouteServices+RouteParamID+RouteSuffixDelete, h.Delete)
	return r, sm, db
}

func TestServicesCreate(t *testing.T) {
	r, sm, db := servicesTestRouter(t)

	form := url.Values{
		"title":       {"Brand Identity"},
		"description": {"Logos and systems"},
		"features":    {"Logo design\nBrand guidelines\n\n  Stationery  "},
		"price":       {"$4,500"},
		"timeline":    {"4 weeks"},
		"popular":     {"on"},
		"icon":        {"palette"},
	}
	rec := serveWithSession(sm, r, postForm(RouteServices, form))
	assertRedirect(t, rec, redirectAdminServices)

	services, err := store.New(db).ListServices(context.Background())
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("len(services) = %d, want 1", len(services))
	}

	s := services[0]
	if s.Title != "Brand Identity" || !s.Popular {
		t.Errorf("unexpected service: %+v", s)
	}
	want := []string{"Logo design", "Brand guidelines", "Stationery"}
	if got := s.GetFeatures(); !reflect.DeepEqual(got, want) {
		t.Errorf("features = %v, want %v", got, want)
	}
	if s.Icon != string(model.ParseServiceIcon("palette")) {
		t.Errorf("icon = %q", s.Icon)
	}
}

func TestServicesCreate_UnknownIconFallsBack(t *testing.T) {
	r, sm, db := servicesTestRouter(t)

	form := url.Values{
		"title":       {"Mystery"},
		"description": {"d"},
		"icon":        {"no-such-icon"},
	}
	rec := serveWithSession(sm, r, postForm(RouteServices, form))
	assertRedirect(t, rec, redirectAdminServices)

	services, _ := store.New(db).ListServices(context.Background())
	if len(services) != 1 {
		t.Fatalf("len(services) = %d, want 1", len(services))
	}
	if services[0].Icon != string(model.ParseServiceIcon("no-such-icon")) {
		t.Errorf("icon = %q, want the parser fallback", services[0].Icon)
	}
}

func TestServicesTogglePopular(t *testing.T) {
	r, sm, db := servicesTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	svc, err := queries.CreateService(context.Background(), store.CreateServiceParams{
		Title:       "Toggle me",
		Description: "d",
		Features:    "[]",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/services/%d/popular", svc.ID), url.Values{}))
	assertRedirect(t, rec, redirectAdminServices)

	got, _ := queries.GetServiceByID(context.Background(), svc.ID)
	if !got.Popular {
		t.Error("popular should be true after toggle")
	}
}

func TestServicesUpdate_StaleWrite(t *testing.T) {
	r, sm, db := servicesTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	svc, err := queries.CreateService(context.Background(), store.CreateServiceParams{
		Title:       "Original",
		Description: "d",
		Features:    "[]",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	form := url.Values{
		"title":       {"Changed"},
		"description": {"d"},
		"loaded_at":   {formatLoadedAt(svc.UpdatedAt.Add(-time.Minute))},
	}
	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/services/%d", svc.ID), form))
	assertRedirect(t, rec, fmt.Sprintf(redirectAdminServicesID, svc.ID))

	got, _ := queries.GetServiceByID(context.Background(), svc.ID)
	if got.Title != "Original" {
		t.Errorf("stale write should not land, Title = %q", got.Title)
	}
}

func TestServicesDelete(t *testing.T) {
	r, sm, db := servicesTestRouter(t)
	queries := store.New(db)

	now := time.Now()
	svc, err := queries.CreateService(context.Background(), store.CreateServiceParams{
		Title:       "Doomed",
		Description: "d",
		Features:    "[]",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/services/%d/delete", svc.ID), url.Values{}))
	assertRedirect(t, rec, redirectAdminServices)

	if _, err := queries.GetServiceByID(context.Background(), svc.ID); err == nil {
		t.Error("service should be gone")
	}
}
