// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/session"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	return session.NewMemory(true)
}

func testHandlerSetup(t *testing.T) (*sql.DB, *scs.SessionManager) {
	t.Helper()
	return testDB(t), testSessionManager(t)
}

// testTemplates is a minimal template tree so render flows can execute
// without the real web assets.
var testTemplates = fstest.MapFS{
	"layouts/base.html":  {Data: []byte(`{{define "base"}}{{.Title}}|{{.Flash}}|{{block "content" .}}{{end}}{{end}}`)},
	"layouts/site.html":  {Data: []byte(``)},
	"layouts/admin.html": {Data: []byte(``)},

	"auth/login.html":    {Data: []byte(`{{define "content"}}login{{end}}`)},
	"auth/register.html": {Data: []byte(`{{define "content"}}register{{end}}`)},

	"site/home.html":           {Data: []byte(`{{define "content"}}home{{end}}`)},
	"site/about.html":          {Data: []byte(`{{define "content"}}about{{end}}`)},
	"site/services.html":       {Data: []byte(`{{define "content"}}services:{{len .Data.Services}}{{end}}`)},
	"site/work.html":           {Data: []byte(`{{define "content"}}work:{{len .Data.Projects}}{{end}}`)},
	"site/work_detail.html":    {Data: []byte(`{{define "content"}}{{.Data.Project.Title}}{{end}}`)},
	"site/journal.html":        {Data: []byte(`{{define "content"}}journal:{{len .Data.Posts}}{{end}}`)},
	"site/journal_detail.html": {Data: []byte(`{{define "content"}}{{.Data.Post.Title}}{{end}}`)},
	"site/contact.html":        {Data: []byte(`{{define "content"}}{{if .Data.Submitted}}thanks{{else}}contact:{{len .Data.Errors}}{{end}}{{end}}`)},
	"site/404.html":            {Data: []byte(`{{define "content"}}missing{{end}}`)},

	"admin/dashboard.html":      {Data: []byte(`{{define "content"}}dashboard{{end}}`)},
	"admin/projects.html":       {Data: []byte(`{{define "content"}}projects:{{len .Data.Projects}}{{end}}`)},
	"admin/project_form.html":   {Data: []byte(`{{define "content"}}project-form{{end}}`)},
	"admin/services.html":       {Data: []byte(`{{define "content"}}services:{{len .Data.Services}}{{end}}`)},
	"admin/service_form.html":   {Data: []byte(`{{define "content"}}service-form{{end}}`)},
	"admin/posts.html":          {Data: []byte(`{{define "content"}}posts:{{len .Data.Posts}}{{end}}`)},
	"admin/post_form.html":      {Data: []byte(`{{define "content"}}post-form{{end}}`)},
	"admin/contacts.html":       {Data: []byte(`{{define "content"}}contacts:{{len .Data.Submissions}}{{end}}`)},
	"admin/contact_detail.html": {Data: []byte(`{{define "content"}}{{.Data.Submission.Name}}{{end}}`)},
	"admin/users.html":          {Data: []byte(`{{define "content"}}users:{{len .Data.Users}}{{end}}`)},
	"admin/user_form.html":      {Data: []byte(`{{define "content"}}user-form{{end}}`)},
	"admin/media.html":          {Data: []byte(`{{define "content"}}media:{{len .Data.Items}}{{end}}`)},
	"admin/events.html":         {Data: []byte(`{{define "content"}}events:{{len .Data.Events}}{{end}}`)},
}

func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplates,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return renderer
}

func testCacheManager(t *testing.T) *cache.Manager {
	t.Helper()

	m := cache.NewManager(cache.NewSimpleMemoryCache(time.Minute), time.Minute)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// serveWithSession runs a handler behind the session middleware so flash
// messages and session state work like in production.
func serveWithSession(sm *scs.SessionManager, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("Location = %q, want %q", loc, wantLocation)
	}
}
