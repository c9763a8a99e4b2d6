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

	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

func contactsTestRouter(t *testing.T) (*chi.Mux, *scs.SessionManager, *sql.DB) {
	t.Helper()

	db, sm := testHandlerSetup(t)
	h := NewContactsHandler(db, testRenderer(t, sm))

	r := chi.NewRouter()
	r.Get(RouteContacts, h.List)
	r.Get(RouteContacts+RouteParamID, h.Detail)
	r.Post(RouteContacts+RouteParamID, h.Update)
	r.Post(RouteContacts+RouteParamID+RouteSuffixDelete, h.Delete)
	return r, sm, db
}

func seedSubmission(t *testing.T, db *sql.DB, name, email string) model.ContactSubmission {
	t.Helper()

	now := time.Now()
	submission, err := store.New(db).CreateContactSubmission(context.Background(), store.CreateContactSubmissionParams{
		Name:      name,
		Email:     email,
		Service:   "branding",
		Message:   "We need a rebrand",
		IP:        "203.0.113.7",
		UserAgent: "Firefox 142.0 on Linux",
		Country:   "DE",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateContactSubmission failed: %v", err)
	}
	return submission
}

func TestContactsDetail(t *testing.T) {
	r, sm, db := contactsTestRouter(t)
	submission := seedSubmission(t, db, "Jamie", "jamie@example.com")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/contacts/%d", submission.ID), nil)
	rec := serveWithSession(sm, r, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Jamie") {
		t.Errorf("body should include the submitter name, got %q", rec.Body.String())
	}

	t.Run("missing submission redirects with flash", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/9999", nil)
		rec := serveWithSession(sm, r, req)
		assertRedirect(t, rec, redirectAdminContacts)
	})
}

func TestContactsUpdateStatus(t *testing.T) {
	r, sm, db := contactsTestRouter(t)
	queries := store.New(db)
	submission := seedSubmission(t, db, "Jamie", "jamie@example.com")

	detailURL := fmt.Sprintf(redirectAdminContactsID, submission.ID)

	t.Run("valid status and notes", func(t *testing.T) {
		form := url.Values{
			"status":    {model.ContactStatusContacted},
			"notes":     {"Replied by email"},
			"loaded_at": {formatLoadedAt(submission.UpdatedAt)},
		}
		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/contacts/%d", submission.ID), form))
		assertRedirect(t, rec, detailURL)

		got, err := queries.GetContactSubmissionByID(context.Background(), submission.ID)
		if err != nil {
			t.Fatalf("GetContactSubmissionByID failed: %v", err)
		}
		if got.Status != model.ContactStatusContacted {
			t.Errorf("Status = %q", got.Status)
		}
		if got.Notes != "Replied by email" {
			t.Errorf("Notes = %q", got.Notes)
		}
	})

	t.Run("invalid status refused", func(t *testing.T) {
		form := url.Values{"status": {"bogus"}}
		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/contacts/%d", submission.ID), form))
		assertRedirect(t, rec, detailURL)

		got, _ := queries.GetContactSubmissionByID(context.Background(), submission.ID)
		if got.Status == "bogus" {
			t.Error("invalid status should not be stored")
		}
	})

	t.Run("stale form refused", func(t *testing.T) {
		form := url.Values{
			"status":    {model.ContactStatusCompleted},
			"loaded_at": {formatLoadedAt(submission.UpdatedAt)}, // stale after the first update
		}
		rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/contacts/%d", submission.ID), form))
		assertRedirect(t, rec, detailURL)

		got, _ := queries.GetContactSubmissionByID(context.Background(), submission.ID)
		if got.Status == model.ContactStatusCompleted {
			t.Error("stale write should not land")
		}
	})
}

func TestContactsDelete(t *testing.T) {
	r, sm, db := contactsTestRouter(t)
	queries := store.New(db)
	submission := seedSubmission(t, db, "Jamie", "jamie@example.com")

	rec := serveWithSession(sm, r, postForm(fmt.Sprintf("/contacts/%d/delete", submission.ID), url.Values{}))
	assertRedirect(t, rec, redirectAdminContacts)

	if _, err := queries.GetContactSubmissionByID(context.Background(), submission.ID); err == nil {
		t.Error("submission should be gone")
	}
}

func TestContactsList_StatusFilter(t *testing.T) {
	r, sm, db := contactsTestRouter(t)
	queries := store.New(db)

	first := seedSubmission(t, db, "Jamie", "jamie@example.com")
	seedSubmission(t, db, "Robin", "robin@example.com")

	// Move one submission forward so the status facet has variety.
	if _, err := queries.UpdateContactSubmission(context.Background(), store.UpdateContactSubmissionParams{
		ID:        first.ID,
		Status:    model.ContactStatusContacted,
		UpdatedAt: time.Now(),
		LoadedAt:  first.UpdatedAt,
	}); err != nil {
		t.Fatalf("UpdateContactSubmission failed: %v", err)
	}

	t.Run("all submissions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, RouteContacts, nil)
		rec := serveWithSession(sm, r, req)
		if !strings.Contains(rec.Body.String(), "contacts:2") {
			t.Errorf("body = %q, want contacts:2", rec.Body.String())
		}
	})

	t.Run("status facet narrows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, RouteContacts+"?status="+model.ContactStatusContacted, nil)
		rec := serveWithSession(sm, r, req)
		if !strings.Contains(rec.Body.String(), "contacts:1") {
			t.Errorf("body = %q, want contacts:1", rec.Body.String())
		}
	})

	t.Run("search narrows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, RouteContacts+"?q=robin", nil)
		rec := serveWithSession(sm, r, req)
		if !strings.Contains(rec.Body.String(), "contacts:1") {
			t.Errorf("body = %q, want contacts:1", rec.Body.String())
		}
	})
}
