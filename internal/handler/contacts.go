// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/geoip"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// ContactsHandler handles the admin view over contact submissions.
type ContactsHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewContactsHandler creates a new ContactsHandler.
func NewContactsHandler(db *sql.DB, renderer *render.Renderer) *ContactsHandler {
	return &ContactsHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// ContactsListData holds data for the contact submissions list page.
type ContactsListData struct {
	Submissions  []model.ContactSubmission
	Query        string
	Status       string
	Statuses     []string
	StatusCounts map[string]int64
	LoadError    bool
}

// List renders the submissions list with a search and status filter.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	data := ContactsListData{
		Query:        formValue(r, "q"),
		Status:       formValue(r, "status"),
		Statuses:     model.ValidContactStatuses,
		StatusCounts: make(map[string]int64),
	}

	submissions, err := h.queries.ListContactSubmissions(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		for _, status := range model.ValidContactStatuses {
			count, err := h.queries.CountContactSubmissionsByStatus(r.Context(), status)
			if err == nil {
				data.StatusCounts[status] = count
			}
		}
		data.Submissions = filterList(submissions, data.Query, data.Status,
			func(c model.ContactSubmission) []string { return []string{c.Name, c.Email, c.Company} },
			func(c model.ContactSubmission) string { return c.Status })
	}

	if err := h.renderer.Render(w, r, "admin/contacts", adminData(r, "Contact Submissions", data)); err != nil {
		logAndInternalError(w, "failed to render contacts list", "error", err)
	}
}

// ContactDetailData holds data for the submission detail page.
type ContactDetailData struct {
	Submission  model.ContactSubmission
	Statuses    []string
	CountryName string
	LoadedAt    string
}

// Detail renders a single submission with status and notes controls.
func (h *ContactsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminContacts, "Invalid submission ID")
		return
	}

	submission, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminContacts, "Submission", id,
		func(id int64) (model.ContactSubmission, error) {
			return h.queries.GetContactSubmissionByID(r.Context(), id)
		})
	if !ok {
		return
	}

	data := ContactDetailData{
		Submission: submission,
		Statuses:   model.ValidContactStatuses,
		LoadedAt:   formatLoadedAt(submission.UpdatedAt),
	}
	if submission.Country != "" {
		data.CountryName = geoip.CountryName(submission.Country)
	}

	if err := h.renderer.Render(w, r, "admin/contact_detail", adminData(r, "Submission: "+submission.Name, data)); err != nil {
		logAndInternalError(w, "failed to render contact detail", "error", err)
	}
}

// Update changes a submission's status and notes, guarded by the
// stale-write precondition.
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminContacts, "Invalid submission ID")
		return
	}
	detailURL := fmt.Sprintf(redirectAdminContactsID, id)
	if !parseFormOrRedirect(w, r, h.renderer, detailURL) {
		return
	}

	status := formValue(r, "status")
	if !model.IsValidContactStatus(status) {
		flashError(w, r, h.renderer, detailURL, "Invalid status")
		return
	}

	submission, err := h.queries.UpdateContactSubmission(r.Context(), store.UpdateContactSubmissionParams{
		ID:        id,
		Status:    status,
		Notes:     formValue(r, "notes"),
		UpdatedAt: time.Now(),
		LoadedAt:  parseLoadedAt(r),
	})
	if err != nil {
		flashUpdateError(w, r, h.renderer, detailURL, "Submission", err)
		return
	}

	_ = h.eventService.LogContactEvent(r.Context(), model.EventLevelInfo, "Submission updated: "+submission.Name, middleware.GetAccountIDPtr(r), map[string]any{"submission_id": id, "status": status})
	flashSuccess(w, r, h.renderer, detailURL, "Submission updated")
}

// Delete removes a submission.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminContacts, "Invalid submission ID")
		return
	}

	submission, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminContacts, "Submission", id,
		func(id int64) (model.ContactSubmission, error) {
			return h.queries.GetContactSubmissionByID(r.Context(), id)
		})
	if !ok {
		return
	}

	if err := h.queries.DeleteContactSubmission(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminContacts, "Error deleting submission")
		return
	}

	_ = h.eventService.LogContactEvent(r.Context(), model.EventLevelInfo, "Submission deleted: "+submission.Name, middleware.GetAccountIDPtr(r), map[string]any{"submission_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminContacts, "Submission deleted")
}
