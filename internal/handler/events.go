// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// EventsPerPage is the page size of the event log.
const EventsPerPage = 50

// EventsHandler handles the admin event log.
type EventsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer) *EventsHandler {
	return &EventsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// EventsListData holds data for the event log page.
type EventsListData struct {
	Events     []model.Event
	Pagination AdminPagination
	LoadError  bool
}

// List renders the event log, newest first, paginated.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	data := EventsListData{}

	total, err := h.queries.CountEvents(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		page := ParsePageParam(r)
		page, _ = NormalizePagination(page, int(total), EventsPerPage)

		events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
			Limit:  EventsPerPage,
			Offset: int64((page - 1) * EventsPerPage),
		})
		if err != nil {
			data.LoadError = true
		} else {
			data.Events = events
			data.Pagination = BuildAdminPagination(page, int(total), EventsPerPage, redirectAdminEvents, r.URL.Query())
		}
	}

	if err := h.renderer.Render(w, r, "admin/events", adminData(r, "Event Log", data)); err != nil {
		logAndInternalError(w, "failed to render event log", "error", err)
	}
}
