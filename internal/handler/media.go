// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// MediaHandler handles admin image uploads.
type MediaHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	media        *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(db *sql.DB, renderer *render.Renderer, media *service.MediaService) *MediaHandler {
	return &MediaHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		media:        media,
	}
}

// MediaItem pairs a media row with its public URLs for the templates.
type MediaItem struct {
	Media        model.Media
	URL          string
	ThumbnailURL string
}

// MediaListData holds data for the media list page.
type MediaListData struct {
	Items     []MediaItem
	LoadError bool
}

// List renders the media library.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	data := MediaListData{}

	items, err := h.queries.ListMedia(r.Context())
	if err != nil {
		data.LoadError = true
	} else {
		for _, m := range items {
			data.Items = append(data.Items, MediaItem{
				Media:        m,
				URL:          h.media.GetURL(m, ""),
				ThumbnailURL: h.media.GetThumbnailURL(m),
			})
		}
	}

	if err := h.renderer.Render(w, r, "admin/media", adminData(r, "Media", data)); err != nil {
		logAndInternalError(w, "failed to render media list", "error", err)
	}
}

// Upload accepts a multipart image upload, processes variants, and
// records the media row.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "No file selected")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.media.Upload(r.Context(), file, header, middleware.GetAccountID(r))
	if err != nil {
		slog.Error("media upload failed", "error", err, "filename", header.Filename)
		flashError(w, r, h.renderer, redirectAdminMedia, "Upload failed: "+err.Error())
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Media uploaded: "+result.Media.Filename, middleware.GetAccountIDPtr(r), map[string]any{"media_id": result.Media.ID, "size": result.Media.Size})
	flashSuccess(w, r, h.renderer, redirectAdminMedia, "Image uploaded")
}

// Delete removes a media row and its files.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminMedia, "Invalid media ID")
		return
	}

	media, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminMedia, "Media", id,
		func(id int64) (model.Media, error) { return h.queries.GetMediaByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.media.Delete(r.Context(), id); err != nil {
		slog.Error("media delete failed", "error", err, "media_id", id)
		flashError(w, r, h.renderer, redirectAdminMedia, "Error deleting media")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo, "Media deleted: "+media.Filename, middleware.GetAccountIDPtr(r), map[string]any{"media_id": id})
	flashSuccess(w, r, h.renderer, redirectAdminMedia, "Media deleted")
}
