// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/sandeshshrestha/studio-go/internal/imaging"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/store"
	"github.com/sandeshshrestha/studio-go/internal/util"
)

// MaxUploadSize limits uploads to 10MB; site imagery does not need more.
const MaxUploadSize = 10 * 1024 * 1024

// UploadResult contains the result of a media upload.
type UploadResult struct {
	Media    model.Media
	Variants []*imaging.VariantResult
}

// MediaService handles image uploads for project, service, and blog imagery.
type MediaService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a new media service writing under uploadDir.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	return &MediaService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates, processes, and stores an uploaded image.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, accountID int64) (*UploadResult, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if !s.processor.IsImage(mimeType) {
		return nil, fmt.Errorf("file type %s is not allowed", mimeType)
	}

	fileUUID := uuid.New().String()

	filename, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return nil, err
	}

	processResult, err := s.processor.ProcessImage(file, fileUUID, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	queries := store.New(s.db)
	media, err := queries.CreateMedia(ctx, store.CreateMediaParams{
		UUID:       fileUUID,
		Filename:   filename,
		MimeType:   processResult.MimeType,
		Size:       processResult.Size,
		Width:      util.NullInt64FromValue(int64(processResult.Width)),
		Height:     util.NullInt64FromValue(int64(processResult.Height)),
		UploadedBy: accountID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		// Clean up uploaded files on error
		_ = s.processor.DeleteMediaFiles(fileUUID)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	// Variants are best effort; the original is already stored
	variants, err := s.processor.CreateAllVariants(processResult.FilePath, fileUUID, filename)
	if err != nil {
		slog.Warn("failed to create some variants", "error", err)
	}

	return &UploadResult{Media: media, Variants: variants}, nil
}

// Delete removes a media item and its files.
func (s *MediaService) Delete(ctx context.Context, mediaID int64) error {
	queries := store.New(s.db)

	media, err := queries.GetMediaByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("failed to get media: %w", err)
	}

	if err := queries.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	// DB record is gone; a leftover file is only a warning
	if err := s.processor.DeleteMediaFiles(media.UUID); err != nil {
		slog.Warn("failed to delete media files", "media_id", mediaID, "error", err)
	}

	return nil
}

// GetURL returns the URL path for a media item.
func (s *MediaService) GetURL(media model.Media, variant string) string {
	if variant == "" || variant == "original" {
		return fmt.Sprintf("/uploads/originals/%s/%s", media.UUID, media.Filename)
	}
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, media.UUID, media.Filename)
}

// GetThumbnailURL returns the thumbnail URL for a media item.
func (s *MediaService) GetThumbnailURL(media model.Media) string {
	return s.GetURL(media, model.VariantThumbnail)
}
