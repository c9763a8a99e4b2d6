// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const mediaColumns = "id, uuid, filename, mime_type, size, width, height, alt, uploaded_by, created_at"

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size, &m.Width, &m.Height,
		&m.Alt, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

// CreateMediaParams holds the fields for CreateMedia.
type CreateMediaParams struct {
	UUID       string
	Filename   string
	MimeType   string
	Size       int64
	Width      sql.NullInt64
	Height     sql.NullInt64
	Alt        string
	UploadedBy int64
	CreatedAt  time.Time
}

// CreateMedia inserts a media record and returns the stored row.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO media (uuid, filename, mime_type, size, width, height, alt, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.Filename, arg.MimeType, arg.Size, arg.Width, arg.Height, arg.Alt,
		arg.UploadedBy, timeArg(arg.CreatedAt))
	if err != nil {
		return model.Media{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Media{}, err
	}
	return q.GetMediaByID(ctx, id)
}

// GetMediaByID fetches a media record by primary key.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	return scanMedia(q.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+" FROM media WHERE id = ?", id))
}

// ListMedia returns all media records, newest first.
func (q *Queries) ListMedia(ctx context.Context) ([]model.Media, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+mediaColumns+" FROM media ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// DeleteMedia removes a media record.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}
