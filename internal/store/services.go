// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const serviceColumns = "id, title, description, features, price, original_price, timeline, " +
	"popular, icon, created_at, updated_at"

func scanService(row interface{ Scan(...any) error }) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Features, &s.Price, &s.OriginalPrice,
		&s.Timeline, &s.Popular, &s.Icon, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collectServices(rows *sql.Rows) ([]model.Service, error) {
	defer rows.Close()
	var services []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// CreateServiceParams holds the fields for CreateService.
type CreateServiceParams struct {
	Title         string
	Description   string
	Features      string // JSON array
	Price         string
	OriginalPrice string
	Timeline      string
	Popular       bool
	Icon          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateService inserts a service and returns the stored row.
func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (model.Service, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO services (title, description, features, price, original_price, timeline,
			popular, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.Features, arg.Price, arg.OriginalPrice, arg.Timeline,
		arg.Popular, arg.Icon, timeArg(arg.CreatedAt), timeArg(arg.UpdatedAt))
	if err != nil {
		return model.Service{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Service{}, err
	}
	return q.GetServiceByID(ctx, id)
}

// GetServiceByID fetches a service by primary key.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	return scanService(q.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = ?", id))
}

// ListServices returns all services, popular first then newest first.
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY popular DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectServices(rows)
}

// CountServices returns the number of services.
func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&n)
	return n, err
}

// UpdateServiceParams holds the fields for UpdateService. LoadedAt is
// the updated_at precondition, as in UpdateProjectParams.
type UpdateServiceParams struct {
	ID            int64
	Title         string
	Description   string
	Features      string // JSON array
	Price         string
	OriginalPrice string
	Timeline      string
	Popular       bool
	Icon          string
	UpdatedAt     time.Time
	LoadedAt      time.Time
}

// UpdateService replaces a service's fields, guarded by the updated_at
// precondition.
func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (model.Service, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE services SET title = ?, description = ?, features = ?, price = ?,
			original_price = ?, timeline = ?, popular = ?, icon = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		arg.Title, arg.Description, arg.Features, arg.Price, arg.OriginalPrice,
		arg.Timeline, arg.Popular, arg.Icon, timeArg(arg.UpdatedAt), arg.ID, timeArg(arg.LoadedAt))
	if err != nil {
		return model.Service{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Service{}, err
	}
	if n == 0 {
		if _, err := q.GetServiceByID(ctx, arg.ID); err != nil {
			return model.Service{}, err
		}
		return model.Service{}, ErrStaleWrite
	}
	return q.GetServiceByID(ctx, arg.ID)
}

// SetServicePopular writes the popular flag unconditionally.
func (q *Queries) SetServicePopular(ctx context.Context, id int64, popular bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE services SET popular = ?, updated_at = ? WHERE id = ?",
		popular, timeArg(updatedAt), id)
	return err
}

// DeleteService removes a service.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	return err
}
