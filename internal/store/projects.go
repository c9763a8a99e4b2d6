// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const projectColumns = "id, title, description, category, client, year, image_url, tags, " +
	"featured, project_type, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Client, &p.Year,
		&p.ImageURL, &p.Tags, &p.Featured, &p.ProjectType, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
	defer rows.Close()
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProjectParams holds the fields for CreateProject.
type CreateProjectParams struct {
	Title       string
	Description string
	Category    string
	Client      string
	Year        string
	ImageURL    string
	Tags        string // JSON array
	Featured    bool
	ProjectType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateProject inserts a project and returns the stored row.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO projects (title, description, category, client, year, image_url, tags,
			featured, project_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.Category, arg.Client, arg.Year, arg.ImageURL,
		arg.Tags, arg.Featured, arg.ProjectType, timeArg(arg.CreatedAt), timeArg(arg.UpdatedAt))
	if err != nil {
		return model.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, err
	}
	return q.GetProjectByID(ctx, id)
}

// GetProjectByID fetches a project by primary key.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	return scanProject(q.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
}

// ListProjects returns all projects, featured first then newest first.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects ORDER BY featured DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// CountProjects returns the number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}

// UpdateProjectParams holds the fields for UpdateProject. LoadedAt is
// the updated_at value the edit form was rendered from; the update
// fails with ErrStaleWrite when the row has changed since.
type UpdateProjectParams struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Client      string
	Year        string
	ImageURL    string
	Tags        string // JSON array
	Featured    bool
	ProjectType string
	UpdatedAt   time.Time
	LoadedAt    time.Time
}

// UpdateProject replaces a project's fields, guarded by the updated_at
// precondition.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (model.Project, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE projects SET title = ?, description = ?, category = ?, client = ?, year = ?,
			image_url = ?, tags = ?, featured = ?, project_type = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		arg.Title, arg.Description, arg.Category, arg.Client, arg.Year, arg.ImageURL,
		arg.Tags, arg.Featured, arg.ProjectType, timeArg(arg.UpdatedAt), arg.ID, timeArg(arg.LoadedAt))
	if err != nil {
		return model.Project{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Project{}, err
	}
	if n == 0 {
		if _, err := q.GetProjectByID(ctx, arg.ID); err != nil {
			return model.Project{}, err
		}
		return model.Project{}, ErrStaleWrite
	}
	return q.GetProjectByID(ctx, arg.ID)
}

// SetProjectFeatured writes the featured flag unconditionally.
func (q *Queries) SetProjectFeatured(ctx context.Context, id int64, featured bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE projects SET featured = ?, updated_at = ? WHERE id = ?",
		featured, timeArg(updatedAt), id)
	return err
}

// DeleteProject removes a project.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}
