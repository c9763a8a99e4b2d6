// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const contactColumns = "id, name, email, company, service, budget, timeline, message, status, " +
	"notes, ip, user_agent, country, created_at, updated_at"

func scanContact(row interface{ Scan(...any) error }) (model.ContactSubmission, error) {
	var c model.ContactSubmission
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Service, &c.Budget, &c.Timeline,
		&c.Message, &c.Status, &c.Notes, &c.IP, &c.UserAgent, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectContacts(rows *sql.Rows) ([]model.ContactSubmission, error) {
	defer rows.Close()
	var subs []model.ContactSubmission
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, c)
	}
	return subs, rows.Err()
}

// CreateContactSubmissionParams holds the fields for CreateContactSubmission.
// Status is intentionally absent: the schema default applies.
type CreateContactSubmissionParams struct {
	Name      string
	Email     string
	Company   string
	Service   string
	Budget    string
	Timeline  string
	Message   string
	IP        string
	UserAgent string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateContactSubmission inserts a submission and returns the stored row.
func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (model.ContactSubmission, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (name, email, company, service, budget, timeline,
			message, ip, user_agent, country, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.Company, arg.Service, arg.Budget, arg.Timeline,
		arg.Message, arg.IP, arg.UserAgent, arg.Country, timeArg(arg.CreatedAt), timeArg(arg.UpdatedAt))
	if err != nil {
		return model.ContactSubmission{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactSubmission{}, err
	}
	return q.GetContactSubmissionByID(ctx, id)
}

// GetContactSubmissionByID fetches a submission by primary key.
func (q *Queries) GetContactSubmissionByID(ctx context.Context, id int64) (model.ContactSubmission, error) {
	return scanContact(q.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contact_submissions WHERE id = ?", id))
}

// ListContactSubmissions returns all submissions, newest first.
func (q *Queries) ListContactSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contact_submissions ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

// CountContactSubmissions returns the number of submissions.
func (q *Queries) CountContactSubmissions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contact_submissions").Scan(&n)
	return n, err
}

// CountContactSubmissionsByStatus returns the number of submissions in a status.
func (q *Queries) CountContactSubmissionsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contact_submissions WHERE status = ?", status).Scan(&n)
	return n, err
}

// UpdateContactSubmissionParams holds the admin-editable fields.
// LoadedAt is the updated_at precondition, as in UpdateProjectParams.
type UpdateContactSubmissionParams struct {
	ID        int64
	Status    string
	Notes     string
	UpdatedAt time.Time
	LoadedAt  time.Time
}

// UpdateContactSubmission updates status and notes, guarded by the
// updated_at precondition.
func (q *Queries) UpdateContactSubmission(ctx context.Context, arg UpdateContactSubmissionParams) (model.ContactSubmission, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE contact_submissions SET status = ?, notes = ?, updated_at = ? WHERE id = ? AND updated_at = ?",
		arg.Status, arg.Notes, timeArg(arg.UpdatedAt), arg.ID, timeArg(arg.LoadedAt))
	if err != nil {
		return model.ContactSubmission{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ContactSubmission{}, err
	}
	if n == 0 {
		if _, err := q.GetContactSubmissionByID(ctx, arg.ID); err != nil {
			return model.ContactSubmission{}, err
		}
		return model.ContactSubmission{}, ErrStaleWrite
	}
	return q.GetContactSubmissionByID(ctx, arg.ID)
}

// DeleteContactSubmission removes a submission.
func (q *Queries) DeleteContactSubmission(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM contact_submissions WHERE id = ?", id)
	return err
}
