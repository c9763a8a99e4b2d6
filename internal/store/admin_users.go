// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const adminUserColumns = "id, email, name, role, created_at, last_login_at"

func scanAdminUser(row interface{ Scan(...any) error }) (model.AdminUser, error) {
	var u model.AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.LastLoginAt)
	return u, err
}

// CreateAdminUserParams holds the fields for CreateAdminUser.
type CreateAdminUserParams struct {
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

// CreateAdminUser inserts a back-office gate record and returns the stored row.
func (q *Queries) CreateAdminUser(ctx context.Context, arg CreateAdminUserParams) (model.AdminUser, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO admin_users (email, name, role, created_at) VALUES (?, ?, ?, ?)",
		arg.Email, arg.Name, arg.Role, timeArg(arg.CreatedAt))
	if err != nil {
		return model.AdminUser{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AdminUser{}, err
	}
	return q.GetAdminUserByID(ctx, id)
}

// GetAdminUserByID fetches an admin user by primary key.
func (q *Queries) GetAdminUserByID(ctx context.Context, id int64) (model.AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx,
		"SELECT "+adminUserColumns+" FROM admin_users WHERE id = ?", id))
}

// GetAdminUserByEmail fetches an admin user by email.
func (q *Queries) GetAdminUserByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx,
		"SELECT "+adminUserColumns+" FROM admin_users WHERE email = ?", email))
}

// ListAdminUsers returns all admin users, newest first.
func (q *Queries) ListAdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+adminUserColumns+" FROM admin_users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.AdminUser
	for rows.Next() {
		u, err := scanAdminUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountAdminUsers returns the number of admin users.
func (q *Queries) CountAdminUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&n)
	return n, err
}

// CountAdminUsersByRole returns the number of admin users holding a role.
func (q *Queries) CountAdminUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admin_users WHERE role = ?", role).Scan(&n)
	return n, err
}

// UpdateAdminUserParams holds the fields for UpdateAdminUser.
type UpdateAdminUserParams struct {
	ID    int64
	Email string
	Name  string
	Role  string
}

// UpdateAdminUser replaces an admin user's profile fields.
func (q *Queries) UpdateAdminUser(ctx context.Context, arg UpdateAdminUserParams) (model.AdminUser, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE admin_users SET email = ?, name = ?, role = ? WHERE id = ?",
		arg.Email, arg.Name, arg.Role, arg.ID)
	if err != nil {
		return model.AdminUser{}, err
	}
	return q.GetAdminUserByID(ctx, arg.ID)
}

// UpdateAdminUserLastLogin records a successful login time on the gate record.
func (q *Queries) UpdateAdminUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE admin_users SET last_login_at = ? WHERE id = ?", timeArg(at), id)
	return err
}

// DeleteAdminUser removes a gate record.
func (q *Queries) DeleteAdminUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM admin_users WHERE id = ?", id)
	return err
}

// EnsureAdminUser inserts an admin gate record for email if none exists.
// The insert uses a hardcoded display name and the admin role; an
// existing row is left untouched.
func (q *Queries) EnsureAdminUser(ctx context.Context, email, name string) (model.AdminUser, error) {
	existing, err := q.GetAdminUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return model.AdminUser{}, err
	}
	return q.CreateAdminUser(ctx, CreateAdminUserParams{
		Email:     email,
		Name:      name,
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
	})
}
