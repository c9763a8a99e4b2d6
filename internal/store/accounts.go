// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const accountColumns = "id, email, password_hash, created_at, updated_at, last_login_at"

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt, &a.LastLoginAt)
	return a, err
}

// CreateAccountParams holds the fields for CreateAccount.
type CreateAccountParams struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAccount inserts a login account and returns the stored row.
func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (model.Account, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO accounts (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Email, arg.PasswordHash, timeArg(arg.CreatedAt), timeArg(arg.UpdatedAt))
	if err != nil {
		return model.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	return q.GetAccountByID(ctx, id)
}

// GetAccountByID fetches an account by primary key.
func (q *Queries) GetAccountByID(ctx context.Context, id int64) (model.Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
}

// GetAccountByEmail fetches an account by email.
func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email = ?", email))
}

// UpdateAccountPassword replaces an account's password hash.
func (q *Queries) UpdateAccountPassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, timeArg(updatedAt), id)
	return err
}

// UpdateAccountLastLogin records a successful login time.
func (q *Queries) UpdateAccountLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE accounts SET last_login_at = ? WHERE id = ?", timeArg(at), id)
	return err
}

// DeleteAccount removes a login account.
func (q *Queries) DeleteAccount(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	return err
}

// CountAccounts returns the number of login accounts.
func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&n)
	return n, err
}
