// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "sandesh@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Sandesh Shrestha"
)

// Seed creates initial data in the database: a login account plus the
// admin gate record for the default admin email.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Check if the admin account already exists
	_, err := queries.GetAccountByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin account already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	// Hash the default password
	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	account, err := queries.CreateAccount(ctx, CreateAccountParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	if _, err := queries.EnsureAdminUser(ctx, DefaultAdminEmail, DefaultAdminName); err != nil {
		return fmt.Errorf("creating admin gate record: %w", err)
	}

	slog.Info("created default admin account",
		"id", account.ID,
		"email", account.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}
