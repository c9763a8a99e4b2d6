// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including Account, AdminUser, Project, Service, BlogPost and ContactSubmission.
package model

import (
	"database/sql"
	"time"
)

// Account holds the authentication credentials for a back-office login.
// Authorization is decided separately by the AdminUser gate record.
type Account struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}
