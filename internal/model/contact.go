// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Contact submission statuses
const (
	ContactStatusNew        = "new"
	ContactStatusContacted  = "contacted"
	ContactStatusInProgress = "in_progress"
	ContactStatusCompleted  = "completed"
)

// ValidContactStatuses lists the accepted submission statuses in workflow order.
var ValidContactStatuses = []string{
	ContactStatusNew,
	ContactStatusContacted,
	ContactStatusInProgress,
	ContactStatusCompleted,
}

// IsValidContactStatus reports whether status is one of the accepted values.
func IsValidContactStatus(status string) bool {
	for _, s := range ValidContactStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ContactSubmission represents a public contact form submission.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Service   string    `json:"service"`
	Budget    string    `json:"budget"`
	Timeline  string    `json:"timeline"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	IP        string    `json:"-"`
	UserAgent string    `json:"-"` // Parsed browser/OS summary
	Country   string    `json:"-"` // ISO country code from GeoIP, when available
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
