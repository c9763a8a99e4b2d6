// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// datetimeLocalFormat matches the value format of <input type="datetime-local">.
const datetimeLocalFormat = "2006-01-02T15:04"

// formValue returns a trimmed form value.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formChecked reports whether a checkbox form field was submitted.
func formChecked(r *http.Request, key string) bool {
	return r.FormValue(key) != ""
}

// parseLoadedAt parses the hidden loaded_at field carried by edit forms
// for the stale-write precondition. Zero time when absent or malformed,
// which makes the update fail as stale rather than overwrite blindly.
func parseLoadedAt(r *http.Request) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.FormValue("loaded_at"))
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatLoadedAt formats a row's updated_at for the hidden loaded_at field.
func formatLoadedAt(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseScheduledAt parses an optional datetime-local field into a NullTime.
func parseScheduledAt(r *http.Request) sql.NullTime {
	v := formValue(r, "scheduled_at")
	if v == "" {
		return sql.NullTime{}
	}
	t, err := time.ParseInLocation(datetimeLocalFormat, v, time.Local)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// isValidEmail reports whether a string parses as a bare email address.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// estimateReadTime derives a "N min read" label from content length,
// assuming roughly 200 words per minute.
func estimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return strconv.Itoa(minutes) + " min read"
}

// clientIP extracts the originating client IP, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	return host
}
