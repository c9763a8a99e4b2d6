// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "strings"

// Allowlist is the set of email addresses permitted to self-register an
// admin account. Matching is case-insensitive and ignores surrounding
// whitespace.
type Allowlist map[string]struct{}

// NewAllowlist builds an Allowlist from the configured addresses.
func NewAllowlist(emails []string) Allowlist {
	al := make(Allowlist, len(emails))
	for _, e := range emails {
		e = NormalizeEmail(e)
		if e == "" {
			continue
		}
		al[e] = struct{}{}
	}
	return al
}

// Contains reports whether email is allowed to register.
func (al Allowlist) Contains(email string) bool {
	_, ok := al[NormalizeEmail(email)]
	return ok
}

// NormalizeEmail lowercases and trims an email address for comparison
// and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
