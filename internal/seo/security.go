// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"time"
)

// SecurityTxtConfig holds the RFC 9116 fields served at
// /.well-known/security.txt.
type SecurityTxtConfig struct {
	// Contact is required: email, URL, or phone for vulnerability reports.
	Contact []string

	// Expires is required by the RFC; zero means one year from now.
	Expires time.Time

	// Canonical is the URL of this security.txt file.
	Canonical string

	// Policy links to the disclosure policy.
	Policy string

	// PreferredLanguages lists languages the maintainers read, e.g. "en".
	PreferredLanguages string
}

// SecurityTxtBuilder builds security.txt content.
type SecurityTxtBuilder struct {
	config SecurityTxtConfig
}

// NewSecurityTxtBuilder creates a new security.txt builder.
func NewSecurityTxtBuilder(config SecurityTxtConfig) *SecurityTxtBuilder {
	return &SecurityTxtBuilder{config: config}
}

// Build generates the security.txt content.
func (b *SecurityTxtBuilder) Build() string {
	var sb strings.Builder

	for _, contact := range b.config.Contact {
		if contact != "" {
			writeField(&sb, "Contact", contact)
		}
	}

	expires := b.config.Expires
	if expires.IsZero() {
		expires = time.Now().AddDate(1, 0, 0)
	}
	writeField(&sb, "Expires", expires.Format(time.RFC3339))

	if b.config.PreferredLanguages != "" {
		writeField(&sb, "Preferred-Languages", b.config.PreferredLanguages)
	}
	if b.config.Canonical != "" {
		writeField(&sb, "Canonical", b.config.Canonical)
	}
	if b.config.Policy != "" {
		writeField(&sb, "Policy", b.config.Policy)
	}

	return sb.String()
}

func writeField(sb *strings.Builder, name, value string) {
	sb.WriteString(name)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// GenerateSecurityTxt is a convenience function to generate security.txt content.
func GenerateSecurityTxt(contact string, expires time.Time) string {
	builder := NewSecurityTxtBuilder(SecurityTxtConfig{
		Contact: []string{contact},
		Expires: expires,
	})
	return builder.Build()
}
