// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// DefaultAuthorName is used when a post is created without an author.
const DefaultAuthorName = "Sandesh Shrestha"

// BlogPost represents a journal entry.
type BlogPost struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Excerpt      string       `json:"excerpt"`
	Content      string       `json:"content"` // Sanitized HTML
	AuthorName   string       `json:"author_name"`
	AuthorAvatar string       `json:"author_avatar"`
	AuthorRole   string       `json:"author_role"`
	Category     string       `json:"category"`
	Tags         string       `json:"-"` // JSON array stored as string
	Published    bool         `json:"published"`
	Featured     bool         `json:"featured"`
	ImageURL     string       `json:"image_url"`
	ReadTime     string       `json:"read_time"`
	ScheduledAt  sql.NullTime `json:"scheduled_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// GetTags parses the JSON tags string into a slice.
func (b *BlogPost) GetTags() []string {
	return parseStringList(b.Tags)
}

// SetTags sets the tags from a slice to JSON string.
func (b *BlogPost) SetTags(tags []string) {
	b.Tags = stringListToJSON(tags)
}

// IsScheduled returns true if the post is waiting for a future publish time.
func (b *BlogPost) IsScheduled() bool {
	return !b.Published && b.ScheduledAt.Valid
}
