// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Project represents a portfolio entry shown on the work pages.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Client      string    `json:"client"`
	Year        string    `json:"year"`
	ImageURL    string    `json:"image_url"`
	Tags        string    `json:"-"` // JSON array stored as string
	Featured    bool      `json:"featured"`
	ProjectType string    `json:"project_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetTags parses the JSON tags string into a slice.
func (p *Project) GetTags() []string {
	return parseStringList(p.Tags)
}

// SetTags sets the tags from a slice to JSON string.
func (p *Project) SetTags(tags []string) {
	p.Tags = stringListToJSON(tags)
}

// parseStringList decodes a JSON array column into a slice.
// Empty or malformed values decode to an empty slice.
func parseStringList(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var items []string
	_ = json.Unmarshal([]byte(s), &items)
	if items == nil {
		items = []string{}
	}
	return items
}

// stringListToJSON encodes a slice as a JSON array string.
func stringListToJSON(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(items)
	return string(data)
}
