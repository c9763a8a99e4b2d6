// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// NormalizeList trims each entry and drops empty ones, preserving order.
// Used for tag and feature lists before persisting.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SplitCommaList splits comma-separated input into a normalized list.
// Used for tag inputs entered as free text.
func SplitCommaList(s string) []string {
	return NormalizeList(strings.Split(s, ","))
}
