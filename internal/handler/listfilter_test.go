// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"reflect"
	"testing"
)

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"empty query matches", "", []string{"anything"}, true},
		{"whitespace query matches", "   ", []string{"anything"}, true},
		{"exact match", "brand", []string{"Brand refresh"}, true},
		{"case insensitive", "BRAND", []string{"brand refresh"}, true},
		{"substring", "fresh", []string{"Brand refresh"}, true},
		{"second field", "acme", []string{"Brand refresh", "Acme Corp"}, true},
		{"no match", "video", []string{"Brand refresh", "Acme Corp"}, false},
		{"accent folding in field", "cafe", []string{"Café Noir identity"}, true},
		{"accent folding in query", "café", []string{"Cafe Noir identity"}, true},
		{"no fields", "query", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesQuery(tt.query, tt.fields...)
			if got != tt.want {
				t.Errorf("matchesQuery(%q, %v) = %v, want %v", tt.query, tt.fields, got, tt.want)
			}
		})
	}
}

func TestMatchesFacet(t *testing.T) {
	tests := []struct {
		name  string
		facet string
		value string
		want  bool
	}{
		{"empty facet matches", "", "branding", true},
		{"all matches", "all", "branding", true},
		{"All matches", "All", "branding", true},
		{"exact", "branding", "branding", true},
		{"case insensitive", "Branding", "branding", true},
		{"mismatch", "web", "branding", false},
		{"empty value against facet", "web", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesFacet(tt.facet, tt.value)
			if got != tt.want {
				t.Errorf("matchesFacet(%q, %q) = %v, want %v", tt.facet, tt.value, got, tt.want)
			}
		})
	}
}

type filterItem struct {
	Title    string
	Category string
}

func filterItemFields(i filterItem) []string { return []string{i.Title} }
func filterItemFacet(i filterItem) string    { return i.Category }

func TestFilterList(t *testing.T) {
	items := []filterItem{
		{"Brand refresh", "branding"},
		{"Marketing site", "web"},
		{"Packaging system", "branding"},
		{"Launch video", "motion"},
	}

	t.Run("no filters returns everything", func(t *testing.T) {
		got := filterList(items, "", "", filterItemFields, filterItemFacet)
		if len(got) != len(items) {
			t.Errorf("len = %d, want %d", len(got), len(items))
		}
	})

	t.Run("query only", func(t *testing.T) {
		got := filterList(items, "brand", "", filterItemFields, filterItemFacet)
		if len(got) != 1 || got[0].Title != "Brand refresh" {
			t.Errorf("got %v, want only Brand refresh", got)
		}
	})

	t.Run("facet only", func(t *testing.T) {
		got := filterList(items, "", "branding", filterItemFields, filterItemFacet)
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("query and facet combine", func(t *testing.T) {
		got := filterList(items, "packaging", "branding", filterItemFields, filterItemFacet)
		if len(got) != 1 || got[0].Title != "Packaging system" {
			t.Errorf("got %v, want only Packaging system", got)
		}
	})

	t.Run("query and facet disjoint", func(t *testing.T) {
		got := filterList(items, "video", "branding", filterItemFields, filterItemFacet)
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := filterList(nil, "query", "facet", filterItemFields, filterItemFacet)
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestCollectFacets(t *testing.T) {
	items := []filterItem{
		{"a", "web"},
		{"b", "branding"},
		{"c", "web"},
		{"d", ""},
		{"e", "motion"},
	}

	got := collectFacets(items, filterItemFacet)
	want := []string{"branding", "motion", "web"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectFacets = %v, want %v", got, want)
	}
}

func TestFoldForSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café", "cafe"},
		{"ÜBER", "uber"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := foldForSearch(tt.in); got != tt.want {
			t.Errorf("foldForSearch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
