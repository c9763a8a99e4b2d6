// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// FacetAll is the facet value meaning "no facet filter".
const FacetAll = "all"

// foldForSearch lowercases a string and folds accented characters to
// ASCII so "Café" matches a "cafe" query.
func foldForSearch(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// matchesQuery reports whether any field contains the query as a
// case-insensitive, ASCII-folded substring. An empty query matches.
func matchesQuery(query string, fields ...string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	folded := foldForSearch(query)
	for _, field := range fields {
		if strings.Contains(foldForSearch(field), folded) {
			return true
		}
	}
	return false
}

// matchesFacet reports whether a value matches the selected facet.
// Empty and "all" facets match everything.
func matchesFacet(facet, value string) bool {
	facet = strings.TrimSpace(facet)
	if facet == "" || strings.EqualFold(facet, FacetAll) {
		return true
	}
	return strings.EqualFold(facet, value)
}

// filterList applies the query and facet predicates over a fetched list.
// fieldsFn returns the text fields searched by the query; facetFn
// returns the value compared against the facet.
func filterList[T any](items []T, query, facet string, fieldsFn func(T) []string, facetFn func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesFacet(facet, facetFn(item)) {
			continue
		}
		if !matchesQuery(query, fieldsFn(item)...) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// collectFacets returns the distinct facet values present in a list,
// sorted alphabetically. Empty values are skipped.
func collectFacets[T any](items []T, facetFn func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		v := strings.TrimSpace(facetFn(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
