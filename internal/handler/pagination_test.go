// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		perPage    int
		want       int
	}{
		{"zero items", 0, 10, 1},
		{"less than one page", 5, 10, 1},
		{"exactly one page", 10, 10, 1},
		{"one item over", 11, 10, 2},
		{"multiple pages", 25, 10, 3},
		{"exact multiple", 30, 10, 3},
		{"zero per page", 10, 0, 1},
		{"negative per page", 10, -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotalPages(tt.totalItems, tt.perPage)
			if got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.totalItems, tt.perPage, got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"valid page", 3, 5, 3},
		{"first page", 1, 5, 1},
		{"last page", 5, 5, 5},
		{"below minimum", 0, 5, 1},
		{"negative page", -1, 5, 1},
		{"above maximum", 10, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPage(tt.page, tt.totalPages)
			if got != tt.want {
				t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		totalItems     int
		perPage        int
		wantPage       int
		wantTotalPages int
	}{
		{"valid page", 2, 50, 10, 2, 5},
		{"page too high", 10, 50, 10, 5, 5},
		{"page too low", 0, 50, 10, 1, 5},
		{"single page", 1, 5, 10, 1, 1},
		{"empty list", 1, 0, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPage, gotTotal := NormalizePagination(tt.page, tt.totalItems, tt.perPage)
			if gotPage != tt.wantPage || gotTotal != tt.wantTotalPages {
				t.Errorf("NormalizePagination(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.totalItems, tt.perPage, gotPage, gotTotal, tt.wantPage, tt.wantTotalPages)
			}
		})
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"valid page", "page=3", 3},
		{"first page", "page=1", 1},
		{"no param", "", 1},
		{"empty param", "page=", 1},
		{"invalid param", "page=abc", 1},
		{"zero page", "page=0", 1},
		{"negative page", "page=-1", 1},
		{"large page", "page=999", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got := ParsePageParam(req)
			if got != tt.want {
				t.Errorf("ParsePageParam() with query %q = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		param      string
		defaultVal int
		minVal     int
		maxVal     int
		want       int
	}{
		{"valid value", "limit=50", "limit", 10, 1, 100, 50},
		{"missing param", "", "limit", 10, 1, 100, 10},
		{"empty value", "limit=", "limit", 10, 1, 100, 10},
		{"invalid value", "limit=abc", "limit", 10, 1, 100, 10},
		{"below min", "limit=0", "limit", 10, 1, 100, 10},
		{"above max", "limit=200", "limit", 10, 1, 100, 10},
		{"no min check", "limit=0", "limit", 10, 0, 100, 0},
		{"no max check", "limit=500", "limit", 10, 1, 0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got := ParseIntParam(req, tt.param, tt.defaultVal, tt.minVal, tt.maxVal)
			if got != tt.want {
				t.Errorf("ParseIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{"valid id", "123", 123, false},
		{"zero id", "0", 0, false},
		{"large id", "9999999999", 9999999999, false},
		{"empty id", "", 0, true},
		{"invalid id", "abc", 0, true},
		{"negative id", "-1", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ParseIDParam(req)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseIDParam(%q) expected error, got %d", tt.id, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIDParam(%q) unexpected error: %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("ParseIDParam(%q) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestBuildAdminPagination(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		p := BuildAdminPagination(1, 5, 10, "/admin/events", nil)
		if p.TotalPages != 1 {
			t.Errorf("TotalPages = %d, want 1", p.TotalPages)
		}
		if p.ShouldShow() {
			t.Error("ShouldShow should be false for a single page")
		}
		if p.HasPrev || p.HasNext {
			t.Error("single page should have no prev/next")
		}
	})

	t.Run("middle page", func(t *testing.T) {
		p := BuildAdminPagination(5, 100, 10, "/admin/events", nil)
		if p.TotalPages != 10 {
			t.Errorf("TotalPages = %d, want 10", p.TotalPages)
		}
		if !p.HasPrev || !p.HasNext {
			t.Error("middle page should have prev and next")
		}
		if p.PrevPage != 4 || p.NextPage != 6 {
			t.Errorf("PrevPage/NextPage = %d/%d, want 4/6", p.PrevPage, p.NextPage)
		}
	})

	t.Run("window with ellipsis on both sides", func(t *testing.T) {
		p := BuildAdminPagination(10, 200, 10, "/admin/events", nil)

		var numbers []int
		ellipses := 0
		for _, page := range p.Pages {
			if page.IsEllipsis {
				ellipses++
				continue
			}
			numbers = append(numbers, page.Number)
		}

		// First, 8..12 window, last.
		want := []int{1, 8, 9, 10, 11, 12, 20}
		if len(numbers) != len(want) {
			t.Fatalf("page numbers = %v, want %v", numbers, want)
		}
		for i := range want {
			if numbers[i] != want[i] {
				t.Errorf("page numbers = %v, want %v", numbers, want)
				break
			}
		}
		if ellipses != 2 {
			t.Errorf("ellipses = %d, want 2", ellipses)
		}
	})

	t.Run("preserves filter params without page", func(t *testing.T) {
		params := url.Values{}
		params.Set("page", "3")
		params.Set("q", "deploy")

		p := BuildAdminPagination(3, 100, 10, "/admin/events", params)
		u := p.PageURL(4)
		if u != "/admin/events?q=deploy&page=4" {
			t.Errorf("PageURL = %q", u)
		}
	})

	t.Run("page range", func(t *testing.T) {
		p := BuildAdminPagination(2, 45, 20, "/admin/events", nil)
		if got := p.PageRange(); got != "21-40" {
			t.Errorf("PageRange = %q, want %q", got, "21-40")
		}
		p = BuildAdminPagination(3, 45, 20, "/admin/events", nil)
		if got := p.PageRange(); got != "41-45" {
			t.Errorf("PageRange = %q, want %q", got, "41-45")
		}
	})
}
