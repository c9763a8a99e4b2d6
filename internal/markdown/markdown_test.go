// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestRender_Basic(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := string(out)
	if !strings.Contains(html, "<h1") {
		t.Errorf("output missing heading: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("output missing bold: %s", html)
	}
}

func TestRender_StripsScript(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("Hello <script>alert('xss')</script> world")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if strings.Contains(string(out), "<script") {
		t.Errorf("script tag survived sanitization: %s", out)
	}
}

func TestRender_StripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(`<img src="x" onerror="alert(1)">`)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if strings.Contains(string(out), "onerror") {
		t.Errorf("event handler survived sanitization: %s", out)
	}
}

func TestRender_GFMTable(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("| A | B |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(string(out), "<table") {
		t.Errorf("GFM table not rendered: %s", out)
	}
}

func TestRenderTrusted_Sanitizes(t *testing.T) {
	r := NewRenderer()

	out := r.RenderTrusted(`<p>ok</p><script>bad()</script>`)
	if strings.Contains(string(out), "<script") {
		t.Errorf("script tag survived: %s", out)
	}
	if !strings.Contains(string(out), "<p>ok</p>") {
		t.Errorf("safe HTML removed: %s", out)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name   string
		source string
		maxLen int
		want   string
	}{
		{
			name:   "short text unchanged",
			source: "Hello world",
			maxLen: 50,
			want:   "Hello world",
		},
		{
			name:   "strips heading marks",
			source: "# Title\n\nBody text",
			maxLen: 50,
			want:   "Title Body text",
		},
		{
			name:   "truncates at word boundary",
			source: "one two three four five",
			maxLen: 12,
			want:   "one two" + "…",
		},
		{
			name:   "skips code blocks",
			source: "Intro\n```\ncode here\n```\nOutro",
			maxLen: 50,
			want:   "Intro Outro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.source, tt.maxLen)
			if got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}
