// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders blog post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML and sanitizes the result. Post bodies
// are written by authenticated editors, but sanitizing anyway keeps a
// compromised account from turning into stored XSS on the public site.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a markdown renderer with GFM extensions.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code", "pre")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		sanitizer: policy,
	}
}

// Render converts markdown source to sanitized HTML.
func (r *Renderer) Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}

	sanitized := r.sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(sanitized), nil //nolint:gosec // sanitized above
}

// RenderTrusted sanitizes content that may already be HTML. Used for
// bodies pasted as HTML rather than markdown.
func (r *Renderer) RenderTrusted(source string) template.HTML {
	return template.HTML(r.sanitizer.Sanitize(source)) //nolint:gosec // sanitized above
}

// Excerpt produces a plain-text excerpt of markdown source, truncated at
// a word boundary near maxLen runes.
func Excerpt(source string, maxLen int) string {
	plain := stripMarkdown(source)
	runes := []rune(plain)
	if len(runes) <= maxLen {
		return plain
	}

	truncated := string(runes[:maxLen])
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "…"
}

// stripMarkdown removes common markdown syntax for plain-text display.
func stripMarkdown(source string) string {
	lines := strings.Split(source, "\n")
	var out []string
	inCode := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode || trimmed == "" {
			continue
		}

		trimmed = strings.TrimLeft(trimmed, "#>-* ")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		trimmed = strings.ReplaceAll(trimmed, "`", "")
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return strings.Join(out, " ")
}
