// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
)

// Meta holds meta tag data for a public page.
type Meta struct {
	Description   string      // Meta description
	Canonical     string      // Canonical URL
	OGTitle       string      // Open Graph title
	OGDescription string      // Open Graph description
	OGImage       string      // Open Graph image URL (absolute)
	OGType        string      // Open Graph type (website, article)
	OGSiteName    string      // Open Graph site name
	OGURL         string      // Open Graph URL
	TwitterCard   string      // Twitter card type
	Schema        template.JS // Optional JSON-LD payload
}

// Page describes the page being rendered, for meta tag purposes.
type Page struct {
	Title       string
	Description string // falls back to a truncated Body when empty
	Body        string // HTML content, used for the description fallback
	Path        string // site-relative path, e.g. "/journal/7"
	Image       string // relative or absolute image URL
	IsArticle   bool
}

// Site holds site-wide settings for meta tags.
type Site struct {
	Name string
	URL  string
}

// BuildMeta creates a Meta from page and site data with fallbacks.
func BuildMeta(page Page, site Site) *Meta {
	meta := &Meta{
		OGType:      "website",
		TwitterCard: "summary_large_image",
		OGSiteName:  site.Name,
		OGTitle:     page.Title,
	}
	if page.IsArticle {
		meta.OGType = "article"
	}
	if meta.OGTitle == "" {
		meta.OGTitle = site.Name
	}

	if page.Description != "" {
		meta.Description = page.Description
	} else if page.Body != "" {
		meta.Description = truncateText(stripHTML(page.Body), 160)
	}
	meta.OGDescription = meta.Description

	if page.Image != "" {
		meta.OGImage = makeAbsoluteURL(page.Image, site.URL)
	}

	meta.Canonical = strings.TrimSuffix(site.URL, "/") + page.Path
	meta.OGURL = meta.Canonical

	return meta
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BuildArticleSchema creates JSON-LD Article structured data for a post.
func BuildArticleSchema(page Page, site Site, author string, publishedAt, modifiedAt time.Time) template.JS {
	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         page.Title,
		Description:      page.Description,
		MainEntityOfPage: strings.TrimSuffix(site.URL, "/") + page.Path,
	}

	if page.Image != "" {
		article.Image = makeAbsoluteURL(page.Image, site.URL)
	}
	if !publishedAt.IsZero() {
		article.DatePublished = publishedAt.Format(time.RFC3339)
	}
	if !modifiedAt.IsZero() {
		article.DateModified = modifiedAt.Format(time.RFC3339)
	}
	if author != "" {
		article.Author = &PersonSchema{Type: "Person", Name: author}
	}
	article.Publisher = &OrgSchema{Type: "Organization", Name: site.Name}

	return marshalJSONLD(article)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen characters at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending the site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
