// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/geoip"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/seo"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// homeFeaturedLimit caps how many featured items the homepage shows per section.
const homeFeaturedLimit = 3

// siteName appears in page titles and Open Graph tags.
const siteName = "Northlight Studio"

// FrontendHandler handles the public site pages.
type FrontendHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	caches       *cache.Manager
	geo          *geoip.Resolver
	siteURL      string
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, caches *cache.Manager, geo *geoip.Resolver, siteURL string) *FrontendHandler {
	return &FrontendHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		caches:       caches,
		geo:          geo,
		siteURL:      strings.TrimRight(siteURL, "/"),
	}
}

// pageMeta builds meta tag data for a public page.
func (h *FrontendHandler) pageMeta(page seo.Page) *seo.Meta {
	return seo.BuildMeta(page, seo.Site{Name: siteName, URL: h.siteURL})
}

// cachedProjects returns the project list through the cache.
func (h *FrontendHandler) cachedProjects(r *http.Request) ([]model.Project, error) {
	projects, err := h.caches.Projects.GetOrSet(r.Context(), cache.KeyProjects, func() (*[]model.Project, error) {
		list, err := h.queries.ListProjects(r.Context())
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *projects, nil
}

// cachedServices returns the service list through the cache.
func (h *FrontendHandler) cachedServices(r *http.Request) ([]model.Service, error) {
	services, err := h.caches.Services.GetOrSet(r.Context(), cache.KeyServices, func() (*[]model.Service, error) {
		list, err := h.queries.ListServices(r.Context())
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *services, nil
}

// cachedPosts returns the published post list through the cache.
func (h *FrontendHandler) cachedPosts(r *http.Request) ([]model.BlogPost, error) {
	posts, err := h.caches.Posts.GetOrSet(r.Context(), cache.KeyPublishedPosts, func() (*[]model.BlogPost, error) {
		list, err := h.queries.ListPublishedBlogPosts(r.Context())
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *posts, nil
}

// HomeData holds data for the homepage.
type HomeData struct {
	FeaturedProjects []model.Project
	FeaturedServices []model.Service
	FeaturedPosts    []model.BlogPost
}

// Home renders the homepage with featured content.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{}

	if projects, err := h.cachedProjects(r); err == nil {
		data.FeaturedProjects = takeFeaturedProjects(projects, homeFeaturedLimit)
	} else {
		slog.Error("failed to load projects for homepage", "error", err)
	}
	if services, err := h.cachedServices(r); err == nil {
		data.FeaturedServices = takePopularServices(services, homeFeaturedLimit)
	} else {
		slog.Error("failed to load services for homepage", "error", err)
	}
	if posts, err := h.cachedPosts(r); err == nil {
		if len(posts) > homeFeaturedLimit {
			posts = posts[:homeFeaturedLimit]
		}
		data.FeaturedPosts = posts
	} else {
		slog.Error("failed to load posts for homepage", "error", err)
	}

	meta := h.pageMeta(seo.Page{
		Title:       "Studio",
		Description: "Northlight Studio is an independent creative studio for branding, design, and digital products.",
		Path:        "/",
	})
	if err := h.renderer.Render(w, r, "site/home", render.TemplateData{Title: "Studio", Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	meta := h.pageMeta(seo.Page{
		Title:       "About",
		Description: "Who we are, how we work, and what we care about.",
		Path:        "/about",
	})
	if err := h.renderer.Render(w, r, "site/about", render.TemplateData{Title: "About", Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render about page", "error", err)
	}
}

// ServicesData holds data for the public services page.
type ServicesData struct {
	Services  []model.Service
	LoadError bool
}

// Services renders the services page.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := ServicesData{}
	services, err := h.cachedServices(r)
	if err != nil {
		slog.Error("failed to load services", "error", err)
		data.LoadError = true
	} else {
		data.Services = services
	}

	meta := h.pageMeta(seo.Page{
		Title:       "Services",
		Description: "Branding, web design, and product work with transparent pricing and timelines.",
		Path:        "/services",
	})
	if err := h.renderer.Render(w, r, "site/services", render.TemplateData{Title: "Services", Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render services page", "error", err)
	}
}

// WorkData holds data for the public work listing.
type WorkData struct {
	Projects   []model.Project
	Query      string
	Category   string
	Categories []string
	LoadError  bool
}

// Work renders the work listing with category facets computed from the
// fetched rows and an in-memory filter.
func (h *FrontendHandler) Work(w http.ResponseWriter, r *http.Request) {
	data := WorkData{
		Query:    formValue(r, "q"),
		Category: formValue(r, "category"),
	}

	projects, err := h.cachedProjects(r)
	if err != nil {
		slog.Error("failed to load projects", "error", err)
		data.LoadError = true
	} else {
		data.Categories = collectFacets(projects, func(p model.Project) string { return p.Category })
		data.Projects = filterList(projects, data.Query, data.Category,
			func(p model.Project) []string { return []string{p.Title, p.Description, p.Client} },
			func(p model.Project) string { return p.Category })
	}

	meta := h.pageMeta(seo.Page{
		Title:       "Work",
		Description: "Selected projects across branding, web, and product design.",
		Path:        "/work",
	})
	if err := h.renderer.Render(w, r, "site/work", render.TemplateData{Title: "Work", Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render work page", "error", err)
	}
}

// WorkDetailData holds data for a single project page.
type WorkDetailData struct {
	Project model.Project
	More    []model.Project
}

// WorkDetail renders a single project.
func (h *FrontendHandler) WorkDetail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	project, err := h.queries.GetProjectByID(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	data := WorkDetailData{Project: project}
	if projects, perr := h.cachedProjects(r); perr == nil {
		for _, p := range projects {
			if p.ID != project.ID && len(data.More) < homeFeaturedLimit {
				data.More = append(data.More, p)
			}
		}
	}

	meta := h.pageMeta(seo.Page{
		Title:       project.Title,
		Description: project.Description,
		Path:        fmt.Sprintf("/work/%d", project.ID),
		Image:       project.ImageURL,
	})
	if err := h.renderer.Render(w, r, "site/work_detail", render.TemplateData{Title: project.Title, Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render project page", "error", err)
	}
}

// JournalData holds data for the public journal listing.
type JournalData struct {
	Posts      []model.BlogPost
	Query      string
	Category   string
	Categories []string
	LoadError  bool
}

// Journal renders the journal listing over published posts only.
func (h *FrontendHandler) Journal(w http.ResponseWriter, r *http.Request) {
	data := JournalData{
		Query:    formValue(r, "q"),
		Category: formValue(r, "category"),
	}

	posts, err := h.cachedPosts(r)
	if err != nil {
		slog.Error("failed to load posts", "error", err)
		data.LoadError = true
	} else {
		data.Categories = collectFacets(posts, func(p model.BlogPost) string { return p.Category })
		data.Posts = filterList(posts, data.Query, data.Category,
			func(p model.BlogPost) []string { return []string{p.Title, p.Excerpt} },
			func(p model.BlogPost) string { return p.Category })
	}

	meta := h.pageMeta(seo.Page{
		Title:       "Journal",
		Description: "Notes on design, process, and running a small studio.",
		Path:        "/journal",
	})
	if err := h.renderer.Render(w, r, "site/journal", render.TemplateData{Title: "Journal", Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render journal page", "error", err)
	}
}

// JournalDetailData holds data for a single journal post page.
type JournalDetailData struct {
	Post model.BlogPost
	More []model.BlogPost
}

// JournalDetail renders a single published post. Unpublished posts are
// not reachable here regardless of ID.
func (h *FrontendHandler) JournalDetail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	post, err := h.queries.GetPublishedBlogPostByID(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	data := JournalDetailData{Post: post}
	if posts, perr := h.cachedPosts(r); perr == nil {
		for _, p := range posts {
			if p.ID != post.ID && len(data.More) < homeFeaturedLimit {
				data.More = append(data.More, p)
			}
		}
	}

	page := seo.Page{
		Title:       post.Title,
		Description: post.Excerpt,
		Body:        post.Content,
		Path:        fmt.Sprintf("/journal/%d", post.ID),
		Image:       post.ImageURL,
		IsArticle:   true,
	}
	meta := h.pageMeta(page)
	meta.Schema = seo.BuildArticleSchema(page, seo.Site{Name: siteName, URL: h.siteURL}, post.AuthorName, post.CreatedAt, post.UpdatedAt)
	if err := h.renderer.Render(w, r, "site/journal_detail", render.TemplateData{Title: post.Title, Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render journal post", "error", err)
	}
}

// ContactData holds data for the contact page.
type ContactData struct {
	Services  []model.Service
	Form      ContactFormValues
	Errors    map[string]string
	Submitted bool
}

// ContactFormValues echoes submitted values back into the form.
type ContactFormValues struct {
	Name     string
	Email    string
	Company  string
	Service  string
	Budget   string
	Timeline string
	Message  string
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	data := ContactData{}
	if services, err := h.cachedServices(r); err == nil {
		data.Services = services
	}

	meta := h.pageMeta(seo.Page{
		Title:       "Contact",
		Description: "Tell us about your project and we will get back within two working days.",
		Path:        "/contact",
	})
	if err := h.renderer.Render(w, r, "site/contact", render.TemplateData{Title: "Contact", Data: data, Meta: meta}); err != nil {
		logAndInternalError(w, "failed to render contact page", "error", err)
	}
}

// ContactSubmit validates and stores a contact submission, then renders
// the success panel with a reset link back to a fresh form.
func (h *FrontendHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectContact, "Invalid form data")
		return
	}

	form := ContactFormValues{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Company:  formValue(r, "company"),
		Service:  formValue(r, "service"),
		Budget:   formValue(r, "budget"),
		Timeline: formValue(r, "timeline"),
		Message:  formValue(r, "message"),
	}

	errs := make(map[string]string)
	if form.Name == "" {
		errs["name"] = "Name is required"
	}
	if form.Email == "" {
		errs["email"] = "Email is required"
	} else if !isValidEmail(form.Email) {
		errs["email"] = "Enter a valid email address"
	}
	if form.Service == "" {
		errs["service"] = "Select a service"
	}
	if form.Message == "" {
		errs["message"] = "Message is required"
	}

	if len(errs) > 0 {
		data := ContactData{Form: form, Errors: errs}
		if services, err := h.cachedServices(r); err == nil {
			data.Services = services
		}
		if err := h.renderer.Render(w, r, "site/contact", render.TemplateData{Title: "Contact", Data: data}); err != nil {
			logAndInternalError(w, "failed to render contact page", "error", err)
		}
		return
	}

	ip := clientIP(r)
	country := ""
	if h.geo != nil {
		country = h.geo.Country(ip)
	}

	now := time.Now()
	submission, err := h.queries.CreateContactSubmission(r.Context(), store.CreateContactSubmissionParams{
		Name:      form.Name,
		Email:     form.Email,
		Company:   form.Company,
		Service:   form.Service,
		Budget:    form.Budget,
		Timeline:  form.Timeline,
		Message:   form.Message,
		IP:        ip,
		UserAgent: summarizeUserAgent(r.UserAgent()),
		Country:   country,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to store contact submission", "error", err)
		flashError(w, r, h.renderer, redirectContact, "Something went wrong. Please try again")
		return
	}

	slog.Info("contact submission received", "submission_id", submission.ID, "service", submission.Service, "country", country)
	_ = h.eventService.LogContactEvent(r.Context(), model.EventLevelInfo, "New contact submission from "+submission.Name, nil, map[string]any{"submission_id": submission.ID, "service": submission.Service})

	data := ContactData{Submitted: true}
	if err := h.renderer.Render(w, r, "site/contact", render.TemplateData{Title: "Contact", Data: data}); err != nil {
		logAndInternalError(w, "failed to render contact page", "error", err)
	}
}

// NotFound renders the public 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "site/404", render.TemplateData{Title: "Not Found"}); err != nil {
		slog.Error("failed to render 404 page", "error", err)
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// Sitemap serves sitemap.xml covering static pages, projects, and posts.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	builder := seo.NewSitemapBuilder(h.siteURL)
	builder.AddHomepage()
	for _, slug := range []string{"about", "services", "work", "journal", "contact"} {
		builder.AddPage(seo.SitemapPage{Slug: slug})
	}

	if projects, err := h.queries.ListProjects(r.Context()); err == nil {
		for _, p := range projects {
			builder.AddPage(seo.SitemapPage{Slug: fmt.Sprintf("work/%d", p.ID), UpdatedAt: p.UpdatedAt})
		}
	}
	if posts, err := h.queries.ListPublishedBlogPosts(r.Context()); err == nil {
		for _, p := range posts {
			builder.AddPage(seo.SitemapPage{Slug: fmt.Sprintf("journal/%d", p.ID), UpdatedAt: p.UpdatedAt})
		}
	}

	xml, err := builder.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(xml)
}

// Robots serves robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.siteURL, false, "")))
}

// SecurityTxt serves /.well-known/security.txt.
func (h *FrontendHandler) SecurityTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateSecurityTxt("mailto:security@"+hostOf(h.siteURL), time.Now().AddDate(1, 0, 0))))
}

// hostOf strips the scheme from a site URL for building contact addresses.
func hostOf(siteURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(siteURL, "https://"), "http://")
	if idx := strings.Index(s, "/"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

// summarizeUserAgent reduces a raw User-Agent header to a short
// "Browser version on OS" summary for the admin detail view.
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.Parse(raw)
	if ua.Name == "" {
		return raw
	}
	summary := ua.Name
	if ua.Version != "" {
		summary += " " + ua.Version
	}
	if ua.OS != "" {
		summary += " on " + ua.OS
	}
	return summary
}

// takeFeaturedProjects returns up to limit featured projects, falling
// back to the newest ones when nothing is flagged.
func takeFeaturedProjects(projects []model.Project, limit int) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if p.Featured && len(out) < limit {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		for _, p := range projects {
			if len(out) < limit {
				out = append(out, p)
			}
		}
	}
	return out
}

// takePopularServices returns up to limit popular services, falling
// back to the first ones when nothing is flagged.
func takePopularServices(services []model.Service, limit int) []model.Service {
	var out []model.Service
	for _, s := range services {
		if s.Popular && len(out) < limit {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		for _, s := range services {
			if len(out) < limit {
				out = append(out, s)
			}
		}
	}
	return out
}
