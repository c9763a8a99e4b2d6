// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sandeshshrestha/studio-go/internal/ai"
	"github.com/sandeshshrestha/studio-go/internal/auth"
	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/config"
	"github.com/sandeshshrestha/studio-go/internal/geoip"
	"github.com/sandeshshrestha/studio-go/internal/handler"
	"github.com/sandeshshrestha/studio-go/internal/logging"
	"github.com/sandeshshrestha/studio-go/internal/markdown"
	"github.com/sandeshshrestha/studio-go/internal/middleware"
	"github.com/sandeshshrestha/studio-go/internal/render"
	"github.com/sandeshshrestha/studio-go/internal/scheduler"
	"github.com/sandeshshrestha/studio-go/internal/service"
	"github.com/sandeshshrestha/studio-go/internal/session"
	"github.com/sandeshshrestha/studio-go/internal/store"
	"github.com/sandeshshrestha/studio-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Northlight Studio - marketing site and back-office\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_DRIVER         Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_PATH           SQLite database path (default: ./data/studio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_DSN            MySQL DSN when STUDIO_DB_DRIVER is mysql\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SITE_URL          Public site URL for sitemap links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ADMIN_ALLOWLIST   Comma-separated emails allowed to register\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_GEOIP_DB_PATH     GeoLite2-Country.mmdb path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_OPENAI_API_KEY    OpenAI key for journal draft suggestions (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("studio %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Initialize database
	var db *sql.DB
	driver := store.DriverSQLite
	if cfg.UseMySQL() {
		driver = store.DriverMySQL
		slog.Info("initializing database", "driver", driver)
		db, err = store.NewMySQL(cfg.DBDSN)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); mkErr != nil {
			return fmt.Errorf("creating data directory: %w", mkErr)
		}
		slog.Info("initializing database", "driver", driver, "path", cfg.DBPath)
		db, err = store.NewDB(cfg.DBPath)
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, driver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache manager; Redis when configured, in-process memory otherwise
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	cacheBackend := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cacheTTL,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	cacheManager := cache.NewManager(cacheBackend, cacheTTL)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	// GeoIP country resolution for contact submissions, optional
	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, country resolution disabled", "error", err)
		geo, _ = geoip.NewResolver("")
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("error closing geoip database", "error", err)
		}
	}()
	if geo.Enabled() {
		slog.Info("geoip resolver initialized", "path", cfg.GeoIPDBPath)
	}

	// AI metadata suggestions for journal drafts, optional
	aiService := ai.NewService(cfg.OpenAIKey, cfg.OpenAIModel)
	if aiService.Enabled() {
		slog.Info("ai suggestions enabled", "model", cfg.OpenAIModel)
	}

	// Template renderer over the embedded templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Media storage
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	mediaService := service.NewMediaService(db, cfg.UploadsDir)

	eventService := service.NewEventService(db)

	// Scheduler: scheduled post publishing and event log retention
	sched := scheduler.New(db, logger, cacheManager, geo)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Compress())
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized")

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	allowlist := auth.NewAllowlist(cfg.AdminAllowlist)

	// Handlers
	frontendHandler := handler.NewFrontendHandler(db, renderer, cacheManager, geo, cfg.SiteURL)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, allowlist)
	adminHandler := handler.NewAdminHandler(db, renderer, cacheManager)
	projectsHandler := handler.NewProjectsHandler(db, renderer, cacheManager)
	servicesHandler := handler.NewServicesHandler(db, renderer, cacheManager)
	blogHandler := handler.NewBlogHandler(db, renderer, cacheManager, markdown.NewRenderer(), aiService)
	contactsHandler := handler.NewContactsHandler(db, renderer)
	usersHandler := handler.NewUsersHandler(db, renderer)
	mediaHandler := handler.NewMediaHandler(db, renderer, mediaService)
	eventsHandler := handler.NewEventsHandler(db, renderer)

	// Public site routes
	r.Get(handler.RouteRoot, frontendHandler.Home)
	r.Get("/about", frontendHandler.About)
	r.Get("/services", frontendHandler.Services)
	r.Get("/work", frontendHandler.Work)
	r.Get("/work/{id}", frontendHandler.WorkDetail)
	r.Get("/journal", frontendHandler.Journal)
	r.Get("/journal/{id}", frontendHandler.JournalDetail)
	r.Get("/contact", frontendHandler.ContactForm)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.ContactRateLimit(0.2, 3))
		r.Post("/contact", frontendHandler.ContactSubmit)
	})

	r.Get("/sitemap.xml", frontendHandler.Sitemap)
	r.Get("/robots.txt", frontendHandler.Robots)
	r.Get("/.well-known/security.txt", frontendHandler.SecurityTxt)

	// Favicon and embedded static assets
	favicon, _ := web.Static.ReadFile("static/dist/favicon.ico")
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/x-icon")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(favicon)
	})

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Uploaded media
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)

		// Auth routes, reachable without a session
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)

		// Back-office routes, session plus an admin directory entry required
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionManager))
			r.Use(middleware.LoadIdentity(sessionManager, db))

			r.Get(handler.RouteRoot, adminHandler.Dashboard)

			r.With(middleware.RequireAction(auth.ActionViewEvents, eventService)).
				Get(handler.RouteEvents, eventsHandler.List)

			// Content management. Listings only need the view action so
			// read-only roles can browse; forms and mutations need manage.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(auth.ActionViewContent, eventService))

				r.Get(handler.RouteProjects, projectsHandler.List)
				r.Get(handler.RouteServices, servicesHandler.List)
				r.Get(handler.RoutePosts, blogHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAction(auth.ActionManageContent, eventService))

					r.Get(handler.RouteProjects+handler.RouteSuffixNew, projectsHandler.NewForm)
					r.Post(handler.RouteProjects, projectsHandler.Create)
					r.Get(handler.RouteProjectsID, projectsHandler.EditForm)
					r.Post(handler.RouteProjectsID, projectsHandler.Update)
					r.Post(handler.RouteProjectsID+handler.RouteSuffixFeature, projectsHandler.ToggleFeatured)
					r.Post(handler.RouteProjectsID+handler.RouteSuffixDelete, projectsHandler.Delete)

					r.Get(handler.RouteServices+handler.RouteSuffixNew, servicesHandler.NewForm)
					r.Post(handler.RouteServices, servicesHandler.Create)
					r.Get(handler.RouteServicesID, servicesHandler.EditForm)
					r.Post(handler.RouteServicesID, servicesHandler.Update)
					r.Post(handler.RouteServicesID+handler.RouteSuffixPopular, servicesHandler.TogglePopular)
					r.Post(handler.RouteServicesID+handler.RouteSuffixDelete, servicesHandler.Delete)

					r.Get(handler.RoutePosts+handler.RouteSuffixNew, blogHandler.NewForm)
					r.Post(handler.RoutePosts, blogHandler.Create)
					r.Post(handler.RoutePosts+handler.RouteSuffixSuggest, blogHandler.Suggest)
					r.Get(handler.RoutePostsID, blogHandler.EditForm)
					r.Post(handler.RoutePostsID, blogHandler.Update)
					r.Post(handler.RoutePostsID+handler.RouteSuffixPublish, blogHandler.TogglePublished)
					r.Post(handler.RoutePostsID+handler.RouteSuffixFeature, blogHandler.ToggleFeatured)
					r.Post(handler.RoutePostsID+handler.RouteSuffixDelete, blogHandler.Delete)
				})
			})

			// Contact submissions
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(auth.ActionViewContacts, eventService))

				r.Get(handler.RouteContacts, contactsHandler.List)
				r.Get(handler.RouteContactsID, contactsHandler.Detail)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAction(auth.ActionManageContacts, eventService))

					r.Post(handler.RouteContactsID, contactsHandler.Update)
					r.Post(handler.RouteContactsID+handler.RouteSuffixDelete, contactsHandler.Delete)
				})
			})

			// Media library
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(auth.ActionViewMedia, eventService))

				r.Get(handler.RouteMedia, mediaHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAction(auth.ActionManageMedia, eventService))

					r.Post(handler.RouteMedia+handler.RouteSuffixUpload, mediaHandler.Upload)
					r.Post(handler.RouteMediaID+handler.RouteSuffixDelete, mediaHandler.Delete)
				})
			})

			// Admin user management
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(auth.ActionManageUsers, eventService))

				r.Get(handler.RouteUsers, usersHandler.List)
				r.Get(handler.RouteUsers+handler.RouteSuffixNew, usersHandler.NewForm)
				r.Post(handler.RouteUsers, usersHandler.Create)
				r.Get(handler.RouteUsersID, usersHandler.EditForm)
				r.Post(handler.RouteUsersID, usersHandler.Update)
				r.Post(handler.RouteUsersID+handler.RouteSuffixDelete, usersHandler.Delete)
			})
		})
	})

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
