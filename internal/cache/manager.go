package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

// Cache keys for public content listings.
const (
	KeyProjects       = "public:projects"
	KeyServices       = "public:services"
	KeyPublishedPosts = "public:posts"
)

// Manager holds the typed caches for public content listings and
// invalidates them when admin writes change the underlying rows.
type Manager struct {
	backend Cacher

	Projects *TypedCache[[]model.Project]
	Services *TypedCache[[]model.Service]
	Posts    *TypedCache[[]model.BlogPost]
}

// NewManager creates a cache manager on top of the given backend.
func NewManager(backend Cacher, defaultTTL time.Duration) *Manager {
	return &Manager{
		backend:  backend,
		Projects: NewTypedCache[[]model.Project](backend, defaultTTL),
		Services: NewTypedCache[[]model.Service](backend, defaultTTL),
		Posts:    NewTypedCache[[]model.BlogPost](backend, defaultTTL),
	}
}

// InvalidateProjects drops the cached project listing.
func (m *Manager) InvalidateProjects(ctx context.Context) {
	if err := m.Projects.Delete(ctx, KeyProjects); err != nil {
		slog.Warn("failed to invalidate project cache", "error", err)
	}
}

// InvalidateServices drops the cached service listing.
func (m *Manager) InvalidateServices(ctx context.Context) {
	if err := m.Services.Delete(ctx, KeyServices); err != nil {
		slog.Warn("failed to invalidate service cache", "error", err)
	}
}

// InvalidatePosts drops the cached published post listing.
func (m *Manager) InvalidatePosts(ctx context.Context) {
	if err := m.Posts.Delete(ctx, KeyPublishedPosts); err != nil {
		slog.Warn("failed to invalidate post cache", "error", err)
	}
}

// ClearAll clears every cached entry and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) {
	if err := m.backend.Clear(ctx); err != nil {
		slog.Warn("failed to clear cache", "error", err)
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
}

// Stats returns backend statistics when available.
func (m *Manager) Stats() (Stats, bool) {
	sp, ok := m.backend.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
