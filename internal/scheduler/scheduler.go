// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs: publishing scheduled journal
// posts, purging old events, and reloading the GeoIP database.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeshshrestha/studio-go/internal/cache"
	"github.com/sandeshshrestha/studio-go/internal/geoip"
	"github.com/sandeshshrestha/studio-go/internal/model"
	"github.com/sandeshshrestha/studio-go/internal/store"
)

// eventRetention is how long audit events are kept.
const eventRetention = 90 * 24 * time.Hour

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
	caches *cache.Manager
	geo    *geoip.Resolver
}

// New creates a scheduler. The cache manager and geo resolver may be nil;
// the corresponding jobs are skipped.
func New(db *sql.DB, logger *slog.Logger, caches *cache.Manager, geo *geoip.Resolver) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
		caches: caches,
		geo:    geo,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Scheduled posts are checked every minute
	if _, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.publishDuePosts(); err != nil {
			s.logger.Error("failed to publish scheduled posts", "error", err)
		}
	}); err != nil {
		return err
	}

	// Event purge runs nightly, off-peak
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.purgeOldEvents(); err != nil {
			s.logger.Error("failed to purge old events", "error", err)
		}
	}); err != nil {
		return err
	}

	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 4 * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("geoip reload failed", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDuePosts publishes journal posts whose scheduled time has passed.
func (s *Scheduler) publishDuePosts() error {
	ctx := context.Background()
	queries := store.New(s.db)

	now := time.Now()
	posts, err := queries.ListScheduledBlogPostsDue(ctx, now)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		return nil
	}

	published := 0
	for _, post := range posts {
		if err := s.publishPost(ctx, queries, post, now); err != nil {
			s.logger.Error("failed to publish scheduled post",
				"post_id", post.ID,
				"post_title", post.Title,
				"error", err,
			)
			continue
		}
		published++

		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"post_title", post.Title,
			"scheduled_at", post.ScheduledAt.Time,
		)
	}

	if published > 0 && s.caches != nil {
		s.caches.InvalidatePosts(ctx)
	}

	return nil
}

func (s *Scheduler) publishPost(ctx context.Context, queries *store.Queries, post model.BlogPost, now time.Time) error {
	if err := queries.SetBlogPostPublished(ctx, post.ID, true, now); err != nil {
		return err
	}

	metadata := map[string]any{
		"post_id":      post.ID,
		"post_title":   post.Title,
		"scheduled_at": post.ScheduledAt.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	}
	metadataJSON, _ := json.Marshal(metadata)

	return queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryContent,
		Message:   "Scheduled post published: " + post.Title,
		AccountID: sql.NullInt64{},
		Metadata:  string(metadataJSON),
		CreatedAt: now,
	})
}

// purgeOldEvents removes audit events past the retention window.
func (s *Scheduler) purgeOldEvents() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().Add(-eventRetention)
	deleted, err := queries.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("purged old events", "count", deleted, "cutoff", cutoff)
	}
	return nil
}
