// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sandeshshrestha/studio-go/internal/model"
)

const blogPostColumns = "id, title, excerpt, content, author_name, author_avatar, author_role, " +
	"category, tags, published, featured, image_url, read_time, scheduled_at, created_at, updated_at"

func scanBlogPost(row interface{ Scan(...any) error }) (model.BlogPost, error) {
	var b model.BlogPost
	err := row.Scan(&b.ID, &b.Title, &b.Excerpt, &b.Content, &b.AuthorName, &b.AuthorAvatar,
		&b.AuthorRole, &b.Category, &b.Tags, &b.Published, &b.Featured, &b.ImageURL,
		&b.ReadTime, &b.ScheduledAt, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func collectBlogPosts(rows *sql.Rows) ([]model.BlogPost, error) {
	defer rows.Close()
	var posts []model.BlogPost
	for rows.Next() {
		b, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, b)
	}
	return posts, rows.Err()
}

// CreateBlogPostParams holds the fields for CreateBlogPost.
type CreateBlogPostParams struct {
	Title        string
	Excerpt      string
	Content      string
	AuthorName   string
	AuthorAvatar string
	AuthorRole   string
	Category     string
	Tags         string // JSON array
	Published    bool
	Featured     bool
	ImageURL     string
	ReadTime     string
	ScheduledAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateBlogPost inserts a blog post and returns the stored row.
func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (model.BlogPost, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO blog_posts (title, excerpt, content, author_name, author_avatar, author_role,
			category, tags, published, featured, image_url, read_time, scheduled_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Excerpt, arg.Content, arg.AuthorName, arg.AuthorAvatar, arg.AuthorRole,
		arg.Category, arg.Tags, arg.Published, arg.Featured, arg.ImageURL, arg.ReadTime,
		nullTimeArg(arg.ScheduledAt), timeArg(arg.CreatedAt), timeArg(arg.UpdatedAt))
	if err != nil {
		return model.BlogPost{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.BlogPost{}, err
	}
	return q.GetBlogPostByID(ctx, id)
}

// GetBlogPostByID fetches a blog post by primary key.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx,
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ?", id))
}

// ListBlogPosts returns all posts, featured first then newest first.
func (q *Queries) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+blogPostColumns+" FROM blog_posts ORDER BY featured DESC, created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// ListPublishedBlogPosts returns only published posts, featured first
// then newest first.
func (q *Queries) ListPublishedBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE published = ? ORDER BY featured DESC, created_at DESC, id DESC",
		true)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// GetPublishedBlogPostByID fetches a post only if it is published.
func (q *Queries) GetPublishedBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx,
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ? AND published = ?", id, true))
}

// ListScheduledBlogPostsDue returns unpublished posts whose scheduled
// time has passed.
func (q *Queries) ListScheduledBlogPostsDue(ctx context.Context, now time.Time) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
		false, timeArg(now))
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// CountBlogPosts returns the number of blog posts.
func (q *Queries) CountBlogPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_posts").Scan(&n)
	return n, err
}

// UpdateBlogPostParams holds the fields for UpdateBlogPost. LoadedAt is
// the updated_at precondition, as in UpdateProjectParams.
type UpdateBlogPostParams struct {
	ID           int64
	Title        string
	Excerpt      string
	Content      string
	AuthorName   string
	AuthorAvatar string
	AuthorRole   string
	Category     string
	Tags         string // JSON array
	Published    bool
	Featured     bool
	ImageURL     string
	ReadTime     string
	ScheduledAt  sql.NullTime
	UpdatedAt    time.Time
	LoadedAt     time.Time
}

// UpdateBlogPost replaces a post's fields, guarded by the updated_at
// precondition.
func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (model.BlogPost, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = ?, excerpt = ?, content = ?, author_name = ?,
			author_avatar = ?, author_role = ?, category = ?, tags = ?, published = ?,
			featured = ?, image_url = ?, read_time = ?, scheduled_at = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		arg.Title, arg.Excerpt, arg.Content, arg.AuthorName, arg.AuthorAvatar, arg.AuthorRole,
		arg.Category, arg.Tags, arg.Published, arg.Featured, arg.ImageURL, arg.ReadTime,
		nullTimeArg(arg.ScheduledAt), timeArg(arg.UpdatedAt), arg.ID, timeArg(arg.LoadedAt))
	if err != nil {
		return model.BlogPost{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.BlogPost{}, err
	}
	if n == 0 {
		if _, err := q.GetBlogPostByID(ctx, arg.ID); err != nil {
			return model.BlogPost{}, err
		}
		return model.BlogPost{}, ErrStaleWrite
	}
	return q.GetBlogPostByID(ctx, arg.ID)
}

// SetBlogPostPublished writes the published flag unconditionally and
// clears any pending schedule once published.
func (q *Queries) SetBlogPostPublished(ctx context.Context, id int64, published bool, updatedAt time.Time) error {
	if published {
		_, err := q.db.ExecContext(ctx,
			"UPDATE blog_posts SET published = ?, scheduled_at = NULL, updated_at = ? WHERE id = ?",
			published, timeArg(updatedAt), id)
		return err
	}
	_, err := q.db.ExecContext(ctx,
		"UPDATE blog_posts SET published = ?, updated_at = ? WHERE id = ?",
		published, timeArg(updatedAt), id)
	return err
}

// SetBlogPostFeatured writes the featured flag unconditionally.
func (q *Queries) SetBlogPostFeatured(ctx context.Context, id int64, featured bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE blog_posts SET featured = ?, updated_at = ? WHERE id = ?",
		featured, timeArg(updatedAt), id)
	return err
}

// DeleteBlogPost removes a blog post.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = ?", id)
	return err
}
