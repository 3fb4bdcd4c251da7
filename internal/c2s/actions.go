// SPDX-License-Identifier: AGPL-3.0-only
package c2s

import (
	"context"
	"fmt"
	"net/http"
)

// CreateArticle publishes a new post. Not retried: a duplicate article
// is worse than a visible failure.
func (c *Client) CreateArticle(ctx context.Context, article NewArticle) error {
	if article.Title == "" || article.Body == "" {
		return fmt.Errorf("title and body are required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/create_article", "", article, false, nil)
}

// UpdateArticle edits an existing post.
func (c *Client) UpdateArticle(ctx context.Context, edit ArticleEdit) error {
	if edit.GlobalID == "" {
		return fmt.Errorf("article id is required")
	}
	if edit.Title == "" || edit.Body == "" {
		return fmt.Errorf("title and body are required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/update_article", "", edit, false, nil)
}

// DeleteArticle removes a post the user authored.
func (c *Client) DeleteArticle(ctx context.Context, articleID string) error {
	if articleID == "" {
		return fmt.Errorf("article id is required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/delete_article", "", articleRef{ArticleID: articleID}, false, nil)
}

// Like records the user liking a post. The backend treats it as
// idempotent, so transient transport failures are retried.
func (c *Client) Like(ctx context.Context, articleID string) error {
	if articleID == "" {
		return fmt.Errorf("article id is required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/like", "", articleRef{ArticleID: articleID}, true, nil)
}

// Announce reblogs a post to the user's followers. At-most-once: a
// repeated announce would duplicate the share, so it is never retried.
func (c *Client) Announce(ctx context.Context, articleID string) error {
	if articleID == "" {
		return fmt.Errorf("article id is required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/announce", "", articleRef{ArticleID: articleID}, false, nil)
}

// Follow subscribes follower to followed. Followed may be a plain
// handle, a handle@host pair, or a feed URL discovered via the rss
// package.
func (c *Client) Follow(ctx context.Context, follower, followed string) error {
	if follower == "" || followed == "" {
		return fmt.Errorf("follower and followed are required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/follow", "", followChange{Follower: follower, Followed: followed}, true, nil)
}

// Unfollow removes the subscription.
func (c *Client) Unfollow(ctx context.Context, follower, followed string) error {
	if follower == "" || followed == "" {
		return fmt.Errorf("follower and followed are required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/unfollow", "", followChange{Follower: follower, Followed: followed}, true, nil)
}

// UpdateUser edits the authenticated user's profile.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) error {
	return c.do(ctx, http.MethodPost, "/c2s/update/user", "", update, false, nil)
}

// AddLog forwards a client-side debug message to the backend log sink.
func (c *Client) AddLog(ctx context.Context, message string) error {
	if message == "" {
		return fmt.Errorf("message is required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/add_log", "", logLine{Message: message}, true, nil)
}

// TrackView records a page view for the instance's own analytics.
func (c *Client) TrackView(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/track_view", "", viewHit{Path: path}, true, nil)
}
