// SPDX-License-Identifier: AGPL-3.0-only
package c2s

import (
	"context"
	"fmt"
	"net/http"
)

// Feed fetches the public feed.
func (c *Client) Feed(ctx context.Context) (*FeedResponse, error) {
	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/c2s/feed", "", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserFeed fetches the feed scoped to one user.
func (c *Client) UserFeed(ctx context.Context, username string) (*FeedResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/c2s/feed/"+username, "", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserPosts fetches every post authored by one user.
func (c *Client) UserPosts(ctx context.Context, handle string) (*FeedResponse, error) {
	if handle == "" {
		return nil, fmt.Errorf("handle is required")
	}
	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/c2s/@"+handle, "", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Post fetches a single post by author handle and id.
func (c *Client) Post(ctx context.Context, handle, id string) (*FeedResponse, error) {
	if handle == "" || id == "" {
		return nil, fmt.Errorf("handle and id are required")
	}
	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/c2s/@"+handle+"/"+id, "", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a full-text query over posts and users. The backend
// expects the raw query wrapped in literal double quotes and then
// percent-encoded, so "a b" travels as query=%22a%20b%22.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	rawQuery := "query=" + encodeQueryComponent(`"`+query+`"`)
	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/c2s/search", rawQuery, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecommendPosts returns suggested posts. A 501 means the instance has
// the feature switched off; callers treat that as an empty set.
func (c *Client) RecommendPosts(ctx context.Context) ([]RawPost, error) {
	var posts []RawPost
	if err := c.do(ctx, http.MethodGet, "/c2s/recommend_posts", "", nil, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// RecommendFollows returns suggested accounts for a user to follow.
func (c *Client) RecommendFollows(ctx context.Context, userID string) ([]RawUser, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	var users []RawUser
	if err := c.do(ctx, http.MethodGet, "/c2s/"+userID+"/recommend_follows", "", nil, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PendingFollows lists follow requests awaiting a decision.
func (c *Client) PendingFollows(ctx context.Context) ([]RawUser, error) {
	var users []RawUser
	if err := c.do(ctx, http.MethodPost, "/c2s/follows/pending", "", struct{}{}, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserDetails returns the authenticated user's own record.
func (c *Client) UserDetails(ctx context.Context) (*RawUser, error) {
	var user RawUser
	if err := c.do(ctx, http.MethodPost, "/c2s/details/user", "", struct{}{}, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserCSSURL is the stylesheet link for a user's custom theme. It is a
// plain URL for templates, not an API call.
func (c *Client) UserCSSURL(userID string) string {
	return c.BaseURL + "/c2s/" + userID + "/css"
}
