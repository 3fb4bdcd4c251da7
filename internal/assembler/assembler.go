// SPDX-License-Identifier: AGPL-3.0-only

// Package assembler composes page-level view models: fetch, normalize,
// order, and keep "failed to load" distinct from "nothing here yet".
package assembler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/feed"
)

// API is the slice of the c2s gateway the assemblers consume.
type API interface {
	Feed(ctx context.Context) (*c2s.FeedResponse, error)
	UserFeed(ctx context.Context, username string) (*c2s.FeedResponse, error)
	UserPosts(ctx context.Context, handle string) (*c2s.FeedResponse, error)
	Post(ctx context.Context, handle, id string) (*c2s.FeedResponse, error)
	Search(ctx context.Context, query string) (*c2s.SearchResponse, error)
	RecommendPosts(ctx context.Context) ([]c2s.RawPost, error)
	RecommendFollows(ctx context.Context, userID string) ([]c2s.RawUser, error)
	PendingFollows(ctx context.Context) ([]c2s.RawUser, error)
	UserDetails(ctx context.Context) (*c2s.RawUser, error)
}

type Assembler struct {
	api    API
	norm   *feed.Normalizer
	logger *zap.Logger
}

func New(api API, norm *feed.Normalizer, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{api: api, norm: norm, logger: logger}
}

// FeedView is a page of ordered items. Err being set means the fetch
// failed; an empty Items with a nil Err means the feed really is empty.
type FeedView struct {
	Items []feed.Item
	Err   error
}

func (v FeedView) Failed() bool { return v.Err != nil }

// ProfileView is a user page: their items plus header aggregates.
type ProfileView struct {
	Handle string
	Items  []feed.Item
	Stats  feed.ProfileStats
	Err    error
}

func (v ProfileView) Failed() bool { return v.Err != nil }

// PostView is a single-post page.
type PostView struct {
	Item feed.Item
	Err  error
}

func (v PostView) Failed() bool   { return v.Err != nil }
func (v PostView) NotFound() bool { return v.Err == nil && v.Item == nil }

type SearchView struct {
	Query string
	Posts []feed.Post
	Users []feed.User
	Err   error
}

func (v SearchView) Failed() bool { return v.Err != nil }

// RecommendView carries suggestions. Disabled means the instance
// answered 501 for the feature; pages hide the section instead of
// showing an error.
type RecommendView struct {
	Posts    []feed.Post
	Follows  []feed.User
	Disabled bool
	Err      error
}

type FollowsView struct {
	Pending []feed.User
	Err     error
}

// SettingsView is the account settings page: the viewer's own record.
type SettingsView struct {
	User feed.User
	Err  error
}

func (v SettingsView) Failed() bool { return v.Err != nil }

func (a *Assembler) PublicFeed(ctx context.Context) FeedView {
	resp, err := a.api.Feed(ctx)
	if err != nil {
		a.logger.Warn("public feed fetch failed", zap.Error(err))
		return FeedView{Items: []feed.Item{}, Err: err}
	}
	return FeedView{Items: feed.Order(a.norm.Items(resp))}
}

func (a *Assembler) HomeFeed(ctx context.Context, username string) FeedView {
	resp, err := a.api.UserFeed(ctx, username)
	if err != nil {
		a.logger.Warn("home feed fetch failed", zap.String("user", username), zap.Error(err))
		return FeedView{Items: []feed.Item{}, Err: err}
	}
	return FeedView{Items: feed.Order(a.norm.Items(resp))}
}

func (a *Assembler) Profile(ctx context.Context, handle string) ProfileView {
	resp, err := a.api.UserPosts(ctx, handle)
	if err != nil {
		a.logger.Warn("profile fetch failed", zap.String("handle", handle), zap.Error(err))
		return ProfileView{Handle: handle, Items: []feed.Item{}, Err: err}
	}
	items := feed.Order(a.norm.Items(resp))
	return ProfileView{Handle: handle, Items: items, Stats: feed.Summarize(items)}
}

func (a *Assembler) SinglePost(ctx context.Context, handle, id string) PostView {
	resp, err := a.api.Post(ctx, handle, id)
	if err != nil {
		var statusErr *c2s.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return PostView{}
		}
		a.logger.Warn("post fetch failed", zap.String("handle", handle), zap.String("id", id), zap.Error(err))
		return PostView{Err: err}
	}
	items := a.norm.Items(resp)
	if len(items) == 0 {
		return PostView{}
	}
	return PostView{Item: items[0]}
}

func (a *Assembler) Search(ctx context.Context, query string) SearchView {
	resp, err := a.api.Search(ctx, query)
	if err != nil {
		a.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return SearchView{Query: query, Posts: []feed.Post{}, Users: []feed.User{}, Err: err}
	}
	return SearchView{
		Query: query,
		Posts: feed.OrderPosts(a.norm.Posts(resp.Posts)),
		Users: a.norm.Users(resp.Users),
	}
}

func (a *Assembler) Recommendations(ctx context.Context, userID string) RecommendView {
	rawPosts, err := a.api.RecommendPosts(ctx)
	if disabled(err) {
		return RecommendView{Disabled: true, Posts: []feed.Post{}, Follows: []feed.User{}}
	}
	if err != nil {
		a.logger.Warn("recommended posts fetch failed", zap.Error(err))
		return RecommendView{Posts: []feed.Post{}, Follows: []feed.User{}, Err: err}
	}

	view := RecommendView{
		Posts:   feed.OrderPosts(a.norm.Posts(rawPosts)),
		Follows: []feed.User{},
	}
	if userID != "" {
		rawUsers, err := a.api.RecommendFollows(ctx, userID)
		if err != nil && !disabled(err) {
			a.logger.Warn("recommended follows fetch failed", zap.Error(err))
			view.Err = err
			return view
		}
		view.Follows = a.norm.Users(rawUsers)
	}
	return view
}

func (a *Assembler) PendingFollows(ctx context.Context) FollowsView {
	raw, err := a.api.PendingFollows(ctx)
	if err != nil {
		a.logger.Warn("pending follows fetch failed", zap.Error(err))
		return FollowsView{Pending: []feed.User{}, Err: err}
	}
	return FollowsView{Pending: a.norm.Users(raw)}
}

func (a *Assembler) Settings(ctx context.Context) SettingsView {
	raw, err := a.api.UserDetails(ctx)
	if err != nil {
		a.logger.Warn("user details fetch failed", zap.Error(err))
		return SettingsView{Err: err}
	}
	return SettingsView{User: a.norm.Users([]c2s.RawUser{*raw})[0]}
}

// disabled reports whether the backend answered 501 for the call,
// meaning the feature is switched off instance-wide.
func disabled(err error) bool {
	var statusErr *c2s.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotImplemented
}
