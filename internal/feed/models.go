// SPDX-License-Identifier: AGPL-3.0-only

// Package feed turns raw c2s payloads into display-ready records and
// keeps them in recency order. Records live only as long as the page
// that fetched them.
package feed

import (
	"sort"
	"strings"
	"time"
)

// Style is a parsed per-post style override. nil means absent or
// unparsable, which renders with the site default.
type Style map[string]string

// Inline renders the override as an inline CSS declaration list with
// deterministic key order.
func (s Style) Inline() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(s[k])
		b.WriteString(";")
	}
	return b.String()
}

type Post struct {
	GlobalID          string
	Author            string
	AuthorHost        string // empty for local accounts
	AuthorDisplayName string
	Title             string
	Body              string
	Summary           string
	PublishedAt       time.Time
	LikesCount        int
	IsLiked           bool
	IsFollowedAuthor  bool
	Tags              []string
	Bio               string
	BodyStyle         Style
	TitleStyle        Style
}

// SharedPost wraps a post someone rebroadcast into the viewer's feed.
type SharedPost struct {
	Post
	SharerHandle string
	SharerHost   string
	SharedAt     time.Time
}

type User struct {
	GlobalID    string
	Handle      string
	Host        string
	DisplayName string
	Bio         string
	IsFollowed  bool
	CustomCSS   string
}

// Item is either a Post or a SharedPost. When is the instant the item
// entered the feed, which for shares is the share time, not the
// underlying post's.
type Item interface {
	When() time.Time
	IsShared() bool
}

func (p Post) When() time.Time { return p.PublishedAt }
func (p Post) IsShared() bool  { return false }

func (s SharedPost) When() time.Time { return s.SharedAt }
func (s SharedPost) IsShared() bool  { return true }

// FullHandle is author@host for remote accounts, the bare handle for
// local ones.
func (p Post) FullHandle() string {
	if p.AuthorHost == "" {
		return p.Author
	}
	return p.Author + "@" + p.AuthorHost
}

func (u User) FullHandle() string {
	if u.Host == "" {
		return u.Handle
	}
	return u.Handle + "@" + u.Host
}
