// SPDX-License-Identifier: AGPL-3.0-only
package feed

import (
	"encoding/json"
	"time"

	"github.com/quillfeed/quill/internal/c2s"
)

// DefaultFallbackBio is substituted whenever an author never wrote one.
// The record invariant is that Bio is never empty past normalization.
const DefaultFallbackBio = "This author prefers to let their posts do the talking."

// publishedLayouts are tried in order against the raw published field.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer is a pure transform from wire shapes to records. It never
// returns nil slices and never fails: bad dates become the epoch
// sentinel, bad style JSON becomes no override.
type Normalizer struct {
	fallbackBio string
}

func NewNormalizer(fallbackBio string) *Normalizer {
	if fallbackBio == "" {
		fallbackBio = DefaultFallbackBio
	}
	return &Normalizer{fallbackBio: fallbackBio}
}

// Items normalizes a feed page, merging plain posts and shares into a
// single list. A nil response yields an empty list.
func (n *Normalizer) Items(resp *c2s.FeedResponse) []Item {
	if resp == nil {
		return []Item{}
	}

	bodyStyle := parseStyle(resp.PostBodyCSS)
	titleStyle := parseStyle(resp.PostTitleCSS)

	items := make([]Item, 0, len(resp.Results)+len(resp.ShareResults))
	for _, raw := range resp.Results {
		items = append(items, n.post(raw, bodyStyle, titleStyle))
	}
	for _, raw := range resp.ShareResults {
		items = append(items, SharedPost{
			Post:         n.post(raw.RawPost, bodyStyle, titleStyle),
			SharerHandle: raw.SharerHandle,
			SharerHost:   raw.SharerHost,
			SharedAt:     parseWhen(raw.SharedOn),
		})
	}
	return items
}

// Posts normalizes a bare post array, as returned by the
// recommendation endpoints.
func (n *Normalizer) Posts(raw []c2s.RawPost) []Post {
	posts := make([]Post, 0, len(raw))
	for _, r := range raw {
		posts = append(posts, n.post(r, nil, nil))
	}
	return posts
}

// Users normalizes a raw user array. DisplayName falls back to the
// handle, Bio to the canned filler.
func (n *Normalizer) Users(raw []c2s.RawUser) []User {
	users := make([]User, 0, len(raw))
	for _, r := range raw {
		u := User{
			GlobalID:    r.GlobalID,
			Handle:      r.Handle,
			Host:        r.Host,
			DisplayName: r.DisplayName,
			Bio:         r.Bio,
			IsFollowed:  r.IsFollowed,
			CustomCSS:   r.CustomCSS,
		}
		if u.DisplayName == "" {
			u.DisplayName = u.Handle
		}
		if u.Bio == "" {
			u.Bio = n.fallbackBio
		}
		users = append(users, u)
	}
	return users
}

func (n *Normalizer) post(raw c2s.RawPost, bodyStyle, titleStyle Style) Post {
	p := Post{
		GlobalID:          raw.GlobalID,
		Author:            raw.Author,
		AuthorHost:        raw.AuthorHost,
		AuthorDisplayName: raw.AuthorDisplayName,
		Title:             raw.Title,
		Body:              raw.Body,
		Summary:           raw.Summary,
		PublishedAt:       parseWhen(raw.Published),
		LikesCount:        raw.LikesCount,
		IsLiked:           raw.IsLiked,
		IsFollowedAuthor:  raw.IsFollowed,
		Tags:              raw.Tags,
		Bio:               raw.Bio,
		BodyStyle:         bodyStyle,
		TitleStyle:        titleStyle,
	}
	if p.LikesCount < 0 {
		p.LikesCount = 0
	}
	if p.AuthorDisplayName == "" {
		p.AuthorDisplayName = p.Author
	}
	if p.Bio == "" {
		p.Bio = n.fallbackBio
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Summary == "" {
		p.Summary = summarize(p.Body)
	}
	return p
}

// parseWhen parses the published field. Unparsable input maps to the
// epoch sentinel so rendering never sees a raw string or an error.
func parseWhen(s string) time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// parseStyle decodes a JSON-encoded style map. Malformed input is
// swallowed: the page simply renders without the override.
func parseStyle(s string) Style {
	if s == "" {
		return nil
	}
	var style Style
	if err := json.Unmarshal([]byte(s), &style); err != nil {
		return nil
	}
	if len(style) == 0 {
		return nil
	}
	return style
}
