// SPDX-License-Identifier: AGPL-3.0-only
package c2s

// Wire shapes for the c2s JSON API. Field names follow the backend
// exactly; nothing here is display-ready, that is the feed package's
// job.

type RawPost struct {
	GlobalID          string   `json:"global_id"`
	Author            string   `json:"author"`
	AuthorHost        string   `json:"author_host"`
	AuthorDisplayName string   `json:"author_display_name"`
	Title             string   `json:"title"`
	Body              string   `json:"body"`
	Summary           string   `json:"summary"`
	Published         string   `json:"published"`
	LikesCount        int      `json:"likes_count"`
	IsLiked           bool     `json:"is_liked"`
	IsFollowed        bool     `json:"is_followed"`
	Tags              []string `json:"tags"`
	Bio               string   `json:"bio"`
}

type RawSharedPost struct {
	RawPost
	SharerHandle string `json:"sharer"`
	SharerHost   string `json:"sharer_host"`
	SharedOn     string `json:"shared_on"`
}

type RawUser struct {
	GlobalID    string `json:"global_id"`
	Handle      string `json:"handle"`
	Host        string `json:"host"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	IsFollowed  bool   `json:"is_followed"`
	CustomCSS   string `json:"custom_css"`
}

// FeedResponse is returned by /c2s/feed and /c2s/@:username[/:id].
// PostBodyCSS and PostTitleCSS are JSON-encoded style maps applying to
// every post in the page.
type FeedResponse struct {
	Results      []RawPost       `json:"results"`
	PostBodyCSS  string          `json:"post_body_css"`
	PostTitleCSS string          `json:"post_title_css"`
	ShareResults []RawSharedPost `json:"share_results"`
}

type SearchResponse struct {
	Posts []RawPost `json:"posts"`
	Users []RawUser `json:"users"`
}

type NewArticle struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type ArticleEdit struct {
	GlobalID string   `json:"global_id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Summary  string   `json:"summary,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type articleRef struct {
	ArticleID string `json:"article_id"`
}

type followChange struct {
	Follower string `json:"follower"`
	Followed string `json:"followed"`
}

type Registration struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type Session struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
	Token  string `json:"token"`
}

type UserUpdate struct {
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CustomCSS   string `json:"custom_css,omitempty"`
}

type logLine struct {
	Message string `json:"message"`
}

type viewHit struct {
	Path string `json:"path"`
}
