package feed

import "time"

// ProfileStats are page-level aggregates for a profile header,
// computed from the profile's normalized feed.
type ProfileStats struct {
	PostCount    int
	SharedCount  int
	TotalLikes   int
	AverageLikes float64
	LastPosted   time.Time
}

func Summarize(items []Item) ProfileStats {
	var s ProfileStats
	for _, item := range items {
		if item.IsShared() {
			s.SharedCount++
			continue
		}
		post, ok := item.(Post)
		if !ok {
			continue
		}
		s.PostCount++
		s.TotalLikes += post.LikesCount
		if post.PublishedAt.After(s.LastPosted) {
			s.LastPosted = post.PublishedAt
		}
	}
	if s.PostCount > 0 {
		s.AverageLikes = float64(s.TotalLikes) / float64(s.PostCount)
	}
	return s
}
