// SPDX-License-Identifier: AGPL-3.0-only
package feed

import "sort"

// Order sorts items most-recent-first in place and returns the slice.
// The sort is stable: the server pre-orders same-second posts, and that
// relative order must survive.
func Order(items []Item) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].When().After(items[j].When())
	})
	return items
}

// OrderPosts is Order for bare post lists.
func OrderPosts(posts []Post) []Post {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts
}
