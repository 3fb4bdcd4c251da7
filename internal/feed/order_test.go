package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestOrderMostRecentFirst(t *testing.T) {
	items := []Item{
		Post{GlobalID: "old", PublishedAt: at(1)},
		SharedPost{Post: Post{GlobalID: "shared", PublishedAt: at(1)}, SharedAt: at(3)},
		Post{GlobalID: "new", PublishedAt: at(2)},
	}

	Order(items)

	require.Len(t, items, 3)
	assert.Equal(t, "shared", items[0].(SharedPost).GlobalID)
	assert.Equal(t, "new", items[1].(Post).GlobalID)
	assert.Equal(t, "old", items[2].(Post).GlobalID)
}

func TestOrderIsStable(t *testing.T) {
	same := at(5)
	items := []Item{
		Post{GlobalID: "a", PublishedAt: same},
		Post{GlobalID: "b", PublishedAt: same},
		Post{GlobalID: "c", PublishedAt: same},
	}

	Order(items)

	// Equal timestamps keep the server's relative order.
	assert.Equal(t, "a", items[0].(Post).GlobalID)
	assert.Equal(t, "b", items[1].(Post).GlobalID)
	assert.Equal(t, "c", items[2].(Post).GlobalID)
}

func TestOrderPosts(t *testing.T) {
	posts := []Post{
		{GlobalID: "old", PublishedAt: at(1)},
		{GlobalID: "new", PublishedAt: at(9)},
	}

	OrderPosts(posts)

	assert.Equal(t, "new", posts[0].GlobalID)
	assert.Equal(t, "old", posts[1].GlobalID)
}

func TestSummarize(t *testing.T) {
	items := []Item{
		Post{GlobalID: "a", PublishedAt: at(2), LikesCount: 4},
		Post{GlobalID: "b", PublishedAt: at(7), LikesCount: 2},
		SharedPost{Post: Post{GlobalID: "c", LikesCount: 100}, SharedAt: at(9)},
	}

	stats := Summarize(items)

	assert.Equal(t, 2, stats.PostCount)
	assert.Equal(t, 1, stats.SharedCount)
	assert.Equal(t, 6, stats.TotalLikes)
	assert.Equal(t, 3.0, stats.AverageLikes)
	assert.Equal(t, at(7), stats.LastPosted)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	assert.Zero(t, stats.PostCount)
	assert.Zero(t, stats.AverageLikes)
}
