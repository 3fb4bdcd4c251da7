// SPDX-License-Identifier: AGPL-3.0-only
package widget

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/notify"
)

// UnlikeNotice is shown when the instance does not support taking a
// like back. A deliberate platform asymmetry, not an oversight.
const UnlikeNotice = "Unliking is not supported here yet."

// AlreadySharedNotice is shown on a repeat share attempt.
const AlreadySharedNotice = "You already shared this post."

type Liker interface {
	Like(ctx context.Context, articleID string) error
}

type FollowService interface {
	Follow(ctx context.Context, follower, followed string) error
	Unfollow(ctx context.Context, follower, followed string) error
}

type Announcer interface {
	Announce(ctx context.Context, articleID string) error
}

// LikeButton pairs the liked flag with the visible like count. Both
// move optimistically and both roll back together.
type LikeButton struct {
	mu          sync.Mutex
	articleID   string
	count       int
	allowUnlike bool

	toggle   *Toggle
	svc      Liker
	notifier notify.Notifier
}

func NewLikeButton(articleID string, liked bool, count int, allowUnlike bool, svc Liker, notifier notify.Notifier, logger *zap.Logger) *LikeButton {
	return &LikeButton{
		articleID:   articleID,
		count:       count,
		allowUnlike: allowUnlike,
		toggle:      NewToggle(liked, notifier, logger),
		svc:         svc,
		notifier:    notifier,
	}
}

func (b *LikeButton) Liked() bool { return b.toggle.On() }

func (b *LikeButton) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *LikeButton) Detach() { b.toggle.Detach() }

// Toggle flips the like. With unliking disabled, reversing a like is a
// notified no-op and no request is made.
func (b *LikeButton) Toggle(ctx context.Context) error {
	if b.toggle.On() && !b.allowUnlike {
		if b.notifier != nil {
			b.notifier.Notify(UnlikeNotice)
		}
		return nil
	}

	var delta int
	err := b.toggle.Flip(ctx, func(ctx context.Context) error {
		b.mu.Lock()
		if b.toggle.On() {
			delta = 1
		} else {
			delta = -1
		}
		b.count += delta
		b.mu.Unlock()
		return b.svc.Like(ctx, b.articleID)
	})
	if err != nil && delta != 0 {
		b.mu.Lock()
		b.count -= delta
		b.mu.Unlock()
	}
	return err
}

// FollowButton toggles a subscription between two accounts.
type FollowButton struct {
	follower string
	followed string
	toggle   *Toggle
	svc      FollowService
}

func NewFollowButton(follower, followed string, following bool, svc FollowService, notifier notify.Notifier, logger *zap.Logger) *FollowButton {
	return &FollowButton{
		follower: follower,
		followed: followed,
		toggle:   NewToggle(following, notifier, logger),
		svc:      svc,
	}
}

func (b *FollowButton) Following() bool { return b.toggle.On() }

func (b *FollowButton) Detach() { b.toggle.Detach() }

func (b *FollowButton) Toggle(ctx context.Context) error {
	return b.toggle.Flip(ctx, func(ctx context.Context) error {
		// On() already reflects the optimistic desired state here.
		if b.toggle.On() {
			return b.svc.Follow(ctx, b.follower, b.followed)
		}
		return b.svc.Unfollow(ctx, b.follower, b.followed)
	})
}

// ReblogButton is one-way: a share can be attempted once per widget,
// and the gateway never retries an announce.
type ReblogButton struct {
	articleID string
	toggle    *Toggle
	svc       Announcer
	notifier  notify.Notifier
}

func NewReblogButton(articleID string, shared bool, svc Announcer, notifier notify.Notifier, logger *zap.Logger) *ReblogButton {
	return &ReblogButton{
		articleID: articleID,
		toggle:    NewToggle(shared, notifier, logger),
		svc:       svc,
		notifier:  notifier,
	}
}

func (b *ReblogButton) Shared() bool { return b.toggle.On() }

func (b *ReblogButton) Detach() { b.toggle.Detach() }

func (b *ReblogButton) Share(ctx context.Context) error {
	if b.toggle.On() {
		if b.notifier != nil {
			b.notifier.Notify(AlreadySharedNotice)
		}
		return nil
	}
	return b.toggle.Flip(ctx, func(ctx context.Context) error {
		return b.svc.Announce(ctx, b.articleID)
	})
}
