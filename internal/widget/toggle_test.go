package widget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillfeed/quill/internal/c2s"
	"github.com/quillfeed/quill/internal/notify"
)

// recorder captures notifications for assertions.
type recorder struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func TestFlipCommitsOnSuccess(t *testing.T) {
	rec := &recorder{}
	tg := NewToggle(false, rec, nil)

	var seenDuringFlight bool
	err := tg.Flip(context.Background(), func(ctx context.Context) error {
		seenDuringFlight = tg.On()
		return nil
	})

	require.NoError(t, err)
	// The visible state flips before the request runs.
	assert.True(t, seenDuringFlight)
	assert.True(t, tg.On())
	assert.Empty(t, rec.errors)
	assert.Empty(t, rec.infos)
}

func TestFlipRollsBackOnFailure(t *testing.T) {
	rec := &recorder{}
	tg := NewToggle(false, rec, nil)

	err := tg.Flip(context.Background(), func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.False(t, tg.On())
	require.Len(t, rec.errors, 1)
	assert.Equal(t, notify.TransportMessage, rec.errors[0])
}

func TestFlipUsesStatusMessage(t *testing.T) {
	rec := &recorder{}
	tg := NewToggle(false, rec, nil)

	tg.Flip(context.Background(), func(ctx context.Context) error {
		return &c2s.StatusError{Code: 418}
	})

	require.Len(t, rec.errors, 1)
	assert.Equal(t, notify.MessageForStatus(418), rec.errors[0])
}

func TestFlipWhilePendingIsRefused(t *testing.T) {
	tg := NewToggle(false, &recorder{}, nil)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- tg.Flip(context.Background(), func(ctx context.Context) error {
			close(inFlight)
			<-release
			return nil
		})
	}()

	<-inFlight
	err := tg.Flip(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPending)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, tg.On())
}

func TestDetachedToggleSettlesSilently(t *testing.T) {
	rec := &recorder{}
	tg := NewToggle(false, rec, nil)

	err := tg.Flip(context.Background(), func(ctx context.Context) error {
		tg.Detach()
		return errors.New("late failure")
	})

	require.Error(t, err)
	assert.Empty(t, rec.errors)
	assert.Empty(t, rec.infos)
}

type fakeLiker struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeLiker) Like(ctx context.Context, articleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func TestLikeButtonOptimisticCount(t *testing.T) {
	svc := &fakeLiker{}
	rec := &recorder{}
	b := NewLikeButton("p1", false, 4, false, svc, rec, nil)

	err := b.Toggle(context.Background())

	require.NoError(t, err)
	assert.True(t, b.Liked())
	assert.Equal(t, 5, b.Count())
	assert.Equal(t, 1, svc.calls)
}

func TestLikeButtonRevertsCountOnFailure(t *testing.T) {
	svc := &fakeLiker{err: errors.New("boom")}
	rec := &recorder{}
	b := NewLikeButton("p1", false, 4, false, svc, rec, nil)

	err := b.Toggle(context.Background())

	require.Error(t, err)
	assert.False(t, b.Liked())
	assert.Equal(t, 4, b.Count())
	require.Len(t, rec.errors, 1)
}

func TestLikeButtonUnlikeDisallowed(t *testing.T) {
	svc := &fakeLiker{}
	rec := &recorder{}
	b := NewLikeButton("p1", true, 9, false, svc, rec, nil)

	err := b.Toggle(context.Background())

	require.NoError(t, err)
	assert.True(t, b.Liked())
	assert.Equal(t, 9, b.Count())
	// No request leaves the widget when the action is refused.
	assert.Equal(t, 0, svc.calls)
	require.Len(t, rec.infos, 1)
	assert.Equal(t, UnlikeNotice, rec.infos[0])
}

func TestLikeButtonUnlikeAllowed(t *testing.T) {
	svc := &fakeLiker{}
	b := NewLikeButton("p1", true, 9, true, svc, &recorder{}, nil)

	err := b.Toggle(context.Background())

	require.NoError(t, err)
	assert.False(t, b.Liked())
	assert.Equal(t, 8, b.Count())
	assert.Equal(t, 1, svc.calls)
}

type fakeFollows struct {
	followed   []string
	unfollowed []string
	err        error
}

func (f *fakeFollows) Follow(ctx context.Context, follower, followed string) error {
	f.followed = append(f.followed, followed)
	return f.err
}

func (f *fakeFollows) Unfollow(ctx context.Context, follower, followed string) error {
	f.unfollowed = append(f.unfollowed, followed)
	return f.err
}

func TestFollowButtonRoutesByDesiredState(t *testing.T) {
	svc := &fakeFollows{}
	b := NewFollowButton("ada", "bob", false, svc, &recorder{}, nil)

	require.NoError(t, b.Toggle(context.Background()))
	assert.True(t, b.Following())
	assert.Equal(t, []string{"bob"}, svc.followed)

	require.NoError(t, b.Toggle(context.Background()))
	assert.False(t, b.Following())
	assert.Equal(t, []string{"bob"}, svc.unfollowed)
}

func TestFollowButtonRollsBack(t *testing.T) {
	svc := &fakeFollows{err: errors.New("boom")}
	rec := &recorder{}
	b := NewFollowButton("ada", "bob", false, svc, rec, nil)

	require.Error(t, b.Toggle(context.Background()))
	assert.False(t, b.Following())
	require.Len(t, rec.errors, 1)
}

type fakeAnnouncer struct {
	calls int
	err   error
}

func (f *fakeAnnouncer) Announce(ctx context.Context, articleID string) error {
	f.calls++
	return f.err
}

func TestReblogButtonSharesOnce(t *testing.T) {
	svc := &fakeAnnouncer{}
	rec := &recorder{}
	b := NewReblogButton("p1", false, svc, rec, nil)

	require.NoError(t, b.Share(context.Background()))
	assert.True(t, b.Shared())
	assert.Equal(t, 1, svc.calls)

	require.NoError(t, b.Share(context.Background()))
	assert.Equal(t, 1, svc.calls)
	require.Len(t, rec.infos, 1)
	assert.Equal(t, AlreadySharedNotice, rec.infos[0])
}

func TestReblogButtonRollsBackOnFailure(t *testing.T) {
	svc := &fakeAnnouncer{err: errors.New("boom")}
	rec := &recorder{}
	b := NewReblogButton("p1", false, svc, rec, nil)

	require.Error(t, b.Share(context.Background()))
	assert.False(t, b.Shared())
	// A failed share stays failed; the gateway never re-sends an
	// announce on its own.
	assert.Equal(t, 1, svc.calls)
	require.Len(t, rec.errors, 1)
}
