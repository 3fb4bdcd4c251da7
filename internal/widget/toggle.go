// SPDX-License-Identifier: AGPL-3.0-only

// Package widget drives the interactive feed controls. Each widget
// owns its own state exclusively; the only transitions are the
// optimistic flip, the commit, and the rollback.
package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/notify"
)

// ErrPending is returned when a toggle is poked while its previous
// request is still settling. One request per widget at a time.
var ErrPending = errors.New("widget: toggle already in flight")

// Action performs the remote side of a toggle.
type Action func(ctx context.Context) error

type state int

const (
	stateIdle state = iota
	statePending
)

// Toggle is the Idle/Pending machine behind every two-state control.
// Flipping updates the visible state immediately; the remote result
// either commits it or rolls it back with a single notification.
type Toggle struct {
	mu       sync.Mutex
	id       uuid.UUID
	on       bool
	previous bool
	state    state
	detached bool

	notifier notify.Notifier
	logger   *zap.Logger
}

func NewToggle(initial bool, notifier notify.Notifier, logger *zap.Logger) *Toggle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toggle{
		id:       uuid.New(),
		on:       initial,
		notifier: notifier,
		logger:   logger,
	}
}

func (t *Toggle) On() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

// Detach marks the owning view as unmounted. A late completion against
// a detached toggle is absorbed without state change or notification.
func (t *Toggle) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detached = true
}

// Flip moves Idle(current) to Pending(!current, current), runs action,
// and settles. The view state is flipped before action runs, so
// callers reading On() mid-flight see the optimistic value.
func (t *Toggle) Flip(ctx context.Context, action Action) error {
	if err := t.begin(); err != nil {
		return err
	}
	err := action(ctx)
	t.settle(err)
	return err
}

func (t *Toggle) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == statePending {
		return ErrPending
	}
	t.previous = t.on
	t.on = !t.on
	t.state = statePending
	return nil
}

func (t *Toggle) settle(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = stateIdle

	if t.detached {
		// View is gone; whatever happened, nobody is watching.
		t.logger.Debug("toggle settled after detach",
			zap.String("widget", t.id.String()),
			zap.Error(err))
		return
	}
	if err == nil {
		return
	}

	t.on = t.previous
	t.logger.Debug("toggle rolled back",
		zap.String("widget", t.id.String()),
		zap.Error(err))
	if t.notifier != nil {
		t.notifier.Error(notify.MessageForError(err))
	}
}
