// SPDX-License-Identifier: AGPL-3.0-only

// Package notify is the side-effect sink for user-facing messages.
// Views compose a Notifier in; nothing inherits anything.
package notify

import (
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/quillfeed/quill/internal/c2s"
)

// Notifier surfaces messages to whoever is watching the current view.
type Notifier interface {
	// Notify shows an informational message.
	Notify(msg string)
	// Error shows a failure message.
	Error(msg string)
}

// TransportMessage is shown when no response was received at all.
const TransportMessage = "Could not communicate with the server."

// MessageForStatus maps a backend status code to the small fixed set
// of user-facing texts.
func MessageForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The server did not understand that request."
	case http.StatusNotFound:
		return "Whatever you were looking for is not there."
	case http.StatusTeapot:
		return "The server is a teapot and refuses to brew."
	case http.StatusInternalServerError:
		return "The server had a problem of its own."
	default:
		return "Something went wrong talking to the server."
	}
}

// MessageForError picks the right user-facing text for a gateway
// failure.
func MessageForError(err error) string {
	var statusErr *c2s.StatusError
	if errors.As(err, &statusErr) {
		return MessageForStatus(statusErr.Code)
	}
	return TransportMessage
}

// Toast is a single message queued for the next render.
type Toast struct {
	Message string
	IsError bool
}

// Toasts collects messages during one request and drains them into the
// template. Safe for use from widget completion paths.
type Toasts struct {
	mu    sync.Mutex
	queue []Toast
}

func (t *Toasts) Notify(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, Toast{Message: msg})
}

func (t *Toasts) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, Toast{Message: msg, IsError: true})
}

func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.queue
	t.queue = nil
	return out
}

// LogNotifier mirrors notifications into the structured log, for the
// CLI surface and for anything headless.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l *LogNotifier) Notify(msg string) { l.Logger.Info(msg) }
func (l *LogNotifier) Error(msg string)  { l.Logger.Warn(msg) }

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(msg string) {
	for _, n := range m {
		n.Notify(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
