// SPDX-License-Identifier: AGPL-3.0-only

// Package worker runs fire-and-forget backend calls (view tracking,
// remote debug logs) off the request path.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one deferred backend call. The worker owns the context.
type Job func(ctx context.Context) error

type Worker struct {
	jobs    chan Job
	stop    chan struct{}
	timeout time.Duration
	logger  *zap.Logger
	mu      sync.Mutex
	active  bool
	wg      sync.WaitGroup
}

func New(buffer int, timeout time.Duration, logger *zap.Logger) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		jobs:    make(chan Job, buffer),
		timeout: timeout,
		logger:  logger,
	}
}

func (w *Worker) Start() {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		w.logger.Warn("worker already running")
		return
	}
	w.active = true
	// Fresh channel per cycle so a stopped worker can be started again.
	w.stop = make(chan struct{})
	stop := w.stop
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case job := <-w.jobs:
				w.run(job)
			case <-stop:
				// Drain whatever is already queued, then leave.
				for {
					select {
					case job := <-w.jobs:
						w.run(job)
					default:
						return
					}
				}
			}
		}
	}()
	w.logger.Info("background worker started")
}

func (w *Worker) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := job(ctx); err != nil {
		// Telemetry only; a failed hit is logged and forgotten.
		w.logger.Debug("background job failed", zap.Error(err))
	}
}

// Enqueue hands a job to the worker without blocking. When the queue
// is full the job is dropped; nothing here is worth stalling a page
// render for.
func (w *Worker) Enqueue(job Job) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		w.logger.Debug("worker queue full, dropping job")
		return false
	}
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	w.active = false
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("background worker stopped")
}
