// Package mainloop provides the single execution context that owns all widget
// state. Tasks dispatched to a Loop run one at a time, in dispatch order.
package mainloop

import (
	"context"
	"sync"
	"time"
)

// Executor runs a task on the UI context. The default executor runs the task
// directly on the loop goroutine; a bubbletea program can instead forward it as
// a message so it runs inside Update.
type Executor func(task func())

type Option func(*Loop)

// WithExecutor replaces the default executor.
func WithExecutor(exec Executor) Option {
	return func(l *Loop) {
		l.exec = exec
	}
}

// Loop is an unbounded FIFO task queue drained by Run.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	exec    Executor
	stopped bool
}

// New creates a loop. Call Run to start draining it.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		exec: func(task func()) { task() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dispatch queues task behind everything already dispatched. Safe to call from
// any goroutine, including from inside a running task.
func (l *Loop) Dispatch(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// DispatchAfter queues task once d has elapsed. The returned cancel func stops
// the task if it has not been queued yet.
func (l *Loop) DispatchAfter(d time.Duration, task func()) (cancel func()) {
	t := time.AfterFunc(d, func() {
		l.Dispatch(task)
	})
	return func() {
		t.Stop()
	}
}

// Sync dispatches task and blocks until it has run. It must not be called from
// inside a task, and only works with the default executor.
func (l *Loop) Sync(task func()) {
	done := make(chan struct{})
	l.Dispatch(func() {
		defer close(done)
		task()
	})
	<-done
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.pending = nil
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			batch := l.pending
			l.pending = nil
			l.mu.Unlock()

			if len(batch) == 0 {
				break
			}
			for _, task := range batch {
				if ctx.Err() != nil {
					return
				}
				l.exec(task)
			}
		}
	}
}
