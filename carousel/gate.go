package carousel

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// gate is a binary semaphore that admits holders in request order.
// semaphore.Weighted is FIFO among waiters, but goroutines reach Acquire in
// any order, so each request first waits for its predecessor to get through.
type gate struct {
	sem  *semaphore.Weighted
	mu   sync.Mutex
	tail chan struct{}
}

func newGate() *gate {
	return &gate{sem: semaphore.NewWeighted(1)}
}

// ticket reserves a place in line. Call it on the requesting goroutine.
type ticket struct {
	g    *gate
	prev chan struct{}
	mine chan struct{}
}

func (g *gate) take() ticket {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := ticket{g: g, prev: g.tail, mine: make(chan struct{})}
	g.tail = t.mine
	return t
}

// acquire blocks until the gate is held or ctx is done.
func (t ticket) acquire(ctx context.Context) error {
	defer close(t.mine)

	if t.prev != nil {
		select {
		case <-t.prev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return t.g.sem.Acquire(ctx, 1)
}

func (g *gate) release() {
	g.sem.Release(1)
}

