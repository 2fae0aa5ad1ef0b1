package carousel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateAdmitsInRequestOrder(t *testing.T) {
	g := newGate()
	tickets := []ticket{g.take(), g.take(), g.take(), g.take()}

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	// Start the goroutines back to front.
	for i := len(tickets) - 1; i >= 0; i-- {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tickets[i].acquire(context.Background()))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			g.release()
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestGateCancelledTicketPassesTurn(t *testing.T) {
	g := newGate()
	first, second, third := g.take(), g.take(), g.take()

	require.NoError(t, first.acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, second.acquire(ctx), context.Canceled)

	acquired := make(chan struct{})
	go func() {
		if third.acquire(context.Background()) == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("third ticket acquired while the gate was held")
	case <-time.After(20 * time.Millisecond):
	}

	g.release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third ticket never acquired")
	}
	g.release()
}
