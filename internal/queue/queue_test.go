package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitPreservesOrder(t *testing.T) {
	w := NewWriter(16, zap.NewNop())

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 1; i <= 3; i++ {
		i := i
		ok := w.Submit(fmt.Sprintf("task-%d", i), func(ctx context.Context) error {
			mu.Lock()
			got = append(got, i)
			if len(got) == 3 {
				close(done)
			}
			mu.Unlock()
			return nil
		})
		require.True(t, ok)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not drain the queue")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFailingTaskDoesNotStopNext(t *testing.T) {
	w := NewWriter(16, zap.NewNop())

	done := make(chan struct{})
	w.Submit("boom", func(ctx context.Context) error {
		return fmt.Errorf("storage unavailable")
	})
	w.Submit("panic", func(ctx context.Context) error {
		panic("unexpected")
	})
	w.Submit("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task after a failure was never executed")
	}
}

func TestSubmitNeverBlocksAndRejectsOnOverflow(t *testing.T) {
	// Worker not started, so the channel fills deterministically.
	w := NewWriter(2, zap.NewNop())

	noop := func(ctx context.Context) error { return nil }
	assert.True(t, w.Submit("a", noop))
	assert.True(t, w.Submit("b", noop))
	assert.False(t, w.Submit("c", noop), "overflow must reject, not block")
	assert.Equal(t, 2, w.Depth())
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	w := NewWriter(4, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	ran := make(chan struct{})
	w.Submit("first", func(ctx context.Context) error {
		close(ran)
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never ran")
	}

	cancel()
	// Submissions after cancel are still accepted; they die with the process.
	assert.True(t, w.Submit("orphan", func(ctx context.Context) error { return nil }))
}
