package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanja-cards/backend/internal/worker"
)

func TestPool_RunsInSubmissionOrder(t *testing.T) {
	p := worker.NewPool(4, nil)
	defer p.Close()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		require.True(t, p.Submit("job", func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	p.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestPool_ReportsErrors(t *testing.T) {
	var mu sync.Mutex
	var failed []worker.Result
	p := worker.NewPool(1, func(r worker.Result) {
		mu.Lock()
		failed = append(failed, r)
		mu.Unlock()
	})
	defer p.Close()

	boom := errors.New("boom")
	p.Submit("ok", func(context.Context) error { return nil })
	p.Submit("bad", func(context.Context) error { return boom })
	p.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].JobID)
	assert.ErrorIs(t, failed[0].Err, boom)
}

func TestPool_CloseDrainsAndRejects(t *testing.T) {
	p := worker.NewPool(8, nil)

	ran := 0
	for i := 0; i < 5; i++ {
		p.Submit("job", func(context.Context) error {
			ran++
			return nil
		})
	}
	p.Close()

	assert.Equal(t, 5, ran)
	assert.False(t, p.Submit("late", func(context.Context) error { return nil }))

	p.Close()
}
