// worker/pool.go
package worker

import (
	"context"
	"sync"
)

// Job is a unit of background work.
type Job func(ctx context.Context) error

// Result reports a finished job that failed.
type Result struct {
	JobID string
	Err   error
}

// Pool runs submitted jobs on a single worker in submission order, so a
// caller can enqueue dependent writes and rely on their sequence.
type Pool struct {
	jobs    chan jobWrapper
	onError func(Result)
	pending sync.WaitGroup
	stopped chan struct{}

	mu     sync.RWMutex
	closed bool
}

type jobWrapper struct {
	id string
	fn Job
}

// NewPool starts the worker. onError, if non-nil, is called from the worker
// goroutine for every job that returns an error.
func NewPool(bufferSize int, onError func(Result)) *Pool {
	p := &Pool{
		jobs:    make(chan jobWrapper, bufferSize),
		onError: onError,
		stopped: make(chan struct{}),
	}

	go p.worker()

	return p
}

func (p *Pool) worker() {
	defer close(p.stopped)
	ctx := context.Background()
	for job := range p.jobs {
		if err := job.fn(ctx); err != nil && p.onError != nil {
			p.onError(Result{JobID: job.id, Err: err})
		}
		p.pending.Done()
	}
}

// Submit enqueues fn. It reports false once the pool has been closed.
func (p *Pool) Submit(id string, fn Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.pending.Add(1)
	p.jobs <- jobWrapper{id: id, fn: fn}
	return true
}

// Flush blocks until every job submitted so far has run.
func (p *Pool) Flush() {
	p.pending.Wait()
}

// Close drains outstanding jobs and stops the worker. Safe to call twice.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.stopped
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	<-p.stopped
}
