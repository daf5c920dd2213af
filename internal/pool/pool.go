// Package pool runs tasks on a fixed number of concurrent workers.
//
// Submissions never block: tasks wait in an unbounded FIFO queue until a
// worker slot frees up. Admission is done with a weighted semaphore so that
// no more than the configured number of tasks ever run at once.
package pool

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 4

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("pool: submit on closed pool")

// Task is a unit of work. A task reports its own outcome; the pool does not
// look at it.
type Task func()

// Pool is a fixed-size worker pool.
type Pool struct {
	ctx     context.Context
	workers int
	sem     *semaphore.Weighted

	mu      sync.Mutex
	queue   []Task
	closed  bool
	dropped int

	wake    chan struct{}
	running sync.WaitGroup
	stopped chan struct{}
	done    chan struct{}
}

// New starts a pool running at most workers tasks at a time. Values below
// one are raised to one. When ctx is cancelled, tasks still queued are
// dropped; tasks already running are left to finish.
func New(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		ctx:     ctx,
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Submit queues task for execution.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.notify()
	return nil
}

// Close stops accepting submissions. Tasks already queued still run.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.notify()
}

// Done is closed once the pool is closed and every task that was admitted
// has finished. It is the barrier over the whole batch.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Stopped is closed once no further task will be started, either because
// the queue drained after Close or because the context was cancelled.
// Tasks already running may still be in progress.
func (p *Pool) Stopped() <-chan struct{} {
	return p.stopped
}

// Dropped returns the number of queued tasks discarded because the context
// was cancelled before they could start. It is final once Stopped is closed.
func (p *Pool) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Pool) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) dispatch() {
	defer close(p.done)
	defer p.running.Wait()

	for {
		task, ok := p.next()
		if !ok {
			p.drop()
			close(p.stopped)
			return
		}
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.mu.Lock()
			p.dropped++
			p.mu.Unlock()
			p.drop()
			close(p.stopped)
			return
		}

		p.running.Add(1)
		go func() {
			defer p.running.Done()
			defer p.sem.Release(1)
			task()
		}()
	}
}

// next pops the oldest queued task. It reports false once the pool is
// closed and drained, or the context is cancelled.
func (p *Pool) next() (Task, bool) {
	for {
		if p.ctx.Err() != nil {
			return nil, false
		}

		p.mu.Lock()
		if len(p.queue) > 0 {
			task := p.queue[0]
			p.queue[0] = nil
			p.queue = p.queue[1:]
			p.mu.Unlock()
			return task, true
		}
		closed := p.closed
		p.mu.Unlock()

		if closed {
			return nil, false
		}

		select {
		case <-p.wake:
		case <-p.ctx.Done():
		}
	}
}

// drop discards everything left in the queue and rejects further
// submissions.
func (p *Pool) drop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropped += len(p.queue)
	p.queue = nil
	p.closed = true
}
