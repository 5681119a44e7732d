// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"sync"

	"github.com/gammazero/workerpool"
)

// DefaultSize is the default maximum number of simultaneously running DNS
// worker goroutines.
const DefaultSize = 10000

// Pool is a (size-limited) pool of DNS worker goroutines. Submitting new tasks
// never blocks: tasks that cannot be started immediately because all workers
// are busy are queued in an unbounded waiting queue instead.
type Pool struct {
	workers *workerpool.WorkerPool
	mu      sync.RWMutex // protects stopped against concurrent submissions.
	stopped bool
}

// New returns a pool with at most the specified number of simultaneously
// running workers. A size less than one is treated as one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		workers: workerpool.New(size),
	}
}

// Submit a task to the pool, where it gets enqueued to be executed on an
// available worker. Submit never waits for the task to start or finish. It
// returns false if the pool has already been stopped, dropping the task.
func (p *Pool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	p.workers.Submit(task)
	return true
}

// Waiting returns the number of submitted tasks still waiting for a free
// worker.
func (p *Pool) Waiting() int {
	return p.workers.WaitingQueueSize()
}

// StopWait waits for all submitted tasks to finish and then shuts down the
// pool. Further submissions are dropped. StopWait can be called multiple
// times.
func (p *Pool) StopWait() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	p.workers.StopWait()
}
