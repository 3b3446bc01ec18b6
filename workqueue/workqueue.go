// Package workqueue implements an elastic pool of worker goroutines
// that pull Tasks off a shared FIFO, the Go counterpart of WorkQueue.c.
// A WorkQueue starts minWorkers goroutines permanently and spins up
// further workers, up to maxWorkers, whenever the queue backs up;
// workers beyond minWorkers that sit idle past idleTimeout exit,
// letting the pool shrink back down.
package workqueue

import (
	"fmt"
	"sync"
	"time"

	"github.com/HRI-EU/gobos/sync/multierror"
)

// defaultIdleTimeout is how long an elastic worker waits for a task
// before exiting, mirroring the original's fixed polling interval.
const defaultIdleTimeout = 100 * time.Millisecond

// WorkQueue is a pool of worker goroutines draining a shared taskList.
type WorkQueue struct {
	tasks *taskList

	minWorkers  int
	maxWorkers  int
	idleTimeout time.Duration

	mu     sync.Mutex
	live   int
	idle   int
	wg     sync.WaitGroup
	closed bool
	errs   *multierror.MultiError
}

// New creates a WorkQueue with minWorkers permanent workers and up to
// maxWorkers total, mirroring WorkQueue_init(self, minWorkers, maxWorkers).
func New(minWorkers, maxWorkers int) *WorkQueue {
	if minWorkers <= 0 || maxWorkers < minWorkers {
		panic("workqueue: require 0 < minWorkers <= maxWorkers")
	}
	q := &WorkQueue{
		tasks:       newTaskList(),
		minWorkers:  minWorkers,
		maxWorkers:  maxWorkers,
		idleTimeout: defaultIdleTimeout,
		errs:        multierror.NewMultiError(maxWorkers),
	}
	for i := 0; i < minWorkers; i++ {
		q.spawn(false)
	}
	return q
}

// spawn starts one worker goroutine. elastic workers time out and exit
// when idle; permanent (non-elastic) workers never time out on their
// own and only stop when the queue is closed.
func (q *WorkQueue) spawn(elastic bool) {
	q.mu.Lock()
	q.live++
	q.mu.Unlock()
	q.wg.Add(1)
	go q.worker(elastic)
}

func (q *WorkQueue) worker(elastic bool) {
	defer q.wg.Done()
	defer func() {
		q.mu.Lock()
		q.live--
		q.mu.Unlock()
	}()
	for {
		q.mu.Lock()
		q.idle++
		q.mu.Unlock()
		task, ok := q.tasks.popWait(q.idleTimeout)
		q.mu.Lock()
		q.idle--
		q.mu.Unlock()
		if !ok {
			if q.tasks.quitting() {
				return
			}
			if elastic {
				// Idle past the timeout with nothing queued: shed this
				// worker and let the pool shrink back toward minWorkers.
				return
			}
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					q.errs.Add(&workerPanic{r})
				}
			}()
			task.run()
		}()
		if task.err != nil {
			q.errs.Add(task.err)
		}
	}
}

type workerPanic struct{ v interface{} }

func (p *workerPanic) Error() string {
	return fmt.Sprintf("workqueue: worker panic: %v", p.v)
}

// Enqueue submits a Task for execution, growing the pool with an
// elastic worker if every current worker is likely busy, mirroring
// WorkQueue_enqueue's demand-driven worker creation.
func (q *WorkQueue) Enqueue(t *Task) {
	q.tasks.push(t)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if q.idle == 0 && q.live < q.maxWorkers {
		q.live++
		q.wg.Add(1)
		go q.worker(true)
	}
}

// Submit builds and enqueues a Task in one call, returning it so the
// caller can Wait on completion.
func (q *WorkQueue) Submit(fn TaskFunc, instance, userData interface{}, callback TaskCallback) *Task {
	t := NewTask(fn, instance, userData, callback)
	q.Enqueue(t)
	return t
}

// LiveWorkers reports the current number of running worker goroutines,
// for tests and diagnostics.
func (q *WorkQueue) LiveWorkers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.live
}

// Close signals every worker to stop once the queue drains, waits for
// them to exit, and returns the aggregated errors from all tasks that
// ran (nil if none failed), via sync/multierror.
func (q *WorkQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.tasks.setQuit(true)
	q.wg.Wait()
	return q.errs.ErrorOrNil()
}
