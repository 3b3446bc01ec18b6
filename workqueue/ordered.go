package workqueue

import (
	"fmt"
	"sync"
)

// OrderedResults re-sequences Task outcomes that complete out of
// submission order back into submission order, for callers that
// enqueue work concurrently but want results drained the way they were
// submitted. It is adapted from grailbio's OrderedQueue: an inserter
// (a Task's TaskCallback) reports a result tagged with its submission
// index, and Drain hands results back strictly in index order,
// blocking until the next one in sequence has arrived.
//
// A bounded capacity keeps a burst of out-of-order completions from
// growing without limit: Report blocks once capacity pending results
// are buffered and the earliest submitted one still hasn't arrived.
type OrderedResults struct {
	next     int
	capacity int
	pending  map[int]*Task
	cond     *sync.Cond
	closed   bool
	err      error
}

// NewOrderedResults creates an OrderedResults that can hold up to
// capacity results ahead of the next one Drain is waiting for.
func NewOrderedResults(capacity int) *OrderedResults {
	if capacity < 1 {
		panic("workqueue: OrderedResults capacity must be at least 1")
	}
	return &OrderedResults{
		capacity: capacity,
		pending:  make(map[int]*Task),
		cond:     sync.NewCond(&sync.Mutex{}),
	}
}

// Report records task's completion as the result with the given
// submission index. It blocks if doing so would exceed capacity and
// index is not the next one Drain is waiting for.
func (r *OrderedResults) Report(index int, task *Task) error {
	r.cond.L.Lock()
	defer r.cond.L.Unlock()

	_, haveNext := r.pending[r.next]
	for r.err == nil && ((haveNext && len(r.pending) == r.capacity) ||
		(!haveNext && index != r.next && len(r.pending) == r.capacity-1)) {
		r.cond.Wait()
		_, haveNext = r.pending[r.next]
	}
	if r.err != nil {
		return r.err
	}
	if r.closed {
		panic("workqueue: OrderedResults closed before Report finished")
	}

	r.pending[index] = task
	if index == r.next {
		r.cond.Broadcast()
	}
	return nil
}

// Close marks that no further results will be Reported. err, if
// non-nil, is delivered to any blocked or future Report/Drain call.
func (r *OrderedResults) Close(err error) {
	r.cond.L.Lock()
	defer r.cond.L.Unlock()
	if r.err == nil {
		r.err = err
	}
	r.closed = true
	r.cond.Broadcast()
}

// Drain returns the next Task in submission order, blocking until it
// has been Reported. ok is false once every reported result has been
// drained and Close has been called.
func (r *OrderedResults) Drain() (task *Task, ok bool, err error) {
	r.cond.L.Lock()
	defer r.cond.L.Unlock()

	task, found := r.pending[r.next]
	for r.err == nil && !found && !r.closed {
		r.cond.Wait()
		task, found = r.pending[r.next]
	}
	if r.err != nil {
		return nil, false, r.err
	}
	if r.closed && len(r.pending) == 0 {
		return nil, false, nil
	}
	if r.closed && !found {
		panic(fmt.Sprintf("workqueue: OrderedResults closed with result %d missing", r.next))
	}

	delete(r.pending, r.next)
	r.next++
	r.cond.Broadcast()
	return task, true, nil
}
