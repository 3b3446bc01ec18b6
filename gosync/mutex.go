// Package gosync provides the OS-thread-oriented concurrency primitives
// that iochannel, serialize, pqueue and workqueue are built from: a
// mutex, a reader/writer lock, a mutex-bound condition variable, a
// reusable barrier, an atomic counter and a thread wrapper. The shapes
// are grounded on ToolBOSLib's pthread-based Mutex/RWLock/Barrier/Threads
// sources, re-expressed with Go's native sync primitives in place of
// manually managed pthread attribute structs.
package gosync

import "sync"

// Mutex is a process-private mutual exclusion lock. The zero value is
// ready to use, unlike the pthread original which required an explicit
// Mutex_init call to set up attributes; Go's sync.Mutex needs no such
// step.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex returns a ready-to-use Mutex. It exists for API symmetry with
// the other gosync constructors; a zero Mutex works equally well.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Lock acquires the mutex, blocking until it is available.
func (m *Mutex) Lock() {
	m.mu.Lock()
}

// TryLock acquires the mutex without blocking, reporting whether it
// succeeded. It is the analogue of Mutex_tryLock.
func (m *Mutex) TryLock() bool {
	return m.mu.TryLock()
}

// Unlock releases the mutex. Unlock on an unlocked Mutex panics, the
// same way pthread_mutex_unlock would return an error status that
// Mutex_unlock propagated to its caller.
func (m *Mutex) Unlock() {
	m.mu.Unlock()
}
