package gosync

import "sync/atomic"

// Atomic is a lock-free counter, grounded on the AnyAtomic type used
// throughout Barrier.c and MTQueue.c to track waiter/element counts
// without taking the enclosing mutex.
type Atomic struct {
	v int64
}

// Get returns the current value.
func (a *Atomic) Get() int64 {
	return atomic.LoadInt64(&a.v)
}

// Set stores v unconditionally.
func (a *Atomic) Set(v int64) {
	atomic.StoreInt64(&a.v, v)
}

// Inc adds 1 and returns the new value.
func (a *Atomic) Inc() int64 {
	return atomic.AddInt64(&a.v, 1)
}

// Dec subtracts 1 and returns the new value.
func (a *Atomic) Dec() int64 {
	return atomic.AddInt64(&a.v, -1)
}

// TestAndSetValue sets the counter to newVal if its current value
// equals test, reporting whether the swap happened. It mirrors
// Atomic_testAndSetValue's use in Barrier_wait to reset the "gone"
// counter once every waiter has been released.
func (a *Atomic) TestAndSetValue(test, newVal int64) bool {
	return atomic.CompareAndSwapInt64(&a.v, test, newVal)
}
