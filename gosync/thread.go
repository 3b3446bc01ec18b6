package gosync

import "runtime"

// Thread wraps a goroutine with join/kill/priority controls modeled on
// Threads.c. Go has no preemptible thread-kill primitive and no stable
// thread identifier exposed to user code, so Thread offers no identity
// accessor and Kill is cooperative: the started function must poll
// Cancelled.
type Thread struct {
	done        chan struct{}
	cancelled   Atomic
	priority    int
	schedPolicy int
}

// NewThread returns a Thread ready to Start.
func NewThread() *Thread {
	return &Thread{done: make(chan struct{})}
}

// Start runs fn on a new goroutine, passing arg through. It mirrors
// Threads_start; unlike pthread_create, the OS scheduling hints set by
// SetPriority/SetSchedPolicy only take effect if fn itself calls
// runtime.LockOSThread and ApplySchedHints.
func (t *Thread) Start(fn func(arg interface{}), arg interface{}) {
	go func() {
		defer close(t.done)
		fn(arg)
	}()
}

// Join blocks until the thread's function returns. Calling Join more
// than once is safe; only the first call blocks meaningfully, the rest
// return immediately since done is already closed.
func (t *Thread) Join() {
	<-t.done
}

// Kill requests cancellation. Because Go goroutines cannot be
// preemptively terminated the way pthread_kill can signal a thread,
// Kill only sets a cooperative flag; the running function must check
// Cancelled and return on its own.
func (t *Thread) Kill() {
	t.cancelled.Set(1)
}

// Cancelled reports whether Kill has been called.
func (t *Thread) Cancelled() bool {
	return t.cancelled.Get() != 0
}

// SetPriority records a scheduling priority hint for ApplySchedHints to
// use. Values are interpreted the same way as Threads_setPriority:
// larger means higher priority.
func (t *Thread) SetPriority(priority int) {
	t.priority = priority
}

// Priority returns the priority hint set by SetPriority.
func (t *Thread) Priority() int {
	return t.priority
}

// SetSchedPolicy records a scheduling policy hint (an OS-defined
// SCHED_* constant) alongside a priority, mirroring
// Threads_setSchedPolicy's combined call.
func (t *Thread) SetSchedPolicy(policy, priority int) {
	t.schedPolicy = policy
	t.priority = priority
}

// SchedPolicy returns the policy hint set by SetSchedPolicy.
func (t *Thread) SchedPolicy() int {
	return t.schedPolicy
}

// Yield hints to the scheduler that the calling goroutine is willing to
// let other goroutines run, the analogue of Threads_yield.
func Yield() {
	runtime.Gosched()
}
