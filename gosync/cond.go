package gosync

import (
	"sync"
	"time"
)

// Cond is a condition variable bound to a Mutex, grounded on the
// pthread_cond_t usage scattered through PQueue.h's pushCond and
// MTQueue.c's pushCond: callers hold the associated mutex, check a
// predicate, and Wait releases it while blocked and reacquires it
// before returning.
type Cond struct {
	L    *Mutex
	cond *sync.Cond
}

// NewCond returns a Cond bound to mutex l.
func NewCond(l *Mutex) *Cond {
	return &Cond{L: l, cond: sync.NewCond(&l.mu)}
}

// Wait blocks until Signal or Broadcast is called. The caller must hold
// L; Wait releases it while blocked and reacquires it before returning.
func (c *Cond) Wait() {
	c.cond.Wait()
}

// WaitTimeout blocks until Signal or Broadcast is called, or timeout
// elapses, whichever comes first. It reports false if the timeout
// elapsed without a wakeup. The caller must hold L. This is the
// gosync-native equivalent of pthread_cond_timedwait, which PQueue's
// popWait and WorkQueue's worker loop both rely on. A non-positive
// timeout sets no deadline: WaitTimeout then behaves like Wait and
// reports true.
func (c *Cond) WaitTimeout(timeout time.Duration) bool {
	if timeout <= 0 {
		c.cond.Wait()
		return true
	}
	done := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		c.cond.Broadcast()
	})
	go func() {
		<-done
		timer.Stop()
	}()
	deadline := time.Now().Add(timeout)
	woke := true
	c.cond.Wait()
	if time.Now().After(deadline) {
		woke = false
	}
	close(done)
	return woke
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond) Signal() {
	c.cond.Signal()
}

// Broadcast wakes all goroutines waiting on c.
func (c *Cond) Broadcast() {
	c.cond.Broadcast()
}
