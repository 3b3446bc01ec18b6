package workqueue

import (
	"time"

	"github.com/HRI-EU/gobos/gosync"
)

// taskList is an unexported FIFO of *Task guarded by a mutex and a
// "push happened" condition variable, grounded on MTQueue.c's
// lock/pushCond pair and its setQuit/wakeUpAll shutdown protocol.
// Unlike MTQueue it is FIFO-only: WorkQueue has no use for MTQueue's
// LIFO mode.
type taskList struct {
	lock     gosync.Mutex
	pushCond *gosync.Cond
	items    []*Task
	quit     bool
}

func newTaskList() *taskList {
	l := &taskList{}
	l.pushCond = gosync.NewCond(&l.lock)
	return l
}

func (l *taskList) push(t *Task) {
	l.lock.Lock()
	l.items = append(l.items, t)
	l.lock.Unlock()
	l.pushCond.Signal()
}

// popWait removes and returns the oldest task, waiting up to timeout
// for one to arrive. ok is false if the list was empty at timeout, or
// if setQuit(true) was called while waiting.
func (l *taskList) popWait(timeout time.Duration) (t *Task, ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	deadline := time.Now().Add(timeout)
	for len(l.items) == 0 {
		if l.quit {
			return nil, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 || !l.pushCond.WaitTimeout(remaining) {
			return nil, false
		}
	}
	t = l.items[0]
	l.items = l.items[1:]
	return t, true
}

// quitting reports whether setQuit(true) has been called.
func (l *taskList) quitting() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.quit
}

func (l *taskList) numElements() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.items)
}

// setQuit marks the list as shutting down and wakes every waiter,
// mirroring MTQueue_setQuit + MTQueue_wakeUpAll.
func (l *taskList) setQuit(v bool) {
	l.lock.Lock()
	l.quit = v
	l.lock.Unlock()
	l.pushCond.Broadcast()
}

func (l *taskList) wakeUpAll() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.pushCond.Broadcast()
}
