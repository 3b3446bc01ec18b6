//go:build linux

package gosync

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/HRI-EU/gobos/errors"
)

// ApplySchedHints locks the calling goroutine to its current OS thread
// and applies the priority hint previously set by SetPriority or
// SetSchedPolicy, via setpriority(2). It must be called from the
// goroutine started by Thread.Start, at the top of the function passed
// to Start, the same way a pthread applies its scheduler attributes
// immediately after Threads_start hands control to start_routine.
//
// Only the niceness component of Threads_setSchedPolicy's pthread
// SCHED_* policy is reachable from Go without cgo; a full
// sched_setscheduler wrapping is not exposed by golang.org/x/sys/unix.
func ApplySchedHints(t *Thread) error {
	if t.priority == 0 {
		return nil
	}
	runtime.LockOSThread()
	tid := unix.Gettid()
	if err := unix.Setpriority(unix.PRIO_PROCESS, tid, -t.priority); err != nil {
		return errors.E(errors.NotAllowed, "gosync: setpriority", err)
	}
	return nil
}
