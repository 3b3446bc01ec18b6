package workqueue_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/HRI-EU/gobos/workqueue"
)

// TestHundredTasksAllComplete is scenario 4: a WorkQueue(min=2, max=4),
// loaded with 100 tasks that each sleep 1ms, all of which complete and
// whose Wait returns; the live worker count falls back to min after an
// idle period.
func TestHundredTasksAllComplete(t *testing.T) {
	q := workqueue.New(2, 4)

	var completed int32
	const n = 100
	tasks := make([]*workqueue.Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = q.Submit(func(instance, userData interface{}) error {
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		}, nil, nil, nil)
	}
	for _, task := range tasks {
		task.Wait()
	}
	if got := atomic.LoadInt32(&completed); got != n {
		t.Fatalf("completed = %d, want %d", got, n)
	}

	// Give elastic workers time to idle out past their timeout.
	time.Sleep(300 * time.Millisecond)
	if live := q.LiveWorkers(); live != 2 {
		t.Fatalf("LiveWorkers() after idle = %d, want 2 (back to minWorkers)", live)
	}

	if err := q.Close(); err != nil {
		t.Fatalf("Close() returned %v, want nil", err)
	}
}

func TestTaskFailureIsAggregatedOnClose(t *testing.T) {
	q := workqueue.New(1, 1)
	failing := q.Submit(func(instance, userData interface{}) error {
		return errBoom
	}, nil, nil, nil)
	failing.Wait()
	if failing.Status() != workqueue.TaskFailure {
		t.Fatalf("Status() = %v, want TaskFailure", failing.Status())
	}
	if err := q.Close(); err == nil {
		t.Fatal("Close() = nil, want aggregated error")
	}
}

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }
