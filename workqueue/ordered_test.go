package workqueue_test

import (
	"testing"
	"time"

	"github.com/HRI-EU/gobos/workqueue"
)

// TestOrderedResultsRestoresSubmissionOrder submits tasks whose sleep
// durations deliberately invert completion order, then confirms Drain
// hands them back in submission order regardless.
func TestOrderedResultsRestoresSubmissionOrder(t *testing.T) {
	q := workqueue.New(4, 4)
	results := workqueue.NewOrderedResults(4)

	sleeps := []time.Duration{30 * time.Millisecond, 5 * time.Millisecond, 20 * time.Millisecond, 1 * time.Millisecond}
	for i, d := range sleeps {
		idx := i
		delay := d
		q.Enqueue(workqueue.NewTask(func(instance, userData interface{}) error {
			time.Sleep(delay)
			return nil
		}, nil, idx, func(status workqueue.TaskStatus, task *workqueue.Task) {
			if err := results.Report(idx, task); err != nil {
				t.Errorf("Report(%d): %v", idx, err)
			}
		}))
	}

	for i := range sleeps {
		task, ok, err := results.Drain()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("Drain() ok=false at index %d", i)
		}
		if task.Status() != workqueue.TaskSuccess {
			t.Fatalf("task %d status = %v, want success", i, task.Status())
		}
		if got := task.UserData(); got != i {
			t.Fatalf("Drain() position %d returned task %v, want %d", i, got, i)
		}
	}
	results.Close(nil)
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
}
