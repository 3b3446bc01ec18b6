package pqueue_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/HRI-EU/gobos/errors"
	"github.com/HRI-EU/gobos/pqueue"
)

// TestPushPopOrderAndByteFidelity is scenario 3: a PQueue of length 4,
// pushing three distinct 10-byte payloads, popping in FIFO order with
// byte-for-byte fidelity.
func TestPushPopOrderAndByteFidelity(t *testing.T) {
	q := pqueue.New(4)

	payloads := [][]byte{
		bytes.Repeat([]byte{0x01}, 10),
		bytes.Repeat([]byte{0x02}, 10),
		bytes.Repeat([]byte{0x03}, 10),
	}
	for _, p := range payloads {
		if err := q.Push(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := q.NumElements(); got != 3 {
		t.Fatalf("NumElements() = %d, want 3", got)
	}
	for i, want := range payloads {
		got, err := q.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("pop %d: got %x, want %x", i, got, want)
		}
	}
}

func TestPushFullReturnsQueueFullWithoutTouchingSlots(t *testing.T) {
	q := pqueue.New(2)
	if err := q.Push([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := q.Push([]byte("b")); err != nil {
		t.Fatal(err)
	}
	if err := q.Push([]byte("c")); !errors.Is(errors.QueueFull, err) {
		t.Fatalf("Push on full queue: got %v, want QueueFull", err)
	}
	if got := q.NumElements(); got != 2 {
		t.Fatalf("NumElements() = %d, want 2 (unchanged)", got)
	}
}

func TestPopEmptyReturnsQueueEmpty(t *testing.T) {
	q := pqueue.New(1)
	if _, err := q.Pop(); !errors.Is(errors.QueueEmpty, err) {
		t.Fatalf("Pop on empty queue: got %v, want QueueEmpty", err)
	}
}

func TestPopWaitZeroTimesOutImmediately(t *testing.T) {
	q := pqueue.New(1)
	start := time.Now()
	if _, err := q.PopWait(0); !errors.Is(errors.QueueTimeout, err) {
		t.Fatalf("PopWait(0) on empty queue: got %v, want QueueTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("PopWait(0) took %v, expected to return immediately", elapsed)
	}
}

func TestPopWaitWakesOnPush(t *testing.T) {
	q := pqueue.New(1)
	result := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		got, err := q.PopWait(2 * time.Second)
		if err != nil {
			errCh <- err
			return
		}
		result <- got
	}()
	time.Sleep(20 * time.Millisecond)
	if err := q.Push([]byte("woken")); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-result:
		if string(got) != "woken" {
			t.Errorf("got %q, want %q", got, "woken")
		}
	case err := <-errCh:
		t.Fatal(err)
	case <-time.After(2 * time.Second):
		t.Fatal("PopWait did not wake up on push")
	}
}

func TestPurgeDrainsAllAvailable(t *testing.T) {
	q := pqueue.New(4)
	for _, s := range []string{"a", "b", "c"} {
		if err := q.Push([]byte(s)); err != nil {
			t.Fatal(err)
		}
	}
	got := q.Purge()
	if len(got) != 3 {
		t.Fatalf("Purge() returned %d elements, want 3", len(got))
	}
	if q.NumElements() != 0 {
		t.Fatalf("NumElements() after Purge = %d, want 0", q.NumElements())
	}
}

func TestArrayIndexing(t *testing.T) {
	a := pqueue.NewArray(3, 2)
	if a.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", a.Size())
	}
	if err := a.Push(1, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if got, err := a.Pop(1); err != nil || string(got) != "x" {
		t.Fatalf("Pop(1) = %q, %v", got, err)
	}
	if _, err := a.Pop(99); !errors.Is(errors.QueueNoSuchQueue, err) {
		t.Fatalf("Pop(99): got %v, want QueueNoSuchQueue", err)
	}
	if a.NumElements(99) != -1 {
		t.Fatalf("NumElements(99) = %d, want -1", a.NumElements(99))
	}
}
