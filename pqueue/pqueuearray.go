package pqueue

import (
	"time"

	"github.com/HRI-EU/gobos/errors"
)

// Array is a fixed-size collection of independently-locked PQueues
// addressed by index, the Go counterpart of PQueueArray.h.
type Array struct {
	queues []*PQueue
}

// NewArray creates size PQueues, each with the given maxLength.
func NewArray(size, maxLength int) *Array {
	if size <= 0 {
		panic("pqueue: Array size must be positive")
	}
	a := &Array{queues: make([]*PQueue, size)}
	for i := range a.queues {
		a.queues[i] = New(maxLength)
	}
	return a
}

// Size returns the number of queues in the array.
func (a *Array) Size() int { return len(a.queues) }

// Queue returns the queue at index, or nil if index is out of range,
// mirroring PQueueArray_getQueue's NULL-on-bad-index contract.
func (a *Array) Queue(index int) *PQueue {
	if index < 0 || index >= len(a.queues) {
		return nil
	}
	return a.queues[index]
}

func (a *Array) at(index int) (*PQueue, error) {
	q := a.Queue(index)
	if q == nil {
		return nil, errors.E(errors.QueueNoSuchQueue, "pqueue: no such queue at index")
	}
	return q, nil
}

// Push pushes data onto the queue at index.
func (a *Array) Push(index int, data []byte) error {
	q, err := a.at(index)
	if err != nil {
		return err
	}
	return q.Push(data)
}

// Pop pops from the queue at index.
func (a *Array) Pop(index int) ([]byte, error) {
	q, err := a.at(index)
	if err != nil {
		return nil, err
	}
	return q.Pop()
}

// PopWait pops from the queue at index, waiting up to timeout.
func (a *Array) PopWait(index int, timeout time.Duration) ([]byte, error) {
	q, err := a.at(index)
	if err != nil {
		return nil, err
	}
	return q.PopWait(timeout)
}

// Purge drains the queue at index.
func (a *Array) Purge(index int) ([][]byte, error) {
	q, err := a.at(index)
	if err != nil {
		return nil, err
	}
	return q.Purge(), nil
}

// PurgeWait drains the queue at index, waiting up to timeout for a push.
func (a *Array) PurgeWait(index int, timeout time.Duration) ([][]byte, error) {
	q, err := a.at(index)
	if err != nil {
		return nil, err
	}
	return q.PurgeWait(timeout), nil
}

// NumElements returns the element count of the queue at index, or -1
// if index is out of range, mirroring PQueueArray_numElements.
func (a *Array) NumElements(index int) int {
	q := a.Queue(index)
	if q == nil {
		return -1
	}
	return q.NumElements()
}

// MaxLength returns the capacity of the queue at index, or -1 if index
// is out of range, mirroring PQueueArray_maxLength.
func (a *Array) MaxLength(index int) int {
	q := a.Queue(index)
	if q == nil {
		return -1
	}
	return q.MaxLength()
}
