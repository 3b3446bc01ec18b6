// Package pqueue implements a bounded, persistent-storage FIFO queue
// of serialized elements, the Go-native descendant of ToolBOSLib's
// PQueue.h / PQueueArray.h. Elements are copied into a fixed-size
// arena of maxLength slots, one per-slot mutex each, sized once from
// either a registered type's probed encoding size (Init) or the first
// raw Push's length. Producers and consumers each hold their own
// mutex (pushMutex/popMutex) plus the slot they are touching, so a
// push and a pop can proceed concurrently, the same split PQueue.h's
// setupMutex/pushMutex/popMutex triple keeps.
//
// PQueue.h's DynamicLoader-based lookup of a registered element type's
// serialize function becomes RegisterType: a name-keyed Codec registry
// populated at package init by each element type, mirroring the BBDM
// naming-convention dispatch the original relies on (ClassName_method
// symbol lookup at runtime). PushValue/PopValue drive a registered
// type's Codec through a Mem-backed iochannel.Channel and a Binary
// serialize.Serialize, so the full iochannel+serialize stack backs
// every typed element, exactly as PQueue_push/_pop route through the
// original's memChannelWrite/serializeWrite pair.
package pqueue

import (
	"fmt"
	"time"

	"github.com/HRI-EU/gobos/errors"
	"github.com/HRI-EU/gobos/gosync"
	"github.com/HRI-EU/gobos/iochannel"
	"github.com/HRI-EU/gobos/serialize"
)

// Codec encodes and decodes one registered element type through a
// serialize.Serialize bound to a Mem iochannel.Channel.
type Codec struct {
	Encode func(s *serialize.Serialize, name string, v interface{}) error
	Decode func(s *serialize.Serialize, name string) (interface{}, error)
}

// PQueue is a bounded FIFO of byte-slot elements. The zero value is
// not usable; construct with New.
type PQueue struct {
	pushMutex gosync.Mutex
	popMutex  gosync.Mutex
	pushCond  *gosync.Cond

	setupMutex  gosync.Mutex
	maxLength   int
	elementType string
	codec       Codec

	// maxElementSize, arena, slotLocks and slotLen are populated once,
	// by setupArena, mirroring PQueue_init's setupElement(sample): a
	// Calc-channel probe (or, for a queue used at the raw-byte level
	// without Init, the first Push's length) learns the per-element
	// size, and maxLength*maxElementSize bytes are allocated up front so
	// Push never allocates on the hot path again.
	maxElementSize int
	arena          []byte
	slotLocks      []gosync.Mutex
	slotLen        []int

	numElem    gosync.Atomic
	head, tail int
}

// New creates an empty PQueue holding at most maxLength elements.
func New(maxLength int) *PQueue {
	if maxLength <= 0 {
		panic("pqueue: maxLength must be positive")
	}
	q := &PQueue{maxLength: maxLength}
	q.pushCond = gosync.NewCond(&q.popMutex)
	return q
}

// Init binds elementType's registered Codec to q and probes the
// type's encoded size with sample on a Calc channel, so the slot arena
// can be sized and allocated once, up front, mirroring PQueue_init's
// elementType/libName lookup followed by setupElement(sample).
func (q *PQueue) Init(elementType string, sample interface{}) error {
	codec, ok := FindType(elementType)
	if !ok {
		return errors.E(errors.QueueSetupFailed, "pqueue: no such type registered: "+elementType)
	}
	size, err := probeEncodedSize(codec, elementType, sample)
	if err != nil {
		return err
	}
	if err := q.setupArena(size); err != nil {
		return err
	}
	q.setupMutex.Lock()
	q.elementType = elementType
	q.codec = codec
	q.setupMutex.Unlock()
	return nil
}

// probeEncodedSize drives sample through codec.Encode on a Calc
// channel and returns the byte count it would occupy on the wire,
// without allocating a buffer for it, mirroring setupElement's use of
// a Calc channel to learn maxElementSize.
func probeEncodedSize(codec Codec, name string, sample interface{}) (_ int, err error) {
	ch, err := iochannel.Open("Calc://", iochannel.ModeWrite)
	if err != nil {
		return 0, errors.E(errors.QueueAllocFailed, "pqueue: setupElement: opening calc channel", err)
	}
	defer errors.CleanUp(ch.Close, &err)

	s, err := serialize.Open(ch, "Binary", serialize.ModeCalc)
	if err != nil {
		return 0, errors.E(errors.QueueAllocFailed, "pqueue: setupElement: opening calc serializer", err)
	}
	if err := codec.Encode(s, name, sample); err != nil {
		return 0, errors.E(errors.QueueAllocFailed, "pqueue: setupElement: probing encoded size", err)
	}
	return int(iochannel.CalcSize(ch)), nil
}

// setupArena allocates the fixed slot arena for size-byte elements the
// first time it is called; later calls (from subsequent Pushes or a
// redundant Init) only verify size still fits. It returns
// errors.QueueAllocFailed if size is non-positive, exceeds an
// already-sized arena's slot capacity, or the allocation itself fails.
func (q *PQueue) setupArena(size int) (err error) {
	q.setupMutex.Lock()
	defer q.setupMutex.Unlock()

	if q.maxElementSize != 0 {
		if size > q.maxElementSize {
			return errors.E(errors.QueueAllocFailed, "pqueue: element size exceeds the queue's fixed slot size")
		}
		return nil
	}
	if size <= 0 {
		return errors.E(errors.QueueAllocFailed, "pqueue: setupElement: non-positive element size")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.E(errors.QueueAllocFailed, fmt.Sprintf("pqueue: slot arena allocation failed: %v", r))
		}
	}()
	q.arena = make([]byte, q.maxLength*size)
	q.slotLocks = make([]gosync.Mutex, q.maxLength)
	q.slotLen = make([]int, q.maxLength)
	q.maxElementSize = size
	return nil
}

func (q *PQueue) elementSize() int {
	q.setupMutex.Lock()
	defer q.setupMutex.Unlock()
	return q.maxElementSize
}

// MaxLength returns the queue's fixed capacity.
func (q *PQueue) MaxLength() int { return q.maxLength }

// NumElements returns the number of elements currently queued.
func (q *PQueue) NumElements() int {
	return int(q.numElem.Get())
}

// Push enqueues a copy of data into the tail slot. The arena is sized
// from the first call's length if Init was never called (a PQueue used
// directly at the byte level, without a registered element type). It
// returns an error of kind errors.QueueFull without touching any slot
// if the queue is full, or errors.QueueAllocFailed if data does not
// fit the queue's fixed slot size.
func (q *PQueue) Push(data []byte) error {
	if q.elementSize() == 0 {
		if err := q.setupArena(len(data)); err != nil {
			return err
		}
	} else if len(data) > q.elementSize() {
		return errors.E(errors.QueueAllocFailed, "pqueue: element larger than the queue's fixed slot size")
	}

	q.pushMutex.Lock()
	defer q.pushMutex.Unlock()

	if q.numElem.Get() == int64(q.maxLength) {
		return errors.E(errors.QueueFull, "pqueue: queue full")
	}

	tail := q.tail
	size := q.maxElementSize
	q.slotLocks[tail].Lock()
	n := copy(q.arena[tail*size:(tail+1)*size], data)
	q.slotLen[tail] = n
	q.slotLocks[tail].Unlock()

	q.tail = (q.tail + 1) % q.maxLength
	q.numElem.Inc()
	q.pushCond.Signal()
	return nil
}

// Pop dequeues the oldest element. It returns an error of kind
// errors.QueueEmpty if the queue has nothing to pop.
func (q *PQueue) Pop() ([]byte, error) {
	q.popMutex.Lock()
	defer q.popMutex.Unlock()
	if q.numElem.Get() == 0 {
		return nil, errors.E(errors.QueueEmpty, "pqueue: queue empty")
	}
	return q.popLocked(), nil
}

// popLocked dequeues the head slot. Callers must hold popMutex.
func (q *PQueue) popLocked() []byte {
	head := q.head
	size := q.maxElementSize

	q.slotLocks[head].Lock()
	data := make([]byte, q.slotLen[head])
	copy(data, q.arena[head*size:head*size+q.slotLen[head]])
	q.slotLocks[head].Unlock()

	q.head = (q.head + 1) % q.maxLength
	q.numElem.Dec()
	return data
}

// PopWait dequeues the oldest element, waiting up to timeout for one
// to become available. A zero timeout times out immediately if the
// queue is empty. It returns an error of kind errors.QueueTimeout on
// expiry.
func (q *PQueue) PopWait(timeout time.Duration) ([]byte, error) {
	q.popMutex.Lock()
	defer q.popMutex.Unlock()
	deadline := time.Now().Add(timeout)
	for q.numElem.Get() == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 || !q.pushCond.WaitTimeout(remaining) {
			return nil, errors.E(errors.QueueTimeout, "pqueue: popWait timed out")
		}
	}
	return q.popLocked(), nil
}

// Purge dequeues every element currently available, without waiting.
func (q *PQueue) Purge() [][]byte {
	q.popMutex.Lock()
	defer q.popMutex.Unlock()
	return q.purgeLocked()
}

func (q *PQueue) purgeLocked() [][]byte {
	out := make([][]byte, 0, q.numElem.Get())
	for q.numElem.Get() > 0 {
		out = append(out, q.popLocked())
	}
	return out
}

// PurgeWait waits up to timeout for at least one push, then dequeues
// every element currently available.
func (q *PQueue) PurgeWait(timeout time.Duration) [][]byte {
	q.popMutex.Lock()
	defer q.popMutex.Unlock()
	if q.numElem.Get() == 0 && timeout > 0 {
		q.pushCond.WaitTimeout(timeout)
	}
	return q.purgeLocked()
}

// PushValue encodes v with q's registered Codec into a fresh Mem
// channel, then pushes the encoded bytes.
func (q *PQueue) PushValue(name string, v interface{}) error {
	codec, ok := q.boundCodec()
	if !ok {
		return errors.E(errors.QueueSetupFailed, "pqueue: Init was not called with a registered type")
	}
	data, err := encodeValue(codec, name, v)
	if err != nil {
		return err
	}
	return q.Push(data)
}

// PopValue pops raw bytes and decodes them with q's registered Codec.
func (q *PQueue) PopValue(name string) (interface{}, error) {
	codec, ok := q.boundCodec()
	if !ok {
		return nil, errors.E(errors.QueueSetupFailed, "pqueue: Init was not called with a registered type")
	}
	data, err := q.Pop()
	if err != nil {
		return nil, err
	}
	return decodeValue(codec, name, data)
}

func (q *PQueue) boundCodec() (Codec, bool) {
	q.setupMutex.Lock()
	defer q.setupMutex.Unlock()
	return q.codec, q.codec.Encode != nil
}

func encodeValue(codec Codec, name string, v interface{}) (_ []byte, err error) {
	ch, err := iochannel.Open("Mem://", iochannel.ModeWrite)
	if err != nil {
		return nil, err
	}
	defer errors.CleanUp(ch.Close, &err)

	s, err := serialize.Open(ch, "Binary", serialize.ModeWrite)
	if err != nil {
		return nil, err
	}
	if err := codec.Encode(s, name, v); err != nil {
		return nil, err
	}
	return iochannel.MemBytes(ch), nil
}

func decodeValue(codec Codec, name string, data []byte) (_ interface{}, err error) {
	ch, err := iochannel.Open("Mem://", iochannel.ModeWrite|iochannel.ModeRead)
	if err != nil {
		return nil, err
	}
	defer errors.CleanUp(ch.Close, &err)

	if _, err := ch.Write(data); err != nil {
		return nil, err
	}
	if _, err := ch.Seek(0, 0); err != nil {
		return nil, err
	}
	s, err := serialize.Open(ch, "Binary", serialize.ModeRead)
	if err != nil {
		return nil, err
	}
	return codec.Decode(s, name)
}
