package iochannel

import (
	"io"
	"strconv"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("Mem", func() backend { return &memBackend{} })
}

// memBackend is a growable in-process byte buffer, the Go counterpart
// of PQueue.h's elementMemory arena and the "MemI8" element type used
// to stage a serialized value before it is copied into a queue slot.
// Unlike File or the net backends it addresses no external resource:
// Open("Mem://", mode) always starts from an empty buffer.
type memBackend struct {
	buf []byte
	pos int64
}

func (b *memBackend) Open(payload string, mode Mode, permissions Permissions) error {
	b.buf = b.buf[:0]
	b.pos = 0
	return nil
}

func (b *memBackend) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *memBackend) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *memBackend) Flush() error { return nil }
func (b *memBackend) Close() error { return nil }

func (b *memBackend) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		b.pos = offset
	case io.SeekCurrent:
		b.pos += offset
	case io.SeekEnd:
		b.pos = int64(len(b.buf)) + offset
	default:
		return 0, errors.E(errors.ChannelBadOpenArg, "iochannel: bad whence")
	}
	return b.pos, nil
}

// GetProperty supports "size", the number of bytes currently held.
func (b *memBackend) GetProperty(key string) (string, bool) {
	if matchPropertyKey("size", key) {
		return strconv.Itoa(len(b.buf)), true
	}
	return unsupportedProperty(key)
}

// SetProperty supports "reset", which truncates the buffer back to
// empty and rewinds the cursor, so a single Mem channel can be reused
// across many queue slots without reallocating.
func (b *memBackend) SetProperty(key, value string) error {
	if matchPropertyKey("reset", key) {
		b.buf = b.buf[:0]
		b.pos = 0
		return nil
	}
	return unsupportedSetProperty(key, value)
}

// MemBytes returns a copy of the bytes written so far to a Mem
// channel. It panics if c is not backed by the Mem scheme.
func MemBytes(c *Channel) []byte {
	b, ok := c.backend.(*memBackend)
	if !ok {
		panic("iochannel: MemBytes called on a non-Mem channel")
	}
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}
