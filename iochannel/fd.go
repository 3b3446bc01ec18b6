package iochannel

import (
	"os"
	"strconv"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("Fd", func() backend { return &fdBackend{} })
}

// fdBackend wraps an already-open numeric file descriptor, grounded on
// IOChannelFd.c, which binds directly to a caller-supplied descriptor
// instead of opening a path. Fd exists for exactly this reason: a
// caller can hand over a descriptor it still needs afterward by
// opening with ModeNotClose, so Close detaches instead of closing it.
type fdBackend struct {
	f        *os.File
	notClose bool
}

func (b *fdBackend) Open(payload string, mode Mode, permissions Permissions) error {
	fd, err := strconv.Atoi(payload)
	if err != nil {
		return errors.E(errors.ChannelBadOpenArg, "iochannel: Fd payload must be numeric, got "+payload)
	}
	b.f = os.NewFile(uintptr(fd), "fd:"+payload)
	if b.f == nil {
		return errors.E(errors.ChannelBadDescriptor, "iochannel: invalid descriptor "+payload)
	}
	b.notClose = mode.has(ModeNotClose)
	return nil
}

func (b *fdBackend) Read(p []byte) (int, error)  { return b.f.Read(p) }
func (b *fdBackend) Write(p []byte) (int, error) { return b.f.Write(p) }
func (b *fdBackend) Flush() error                { return b.f.Sync() }

// Close detaches from the descriptor without closing it when the
// channel was opened with ModeNotClose, so an externally owned
// descriptor outlives the Channel that wrapped it.
func (b *fdBackend) Close() error {
	if b.notClose {
		return nil
	}
	return b.f.Close()
}

func (b *fdBackend) Seek(offset int64, whence int) (int64, error) {
	return b.f.Seek(offset, whence)
}

func (b *fdBackend) GetProperty(key string) (string, bool) {
	return unsupportedProperty(key)
}

func (b *fdBackend) SetProperty(key, value string) error {
	return unsupportedSetProperty(key, value)
}
