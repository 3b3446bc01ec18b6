package iochannel

import (
	"io"
	"os"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("StdIn", func() backend { return &stdioBackend{f: os.Stdin, readOnly: true} })
	RegisterScheme("StdOut", func() backend { return &stdioBackend{f: os.Stdout, readOnly: false} })
	RegisterScheme("StdErr", func() backend { return &stdioBackend{f: os.Stderr, readOnly: false} })
}

// stdioBackend binds one of the three standard streams, grounded on
// IOChannelStdIn.c/StdOut.c/StdErr.c. The payload is ignored: these
// schemes address a fixed, process-global stream.
type stdioBackend struct {
	f        *os.File
	readOnly bool
}

func (b *stdioBackend) Open(payload string, mode Mode, permissions Permissions) error {
	if b.readOnly && mode.has(ModeWrite) {
		return errors.E(errors.ChannelBadMode, "iochannel: StdIn is read-only")
	}
	if !b.readOnly && mode.has(ModeRead) {
		return errors.E(errors.ChannelBadMode, "iochannel: StdOut/StdErr are write-only")
	}
	return nil
}

func (b *stdioBackend) Read(p []byte) (int, error)  { return b.f.Read(p) }
func (b *stdioBackend) Write(p []byte) (int, error) { return b.f.Write(p) }
func (b *stdioBackend) Flush() error                { return nil }

// Close is a no-op: closing the process's standard streams out from
// under it is almost always a mistake, so unlike a regular file
// backend, stdioBackend leaves the underlying os.File open.
func (b *stdioBackend) Close() error { return nil }

func (b *stdioBackend) Seek(offset int64, whence int) (int64, error) {
	return 0, errors.E(errors.NotSupported, "iochannel: standard streams are not seekable")
}

func (b *stdioBackend) GetProperty(key string) (string, bool) { return unsupportedProperty(key) }
func (b *stdioBackend) SetProperty(key, value string) error   { return unsupportedSetProperty(key, value) }

func init() {
	RegisterScheme("Null", func() backend { return &nullBackend{} })
}

// nullBackend discards every write and reports EOF on every read,
// grounded on IOChannelNull.c.
type nullBackend struct{}

func (b *nullBackend) Open(payload string, mode Mode, permissions Permissions) error { return nil }
func (b *nullBackend) Read(p []byte) (int, error)            { return 0, io.EOF }
func (b *nullBackend) Write(p []byte) (int, error)           { return len(p), nil }
func (b *nullBackend) Flush() error                          { return nil }
func (b *nullBackend) Close() error                          { return nil }
func (b *nullBackend) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}
func (b *nullBackend) GetProperty(key string) (string, bool) { return unsupportedProperty(key) }
func (b *nullBackend) SetProperty(key, value string) error   { return unsupportedSetProperty(key, value) }
