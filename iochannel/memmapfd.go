package iochannel

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("MemMapFd", func() backend { return &memMapFdBackend{} })
}

// memMapFdBackend memory-maps a fixed-size region of a file, grounded
// on IOChannelMemMapFd.c. The payload is "path:size", matching the
// source's explicit size argument (mmap cannot infer a size for a
// sparse or to-be-created file the way a regular open can).
type memMapFdBackend struct {
	f      *os.File
	data   []byte
	reader *bytes.Reader
	pos    int64
}

func (b *memMapFdBackend) Open(payload string, mode Mode, permissions Permissions) error {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return errors.E(errors.ChannelBadOpenArg, "iochannel: MemMapFd payload must be path:size")
	}
	size, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || size <= 0 {
		return errors.E(errors.ChannelBadMmapSize, "iochannel: invalid MemMapFd size "+parts[1])
	}

	flag := os.O_RDWR
	if mode.has(ModeRead) && !mode.has(ModeWrite) {
		flag = os.O_RDONLY
	}
	if mode.has(ModeCreate) {
		flag |= os.O_CREATE
	}
	f, err := os.OpenFile(parts[0], flag, os.FileMode(permissions))
	if err != nil {
		return errors.E(errors.ChannelBadOpenArg, "iochannel: open "+parts[0], err)
	}
	if mode.has(ModeCreate) {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return errors.E(errors.ChannelBadMmapSize, "iochannel: truncate "+parts[0], err)
		}
	}

	prot := unix.PROT_READ
	if flag != os.O_RDONLY {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return errors.E(errors.ChannelBadMmapSize, "iochannel: mmap "+parts[0], err)
	}
	b.f = f
	b.data = data
	b.reader = bytes.NewReader(data)
	return nil
}

func (b *memMapFdBackend) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	b.pos, _ = b.reader.Seek(0, io.SeekCurrent)
	return n, err
}

func (b *memMapFdBackend) Write(p []byte) (int, error) {
	n := copy(b.data[b.pos:], p)
	if n < len(p) {
		b.pos += int64(n)
		return n, errors.E(errors.ChannelShortWrite, "iochannel: write past mapped region")
	}
	b.pos += int64(n)
	b.reader.Seek(b.pos, io.SeekStart)
	return n, nil
}

func (b *memMapFdBackend) Flush() error {
	return unix.Msync(b.data, unix.MS_SYNC)
}

func (b *memMapFdBackend) Close() error {
	if err := unix.Munmap(b.data); err != nil {
		return errors.E(errors.ChannelBadDescriptor, "iochannel: munmap", err)
	}
	return b.f.Close()
}

func (b *memMapFdBackend) Seek(offset int64, whence int) (int64, error) {
	n, err := b.reader.Seek(offset, whence)
	if err == nil {
		b.pos = n
	}
	return n, err
}

func (b *memMapFdBackend) GetProperty(key string) (string, bool) {
	if matchPropertyKey("size", key) {
		return strconv.Itoa(len(b.data)), true
	}
	return unsupportedProperty(key)
}

func (b *memMapFdBackend) SetProperty(key, value string) error {
	return unsupportedSetProperty(key, value)
}
