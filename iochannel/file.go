package iochannel

import (
	"os"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("File", func() backend { return &fileBackend{} })
}

// fileBackend opens a regular file by path, grounded on
// grailbio/base/file/localfile.go's os.Open/os.Create descriptor
// lifecycle, minus its atomic tempfile-rename-on-close behavior (not
// part of this spec's scope: iochannel's File backend is a direct
// wrapper, not a transactional writer).
type fileBackend struct {
	f *os.File
}

func (b *fileBackend) Open(payload string, mode Mode, permissions Permissions) error {
	flag := 0
	switch {
	case mode.has(ModeAppend):
		flag = os.O_WRONLY | os.O_APPEND | os.O_CREATE
	case mode.has(ModeWrite):
		flag = os.O_WRONLY
		if mode.has(ModeCreate) {
			flag |= os.O_CREATE
		}
		if mode.has(ModeTruncate) {
			flag |= os.O_TRUNC
		}
	case mode.has(ModeRead):
		flag = os.O_RDONLY
	default:
		return errors.E(errors.ChannelBadMode, "iochannel: File backend requires Read, Write or Append")
	}
	f, err := os.OpenFile(payload, flag, os.FileMode(permissions))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.E(errors.NotExist, "iochannel: open "+payload, err)
		}
		return errors.E(errors.ChannelBadOpenArg, "iochannel: open "+payload, err)
	}
	b.f = f
	return nil
}

func (b *fileBackend) Read(p []byte) (int, error)  { return b.f.Read(p) }
func (b *fileBackend) Write(p []byte) (int, error) { return b.f.Write(p) }
func (b *fileBackend) Flush() error                { return b.f.Sync() }
func (b *fileBackend) Close() error                { return b.f.Close() }

func (b *fileBackend) Seek(offset int64, whence int) (int64, error) {
	return b.f.Seek(offset, whence)
}

func (b *fileBackend) GetProperty(key string) (string, bool) {
	if matchPropertyKey("name", key) {
		return b.f.Name(), true
	}
	return unsupportedProperty(key)
}

func (b *fileBackend) SetProperty(key, value string) error {
	return unsupportedSetProperty(key, value)
}
