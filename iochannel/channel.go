// Package iochannel provides a uniform byte-stream abstraction over a
// family of pluggable transports (files, descriptors, memory-mapped
// files, sockets, the standard streams, a null sink and a size-only
// calculator), addressed by a "scheme://payload" URI grammar. It is the
// Go-native descendant of ToolBOSLib's IOChannel*.c backends: the
// original's void-pointer v-table per backend becomes a Go interface,
// and BBDM-style dynamic loading of a backend by name becomes a
// mutex-guarded factory registry, grounded on
// grailbio/base/file/implementation.go's RegisterImplementation /
// FindImplementation pattern.
package iochannel

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/HRI-EU/gobos/errors"
)

// Mode describes the access mode a channel is opened with. It combines
// the read/write/append/create/truncate axes the original's
// IOChannelMode flags expressed as a bitmask, plus NotClose, the Go
// counterpart of the original's CLOSE/NOTCLOSE distinction: a backend
// bound to a resource it does not own (an externally-supplied
// descriptor) detaches from it on Close instead of closing it.
type Mode int

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeAppend
	ModeCreate
	ModeTruncate
	// ModeNotClose suppresses the backend's Close from releasing the
	// underlying resource, for descriptors the caller still owns.
	ModeNotClose
)

func (m Mode) has(bit Mode) bool { return m&bit != 0 }

// Permissions is a POSIX-style permission mask composed of the
// per-user/group/other R/W/X bits below, passed to Open alongside the
// access mode. It is the Go counterpart of the original's mode_t
// permissions argument.
type Permissions os.FileMode

const (
	PermReadUser Permissions = 1 << (8 - iota)
	PermWriteUser
	PermExecUser
	PermReadGroup
	PermWriteGroup
	PermExecGroup
	PermReadOther
	PermWriteOther
	PermExecOther
)

// PermRW_U grants read+write to the owning user only (POSIX 0600), the
// permission mask spec.md's file-channel scenario opens with.
const PermRW_U = PermReadUser | PermWriteUser

// DefaultPermissions is used when Open is called without an explicit
// Permissions argument.
const DefaultPermissions = PermReadUser | PermWriteUser | PermReadGroup | PermReadOther

// backend is the v-table every scheme implementation satisfies. A fresh,
// unopened backend value is produced by a backendFactory; Open then
// binds it to a concrete payload, mode and permissions.
type backend interface {
	Open(payload string, mode Mode, permissions Permissions) error
	io.ReadWriteCloser
	Seek(offset int64, whence int) (int64, error)
	Flush() error
	GetProperty(key string) (string, bool)
	SetProperty(key, value string) error
}

type backendFactory func() backend

var (
	registryMu sync.RWMutex
	registry   = make(map[string]backendFactory)
)

// RegisterScheme arranges for Open("scheme://...", mode) to dispatch to
// factory. Called from each backend's package init(), mirroring
// RegisterImplementation's "must not collide" contract.
func RegisterScheme(scheme string, factory backendFactory) {
	if factory == nil {
		panic("iochannel: nil factory for scheme " + scheme)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[scheme]; ok {
		panic("iochannel: scheme already registered: " + scheme)
	}
	registry[scheme] = factory
}

// FindScheme returns the factory registered for scheme, or nil.
func FindScheme(scheme string) backendFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[scheme]
}

// Channel is a single open byte stream bound to one backend. Errors are
// sticky: once an operation fails, the Channel remembers the first
// error and every subsequent call returns it, following
// errors.Once's "first error wins" semantics (grounded on
// grailbio/base/errors.Once, which iochannel shares with serialize).
type Channel struct {
	uri     string
	mode    Mode
	backend backend
	sticky  errors.Once
	mu      sync.Mutex
}

// parseURI splits a "scheme://payload" string. It returns an error of
// kind ChannelBadInfoString if uri does not contain "://".
func parseURI(uri string) (scheme, payload string, err error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return "", "", errors.E(errors.ChannelBadInfoString, "iochannel: malformed URI "+uri)
	}
	return uri[:idx], uri[idx+3:], nil
}

// Open opens uri ("scheme://payload") in the given mode. permissions is
// optional and defaults to DefaultPermissions; schemes that address no
// filesystem permission bits (sockets, Mem, Null, Calc, ...) ignore it.
func Open(uri string, mode Mode, permissions ...Permissions) (*Channel, error) {
	perm := DefaultPermissions
	if len(permissions) > 0 {
		perm = permissions[0]
	}
	scheme, payload, err := parseURI(uri)
	if err != nil {
		return nil, err
	}
	factory := FindScheme(scheme)
	if factory == nil {
		return nil, errors.E(errors.ChannelBadOpenArg, "iochannel: no backend registered for scheme "+scheme)
	}
	be := factory()
	if err := be.Open(payload, mode, perm); err != nil {
		return nil, err
	}
	return &Channel{uri: uri, mode: mode, backend: be}, nil
}

// String returns the URI the channel was opened with.
func (c *Channel) String() string {
	return c.uri
}

// Err returns the first error recorded by any operation on c, or nil.
func (c *Channel) Err() error {
	return c.sticky.Err()
}

func (c *Channel) record(err error) error {
	c.sticky.Set(err)
	return err
}

// Read reads up to len(p) bytes. Once c has recorded an error, Read
// always returns it without touching the backend.
func (c *Channel) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sticky.Err(); err != nil {
		return 0, err
	}
	if !c.mode.has(ModeRead) {
		return 0, c.record(errors.E(errors.ChannelBadMode, "iochannel: channel not opened for reading"))
	}
	n, err := c.backend.Read(p)
	if err != nil && err != io.EOF {
		return n, c.record(errors.E("iochannel: read", err))
	}
	return n, err
}

// Write writes len(p) bytes, returning an error of kind
// ChannelShortWrite if fewer bytes were accepted than requested.
func (c *Channel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sticky.Err(); err != nil {
		return 0, err
	}
	if !c.mode.has(ModeWrite) && !c.mode.has(ModeAppend) {
		return 0, c.record(errors.E(errors.ChannelBadMode, "iochannel: channel not opened for writing"))
	}
	n, err := c.backend.Write(p)
	if err != nil {
		return n, c.record(errors.E(errors.ChannelShortWrite, err))
	}
	if n != len(p) {
		return n, c.record(errors.E(errors.ChannelShortWrite, "iochannel: short write"))
	}
	return n, nil
}

// Flush pushes any buffered output to the underlying transport.
func (c *Channel) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sticky.Err(); err != nil {
		return err
	}
	if err := c.backend.Flush(); err != nil {
		return c.record(err)
	}
	return nil
}

// Seek repositions the channel, for backends that support it.
func (c *Channel) Seek(offset int64, whence int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sticky.Err(); err != nil {
		return 0, err
	}
	n, err := c.backend.Seek(offset, whence)
	if err != nil {
		return n, c.record(err)
	}
	return n, nil
}

// Close releases the backend's resources. Close is idempotent: closing
// an already-closed or already-erred channel returns its sticky error.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sticky.Err(); err != nil {
		return err
	}
	if err := c.backend.Close(); err != nil {
		return c.record(err)
	}
	c.sticky.Set(errors.E(errors.ChannelBadDescriptor, "iochannel: channel closed"))
	return nil
}

// GetProperty returns a backend-specific property value, such as a
// socket's remote address or a file's name.
func (c *Channel) GetProperty(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.GetProperty(key)
}

// SetProperty sets a backend-specific property, such as a socket's
// read or write deadline. Keys are matched against each backend's
// advertised glob pattern (see iochannel/properties.go).
func (c *Channel) SetProperty(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backend.SetProperty(key, value); err != nil {
		return c.record(err)
	}
	return nil
}
