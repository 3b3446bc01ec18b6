package iochannel

import (
	"net"
	"strings"
	"time"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterScheme("Socket", func() backend { return &netBackend{network: "unix"} })
	RegisterScheme("Tcp", func() backend { return &netBackend{network: "tcp"} })
	RegisterScheme("Udp", func() backend { return &netBackend{network: "udp"} })
}

// netBackend binds a net.Conn, grounded on IOChannelSocket.c /
// IOChannelTcp.c and the shared IOChannelGenericSocket.h contract.
// Socket addresses a Unix domain socket path; Tcp and Udp address
// "host:port". The payload may be prefixed with "listen:" to open as a
// server accepting exactly one connection, mirroring the original's
// client/server mode split.
type netBackend struct {
	network string
	conn    net.Conn
	ln      net.Listener
}

func (b *netBackend) Open(payload string, mode Mode, permissions Permissions) error {
	if strings.HasPrefix(payload, "listen:") {
		addr := strings.TrimPrefix(payload, "listen:")
		ln, err := net.Listen(b.network, addr)
		if err != nil {
			return errors.E(errors.ChannelUnableToConnect, "iochannel: listen "+addr, err)
		}
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			return errors.E(errors.ChannelUnableToConnect, "iochannel: accept", err)
		}
		b.ln = ln
		b.conn = conn
		return nil
	}
	conn, err := net.DialTimeout(b.network, payload, 10*time.Second)
	if err != nil {
		return errors.E(errors.ChannelUnableToConnect, "iochannel: dial "+payload, err)
	}
	b.conn = conn
	return nil
}

func (b *netBackend) Read(p []byte) (int, error)  { return b.conn.Read(p) }
func (b *netBackend) Write(p []byte) (int, error) { return b.conn.Write(p) }
func (b *netBackend) Flush() error                { return nil }

func (b *netBackend) Close() error {
	err := b.conn.Close()
	if b.ln != nil {
		if lerr := b.ln.Close(); err == nil {
			err = lerr
		}
	}
	if err != nil {
		return errors.E(errors.ChannelBadDescriptor, "iochannel: close", err)
	}
	return nil
}

func (b *netBackend) Seek(offset int64, whence int) (int64, error) {
	return 0, errors.E(errors.NotSupported, "iochannel: sockets are not seekable")
}

func (b *netBackend) GetProperty(key string) (string, bool) {
	switch {
	case matchPropertyKey("remote.addr", key):
		return b.conn.RemoteAddr().String(), true
	case matchPropertyKey("local.addr", key):
		return b.conn.LocalAddr().String(), true
	}
	return unsupportedProperty(key)
}

// SetProperty supports "deadline.read" and "deadline.write", each a
// duration string parsed by time.ParseDuration, matching the
// keepalive/timeout knobs IOChannelGenericSocket.h exposes as backend
// options.
func (b *netBackend) SetProperty(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.E(errors.ChannelBadOpenArg, "iochannel: bad duration "+value, err)
	}
	switch {
	case matchPropertyKey("deadline.read", key):
		return b.conn.SetReadDeadline(time.Now().Add(d))
	case matchPropertyKey("deadline.write", key):
		return b.conn.SetWriteDeadline(time.Now().Add(d))
	}
	return unsupportedSetProperty(key, value)
}
