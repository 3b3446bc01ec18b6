package iochannel

import (
	"github.com/gobwas/glob"

	"github.com/HRI-EU/gobos/errors"
)

// matchPropertyKey reports whether key matches pattern, a glob such as
// "keepalive.*" or "buffer.size". Backends use it to validate
// SetProperty/GetProperty keys against the small set they actually
// support, grounded on the teacher's use of gobwas/glob for key
// matching in file listing.
func matchPropertyKey(pattern, key string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return pattern == key
	}
	return g.Match(key)
}

// unsupportedProperty is a shared GetProperty/SetProperty body for
// backends that expose no properties at all (Null, Fd, StdIn/Out/Err),
// and the fallback for keys the other backends do not support.
func unsupportedProperty(key string) (string, bool) {
	return "", false
}

func unsupportedSetProperty(key, value string) error {
	return errors.E(errors.ChannelBadOpenArg, "iochannel: unknown property "+key)
}
