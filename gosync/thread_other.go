//go:build !linux

package gosync

import "github.com/HRI-EU/gobos/errors"

// ApplySchedHints is a documented no-op on non-Linux platforms: there is
// no portable way to set an OS thread's scheduling priority from Go
// without cgo.
func ApplySchedHints(t *Thread) error {
	return errors.E(errors.NotSupported, "gosync: ApplySchedHints requires linux")
}
