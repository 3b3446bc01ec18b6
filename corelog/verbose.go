package corelog

import (
	"os"

	"github.com/HRI-EU/gobos/sync/once"
)

// verboseInit guards the one-time VERBOSE environment lookup; module
// state that used to live as C module-level globals
// (Any_debugLevel/Any_minDebugLevel) collapses into this single
// once-guarded check.
var verboseInit once.Task

// applyVerboseEnv raises the standard logger to Debug the first time
// it is called if VERBOSE=TRUE is set in the environment. Later calls
// are no-ops, matching the source's "read once at startup" contract.
func applyVerboseEnv() {
	verboseInit.Do(func() error {
		if os.Getenv("VERBOSE") == "TRUE" {
			SetLevel(Debug)
		}
		return nil
	})
}

func init() {
	applyVerboseEnv()
}
