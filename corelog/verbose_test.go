package corelog_test

import (
	"os"
	"testing"

	"github.com/HRI-EU/gobos/corelog"
)

// TestVerboseEnvRaisesLevelOnce exercises VERBOSE=TRUE through the
// package's exported surface rather than its unexported once-guarded
// init helper: SetLevel/GetOutputter already reflect whatever init()
// decided by the time this test runs in-process.
func TestVerboseEnvRaisesLevelOnce(t *testing.T) {
	if os.Getenv("VERBOSE") == "TRUE" {
		if got := corelog.GetOutputter().Level(); got != corelog.Debug {
			t.Errorf("GetOutputter().Level() = %v, want Debug when VERBOSE=TRUE", got)
		}
	}
	// SetLevel remains independently callable regardless of how the
	// environment-driven init resolved.
	corelog.SetLevel(corelog.Info)
	if got := corelog.GetOutputter().Level(); got != corelog.Info {
		t.Errorf("GetOutputter().Level() = %v, want Info after SetLevel", got)
	}
}
