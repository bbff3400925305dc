//go:build !debug
// +build !debug

package flames

import (
	"fmt"
	"sync"
)

// DebugLog prints only when Debug is set; build with -tags debug to always print.
func DebugLog(format string, args ...interface{}) {
	if Debug {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

var seen sync.Map

// DebugLogOnce prints the first message logged with a given format.
func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	if _, dup := seen.LoadOrStore(format, struct{}{}); !dup {
		DebugLog(format, args...)
	}
}
