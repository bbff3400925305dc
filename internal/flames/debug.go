//go:build debug
// +build debug

package flames

import (
	"fmt"
	"sync"
	"time"
)

var started = time.Now()

// DebugLog always prints in debug builds, prefixed with the time since start.
func DebugLog(format string, args ...interface{}) {
	fmt.Printf("[DEBUG %9.3fs] "+format+"\n", append([]interface{}{time.Since(started).Seconds()}, args...)...)
}

var seen sync.Map

// DebugLogOnce prints the first message logged with a given format.
func DebugLogOnce(format string, args ...interface{}) {
	if _, dup := seen.LoadOrStore(format, struct{}{}); !dup {
		DebugLog(format, args...)
	}
}
