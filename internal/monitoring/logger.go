// Package monitoring carries the process-wide diagnostic logger used by the
// CLI and the orbit store.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be redirected or muted with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Timed logs label and the elapsed time when the returned func is called.
//
//	defer monitoring.Timed("transform %d samples", n)()
func Timed(label string, v ...interface{}) func() {
	start := time.Now()
	return func() {
		Logf(label+" took %s", append(v, time.Since(start).Round(time.Microsecond))...)
	}
}
