package utils

import (
	"fmt"
	"log"
	"runtime/debug"
)

// GoSafe runs fn in a goroutine and recovers from panics so a single
// worker cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// FormatSignedPct formats a percentage change with an explicit sign,
// e.g. "+0.25%". Returns an empty string for a nil input.
func FormatSignedPct(pct *float64) string {
	if pct == nil {
		return ""
	}
	return fmt.Sprintf("%+.2f%%", *pct)
}
