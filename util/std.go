// Utility functions that would not hurt the simplicity of Go
// if they would be in the builtins/stdlib.
package util

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Min returns the minimum of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// Max returns the maximum of a and b.
func Max(a, b int) int {
	if a < b {
		return b
	}

	return a
}

// Min64 is like Min() but for int64
func Min64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

// Clamp clamps x into [lo, hi]
func Clamp(x, lo, hi int) int {
	return Max(lo, Min(x, hi))
}

// Closer closes c and logs the error, if any.
// Useful in defer statements where the error would be dropped otherwise.
func Closer(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warnf("failed to close: %v", err)
	}
}
