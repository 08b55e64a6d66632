//go:build !unix && !windows

package hostcaps

import "runtime"

// hostOSName falls back to the Go platform identifier where uname is not
// available.
func hostOSName() string {
	return runtime.GOOS
}
