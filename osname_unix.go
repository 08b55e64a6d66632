//go:build unix

package hostcaps

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// hostOSName returns the uname sysname (e.g. "Linux", "Darwin", "FreeBSD").
func hostOSName() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.GOOS
	}
	return unix.ByteSliceToString(uts.Sysname[:])
}
