//go:build windows

package hostcaps

// hostOSName returns the historical Windows OS name string.
func hostOSName() string {
	return "Windows NT"
}
