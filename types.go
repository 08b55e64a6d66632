package hostcaps

import (
	"fmt"
	"strings"
)

// ProbeResult represents the outcome of a host capability probe.
type ProbeResult struct {
	// Supported indicates whether the capability is available.
	Supported bool
	// Error is non-nil if the probe itself failed (not just unsupported).
	Error error
}

// FeatureError represents an error when a required host capability is unavailable.
type FeatureError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %s: %s: %v", e.Feature, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature %s: %s", e.Feature, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Feature represents a host capability that can be checked via [Check].
type Feature int

const (
	// FeatureHardLink requires hard-link creation support.
	FeatureHardLink Feature = iota
	// FeatureSymlink requires symbolic-link creation support.
	FeatureSymlink
	// FeatureUserID requires a POSIX user-id lookup primitive.
	FeatureUserID
	// FeatureImageConvert requires the ImageMagick convert executable in PATH.
	FeatureImageConvert
	// FeatureImageIdentify requires the ImageMagick identify executable in PATH.
	FeatureImageIdentify
)

var featureNames = map[Feature]string{
	FeatureHardLink:      "hardlink",
	FeatureSymlink:       "symlink",
	FeatureUserID:        "user-id",
	FeatureImageConvert:  "image-convert",
	FeatureImageIdentify: "image-identify",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Feature(%d)", f)
}

// FeatureValues returns all known features in declaration order.
func FeatureValues() []Feature {
	return []Feature{
		FeatureHardLink,
		FeatureSymlink,
		FeatureUserID,
		FeatureImageConvert,
		FeatureImageIdentify,
	}
}

// FeatureNames returns the string names of all known features in declaration order.
func FeatureNames() []string {
	values := FeatureValues()
	names := make([]string, 0, len(values))
	for _, f := range values {
		names = append(names, f.String())
	}
	return names
}

// OS is the host operating-system classification.
//
// The four canonical values cover the platforms with distinct behavior;
// any other host name is carried verbatim so callers can still log or
// branch on it.
type OS string

const (
	OSWindows OS = "windows"
	OSMac     OS = "mac"
	OSLinux   OS = "linux"
	OSFreeBSD OS = "freebsd"
)

// Known returns true if the classification is one of the canonical values.
func (o OS) Known() bool {
	switch o {
	case OSWindows, OSMac, OSLinux, OSFreeBSD:
		return true
	}
	return false
}

// IsWindows returns true for the Windows classification.
// Everything else, including verbatim fallback values, takes the Unix-like
// code paths.
func (o OS) IsWindows() bool {
	return o == OSWindows
}

// ClassifyOS maps a host OS name string to its classification.
// Matching is case-insensitive: prefix "windows" and "mac", exact "linux",
// prefix "freebsd". "Darwin" is mapped to [OSMac] explicitly. Anything else
// is returned verbatim.
func ClassifyOS(name string) OS {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(lower, "windows"):
		return OSWindows
	case strings.HasPrefix(lower, "mac"), lower == "darwin":
		return OSMac
	case lower == "linux":
		return OSLinux
	case strings.HasPrefix(lower, "freebsd"):
		return OSFreeBSD
	}
	return OS(name)
}
