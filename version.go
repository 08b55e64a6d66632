package hostcaps

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionAtLeast reports whether have >= min.
// An empty have never satisfies a non-empty min; an empty min is always
// satisfied.
func versionAtLeast(have, min string) bool {
	if min == "" {
		return true
	}
	if have == "" {
		return false
	}
	return compareVersions(have, min) >= 0
}

// compareVersions orders two dotted version strings, returning -1, 0, or +1.
// Well-formed versions are compared as semver; anything semver rejects
// (extra segments, non-numeric components) falls back to a segment-wise
// comparison that is numeric when both segments are numeric and
// lexicographic otherwise. Missing trailing segments count as zero, so
// "1.0" equals "1.0.0" and precedes "1.0.1".
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareDotted(a, b)
}

func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		if c := compareSegment(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
