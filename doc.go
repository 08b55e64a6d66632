// Package hostcaps provides static capability detection for the host
// environment.
//
// It answers questions a program typically asks once at startup: can this
// host create hard links and symbolic links, does it expose POSIX user ids,
// is an optional module ("extension") compiled into the running binary (with
// an optional minimum-version floor), is a named callable registered, and are
// the ImageMagick convert/identify executables reachable through PATH.
// Resolved executable paths and the OS classification are memoized for the
// process lifetime: the host OS and its installed binaries are assumed
// immutable while the process runs.
//
// # API Model
//
// hostcaps intentionally exposes two API families:
//   - [Check] for pass/fail readiness validation using [Requirement] items
//   - [Probe]/[ProbeWith] for diagnostics data collection using WithX options
//
// Keep these families separate:
//   - model stable boolean gates as [Feature]
//   - model parameterized gates as [Requirement] item types
//     ([ExtensionRequirement], [FunctionRequirement], [ExecutableRequirement])
//
// # Quick Check
//
// Validate that required host capabilities are available:
//
//	err := hostcaps.Check(
//	    hostcaps.FeatureSymlink,
//	    hostcaps.RequireExecutable("convert"),
//	    hostcaps.RequireExtension("golang.org/x/sys", "0.30.0"),
//	)
//	if err != nil {
//	    var fe *hostcaps.FeatureError
//	    if errors.As(err, &fe) {
//	        log.Fatalf("host not ready: %s — %s", fe.Feature, fe.Reason)
//	    }
//	    log.Fatal(err)
//	}
//
// # Full Probe
//
// Probe everything for diagnostics:
//
//	sf := hostcaps.Probe()
//	fmt.Printf("OS: %s\n", sf.OS)
//	fmt.Printf("symlinks: %v\n", sf.Symlink.Supported)
//	fmt.Printf("convert: %s\n", sf.ImageConvertPath)
//	fmt.Println(sf) // human-readable summary
//
// # Types
//
// [ProbeResult] represents the outcome of probing a single capability:
//   - Supported: true if the capability is available
//   - Error: non-nil if the probe itself failed (not just unsupported)
//
// [SystemFeatures] aggregates all probe results into a single struct.
//
// [OS] is the host OS classification. Unrecognized host names are carried
// verbatim as the fallback value rather than collapsed to a sentinel.
//
// [Prober] is the stateful entry point. The package-level functions operate
// on a shared default instance; tests construct isolated instances via [New]
// with injected environment, stat, and [Runtime] implementations so no probe
// depends on the real host.
//
// Absence of a capability is never an error: every query degrades to false
// or an empty path. Only [Check] surfaces a typed *[FeatureError], and only
// for capabilities the caller declared as required.
package hostcaps
