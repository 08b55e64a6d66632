package hostcaps

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"
)

// Runtime is the narrow introspection surface the prober reads capabilities
// from. The default implementation queries the real host; tests supply fakes
// so extension, function, and OS answers are deterministic.
type Runtime interface {
	// OSName returns the host operating-system name string (e.g. "Linux",
	// "Darwin", "Windows NT").
	OSName() string

	// Extensions lists the names of all loaded extensions.
	Extensions() []string
	// ExtensionVersion returns the version of a loaded extension and whether
	// it is loaded at all.
	ExtensionVersion(name string) (string, bool)

	// Functions lists the names of all registered callables.
	Functions() []string
	// HasFunction reports whether a named callable is registered.
	HasFunction(name string) bool

	// SupportsHardLink reports whether the host can create hard links.
	SupportsHardLink() bool
	// SupportsSymlink reports whether the host can create symbolic links.
	SupportsSymlink() bool
	// SupportsUserID reports whether the host exposes POSIX user ids.
	SupportsUserID() bool
}

// hostRuntime implements Runtime against the real host.
//
// Extensions are the modules recorded in the running binary's build info:
// a Go binary's analog of optional loaded modules, each with the module
// version. Functions are whatever the embedding application registered via
// [RegisterFunction]; Go has no runtime symbol lookup, so the registry is
// the explicit equivalent.
type hostRuntime struct{}

// HostRuntime returns the Runtime backed by the real host.
func HostRuntime() Runtime {
	return hostRuntime{}
}

func (hostRuntime) OSName() string {
	return hostOSName()
}

var readBuildInfo = sync.OnceValue(func() map[string]string {
	mods := make(map[string]string)
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return mods
	}
	mods[bi.Main.Path] = bi.Main.Version
	for _, dep := range bi.Deps {
		m := dep
		if m.Replace != nil {
			m = m.Replace
		}
		mods[dep.Path] = m.Version
	}
	return mods
})

func (hostRuntime) Extensions() []string {
	mods := readBuildInfo()
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (hostRuntime) ExtensionVersion(name string) (string, bool) {
	version, ok := readBuildInfo()[name]
	return version, ok
}

// Process-wide callable registry backing HasFunction on the real host.
var (
	funcMu       sync.RWMutex
	funcRegistry = map[string]any{}
)

// RegisterFunction registers a named callable with the host runtime so that
// [Prober.HasFunction] reports it as present. Registering nil removes the
// name.
func RegisterFunction(name string, fn any) {
	funcMu.Lock()
	defer funcMu.Unlock()
	if fn == nil {
		delete(funcRegistry, name)
		return
	}
	funcRegistry[name] = fn
}

func (hostRuntime) Functions() []string {
	funcMu.RLock()
	defer funcMu.RUnlock()
	names := make([]string, 0, len(funcRegistry))
	for name := range funcRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (hostRuntime) HasFunction(name string) bool {
	funcMu.RLock()
	defer funcMu.RUnlock()
	_, ok := funcRegistry[name]
	return ok
}

// Link support is probed by attempting the operation in a scratch directory.
// A static per-GOOS answer would be wrong: symlink creation on Windows
// depends on privilege, and hard links depend on the filesystem backing the
// temp directory. The attempt runs once per process.
var (
	hardLinkSupported = sync.OnceValue(func() bool {
		return probeLinkSupport(os.Link)
	})
	symlinkSupported = sync.OnceValue(func() bool {
		return probeLinkSupport(os.Symlink)
	})
)

func probeLinkSupport(link func(oldname, newname string) error) bool {
	dir, err := os.MkdirTemp("", "hostcaps-link-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, nil, 0o600); err != nil {
		return false
	}
	return link(src, filepath.Join(dir, "dst")) == nil
}

func (hostRuntime) SupportsHardLink() bool {
	return hardLinkSupported()
}

func (hostRuntime) SupportsSymlink() bool {
	return symlinkSupported()
}

func (hostRuntime) SupportsUserID() bool {
	// os.Getuid returns -1 where POSIX user ids don't exist (Windows).
	return os.Getuid() != -1
}
