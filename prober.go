package hostcaps

import (
	"os"
	"strings"
	"sync"
)

// Executable names resolved and memoized by the prober.
const (
	imageConvertName  = "convert"
	imageIdentifyName = "identify"
)

// pathEnvVar is the executable search path variable. Colon-separated on
// Unix-like hosts, semicolon-separated on Windows.
const pathEnvVar = "PATH"

// Prober answers capability questions about the host. Each query is
// independently callable and side-effect-free except for populating its own
// cache slot: the two image-executable paths and the OS classification are
// resolved once and reused for the lifetime of the instance, including the
// not-found result.
//
// The zero value is not usable; construct instances with [New]. The
// package-level functions share the instance returned by [Default].
type Prober struct {
	rt     Runtime
	getenv func(string) string
	stat   func(string) bool

	// mu guards the cache slots below. nil means not yet probed; a non-nil
	// pointer (possibly to an empty string) means resolved, never re-probe.
	mu           sync.Mutex
	convertPath  *string
	identifyPath *string
	osClass      *OS
}

// Option configures a [Prober].
type Option func(*Prober)

// WithRuntime injects the runtime introspection implementation.
// This is primarily for testing; production code uses [HostRuntime].
func WithRuntime(rt Runtime) Option {
	return func(p *Prober) {
		p.rt = rt
	}
}

// WithEnviron injects the environment lookup used for the PATH search.
// This is primarily for testing; production code reads the real environment.
func WithEnviron(getenv func(string) string) Option {
	return func(p *Prober) {
		p.getenv = getenv
	}
}

// WithStat injects the file-existence predicate used for the PATH search.
// This is primarily for testing; production code stats the real filesystem.
func WithStat(stat func(string) bool) Option {
	return func(p *Prober) {
		p.stat = stat
	}
}

// New constructs a Prober. Without options it probes the real host.
func New(opts ...Option) *Prober {
	p := &Prober{
		rt:     HostRuntime(),
		getenv: os.Getenv,
		stat:   statFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// statFile reports whether path exists and is not a directory.
// Contents are never read and the file is never executed.
func statFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var defaultProber = sync.OnceValue(func() *Prober {
	return New()
})

// Default returns the shared Prober backing the package-level functions.
func Default() *Prober {
	return defaultProber()
}

// SupportsHardLink reports whether the host can create hard links.
func (p *Prober) SupportsHardLink() bool {
	return p.rt.SupportsHardLink()
}

// SupportsSymlink reports whether the host can create symbolic links.
func (p *Prober) SupportsSymlink() bool {
	return p.rt.SupportsSymlink()
}

// SupportsUserID reports whether the host exposes a POSIX user-id primitive.
func (p *Prober) SupportsUserID() bool {
	return p.rt.SupportsUserID()
}

// HasExtension reports whether the named extension is loaded.
func (p *Prober) HasExtension(name string) bool {
	_, ok := p.rt.ExtensionVersion(name)
	return ok
}

// HasExtensionVersion reports whether the named extension is loaded at
// version minVersion or newer. An empty minVersion only requires presence.
// An extension that is not loaded fails regardless of minVersion; a loaded
// extension with no recorded version fails any non-empty floor.
func (p *Prober) HasExtensionVersion(name, minVersion string) bool {
	version, ok := p.rt.ExtensionVersion(name)
	if !ok {
		return false
	}
	return versionAtLeast(version, minVersion)
}

// HasFunction reports whether a callable of that name exists in the runtime.
func (p *Prober) HasFunction(name string) bool {
	return p.rt.HasFunction(name)
}

// OSClassification classifies the host OS name, caching the answer.
func (p *Prober) OSClassification() OS {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.osClass == nil {
		c := ClassifyOS(p.rt.OSName())
		p.osClass = &c
	}
	return *p.osClass
}

// ImageConvertExecutable returns the resolved path of the ImageMagick
// convert executable, or "" if none was found. The first call resolves via
// the PATH search; later calls return the cached value.
func (p *Prober) ImageConvertExecutable() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.convertPath == nil {
		path := p.lookupExecutableLocked(imageConvertName)
		p.convertPath = &path
	}
	return *p.convertPath
}

// HasImageConvert reports whether the convert executable was found.
func (p *Prober) HasImageConvert() bool {
	return p.ImageConvertExecutable() != ""
}

// ImageIdentifyExecutable returns the resolved path of the ImageMagick
// identify executable, or "" if none was found. Same caching contract as
// [Prober.ImageConvertExecutable].
func (p *Prober) ImageIdentifyExecutable() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identifyPath == nil {
		path := p.lookupExecutableLocked(imageIdentifyName)
		p.identifyPath = &path
	}
	return *p.identifyPath
}

// HasImageIdentify reports whether the identify executable was found.
func (p *Prober) HasImageIdentify() bool {
	return p.ImageIdentifyExecutable() != ""
}

// LookupExecutable searches the PATH variable for an executable file named
// name and returns the path of the first match, or "" if none exists. The
// result is not cached; the two image-executable accessors wrap this with
// memoization.
//
// The search follows the *classified* OS, not the build platform, so the
// Windows semantics stay testable everywhere: on Windows the list is
// semicolon-separated, candidates are {dir}\{name}.exe, and the returned
// path omits the .exe suffix. Everywhere else the list is colon-separated
// and candidates are {dir}/{name}. With PATH unset or blank the current
// directory is consulted and a bare name returned on a hit, leaving final
// resolution to the shell.
func (p *Prober) LookupExecutable(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookupExecutableLocked(name)
}

func (p *Prober) lookupExecutableLocked(name string) string {
	if p.osClass == nil {
		c := ClassifyOS(p.rt.OSName())
		p.osClass = &c
	}
	if p.osClass.IsWindows() {
		return p.lookupWindows(name)
	}
	return p.lookupUnix(name)
}

func (p *Prober) lookupUnix(name string) string {
	path := p.getenv(pathEnvVar)
	if strings.TrimSpace(path) == "" {
		if p.stat("./" + name) {
			return name
		}
		return ""
	}
	for _, dir := range strings.Split(path, ":") {
		candidate := dir + "/" + name
		if p.stat(candidate) {
			return candidate
		}
	}
	return ""
}

func (p *Prober) lookupWindows(name string) string {
	path := p.getenv(pathEnvVar)
	if strings.TrimSpace(path) == "" {
		if p.stat(name + ".exe") {
			return name
		}
		return ""
	}
	for _, dir := range strings.Split(path, ";") {
		if p.stat(dir + `\` + name + ".exe") {
			return dir + `\` + name
		}
	}
	return ""
}

// Reset clears all cache slots, forcing the next query to re-probe.
// This is primarily useful for testing.
func (p *Prober) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.convertPath = nil
	p.identifyPath = nil
	p.osClass = nil
}
