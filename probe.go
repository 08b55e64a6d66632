package hostcaps

import "sync"

// Cache for Probe() results. Host capabilities don't change at runtime,
// so we cache after the first probe to avoid repeated filesystem work.
var (
	cachedFeatures *SystemFeatures
	cacheMu        sync.Mutex
)

// ExtensionInfo describes one probed extension.
type ExtensionInfo struct {
	// Loaded indicates whether the extension is present in the runtime.
	Loaded bool
	// Version is the loaded extension's version string, if recorded.
	Version string
}

// SystemFeatures holds the results of all host capability probes.
type SystemFeatures struct {
	// Link and identity primitives
	HardLink ProbeResult
	Symlink  ProbeResult
	UserID   ProbeResult

	// ImageMagick executables resolved through PATH.
	// The ProbeResult mirrors path presence; the path fields carry the
	// resolved locations ("" when not found).
	ImageConvert      ProbeResult
	ImageIdentify     ProbeResult
	ImageConvertPath  string
	ImageIdentifyPath string

	// Extensions maps probed extension names to their load state.
	Extensions map[string]ExtensionInfo

	// Functions maps probed callable names to their presence.
	Functions map[string]bool

	// OS is the host classification. Always populated.
	OS OS
}

// probeConfig holds the configuration for a probe operation.
type probeConfig struct {
	links       bool
	executables bool
	all         bool
	extensions  []string
	functions   []string
}

// ProbeOption configures what features to probe.
type ProbeOption func(*probeConfig)

// WithLinks probes hard-link, symlink, and user-id support.
func WithLinks() ProbeOption {
	return func(c *probeConfig) {
		c.links = true
	}
}

// WithExecutables resolves the convert and identify executables.
func WithExecutables() ProbeOption {
	return func(c *probeConfig) {
		c.executables = true
	}
}

// WithExtensions probes the named extensions.
func WithExtensions(names ...string) ProbeOption {
	return func(c *probeConfig) {
		c.extensions = append(c.extensions, names...)
	}
}

// WithFunctions probes the named callables.
func WithFunctions(names ...string) ProbeOption {
	return func(c *probeConfig) {
		c.functions = append(c.functions, names...)
	}
}

// WithAll enables probing of all features: links, executables, every loaded
// extension, and every registered callable.
func WithAll() ProbeOption {
	return func(c *probeConfig) {
		c.links = true
		c.executables = true
		c.extensions = nil // sentinel: enumerate from the runtime
		c.functions = nil
		c.all = true
	}
}

// ProbeWith probes host capabilities based on the provided options.
// The OS classification is always populated regardless of options (the
// check is cheap and useful for diagnostics). If no options are provided,
// only the classification is populated.
func (p *Prober) ProbeWith(opts ...ProbeOption) *SystemFeatures {
	cfg := &probeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	sf := &SystemFeatures{OS: p.OSClassification()}

	if cfg.links {
		sf.HardLink = ProbeResult{Supported: p.SupportsHardLink()}
		sf.Symlink = ProbeResult{Supported: p.SupportsSymlink()}
		sf.UserID = ProbeResult{Supported: p.SupportsUserID()}
	}

	if cfg.executables {
		sf.ImageConvertPath = p.ImageConvertExecutable()
		sf.ImageIdentifyPath = p.ImageIdentifyExecutable()
		sf.ImageConvert = ProbeResult{Supported: sf.ImageConvertPath != ""}
		sf.ImageIdentify = ProbeResult{Supported: sf.ImageIdentifyPath != ""}
	}

	extensions := cfg.extensions
	functions := cfg.functions
	if cfg.all {
		extensions = p.rt.Extensions()
		functions = p.rt.Functions()
	}

	if len(extensions) > 0 {
		sf.Extensions = make(map[string]ExtensionInfo, len(extensions))
		for _, name := range extensions {
			version, loaded := p.rt.ExtensionVersion(name)
			sf.Extensions[name] = ExtensionInfo{Loaded: loaded, Version: version}
		}
	}

	if len(functions) > 0 {
		sf.Functions = make(map[string]bool, len(functions))
		for _, name := range functions {
			sf.Functions[name] = p.HasFunction(name)
		}
	}

	return sf
}

// Probe probes all host capabilities on the default prober and caches the
// result. Subsequent calls return the cached result without re-probing.
// Use [ProbeNoCache] if you need fresh results.
func Probe() *SystemFeatures {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cachedFeatures != nil {
		return cachedFeatures
	}
	cachedFeatures = Default().ProbeWith(WithAll())
	return cachedFeatures
}

// ProbeNoCache probes all host capabilities without using the cache.
func ProbeNoCache() *SystemFeatures {
	return Default().ProbeWith(WithAll())
}

// ResetCache clears the cached [Probe] result, forcing the next call to
// re-probe. This is primarily useful for testing.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cachedFeatures = nil
}
