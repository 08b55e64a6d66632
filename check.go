package hostcaps

import "fmt"

// Check validates the specified requirements against the default prober and
// returns a *[FeatureError] for the first unsatisfied requirement, or nil if
// all are met.
func Check(required ...Requirement) error {
	return Default().Check(required...)
}

// Check validates the specified requirements and returns a *[FeatureError]
// for the first unsatisfied requirement, or nil if all are met.
func (p *Prober) Check(required ...Requirement) error {
	rs := normalizeRequirements(required)

	sf := p.ProbeWith(probeOptionsFor(rs.features)...)

	for _, f := range rs.features {
		result, known := sf.Result(f)
		if !known {
			return &FeatureError{Feature: f.String(), Reason: "unknown feature"}
		}
		if !result.Supported {
			return &FeatureError{
				Feature: f.String(),
				Reason:  sf.Diagnose(f),
				Err:     result.Error,
			}
		}
	}

	for _, req := range rs.extensions {
		version, loaded := p.rt.ExtensionVersion(req.Name)
		if !loaded {
			return &FeatureError{
				Feature: fmt.Sprintf("extension %s", req.Name),
				Reason:  "extension not loaded in this runtime",
			}
		}
		if !versionAtLeast(version, req.MinVersion) {
			reason := fmt.Sprintf("loaded version %q is below the required %q", version, req.MinVersion)
			if version == "" {
				reason = fmt.Sprintf("loaded without a version; cannot satisfy required %q", req.MinVersion)
			}
			return &FeatureError{
				Feature: fmt.Sprintf("extension %s", req.Name),
				Reason:  reason,
			}
		}
	}

	for _, req := range rs.functions {
		if p.HasFunction(req.Name) {
			continue
		}
		return &FeatureError{
			Feature: fmt.Sprintf("function %s", req.Name),
			Reason:  "callable not present in this runtime",
		}
	}

	for _, req := range rs.executables {
		if p.LookupExecutable(req.Name) != "" {
			continue
		}
		return &FeatureError{
			Feature: fmt.Sprintf("executable %s", req.Name),
			Reason:  fmt.Sprintf("no %q found in the executable search path", req.Name),
		}
	}

	return nil
}

// Result maps a [Feature] to its corresponding [ProbeResult] in SystemFeatures.
// Returns false as the second value if the feature is unknown.
func (sf *SystemFeatures) Result(f Feature) (ProbeResult, bool) {
	switch f {
	case FeatureHardLink:
		return sf.HardLink, true
	case FeatureSymlink:
		return sf.Symlink, true
	case FeatureUserID:
		return sf.UserID, true
	case FeatureImageConvert:
		return sf.ImageConvert, true
	case FeatureImageIdentify:
		return sf.ImageIdentify, true
	default:
		return ProbeResult{}, false
	}
}

// Diagnose returns an enriched reason string explaining why a feature
// is not supported and what the operator can do to fix it.
func (sf *SystemFeatures) Diagnose(f Feature) string {
	switch f {
	case FeatureHardLink:
		return "hard-link creation failed; the filesystem backing the temp directory may not support links"
	case FeatureSymlink:
		if sf.OS.IsWindows() {
			return "symlink creation denied; enable Developer Mode or grant SeCreateSymbolicLinkPrivilege"
		}
		return "symlink creation failed; the filesystem may not support symbolic links"
	case FeatureUserID:
		return "no POSIX user-id primitive on this platform"
	case FeatureImageConvert:
		return "no 'convert' executable in PATH; install ImageMagick or extend PATH"
	case FeatureImageIdentify:
		return "no 'identify' executable in PATH; install ImageMagick or extend PATH"
	}

	// Fallback: use the probe error if available.
	result, known := sf.Result(f)
	if known && result.Error != nil {
		return result.Error.Error()
	}
	return "not supported"
}

// probeOptionsFor determines which [ProbeOption] functions are needed
// for the given feature requirements.
func probeOptionsFor(reqs []Feature) []ProbeOption {
	var needLinks bool
	var needExecutables bool

	for _, f := range reqs {
		switch f {
		case FeatureHardLink, FeatureSymlink, FeatureUserID:
			needLinks = true
		case FeatureImageConvert, FeatureImageIdentify:
			needExecutables = true
		}
	}

	var opts []ProbeOption
	if needLinks {
		opts = append(opts, WithLinks())
	}
	if needExecutables {
		opts = append(opts, WithExecutables())
	}
	return opts
}
