package hostcaps

// Requirement describes a gate condition consumable by [Check].
//
// Built-in implementations include:
//   - [Feature]
//   - [FeatureGroup]
//   - [ExtensionRequirement]
//   - [FunctionRequirement]
//   - [ExecutableRequirement]
type Requirement interface {
	isRequirement()
}

// FeatureGroup is a reusable set of [Requirement] items.
//
// Groups can include simple [Feature] values and parameterized requirements.
type FeatureGroup []Requirement

// ExtensionRequirement requires a loaded extension, optionally at a minimum
// version under dotted version comparison.
type ExtensionRequirement struct {
	Name       string
	MinVersion string
}

// FunctionRequirement requires a named callable in the runtime.
type FunctionRequirement struct {
	Name string
}

// ExecutableRequirement requires an executable reachable through PATH.
type ExecutableRequirement struct {
	Name string
}

// RequireExtension creates a requirement for an extension. An empty
// minVersion only requires presence.
func RequireExtension(name, minVersion string) ExtensionRequirement {
	return ExtensionRequirement{Name: name, MinVersion: minVersion}
}

// RequireFunction creates a requirement for a named callable.
func RequireFunction(name string) FunctionRequirement {
	return FunctionRequirement{Name: name}
}

// RequireExecutable creates a requirement for an executable in PATH.
func RequireExecutable(name string) ExecutableRequirement {
	return ExecutableRequirement{Name: name}
}

func (Feature) isRequirement()               {}
func (FeatureGroup) isRequirement()          {}
func (ExtensionRequirement) isRequirement()  {}
func (FunctionRequirement) isRequirement()   {}
func (ExecutableRequirement) isRequirement() {}

type requirementSet struct {
	features    []Feature
	extensions  []ExtensionRequirement
	functions   []FunctionRequirement
	executables []ExecutableRequirement

	seenFeatures    map[Feature]struct{}
	seenExtensions  map[ExtensionRequirement]struct{}
	seenFunctions   map[FunctionRequirement]struct{}
	seenExecutables map[ExecutableRequirement]struct{}
}

func normalizeRequirements(required []Requirement) requirementSet {
	rs := requirementSet{
		seenFeatures:    map[Feature]struct{}{},
		seenExtensions:  map[ExtensionRequirement]struct{}{},
		seenFunctions:   map[FunctionRequirement]struct{}{},
		seenExecutables: map[ExecutableRequirement]struct{}{},
	}
	for _, req := range required {
		rs.add(req)
	}
	return rs
}

func (rs *requirementSet) add(req Requirement) {
	switch r := req.(type) {
	case Feature:
		if _, ok := rs.seenFeatures[r]; ok {
			return
		}
		rs.seenFeatures[r] = struct{}{}
		rs.features = append(rs.features, r)
	case FeatureGroup:
		for _, nested := range r {
			if nested == nil {
				continue
			}
			rs.add(nested)
		}
	case ExtensionRequirement:
		if _, ok := rs.seenExtensions[r]; ok {
			return
		}
		rs.seenExtensions[r] = struct{}{}
		rs.extensions = append(rs.extensions, r)
	case FunctionRequirement:
		if _, ok := rs.seenFunctions[r]; ok {
			return
		}
		rs.seenFunctions[r] = struct{}{}
		rs.functions = append(rs.functions, r)
	case ExecutableRequirement:
		if _, ok := rs.seenExecutables[r]; ok {
			return
		}
		rs.seenExecutables[r] = struct{}{}
		rs.executables = append(rs.executables, r)
	}
}
