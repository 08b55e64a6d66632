package hostcaps

import (
	"errors"
	"fmt"
	"testing"
)

func TestSystemFeatures_Result(t *testing.T) {
	sf := &SystemFeatures{
		HardLink:      ProbeResult{Supported: true},
		Symlink:       ProbeResult{Supported: true},
		UserID:        ProbeResult{Supported: false},
		ImageConvert:  ProbeResult{Supported: true},
		ImageIdentify: ProbeResult{Supported: false},
	}

	tests := []struct {
		feature   Feature
		wantOK    bool
		wantValue bool
	}{
		{FeatureHardLink, true, true},
		{FeatureSymlink, true, true},
		{FeatureUserID, true, false},
		{FeatureImageConvert, true, true},
		{FeatureImageIdentify, true, false},
		{Feature(999), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.feature.String(), func(t *testing.T) {
			result, ok := sf.Result(tt.feature)
			if ok != tt.wantOK {
				t.Errorf("Result() ok = %v, want %v", ok, tt.wantOK)
			}
			if result.Supported != tt.wantValue {
				t.Errorf("Result() Supported = %v, want %v", result.Supported, tt.wantValue)
			}
		})
	}
}

func TestSystemFeatures_Diagnose(t *testing.T) {
	t.Run("symlink on windows", func(t *testing.T) {
		sf := &SystemFeatures{OS: OSWindows}
		got := sf.Diagnose(FeatureSymlink)
		if got != "symlink creation denied; enable Developer Mode or grant SeCreateSymbolicLinkPrivilege" {
			t.Errorf("Diagnose(FeatureSymlink) = %q", got)
		}
	})

	t.Run("symlink elsewhere", func(t *testing.T) {
		sf := &SystemFeatures{OS: OSLinux}
		got := sf.Diagnose(FeatureSymlink)
		if got != "symlink creation failed; the filesystem may not support symbolic links" {
			t.Errorf("Diagnose(FeatureSymlink) = %q", got)
		}
	})

	t.Run("image convert", func(t *testing.T) {
		sf := &SystemFeatures{OS: OSLinux}
		got := sf.Diagnose(FeatureImageConvert)
		if got != "no 'convert' executable in PATH; install ImageMagick or extend PATH" {
			t.Errorf("Diagnose(FeatureImageConvert) = %q", got)
		}
	})

	t.Run("fallback uses probe error", func(t *testing.T) {
		sf := &SystemFeatures{
			HardLink: ProbeResult{Supported: false, Error: fmt.Errorf("boom")},
		}
		// FeatureHardLink has dedicated text; an unknown feature with no
		// result falls through to the generic answer.
		if got := sf.Diagnose(Feature(999)); got != "not supported" {
			t.Errorf("Diagnose(unknown) = %q", got)
		}
	})
}

func TestCheck_AllRequirementsMet(t *testing.T) {
	p := New(
		WithRuntime(&fakeRuntime{
			osName:     "Linux",
			hardLink:   true,
			symlink:    true,
			userID:     true,
			extensions: map[string]string{"imagick": "6.9.7"},
			functions:  map[string]bool{"exif_read": true},
		}),
		WithEnviron(staticEnv(map[string]string{"PATH": "/fake/bin"})),
		WithStat(func(path string) bool { return path == "/fake/bin/convert" }),
	)

	err := p.Check(
		FeatureHardLink,
		FeatureSymlink,
		FeatureUserID,
		FeatureImageConvert,
		RequireExtension("imagick", "6.9"),
		RequireFunction("exif_read"),
		RequireExecutable("convert"),
	)
	if err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
}

func TestCheck_FirstUnmetFeatureFails(t *testing.T) {
	p := New(
		WithRuntime(&fakeRuntime{osName: "Linux", hardLink: true, symlink: false}),
		WithEnviron(staticEnv(nil)),
		WithStat(func(string) bool { return false }),
	)

	err := p.Check(FeatureHardLink, FeatureSymlink)
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("Check() error = %v, want *FeatureError", err)
	}
	if fe.Feature != "symlink" {
		t.Errorf("FeatureError.Feature = %q, want %q", fe.Feature, "symlink")
	}
	if fe.Reason == "" {
		t.Error("FeatureError.Reason is empty")
	}
}

func TestCheck_ExtensionNotLoaded(t *testing.T) {
	p := New(WithRuntime(&fakeRuntime{osName: "Linux"}))

	err := p.Check(RequireExtension("imagick", ""))
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("Check() error = %v, want *FeatureError", err)
	}
	if fe.Feature != "extension imagick" {
		t.Errorf("FeatureError.Feature = %q", fe.Feature)
	}
	if fe.Reason != "extension not loaded in this runtime" {
		t.Errorf("FeatureError.Reason = %q", fe.Reason)
	}
}

func TestCheck_ExtensionVersionFloor(t *testing.T) {
	p := New(WithRuntime(&fakeRuntime{
		osName:     "Linux",
		extensions: map[string]string{"imagick": "6.9.7", "bare": ""},
	}))

	if err := p.Check(RequireExtension("imagick", "6.9.7")); err != nil {
		t.Errorf("Check(imagick >= 6.9.7) error = %v, want nil", err)
	}

	err := p.Check(RequireExtension("imagick", "7.0"))
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("Check(imagick >= 7.0) error = %v, want *FeatureError", err)
	}
	if fe.Reason != `loaded version "6.9.7" is below the required "7.0"` {
		t.Errorf("FeatureError.Reason = %q", fe.Reason)
	}

	err = p.Check(RequireExtension("bare", "1.0"))
	if !errors.As(err, &fe) {
		t.Fatalf("Check(bare >= 1.0) error = %v, want *FeatureError", err)
	}
	if fe.Reason != `loaded without a version; cannot satisfy required "1.0"` {
		t.Errorf("FeatureError.Reason = %q", fe.Reason)
	}
}

func TestCheck_FunctionAndExecutable(t *testing.T) {
	p := New(
		WithRuntime(&fakeRuntime{osName: "Linux"}),
		WithEnviron(staticEnv(nil)),
		WithStat(func(string) bool { return false }),
	)

	err := p.Check(RequireFunction("exif_read"))
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("Check() error = %v, want *FeatureError", err)
	}
	if fe.Feature != "function exif_read" {
		t.Errorf("FeatureError.Feature = %q", fe.Feature)
	}

	err = p.Check(RequireExecutable("convert"))
	if !errors.As(err, &fe) {
		t.Fatalf("Check() error = %v, want *FeatureError", err)
	}
	if fe.Feature != "executable convert" {
		t.Errorf("FeatureError.Feature = %q", fe.Feature)
	}
}

func TestCheck_FeatureGroup(t *testing.T) {
	p := New(
		WithRuntime(&fakeRuntime{
			osName:    "Linux",
			hardLink:  true,
			symlink:   true,
			userID:    true,
			functions: map[string]bool{"exif_read": true},
		}),
		WithEnviron(staticEnv(nil)),
		WithStat(func(string) bool { return false }),
	)

	imaging := FeatureGroup{
		FeatureSymlink,
		RequireFunction("exif_read"),
		FeatureGroup{FeatureHardLink, nil},
	}

	if err := p.Check(imaging); err != nil {
		t.Errorf("Check(group) error = %v, want nil", err)
	}
}

func TestNormalizeRequirements_Dedupes(t *testing.T) {
	rs := normalizeRequirements([]Requirement{
		FeatureSymlink,
		FeatureSymlink,
		RequireExtension("imagick", "6.9"),
		RequireExtension("imagick", "6.9"),
		RequireExtension("imagick", "7.0"), // different floor, kept
		RequireFunction("exif_read"),
		RequireFunction("exif_read"),
		RequireExecutable("convert"),
		FeatureGroup{FeatureSymlink, RequireExecutable("convert")},
	})

	if len(rs.features) != 1 {
		t.Errorf("len(features) = %d, want 1", len(rs.features))
	}
	if len(rs.extensions) != 2 {
		t.Errorf("len(extensions) = %d, want 2", len(rs.extensions))
	}
	if len(rs.functions) != 1 {
		t.Errorf("len(functions) = %d, want 1", len(rs.functions))
	}
	if len(rs.executables) != 1 {
		t.Errorf("len(executables) = %d, want 1", len(rs.executables))
	}
}

func TestCheck_PackageLevelUsesDefault(t *testing.T) {
	// The default prober talks to the real host; an unknown extension must
	// simply be reported missing, never panic or error differently.
	err := Check(RequireExtension("definitely/not/a/module", ""))
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("Check() error = %v, want *FeatureError", err)
	}
}
