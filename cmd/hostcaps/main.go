package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/leodido/hostcaps"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
)

// Build metadata injected via ldflags (see .goreleaser.yaml).
// When built without ldflags (e.g., plain `go build`), these remain
// at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	root := &cobra.Command{
		Use:   "hostcaps",
		Short: "Host capability detection",
		Long: `hostcaps probes capabilities of the host environment.

It detects hard-link/symlink support, POSIX user ids, loaded extensions and
their versions, registered callables, and the ImageMagick convert/identify
executables reachable through PATH. Use it for startup gating, CI/CD
diagnostics, or container image validation.`,
		SilenceUsage: true,
	}

	root.AddCommand(probeCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(whichCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ProbeOptions defines flags for the probe subcommand.
type ProbeOptions struct {
	JSON bool `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *ProbeOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func probeCmd() *cobra.Command {
	opts := &ProbeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe all host capabilities and display results",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			sf := hostcaps.ProbeNoCache()

			if opts.JSON {
				return printJSON(sf)
			}

			fmt.Print(sf)
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	Require requirementList `flag:"require" flagshort:"r" flagdescr:"Required capabilities (see available names above)" flagrequired:"true" flagcustom:"true"`
	JSON    bool            `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineRequire(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*requirementList)
	*fieldPtr = nil
	return fieldPtr, descr
}

func (o *CheckOptions) DecodeRequire(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	return parseRequirements(s)
}

func checkCmd() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check specific host capability requirements",
		Long:  checkLongDescription(),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			if len(opts.Require) == 0 {
				return fmt.Errorf("no requirements specified")
			}

			err := hostcaps.Check(opts.Require...)
			if err != nil {
				var fe *hostcaps.FeatureError
				if errors.As(err, &fe) {
					if opts.JSON {
						return printJSON(map[string]any{
							"ok":      false,
							"feature": fe.Feature,
							"reason":  fe.Reason,
						})
					}
					fmt.Fprintf(os.Stderr, "FAIL: %s — %s\n", fe.Feature, fe.Reason)
					os.Exit(1)
				}
				return err
			}

			if opts.JSON {
				return printJSON(map[string]any{"ok": true})
			}
			fmt.Println("OK: all requirements satisfied")
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// WhichOptions defines flags for the which subcommand.
type WhichOptions struct {
	JSON bool `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *WhichOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func whichCmd() *cobra.Command {
	opts := &WhichOptions{}

	cmd := &cobra.Command{
		Use:   "which NAME",
		Short: "Resolve an executable through the PATH search",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			name := args[0]
			path := hostcaps.Default().LookupExecutable(name)

			if opts.JSON {
				return printJSON(map[string]any{
					"name":  name,
					"found": path != "",
					"path":  path,
				})
			}

			if path == "" {
				fmt.Fprintf(os.Stderr, "%s: not found\n", name)
				os.Exit(1)
			}
			fmt.Println(path)
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show host classification and tool version",
		RunE: func(c *cobra.Command, args []string) error {
			if version != "" {
				fmt.Printf("hostcaps %s", version)
				if commit != "" {
					fmt.Printf(" (%s)", commit)
				}
				if date != "" {
					fmt.Printf(" built %s", date)
				}
				fmt.Println()
			} else {
				fmt.Println("hostcaps (dev)")
			}

			sf := hostcaps.Default().ProbeWith()
			fmt.Printf("OS: %s\n", sf.OS)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func availableFeatures() string {
	return strings.Join(hostcaps.FeatureNames(), ", ")
}

func checkLongDescription() string {
	return fmt.Sprintf(`Check that the host supports all required capabilities.
Exits with code 0 if all requirements are met, 1 if any are missing.

Available features:
%s

Parameterized requirements:
  ext:NAME          require a loaded extension
  ext:NAME>=VER     require a loaded extension at version VER or newer
  fn:NAME           require a registered callable
  exe:NAME          require an executable reachable through PATH`,
		formatWrappedList(hostcaps.FeatureNames(), "  ", 80))
}

func formatWrappedList(items []string, indent string, maxWidth int) string {
	if len(items) == 0 {
		return indent + "(none)"
	}

	lines := make([]string, 0, len(items))
	line := indent
	for i, item := range items {
		token := item
		if i < len(items)-1 {
			token += ", "
		}

		if len(line)+len(token) > maxWidth && line != indent {
			lines = append(lines, strings.TrimRight(line, " "))
			line = indent + token
			continue
		}

		line += token
	}

	lines = append(lines, strings.TrimRight(line, " "))
	return strings.Join(lines, "\n")
}

type requirementList []hostcaps.Requirement

var featureIdentifierMap = func() map[hostcaps.Feature][]string {
	ids := make(map[hostcaps.Feature][]string, len(hostcaps.FeatureValues()))
	for _, f := range hostcaps.FeatureValues() {
		ids[f] = []string{f.String()}
	}
	return ids
}()

func (r *requirementList) String() string {
	names := make([]string, 0, len(*r))
	for _, req := range *r {
		names = append(names, describeRequirement(req))
	}

	return strings.Join(names, ",")
}

func (r *requirementList) Set(input string) error {
	reqs, err := parseRequirements(input)
	if err != nil {
		return err
	}

	*r = append(*r, reqs...)
	return nil
}

func (r *requirementList) Type() string {
	return "requirement"
}

func describeRequirement(req hostcaps.Requirement) string {
	switch r := req.(type) {
	case hostcaps.Feature:
		return r.String()
	case hostcaps.ExtensionRequirement:
		if r.MinVersion != "" {
			return fmt.Sprintf("ext:%s>=%s", r.Name, r.MinVersion)
		}
		return "ext:" + r.Name
	case hostcaps.FunctionRequirement:
		return "fn:" + r.Name
	case hostcaps.ExecutableRequirement:
		return "exe:" + r.Name
	}
	return fmt.Sprintf("%v", req)
}

func parseRequirements(input string) (requirementList, error) {
	if strings.TrimSpace(input) == "" {
		return requirementList{}, nil
	}

	parts := strings.Split(input, ",")
	reqs := make(requirementList, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}

		switch {
		case strings.HasPrefix(token, "ext:"):
			rest := strings.TrimPrefix(token, "ext:")
			name, minVersion, _ := strings.Cut(rest, ">=")
			if name == "" {
				return nil, fmt.Errorf("empty extension name in %q", token)
			}
			reqs = append(reqs, hostcaps.RequireExtension(name, minVersion))
		case strings.HasPrefix(token, "fn:"):
			name := strings.TrimPrefix(token, "fn:")
			if name == "" {
				return nil, fmt.Errorf("empty function name in %q", token)
			}
			reqs = append(reqs, hostcaps.RequireFunction(name))
		case strings.HasPrefix(token, "exe:"):
			name := strings.TrimPrefix(token, "exe:")
			if name == "" {
				return nil, fmt.Errorf("empty executable name in %q", token)
			}
			reqs = append(reqs, hostcaps.RequireExecutable(name))
		default:
			var feature hostcaps.Feature
			enumValue := enumflag.New(&feature, "hostcaps.Feature", featureIdentifierMap, enumflag.EnumCaseInsensitive)
			if err := enumValue.Set(token); err != nil {
				return nil, fmt.Errorf("unknown feature: %q (available: %s)", token, availableFeatures())
			}

			reqs = append(reqs, feature)
		}
	}

	return reqs, nil
}
