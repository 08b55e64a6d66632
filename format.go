package hostcaps

import (
	"fmt"
	"sort"
	"strings"
)

// String returns a human-readable summary of all probe results.
func (sf *SystemFeatures) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "OS: %s\n", sf.OS)
	b.WriteString("\n")

	b.WriteString("Filesystem & Identity:\n")
	writeResult(&b, "  hard links", sf.HardLink)
	writeResult(&b, "  symlinks", sf.Symlink)
	writeResult(&b, "  POSIX user ids", sf.UserID)
	b.WriteString("\n")

	b.WriteString("Image Tools:\n")
	writePath(&b, "  convert", sf.ImageConvertPath)
	writePath(&b, "  identify", sf.ImageIdentifyPath)

	if len(sf.Extensions) > 0 {
		b.WriteString("\n")
		b.WriteString("Extensions:\n")
		for _, name := range sortedKeys(sf.Extensions) {
			info := sf.Extensions[name]
			switch {
			case info.Loaded && info.Version != "":
				fmt.Fprintf(&b, "  %s: %s\n", name, info.Version)
			case info.Loaded:
				fmt.Fprintf(&b, "  %s: loaded\n", name)
			default:
				fmt.Fprintf(&b, "  %s: not loaded\n", name)
			}
		}
	}

	if len(sf.Functions) > 0 {
		b.WriteString("\n")
		b.WriteString("Functions:\n")
		for _, name := range sortedKeys(sf.Functions) {
			writeResult(&b, "  "+name, ProbeResult{Supported: sf.Functions[name]})
		}
	}

	return b.String()
}

func writeResult(b *strings.Builder, name string, r ProbeResult) {
	status := "no"
	if r.Supported {
		status = "yes"
	}
	if r.Error != nil {
		fmt.Fprintf(b, "%s: %s (error: %v)\n", name, status, r.Error)
	} else {
		fmt.Fprintf(b, "%s: %s\n", name, status)
	}
}

func writePath(b *strings.Builder, name, path string) {
	if path == "" {
		fmt.Fprintf(b, "%s: not found\n", name)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
