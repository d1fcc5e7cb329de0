// Package version reports which promptmark build is running. The CLI prints
// it from the version command and --version, and the clean command logs it
// at debug level so a pasted report can be matched to the cleaning rules
// that produced it.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/promptmark/internal/version.Version=1.0.0 ..."
//
// A binary built with go install carries no ldflags; its module version and
// VCS revision are read from the embedded build info instead.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
)

// Set via ldflags.
var (
	// Version is the semantic version, or "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// Dirty is "true" when the tree had uncommitted changes.
	Dirty = "false"

	// BuildDate is the UTC build time in RFC3339 format.
	BuildDate = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the structured form printed by "promptmark version --json".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get resolves the build information, preferring ldflags over build info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     isDirty(Dirty),
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if Version != "dev" {
		return info
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = strings.TrimPrefix(v, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = info.Dirty || isDirty(s.Value)
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// String returns the version with a -dirty suffix for modified trees.
func String() string {
	info := Get()
	if info.Dirty {
		return info.Version + "-dirty"
	}
	return info.Version
}

// Full returns the multi-line form printed by "promptmark version".
func Full() string {
	info := Get()

	var sb strings.Builder
	fmt.Fprintf(&sb, "promptmark %s\n", String())
	fmt.Fprintf(&sb, "  Commit:     %s\n", info.Commit)
	if info.Dirty {
		sb.WriteString("  Dirty:      yes\n")
	}
	fmt.Fprintf(&sb, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", info.Platform)
	return sb.String()
}

func isDirty(s string) bool {
	dirty, err := strconv.ParseBool(s)
	return err == nil && dirty
}
