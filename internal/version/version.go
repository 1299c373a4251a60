// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X grade-estimator/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GoInfo is the toolchain the binary was built with.
var GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

// Info is the version report printed by the CLI.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Go        string `json:"go" yaml:"go"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
}

// Get returns the current version report.
func Get() Info {
	return Info{Version: Version, Go: GoInfo, Commit: GitCommit, BuildTime: BuildTime}
}
