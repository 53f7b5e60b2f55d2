// Package version exposes build metadata injected at link time:
//
//	go build -ldflags "-X github.com/smazurov/m5node/internal/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name reported by the CLI and the API.
const Name = "m5node"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains version and build metadata.
type Info struct {
	Version   string `json:"version" example:"v0.3.0" doc:"Release version"`
	GitCommit string `json:"git_commit" example:"a1b2c3d" doc:"Source commit"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.4" doc:"Go toolchain"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target OS and architecture"`
}

// Get returns version and build information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line version banner, e.g. "m5node dev (unknown)".
func String() string {
	return fmt.Sprintf("%s %s (%s)", Name, Version, GitCommit)
}
