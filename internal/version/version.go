package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current version of umaroster
	Version = "0.3.0"

	// GitCommit is the git commit hash (set during build)
	GitCommit = "unknown"

	// BuildTime is when the binary was built (set during build)
	BuildTime = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// ShortCommit returns the abbreviated commit hash
func (i Info) ShortCommit() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// Short returns the bare version with a v prefix
func (i Info) Short() string {
	return "v" + i.Version
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("umaroster v%s (commit: %s, built: %s, go: %s)",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion)
}
