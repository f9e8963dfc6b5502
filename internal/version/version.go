// Package version exposes build metadata injected via ldflags, e.g.
//
//	go build -ldflags "-X github.com/eugenenazirov/ui-config/internal/version.Commit=$(git rev-parse HEAD)"
package version

import (
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

// Build information, injected via ldflags at build time
var (
	// Version is the git tag or semantic version
	Version = "dev"
	// Commit is the git commit SHA
	Commit = "unknown"
	// BuildTime is the build timestamp, RFC 3339 or Unix milliseconds
	BuildTime = ""
	// CommitTime is the commit timestamp, RFC 3339 or Unix milliseconds
	CommitTime = ""
)

// Info holds complete build information
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildTime  string `json:"build_time"`
	CommitTime string `json:"commit_time"`
	GoVersion  string `json:"go_version"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		Commit:     Commit,
		BuildTime:  BuildTime,
		CommitTime: CommitTime,
		GoVersion:  runtime.Version(),
	}
}

// VersionInfo converts the build timestamps to the UI record. Unset or
// unparseable timestamps map to the epoch.
func (i Info) VersionInfo() uiconfig.VersionInfo {
	return uiconfig.VersionInfo{
		BuildTime: parseMillis(i.BuildTime),
		Commit: uiconfig.CommitInfo{
			Time: parseMillis(i.CommitTime),
		},
	}
}

// String renders a one-line summary for --version.
func (i Info) String() string {
	return i.Version + " (commit " + i.Commit + ", " + i.GoVersion + ")"
}

func parseMillis(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= 0 {
		return ms
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UnixMilli()
	}
	return 0
}
