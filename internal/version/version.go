package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version string (commit-hash based, no semver).
// Without ldflags the VCS stamp embedded by `go build` is used.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "unknown" {
		if c, t, ok := vcsStamp(); ok {
			commit, built = c, t
		}
	}
	return fmt.Sprintf("devagent dev (commit: %s, built: %s)", shortCommit(commit), built)
}

func vcsStamp() (commit, built string, ok bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	built = "unknown"
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		}
	}
	return commit, built, commit != ""
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
