// Package version holds build metadata for the sortedarray binary.
package version

import "runtime/debug"

const unknown = "unknown"

// Set at link time with -ldflags "-X github.com/Swoorup/the-sorted-array/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Commit and Date from the embedded VCS build info
// when they were not set at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = s.Value
			}
		}
	}
}

// String formats the build metadata for the version command.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
