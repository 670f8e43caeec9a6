// Package version exposes the build metadata of the ordtree binary.
package version

import "runtime/debug"

const unknownValue = "unknown"

// Build metadata, overridden at link time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknownValue
	Date    = unknownValue
)

// InitBinaryVersion fills metadata left unset by the linker from the
// information embedded by the go tool.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknownValue {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknownValue {
				Date = setting.Value
			}
		}
	}
}
