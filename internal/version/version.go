// Package version resolves the runner's version string from build
// metadata instead of a hardcoded literal, so "--version" reflects the
// actual module version when built with "go install pkg@version".
package version

import "runtime/debug"

// fallback is used when build info is unavailable or records no release
// version (e.g. "(devel)" under "go run" or a plain "go build").
const fallback = "dev"

// Get returns the module version embedded by the Go toolchain, or
// fallback if no build info is present or it records no release version.
func Get() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return fallback
}
