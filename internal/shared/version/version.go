// Package version reports the build version stamped in by the linker:
//
//	go build -ldflags "-X github.com/civicpulse/civicpulse/internal/shared/version.Version=1.4.0"
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is overwritten at link time. Local builds report "dev".
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the normalized release version, or the raw value for
// development builds.
func String() string {
	if IsRelease() {
		return semver.Canonical(Normalize(Version))
	}
	if Version == "" {
		return "dev"
	}
	return Version
}

// IsRelease reports whether the binary was stamped with a valid semantic
// version without a prerelease suffix.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
