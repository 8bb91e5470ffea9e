// Package misc keeps build identification helpers in one place.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "pbe"

// set by the build system via -ldflags, falls back to build info when empty
var (
	version string
	gitHash string
)

// GetAppName returns short program name used for logs, temp files and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if len(version) != 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) != 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision recorded in the binary.
func GetGitHash() string {
	if len(gitHash) != 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return strings.Repeat("0", 12)
}
