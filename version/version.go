// Package version reports the build version of the service binary.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/nazonexus/identity/version.Version=1.2.0"
//
// Commit and build time fall back to the module build info stamped by the Go
// toolchain when not set explicitly.
package version

import (
	"runtime/debug"
	"time"
)

var (
	// Version is set at build time. "dev" for local builds.
	Version = "dev"
	// Commit is the short VCS revision.
	Commit = ""
	// BuildTime is the build timestamp in RFC 3339.
	BuildTime = ""
)

// Info is the version payload exposed over HTTP.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
}

// Get assembles version information from the build-time variables and the
// embedded build info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" && len(setting.Value) >= 7 {
				info.Commit = setting.Value[:7]
			}
		case "vcs.time":
			if info.BuildTime == "" {
				if _, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildTime = setting.Value
				}
			}
		}
	}
	return info
}
