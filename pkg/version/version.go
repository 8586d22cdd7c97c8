// Package version reports the build version of mb.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is the current application version. It is a var so releases can
// set it at link time:
//
//	go build -ldflags "-X github.com/vanderheijden86/modelbrowser/pkg/version.Version=v1.2.3"
var Version = "v0.1.0-dev"

// String returns Version, or the module version recorded by the go tool
// when Version was left at its development default.
func String() string {
	if !strings.HasSuffix(Version, "-dev") {
		return Version
	}
	return fromBuildInfo(debug.ReadBuildInfo)
}

func fromBuildInfo(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return Version
	}
	return info.Main.Version
}
