// Package version reports how the binary was built.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X doctor/pkg/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the build info of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short is the version alone, with the commit for development builds.
func (i Info) Short() string {
	if i.Version == "dev" && i.Commit != "unknown" {
		return fmt.Sprintf("dev+%s", i.Commit)
	}
	return i.Version
}

func (i Info) String() string {
	return fmt.Sprintf("doctor %s (commit %s, built %s, %s %s)",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}
