// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/gall/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	if GitCommit == "unknown" {
		return fmt.Sprintf("gall %s", Version)
	}
	return fmt.Sprintf("gall %s (%s, built %s)", Version, GitCommit, BuildTime)
}
