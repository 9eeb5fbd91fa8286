// Package buildinfo carries version metadata stamped in by the linker:
//
//	go build -ldflags "-X github.com/cleared-dev/hauptbuch/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the version line shown by hauptbuch --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
