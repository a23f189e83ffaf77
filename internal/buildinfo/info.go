// Package buildinfo holds version details stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/settleup-dev/settleup/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary is the string printed by settleup --version.
func Summary() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
