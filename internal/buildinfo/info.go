// Package buildinfo holds version metadata stamped into the safespend binary.
package buildinfo

// Set with -ldflags "-X github.com/safespend-dev/safespend/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
