// Package version holds build metadata injected via ldflags.
package version

// Service is the canonical service name used in logs.
const Service = "mapflow"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build identity, e.g. "mapflow v1.2.0 (4f9c1de)".
func String() string {
	return Service + " " + Version + " (" + Commit + ")"
}
