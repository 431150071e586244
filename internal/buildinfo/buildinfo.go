// Package buildinfo exposes build metadata injected at link time by the
// release pipeline.
package buildinfo

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the short git commit hash of the build.
	Commit = "none"
	// BuildDate is the UTC timestamp of the build.
	BuildDate = "unknown"
)
