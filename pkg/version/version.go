// Package version exposes build metadata injected at link time.
package version

// These are set with -ldflags "-X github.com/combstruct/combstruct/pkg/version.version=...".
//
//nolint:gochecknoglobals // Link-time injected build metadata.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the semantic version of the build.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return date
}
