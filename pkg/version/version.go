// Package version exposes the build version of gridview.
package version

// Version is stamped at build time via
// -ldflags "-X github.com/telste/gridview/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // Link-time injection target.
var Version = "dev"

// GetVersion returns the version string for this build.
func GetVersion() string {
	return Version
}
