// Package version holds the build version of bible-slides.
package version

// Version is overridden at build time with -ldflags "-X bible-slides/internal/version.Version=...".
var Version = "0.1.0-dev"

// String returns the human readable version.
func String() string {
	return "bible-slides " + Version
}
