// Package version exposes the build version, set via -ldflags at build
// time; Value returns a sane default for go-run/test invocations.
package version

var version = "dev"

// Value returns the binary's build version.
func Value() string {
	return version
}
