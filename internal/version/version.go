// SPDX-License-Identifier: Apache-2.0

// Package version holds build-time identifiers, overridden via
// -ldflags "-X .../internal/version.Version=..." the same way the
// teacher's cobra root command surfaces its own version string.
package version

var (
	// Version is the released version tag, or "dev" for a local build.
	Version = "dev"
	// Commit is the VCS commit the binary was built from.
	Commit = "none"
)
