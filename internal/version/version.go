// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String returns a human-readable one-line rendering of the build info.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	s := v
	if i.GitCommit != "" {
		s += " (" + i.GitCommit + ")"
	}
	return s
}
