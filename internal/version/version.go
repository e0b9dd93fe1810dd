/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package version exposes the build version string for CLI output and logs.
package version

// Version is the semantic version of the comicforge tool.
// It is overridden at release time via -ldflags "-X comicforge/internal/version.Version=...".
var Version = "0.3.0-dev"

// String returns the printable version.
func String() string { return Version }
