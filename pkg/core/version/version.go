// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and the service
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Tool version
	Tool = "0.1.0"

	// CheckpointFormat is the version of the tracker checkpoint layout
	CheckpointFormat = "1"

	// API is the version of the gRPC and WebSocket surface
	API = "v1"
)

// Set during build via -ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info bundles version details for display
type Info struct {
	Tool             string `json:"tool" yaml:"tool"`
	CheckpointFormat string `json:"checkpoint_format" yaml:"checkpoint_format"`
	API              string `json:"api" yaml:"api"`
	Commit           string `json:"commit" yaml:"commit"`
	BuildDate        string `json:"build_date" yaml:"build_date"`
	GoVersion        string `json:"go_version" yaml:"go_version"`
	Platform         string `json:"platform" yaml:"platform"`
}

// Get returns the version details of this build
func Get() Info {
	return Info{
		Tool:             Tool,
		CheckpointFormat: CheckpointFormat,
		API:              API,
		Commit:           Commit,
		BuildDate:        BuildDate,
		GoVersion:        runtime.Version(),
		Platform:         fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("yarnscan %s (checkpoint format %s, api %s, commit %s)", i.Tool, i.CheckpointFormat, i.API, i.Commit)
}
