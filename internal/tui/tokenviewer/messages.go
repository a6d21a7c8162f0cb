// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     tokenviewer
// Description: Message types for async operations in the token viewer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package tokenviewer

import (
	"github.com/msto63/yarnscan/internal/analyzer"
)

// analysisMsg is sent when an analysis of the source finished
type analysisMsg struct {
	report *analyzer.Report
	err    error
}

// reloadMsg asks the viewer to read and analyze the source again
type reloadMsg struct{}
