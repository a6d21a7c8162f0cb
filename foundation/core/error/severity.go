// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification for errors. The logger uses it to
//              choose the level an error is reported at.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad input the caller can correct
	SeverityLow Severity = iota

	// SeverityMedium indicates a failed operation with a usable fallback
	SeverityMedium

	// SeverityHigh indicates a failure of a backing resource
	SeverityHigh

	// SeverityCritical indicates broken invariants or corrupted data
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeCheckpointCorrupt, CodeUnbalanced:
		return SeverityCritical
	case CodeStorageError, CodeInternal:
		return SeverityHigh
	case CodeCheckpointOverflow, CodeCanceled:
		return SeverityMedium
	case CodeInvalidInput, CodeNotFound, CodeConfigInvalid, CodeConfigMissing:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
