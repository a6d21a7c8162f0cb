// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across yarnscan for classifying
//              failures in tooling, storage and configuration.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial code set

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Checkpoints
	CodeCheckpointOverflow Code = "CHECKPOINT_OVERFLOW"
	CodeCheckpointCorrupt  Code = "CHECKPOINT_CORRUPT"

	// Indentation analysis
	CodeUnbalanced Code = "UNBALANCED"

	// Configuration and storage
	CodeConfigInvalid Code = "CONFIG_INVALID"
	CodeConfigMissing Code = "CONFIG_MISSING"
	CodeStorageError  Code = "STORAGE_ERROR"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether the code is one of the known codes
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeCanceled,
		CodeCheckpointOverflow, CodeCheckpointCorrupt, CodeUnbalanced,
		CodeConfigInvalid, CodeConfigMissing, CodeStorageError:
		return true
	}
	return false
}
