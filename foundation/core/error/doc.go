// Package error provides coded, contextual errors for the yarnscan foundation.
//
// Package: error
// Title: yarnscan Structured Error Handling
// Description: Implements the Error type used by the tooling around the
//              indentation tracker: checkpoint codecs, configuration loading,
//              the journal and the CLI. The tracker itself never returns
//              errors; every anomaly there degrades to a defined value.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Usage:
//   import mdwerror "github.com/msto63/yarnscan/foundation/core/error"
//
//   err := mdwerror.New("checkpoint too large").
//     WithCode(mdwerror.CodeCheckpointOverflow).
//     WithDetail("levels", 300)
//
//   if mdwerror.HasCode(err, mdwerror.CodeCheckpointOverflow) {
//     // fall back to a fresh tracker
//   }
package error
