// Package log provides structured logging for yarnscan.
//
// Package: log
// Title: yarnscan Structured Logging
// Description: Leveled, field-based logging with JSON and text output. The
//              indentation tracker reports its decisions at trace level, the
//              analyzer and the CLI report progress at info and debug.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Usage:
//   import mdwlog "github.com/msto63/yarnscan/foundation/core/log"
//
//   logger := mdwlog.New().
//     WithLevel(mdwlog.LevelDebug).
//     WithFormat(mdwlog.FormatText).
//     WithField("component", "analyzer")
//
//   logger.Info("file analyzed", mdwlog.Fields{"indents": 4, "dedents": 4})
//   logger.LogError(err)
package log
