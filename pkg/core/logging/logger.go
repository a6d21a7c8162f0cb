// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     logging
// Description: Key-value logger wrapper used by the server plumbing
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
)

// Logger wraps the Foundation logger with key-value call sites
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a key-value logger with the default configuration
func New(name string) *Logger {
	return Wrap(NewSimpleLogger(name), name)
}

// Wrap adapts an existing Foundation logger
func Wrap(logger *mdwlog.Logger, name string) *Logger {
	if logger == nil {
		logger = mdwlog.Discard()
	}
	return &Logger{Logger: logger.WithName(name), name: name}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs. An "error" value of
// type error becomes the entry's error.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	fields, err := splitError(toFields(keysAndValues...))
	if err != nil {
		l.Logger.WarnWithErr(msg, err, fields)
		return
	}
	l.Logger.Warn(msg, fields)
}

// Error logs an error message with key-value pairs. An "error" value of
// type error becomes the entry's error.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	fields, err := splitError(toFields(keysAndValues...))
	if err != nil {
		l.Logger.ErrorWithErr(msg, err, fields)
		return
	}
	l.Logger.Error(msg, fields)
}

func splitError(fields mdwlog.Fields) (mdwlog.Fields, error) {
	err, ok := fields["error"].(error)
	if !ok {
		return fields, nil
	}
	delete(fields, "error")
	return fields, err
}

// toFields converts key-value pairs to mdwlog.Fields. Non-string keys and a
// trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
