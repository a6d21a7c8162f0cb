// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, formatting, immutability of
//              With* calls and coded-error logging.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf, Name: "test"}), buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"err", LevelError, false},
		{"fatal", LevelFatal, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("entries below the level were written: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.WithRunID("run-1").WithField("file", "a.yarn").Trace("indent", Fields{"width": 4})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	checks := map[string]interface{}{
		"level":   "trace",
		"message": "indent",
		"logger":  "test",
		"run_id":  "run-1",
		"file":    "a.yarn",
		"width":   float64(4),
	}
	for k, want := range checks {
		if decoded[k] != want {
			t.Errorf("%s = %v, want %v", k, decoded[k], want)
		}
	}
}

func TestLogger_TextFieldsSorted(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.Info("scan", Fields{"b": 2, "a": 1})

	if !strings.Contains(buf.String(), "[a=1 b=2]") {
		t.Errorf("fields not sorted: %q", buf.String())
	}
}

func TestLogger_WithIsImmutable(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatText)
	_ = base.WithField("extra", true)
	derived := base.WithFields(Fields{"source": "a.yarn", "depth": 2})
	base.Info("plain")

	if strings.Contains(buf.String(), "extra") || strings.Contains(buf.String(), "source") {
		t.Error("With* modified the original logger")
	}

	buf.Reset()
	derived.Info("scan", Fields{"depth": 3})
	if !strings.Contains(buf.String(), "[depth=3 source=a.yarn]") {
		t.Errorf("call fields should extend and override context fields: %q", buf.String())
	}
}

func TestLogger_LogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"low severity logs at info", mdwerror.New("bad flag").WithCode(mdwerror.CodeInvalidInput), "info"},
		{"medium severity logs at warn", mdwerror.New("overflow").WithCode(mdwerror.CodeCheckpointOverflow), "warn"},
		{"critical severity logs at error", mdwerror.New("corrupt").WithCode(mdwerror.CodeCheckpointCorrupt), "error"},
		{"plain error logs at error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			var decoded map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if decoded["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", decoded["level"], tt.wantLevel)
			}
		})
	}
}

func TestLogger_NilAndDiscard(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Info("no panic")
	if nilLogger.IsLevelEnabled(LevelError) {
		t.Error("nil logger should report every level disabled")
	}

	d := Discard()
	d.Error("dropped")
	if d.IsLevelEnabled(LevelFatal) {
		t.Error("Discard logger should not enable any level")
	}
}
