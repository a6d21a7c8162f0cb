// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and
//              JSON rendering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("checkpoint too large")

	if err.Error() != "checkpoint too large" {
		t.Errorf("Error() = %q, want %q", err.Error(), "checkpoint too large")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("disk full"),
			message:  "record checkpoints",
			wantMsg:  "record checkpoints: disk full",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap coded error keeps code",
			err:      New("bad header").WithCode(CodeCheckpointCorrupt),
			message:  "restore",
			wantMsg:  "restore: bad header",
			wantCode: CodeCheckpointCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped cause")
			}
		})
	}
}

func TestWrap_ChainTruncation(t *testing.T) {
	var err error = errors.New("root")
	for i := 0; i < MaxErrorChainDepth+2; i++ {
		err = Wrapf(err, "layer %d", i)
	}

	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(e.Error(), "chain truncated") {
		t.Errorf("expected truncated chain message, got %q", e.Error())
	}
	if e.Severity() != SeverityHigh {
		t.Errorf("Severity() = %v, want %v", e.Severity(), SeverityHigh)
	}
}

func TestWithCode_Severity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeCheckpointCorrupt, SeverityCritical},
		{CodeUnbalanced, SeverityCritical},
		{CodeStorageError, SeverityHigh},
		{CodeCheckpointOverflow, SeverityMedium},
		{CodeConfigInvalid, SeverityLow},
		{CodeInvalidInput, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}
}

func TestWithSeverity_WinsOverCode(t *testing.T) {
	err := New("x").WithSeverity(SeverityLow).WithCode(CodeStorageError)
	if err.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityLow)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("too many levels").WithCode(CodeCheckpointOverflow)
	outer := fmt.Errorf("snapshot: %w", Wrap(inner, "encode"))

	if !HasCode(outer, CodeCheckpointOverflow) {
		t.Error("HasCode should find the code through fmt and Wrap layers")
	}
	if HasCode(outer, CodeStorageError) {
		t.Error("HasCode reported a code that is not in the chain")
	}
	if GetCode(outer) != CodeCheckpointOverflow {
		t.Errorf("GetCode() = %v, want %v", GetCode(outer), CodeCheckpointOverflow)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of a plain error should be CodeUnknown")
	}
}

func TestDetailsAreCopied(t *testing.T) {
	err := New("x").WithDetail("levels", 3)
	details := err.Details()
	details["levels"] = 99

	if err.Details()["levels"] != 3 {
		t.Error("Details() must return a copy")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("eof"), "decode").
		WithCode(CodeCheckpointCorrupt).
		WithOperation("Deserialize").
		WithDetail("length", 6)

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}
	if decoded["code"] != string(CodeCheckpointCorrupt) {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["operation"] != "Deserialize" {
		t.Errorf("operation = %v", decoded["operation"])
	}
	if decoded["cause"] != "eof" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestString(t *testing.T) {
	s := New("bad").WithCode(CodeInvalidInput).WithDetail("b", 2).WithDetail("a", 1).String()
	if !strings.Contains(s, "Details: {a=1, b=2}") {
		t.Errorf("String() should list details sorted, got:\n%s", s)
	}
}
