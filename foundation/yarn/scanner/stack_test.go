// File: stack_test.go
// Title: Indentation Stack Tests
// Description: Tests for the stack primitives the tracker builds on.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package scanner

import (
	"reflect"
	"testing"
)

func TestIndentStack(t *testing.T) {
	var s IndentStack

	if s.Peek() != 0 || s.Pop() != 0 || s.Len() != 0 {
		t.Fatal("empty stack should report the root level")
	}

	s.Push(4)
	s.Push(8)
	if s.Peek() != 8 || s.Len() != 2 {
		t.Fatalf("Peek() = %d, Len() = %d", s.Peek(), s.Len())
	}

	levels := s.Levels()
	levels[0] = 99
	if s.levels[0] != 4 {
		t.Error("Levels() exposed internal storage")
	}

	if got := s.Pop(); got != 8 {
		t.Errorf("Pop() = %d, want 8", got)
	}
	s.Reset()
	if s.Len() != 0 || s.levels != nil {
		t.Error("Reset() should release storage")
	}
}

func TestIndentStack_ReplaceCopies(t *testing.T) {
	var s IndentStack
	src := []uint32{2, 6}
	s.replace(src)
	src[0] = 5

	if !reflect.DeepEqual(s.Levels(), []uint32{2, 6}) {
		t.Errorf("replace() aliased its input: %v", s.Levels())
	}
}
