// File: stack.go
// Title: Indentation Stack
// Description: Growable stack of open indentation widths.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package scanner

// IndentStack holds the widths of the open nesting levels, outermost first.
// The tracker only pushes a width greater than the current top, so the
// contents are strictly increasing.
type IndentStack struct {
	levels []uint32
}

// Push opens a new level
func (s *IndentStack) Push(width uint32) {
	s.levels = append(s.levels, width)
}

// Pop closes the innermost level and returns its width, or 0 when the stack
// is empty
func (s *IndentStack) Pop() uint32 {
	n := len(s.levels)
	if n == 0 {
		return 0
	}
	top := s.levels[n-1]
	s.levels = s.levels[:n-1]
	return top
}

// Peek returns the innermost width, or 0 at the root level
func (s *IndentStack) Peek() uint32 {
	if len(s.levels) == 0 {
		return 0
	}
	return s.levels[len(s.levels)-1]
}

// Len returns the number of open levels
func (s *IndentStack) Len() int {
	return len(s.levels)
}

// Levels returns a copy of the widths, bottom to top
func (s *IndentStack) Levels() []uint32 {
	out := make([]uint32, len(s.levels))
	copy(out, s.levels)
	return out
}

// Reset empties the stack and releases its storage
func (s *IndentStack) Reset() {
	s.levels = nil
}

func (s *IndentStack) replace(levels []uint32) {
	s.levels = append(make([]uint32, 0, len(levels)), levels...)
}
