// File: scanner.go
// Title: Indentation Tracker
// Description: Implements the INDENT/DEDENT decision, end-of-input
//              flushing and the checkpoint lifecycle of the tracker.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tracker implementation

package scanner

import (
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
)

const (
	// TabWidth is the width of a tab, independent of the column it is in
	TabWidth = 8

	// SpaceWidth is the width of a space
	SpaceWidth = 1

	// DefaultCommentMarker starts a comment line in Yarn
	DefaultCommentMarker = "//"
)

// Scanner tracks open indentation levels for one parse session.
// The zero value is not usable; create one with New.
type Scanner struct {
	stack    IndentStack
	pending  uint32
	marker   [2]rune
	capacity int
	log      *mdwlog.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithCommentMarker sets the two-rune marker of comment lines. Markers of
// any other length are ignored.
func WithCommentMarker(marker string) Option {
	return func(s *Scanner) {
		runes := []rune(marker)
		if len(runes) == 2 {
			s.marker = [2]rune{runes[0], runes[1]}
		}
	}
}

// WithCapacity sets the buffer size Snapshot serializes into
func WithCapacity(capacity int) Option {
	return func(s *Scanner) {
		if capacity >= headerSize {
			s.capacity = capacity
		}
	}
}

// WithLogger makes the scanner report its decisions at trace level
func WithLogger(logger *mdwlog.Logger) Option {
	return func(s *Scanner) {
		s.log = logger
	}
}

// New creates a scanner with an empty stack and no pending dedents
func New(opts ...Option) *Scanner {
	s := &Scanner{
		marker:   [2]rune{'/', '/'},
		capacity: SerializationBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Destroy releases the indentation stack. Safe on nil and safe to repeat.
func (s *Scanner) Destroy() {
	if s == nil {
		return
	}
	s.stack.Reset()
	s.pending = 0
}

// Scan emits at most one INDENT or DEDENT at the lexer's position and
// reports whether it did. It returns false without consuming significant
// input whenever its own conditions are not met.
func (s *Scanner) Scan(lexer Lexer, valid ValidSymbols) bool {
	if s == nil || lexer == nil {
		return false
	}
	if lexer.EOF() {
		return s.scanEOF(lexer, valid)
	}
	return s.scanIndentation(lexer, valid)
}

// scanEOF closes what is still open, one DEDENT per call
func (s *Scanner) scanEOF(lexer Lexer, valid ValidSymbols) bool {
	if !valid.Has(Dedent) {
		return false
	}
	if s.pending > 0 {
		s.pending--
		return s.emit(lexer, Dedent, "eof pending dedent")
	}
	if s.stack.Len() > 0 {
		s.stack.Pop()
		return s.emit(lexer, Dedent, "eof close level")
	}
	return false
}

func (s *Scanner) scanIndentation(lexer Lexer, valid ValidSymbols) bool {
	if s.pending > 0 && valid.Has(Dedent) {
		s.pending--
		return s.emit(lexer, Dedent, "pending dedent")
	}

	if lexer.Column() != 0 {
		return false
	}

	var width uint32
measure:
	for {
		switch lexer.Lookahead() {
		case ' ':
			width += SpaceWidth
		case '\t':
			width += TabWidth
		default:
			break measure
		}
		lexer.Advance(true)
	}

	if isNewline(lexer.Lookahead()) || lexer.EOF() {
		return false
	}
	if s.atCommentMarker(lexer) {
		return false
	}

	current := s.stack.Peek()

	if width > current && valid.Has(Indent) {
		s.stack.Push(width)
		return s.emit(lexer, Indent, "indent")
	}

	if width < current && valid.Has(Dedent) {
		for s.stack.Len() > 0 && s.stack.Peek() > width {
			s.stack.Pop()
			s.pending++
		}
		if s.pending > 0 {
			s.pending--
			return s.emit(lexer, Dedent, "dedent")
		}
	}

	return false
}

// atCommentMarker probes the two marker runes and rewinds the lexer
func (s *Scanner) atCommentMarker(lexer Lexer) bool {
	if lexer.Lookahead() != s.marker[0] {
		return false
	}
	saved := lexer.SavePosition()
	lexer.Advance(false)
	isComment := lexer.Lookahead() == s.marker[1]
	lexer.RestorePosition(saved)
	return isComment
}

func (s *Scanner) emit(lexer Lexer, kind TokenKind, reason string) bool {
	lexer.SetResult(kind)
	if s.log.IsLevelEnabled(mdwlog.LevelTrace) {
		s.log.Trace(reason, mdwlog.Fields{
			"token":   kind.String(),
			"depth":   s.stack.Len(),
			"top":     s.stack.Peek(),
			"pending": s.pending,
		})
	}
	return true
}

// Serialize writes the state into buf and returns the number of bytes
// written. It returns 0 when the state does not fit into len(buf) bytes or
// the scanner is nil; the host must then treat the checkpoint as
// unavailable.
func (s *Scanner) Serialize(buf []byte) int {
	if s == nil {
		return 0
	}
	return encodeInto(buf, s.stack.levels, s.pending)
}

// Deserialize replaces the state with the one encoded in buf. An empty buf
// restores the initial state, and so does a malformed one.
func (s *Scanner) Deserialize(buf []byte) {
	if s == nil {
		return
	}
	s.stack.Reset()
	s.pending = 0
	if len(buf) == 0 {
		return
	}

	st, err := DecodeCheckpoint(buf)
	if err != nil {
		s.log.WarnWithErr("discarding malformed checkpoint", err)
		return
	}
	s.stack.replace(st.Levels)
	s.pending = st.Pending
}

// Snapshot serializes the state into a buffer of the configured capacity.
// It returns nil when the state overflows it.
func (s *Scanner) Snapshot() Checkpoint {
	if s == nil {
		return nil
	}
	buf := make([]byte, s.capacity)
	n := s.Serialize(buf)
	if n == 0 {
		return nil
	}
	return Checkpoint(buf[:n])
}

// Restore is Deserialize for a Checkpoint
func (s *Scanner) Restore(cp Checkpoint) {
	s.Deserialize(cp)
}

// State returns a copy of the current state
func (s *Scanner) State() State {
	if s == nil {
		return State{}
	}
	return State{Levels: s.stack.Levels(), Pending: s.pending}
}

// Depth returns the number of open levels
func (s *Scanner) Depth() int {
	if s == nil {
		return 0
	}
	return s.stack.Len()
}

// Pending returns the number of DEDENT tokens still to be emitted
func (s *Scanner) Pending() uint32 {
	if s == nil {
		return 0
	}
	return s.pending
}

// CommentMarker returns the configured comment marker
func (s *Scanner) CommentMarker() string {
	if s == nil {
		return DefaultCommentMarker
	}
	return string(s.marker[:])
}

func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}
