// File: lexer.go
// Title: In-Memory Host Lexer
// Description: A rune-at-a-time cursor over a source string that satisfies
//              the scanner.Lexer contract. Tracks byte offset, line and rune
//              column, and the start of the token being built.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package source

import (
	"strings"
	"unicode/utf8"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

var _ scanner.Lexer = (*Lexer)(nil)

// Lexer is a cursor over an in-memory source
type Lexer struct {
	input  string
	offset int    // byte offset of the current rune
	ch     rune   // current rune, scanner.EOFRune at end of input
	width  int    // byte width of ch
	line   int    // current line number (1-based)
	column uint32 // current rune column (0-based)

	tokenStart scanner.Position
	result     scanner.TokenKind
	hasResult  bool
}

// New creates a lexer positioned at the start of input
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readRune()
	l.tokenStart = l.SavePosition()
	return l
}

// readRune decodes the rune at the current offset
func (l *Lexer) readRune() {
	if l.offset >= len(l.input) {
		l.ch = scanner.EOFRune
		l.width = 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.offset:])
}

// Lookahead returns the current rune without consuming it
func (l *Lexer) Lookahead() rune {
	return l.ch
}

// Peek returns the rune after the current one
func (l *Lexer) Peek() rune {
	next := l.offset + l.width
	if next >= len(l.input) {
		return scanner.EOFRune
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

// Advance consumes the current rune. A skipped rune moves the token start
// along with the cursor. A lone '\r' ends a line like '\n' does.
func (l *Lexer) Advance(skip bool) {
	if l.EOF() {
		return
	}

	switch {
	case l.ch == '\n':
		l.line++
		l.column = 0
	case l.ch == '\r' && l.Peek() != '\n':
		l.line++
		l.column = 0
	default:
		l.column++
	}

	l.offset += l.width
	l.readRune()

	if skip {
		l.tokenStart = l.SavePosition()
	}
}

// Column returns the zero-based rune column of the cursor
func (l *Lexer) Column() uint32 {
	return l.column
}

// EOF reports whether the cursor reached the end of input
func (l *Lexer) EOF() bool {
	return l.offset >= len(l.input)
}

// SetResult records the kind of the token being emitted
func (l *Lexer) SetResult(kind scanner.TokenKind) {
	l.result = kind
	l.hasResult = true
}

// Result returns the recorded token kind, if any
func (l *Lexer) Result() (scanner.TokenKind, bool) {
	return l.result, l.hasResult
}

// SavePosition captures the cursor
func (l *Lexer) SavePosition() scanner.Position {
	return scanner.Position{Offset: l.offset, Line: l.line, Column: l.column}
}

// RestorePosition moves the cursor back to a saved position
func (l *Lexer) RestorePosition(pos scanner.Position) {
	switch {
	case pos.Offset < 0:
		pos = scanner.Position{Line: 1}
	case pos.Offset > len(l.input):
		pos.Offset = len(l.input)
	}
	l.offset = pos.Offset
	l.line = pos.Line
	l.column = pos.Column
	l.readRune()
}

// StartToken begins a new token at the cursor and clears the result
func (l *Lexer) StartToken() {
	l.tokenStart = l.SavePosition()
	l.hasResult = false
}

// TokenStart returns where the current token begins
func (l *Lexer) TokenStart() scanner.Position {
	return l.tokenStart
}

// TokenText returns the source text of the current token
func (l *Lexer) TokenText() string {
	if l.tokenStart.Offset > l.offset {
		return ""
	}
	return l.input[l.tokenStart.Offset:l.offset]
}

// HasPrefix reports whether the unread input starts with prefix
func (l *Lexer) HasPrefix(prefix string) bool {
	return strings.HasPrefix(l.input[l.offset:], prefix)
}

// Offset returns the byte offset of the cursor
func (l *Lexer) Offset() int {
	return l.offset
}

// Line returns the 1-based line of the cursor
func (l *Lexer) Line() int {
	return l.line
}

// Input returns the whole source
func (l *Lexer) Input() string {
	return l.input
}
