// File: lexer.go
// Title: Host Lexer Contract
// Description: The capabilities the tracker needs from the host lexer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package scanner

// EOFRune is returned by Lexer.Lookahead at end of input
const EOFRune rune = 0

// Position is a saved lexer cursor. Only the lexer that produced it may
// interpret the fields.
type Position struct {
	Offset int
	Line   int
	Column uint32
}

// Lexer is the host lexer the tracker reads from.
type Lexer interface {
	// Lookahead returns the rune at the cursor without consuming it, or
	// EOFRune at end of input.
	Lookahead() rune

	// Advance moves the cursor one rune forward. When skip is true the rune
	// is trivia and not part of the emitted token.
	Advance(skip bool)

	// Column returns the zero-based rune column of the cursor.
	Column() uint32

	// EOF reports whether the cursor has reached the end of input.
	EOF() bool

	// SetResult records the kind of the token being emitted.
	SetResult(kind TokenKind)

	// SavePosition and RestorePosition bound a lookahead probe.
	SavePosition() Position
	RestorePosition(pos Position)
}
