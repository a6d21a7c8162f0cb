// File: token.go
// Title: Token Kinds and Valid Symbol Sets
// Description: The two token kinds the tracker produces and the set type the
//              host uses to say which of them it currently accepts.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package scanner

// TokenKind identifies a token produced by the tracker
type TokenKind int

const (
	// Indent opens a nested block
	Indent TokenKind = iota

	// Dedent closes the innermost open block
	Dedent

	tokenKindCount
)

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	default:
		return "UNKNOWN"
	}
}

// ValidSymbols is indexed by TokenKind and tells the tracker which kinds the
// grammar accepts at the current position. Missing entries count as false.
type ValidSymbols []bool

// Has reports whether kind is acceptable
func (v ValidSymbols) Has(kind TokenKind) bool {
	return kind >= 0 && int(kind) < len(v) && v[kind]
}

// Accept builds a ValidSymbols set containing the given kinds
func Accept(kinds ...TokenKind) ValidSymbols {
	v := make(ValidSymbols, tokenKindCount)
	for _, k := range kinds {
		if k >= 0 && k < tokenKindCount {
			v[k] = true
		}
	}
	return v
}

// AcceptAll returns a set accepting both INDENT and DEDENT
func AcceptAll() ValidSymbols {
	return Accept(Indent, Dedent)
}
