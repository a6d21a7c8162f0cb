// File: token.go
// Title: Host Token Definitions
// Description: Token kinds produced by the reference tokenizer: the two
//              indentation kinds of the tracker plus line structure, comments
//              and opaque text.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package tokenizer

import (
	"fmt"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

// Kind represents the type of a token
type Kind int

const (
	Indent Kind = iota
	Dedent
	Newline
	Comment
	Text
	EOF
)

// String returns a string representation of the token kind
func (k Kind) String() string {
	switch k {
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	case Newline:
		return "NEWLINE"
	case Comment:
		return "COMMENT"
	case Text:
		return "TEXT"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets kinds appear by name in JSON and YAML output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// fromScanner maps a tracker kind to the host kind
func fromScanner(kind scanner.TokenKind) Kind {
	if kind == scanner.Indent {
		return Indent
	}
	return Dedent
}

// Token represents a lexical token
type Token struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Offset int    `json:"offset" yaml:"offset"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("%d:%d %s", t.Line, t.Column, t.Kind)
	}
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Value)
}

// IsIndentation reports whether the token came from the tracker
func (t Token) IsIndentation() bool {
	return t.Kind == Indent || t.Kind == Dedent
}

// ParseKind parses the name of a token kind
func ParseKind(name string) (Kind, error) {
	for k := Indent; k <= EOF; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", name)
}

// UnmarshalText is the inverse of MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
