// File: lexer_test.go
// Title: Host Lexer Unit Tests
// Description: Tests cursor movement, line and column tracking, token
//              boundaries and position save/restore.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package source

import (
	"testing"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
)

func TestLexer_LineAndColumn(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		advances   int
		wantLine   int
		wantColumn uint32
		wantRune   rune
	}{
		{"start", "ab\ncd", 0, 1, 0, 'a'},
		{"mid line", "ab\ncd", 1, 1, 1, 'b'},
		{"after newline", "ab\ncd", 3, 2, 0, 'c'},
		{"crlf counts once", "a\r\nb", 3, 2, 0, 'b'},
		{"lone cr ends line", "a\rb", 2, 2, 0, 'b'},
		{"multibyte counts one column", "ä\tx", 2, 1, 2, 'x'},
		{"end of input", "ab", 5, 1, 2, scanner.EOFRune},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			for i := 0; i < tt.advances; i++ {
				l.Advance(false)
			}
			if l.Line() != tt.wantLine {
				t.Errorf("Line() = %d, want %d", l.Line(), tt.wantLine)
			}
			if l.Column() != tt.wantColumn {
				t.Errorf("Column() = %d, want %d", l.Column(), tt.wantColumn)
			}
			if l.Lookahead() != tt.wantRune {
				t.Errorf("Lookahead() = %q, want %q", l.Lookahead(), tt.wantRune)
			}
		})
	}
}

func TestLexer_EOF(t *testing.T) {
	l := New("")
	if !l.EOF() {
		t.Error("empty input should be at EOF")
	}
	if l.Lookahead() != scanner.EOFRune {
		t.Errorf("Lookahead() = %q, want EOFRune", l.Lookahead())
	}
	l.Advance(false)
	if l.Offset() != 0 {
		t.Errorf("Advance at EOF moved the cursor to %d", l.Offset())
	}
}

func TestLexer_SkipMovesTokenStart(t *testing.T) {
	l := New("   text")
	l.StartToken()
	l.Advance(true)
	l.Advance(true)
	l.Advance(true)
	if got := l.TokenText(); got != "" {
		t.Errorf("skipped runes leaked into token text: %q", got)
	}
	if l.TokenStart().Offset != 3 {
		t.Errorf("TokenStart().Offset = %d, want 3", l.TokenStart().Offset)
	}

	for i := 0; i < 4; i++ {
		l.Advance(false)
	}
	if got := l.TokenText(); got != "text" {
		t.Errorf("TokenText() = %q, want %q", got, "text")
	}
}

func TestLexer_SaveRestore(t *testing.T) {
	l := New("ab\n//c")
	l.Advance(false)
	l.Advance(false)
	l.Advance(false)
	saved := l.SavePosition()

	l.Advance(false)
	l.Advance(false)
	if l.Lookahead() != 'c' {
		t.Fatalf("Lookahead() = %q, want 'c'", l.Lookahead())
	}

	l.RestorePosition(saved)
	if l.Lookahead() != '/' || l.Line() != 2 || l.Column() != 0 {
		t.Errorf("restore gave %q at %d:%d", l.Lookahead(), l.Line(), l.Column())
	}
}

func TestLexer_Result(t *testing.T) {
	l := New("x")
	if _, ok := l.Result(); ok {
		t.Error("fresh lexer should have no result")
	}
	l.SetResult(scanner.Dedent)
	if kind, ok := l.Result(); !ok || kind != scanner.Dedent {
		t.Errorf("Result() = %v, %v", kind, ok)
	}
	l.StartToken()
	if _, ok := l.Result(); ok {
		t.Error("StartToken should clear the result")
	}
}

func TestLexer_PeekAndPrefix(t *testing.T) {
	l := New("//x")
	if l.Peek() != '/' {
		t.Errorf("Peek() = %q, want '/'", l.Peek())
	}
	if !l.HasPrefix("//") {
		t.Error("HasPrefix(//) should be true")
	}
	l.Advance(false)
	l.Advance(false)
	if l.Peek() != scanner.EOFRune {
		t.Errorf("Peek() at last rune = %q, want EOFRune", l.Peek())
	}
}
