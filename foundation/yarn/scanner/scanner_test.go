// File: scanner_test.go
// Title: Indentation Tracker Tests
// Description: Tests the INDENT/DEDENT decision against the in-memory host
//              lexer: scenarios, neutral lines, valid-symbol gating,
//              end-of-input flushing, checkpoints and randomized invariants.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package scanner_test

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
	"github.com/msto63/yarnscan/foundation/yarn/source"
)

// drive runs s over src the way a minimal host would: ask the tracker
// first, and when it declines rewind and skip to the next line.
func drive(t *testing.T, s *scanner.Scanner, src string) []scanner.TokenKind {
	t.Helper()

	var kinds []scanner.TokenKind
	lex := source.New(src)
	for i := 0; i < 10*len(src)+100; i++ {
		lex.StartToken()
		start := lex.SavePosition()
		if s.Scan(lex, scanner.AcceptAll()) {
			kind, ok := lex.Result()
			if !ok {
				t.Fatal("Scan returned true without setting a result")
			}
			kinds = append(kinds, kind)
			assertMonotonic(t, s.State().Levels)
			continue
		}
		lex.RestorePosition(start)
		if lex.EOF() {
			return kinds
		}
		skipLine(lex)
	}
	t.Fatalf("host loop did not terminate for %q", src)
	return nil
}

func skipLine(lex *source.Lexer) {
	for !lex.EOF() {
		r := lex.Lookahead()
		lex.Advance(false)
		if r == '\n' {
			return
		}
	}
}

func assertMonotonic(t *testing.T, levels []uint32) {
	t.Helper()
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Fatalf("stack not strictly increasing: %v", levels)
		}
	}
}

// restored returns a scanner holding the given levels and pending count
func restored(t *testing.T, levels []uint32, pending uint32) *scanner.Scanner {
	t.Helper()
	cp, err := scanner.EncodeCheckpoint(scanner.State{Levels: levels, Pending: pending}, scanner.SerializationBufferSize)
	if err != nil {
		t.Fatalf("EncodeCheckpoint() error = %v", err)
	}
	s := scanner.New()
	s.Restore(cp)
	return s
}

func lines(widths ...int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteString(strings.Repeat(" ", w))
		b.WriteString("line\n")
	}
	return b.String()
}

func TestScan_Scenarios(t *testing.T) {
	I, D := scanner.Indent, scanner.Dedent

	tests := []struct {
		name  string
		input string
		want  []scanner.TokenKind
	}{
		{"flat", lines(0, 0, 0), nil},
		{"indent and return", lines(0, 4, 8, 4, 0), []scanner.TokenKind{I, I, D, D}},
		{"open at end of input", lines(0, 4, 8), []scanner.TokenKind{I, I, D, D}},
		{"no trailing newline", "a\n    b\n        c", []scanner.TokenKind{I, I, D, D}},
		{"multi-level dedent", lines(0, 2, 4, 6, 0), []scanner.TokenKind{I, I, I, D, D, D}},
		{"dedent below every level", lines(0, 4, 8, 2), []scanner.TokenKind{I, I, D, D}},
		{"partial dedent settles", lines(0, 4, 8, 6, 0), []scanner.TokenKind{I, I, D, D}},
		{"blank lines ignored", "a\n    b\n\n   \n    c\nd\n", []scanner.TokenKind{I, D}},
		{"comment lines ignored", "a\n    b\n// note\n  // note\n    c\n", []scanner.TokenKind{I, D}},
		{"tabs", "a\n\tb\n\t c\nd\n", []scanner.TokenKind{I, I, D, D}},
		{"crlf", "a\r\n    b\r\nc\r\n", []scanner.TokenKind{I, D}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scanner.New()
			got := drive(t, s, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %v, want %v", got, tt.want)
			}
			if s.Depth() != 0 || s.Pending() != 0 {
				t.Errorf("state after full scan = %+v, want empty", s.State())
			}
		})
	}
}

func TestScan_TabWidth(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
	}{
		{"\tx", 8},
		{"\t x", 9},
		{" \tx", 9},
		{"\t\tx", 16},
		{"    x", 4},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.input, "\t", "\\t"), func(t *testing.T) {
			s := scanner.New()
			lex := source.New(tt.input)
			if !s.Scan(lex, scanner.AcceptAll()) {
				t.Fatal("expected INDENT")
			}
			if kind, _ := lex.Result(); kind != scanner.Indent {
				t.Fatalf("result = %v, want INDENT", kind)
			}
			if levels := s.State().Levels; len(levels) != 1 || levels[0] != tt.want {
				t.Errorf("levels = %v, want [%d]", levels, tt.want)
			}
			if lex.Lookahead() != 'x' {
				t.Errorf("cursor should stop at the first non-blank rune, at %q", lex.Lookahead())
			}
			if lex.TokenText() != "" {
				t.Errorf("whitespace should be trivia, token text = %q", lex.TokenText())
			}
		})
	}
}

func TestScan_DedentBelowEveryLevel(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 0)
	lex := source.New("  x")

	for i := 0; i < 2; i++ {
		if !s.Scan(lex, scanner.AcceptAll()) {
			t.Fatalf("call %d: expected DEDENT", i+1)
		}
		if kind, _ := lex.Result(); kind != scanner.Dedent {
			t.Fatalf("call %d: result = %v, want DEDENT", i+1, kind)
		}
	}
	if s.Scan(lex, scanner.AcceptAll()) {
		t.Error("third call should decline")
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestScan_PartialDedent(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 0)
	lex := source.New("      x")

	if !s.Scan(lex, scanner.AcceptAll()) {
		t.Fatal("expected DEDENT")
	}
	if got := s.State().Levels; !reflect.DeepEqual(got, []uint32{4}) {
		t.Errorf("levels = %v, want [4]", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestScan_EndOfInputFlush(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 0)
	lex := source.New("")

	for i := 0; i < 2; i++ {
		if !s.Scan(lex, scanner.AcceptAll()) {
			t.Fatalf("call %d: expected DEDENT at EOF", i+1)
		}
	}
	if s.Scan(lex, scanner.AcceptAll()) {
		t.Error("no tokens expected once every level is closed")
	}
}

func TestScan_EndOfInputDrainsPendingFirst(t *testing.T) {
	s := restored(t, []uint32{4}, 2)
	lex := source.New("")

	for i := 0; i < 3; i++ {
		if !s.Scan(lex, scanner.AcceptAll()) {
			t.Fatalf("call %d: expected DEDENT", i+1)
		}
		if i < 2 && s.Depth() != 1 {
			t.Fatalf("call %d: level popped before pending dedents drained", i+1)
		}
	}
	if s.Scan(lex, scanner.AcceptAll()) {
		t.Error("expected decline after draining")
	}
}

func TestScan_BlankLinesAreNeutral(t *testing.T) {
	inputs := []string{"\n", "    \n", "\t\t\r\n", "   ", "        \rx"}

	for _, input := range inputs {
		s := restored(t, []uint32{4}, 0)
		lex := source.New(input)
		if s.Scan(lex, scanner.AcceptAll()) {
			t.Errorf("%q: blank line produced a token", input)
		}
		if got := s.State().Levels; !reflect.DeepEqual(got, []uint32{4}) {
			t.Errorf("%q: levels changed to %v", input, got)
		}
	}
}

func TestScan_CommentLinesAreNeutral(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int
	}{
		{"at column zero", "// dedent bait", 0},
		{"deeper than stack", "            // indent bait", 12},
		{"tab indented", "\t// note", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := restored(t, []uint32{4}, 0)
			lex := source.New(tt.input)
			if s.Scan(lex, scanner.AcceptAll()) {
				t.Fatal("comment line produced a token")
			}
			if lex.Offset() != tt.wantOffset || lex.Lookahead() != '/' {
				t.Errorf("cursor at %d (%q), want %d before the marker", lex.Offset(), lex.Lookahead(), tt.wantOffset)
			}
			if got := s.State().Levels; !reflect.DeepEqual(got, []uint32{4}) {
				t.Errorf("levels changed to %v", got)
			}
		})
	}
}

func TestScan_SingleSlashIsNotAComment(t *testing.T) {
	s := scanner.New()
	lex := source.New("    /x")
	if !s.Scan(lex, scanner.AcceptAll()) {
		t.Fatal("expected INDENT for a line starting with a single slash")
	}
	if lex.Lookahead() != '/' {
		t.Errorf("probe was not rolled back, cursor at %q", lex.Lookahead())
	}
}

func TestScan_CustomCommentMarker(t *testing.T) {
	s := scanner.New(scanner.WithCommentMarker("--"))
	if s.CommentMarker() != "--" {
		t.Fatalf("CommentMarker() = %q", s.CommentMarker())
	}
	if s.Scan(source.New("    -- note"), scanner.AcceptAll()) {
		t.Error("custom marker line produced a token")
	}
	if !s.Scan(source.New("    // text"), scanner.AcceptAll()) {
		t.Error("default marker should no longer be special")
	}

	ignored := scanner.New(scanner.WithCommentMarker("#"))
	if ignored.CommentMarker() != scanner.DefaultCommentMarker {
		t.Errorf("one-rune marker should be ignored, got %q", ignored.CommentMarker())
	}
}

func TestScan_ValidSymbolGating(t *testing.T) {
	t.Run("indent not acceptable", func(t *testing.T) {
		s := scanner.New()
		if s.Scan(source.New("    x"), scanner.Accept(scanner.Dedent)) {
			t.Error("INDENT emitted although not acceptable")
		}
		if s.Depth() != 0 {
			t.Error("stack changed on a declined INDENT")
		}
	})

	t.Run("dedent not acceptable", func(t *testing.T) {
		s := restored(t, []uint32{4, 8}, 0)
		if s.Scan(source.New("x"), scanner.Accept(scanner.Indent)) {
			t.Error("DEDENT emitted although not acceptable")
		}
		if s.Depth() != 2 || s.Pending() != 0 {
			t.Errorf("state changed on a declined DEDENT: %+v", s.State())
		}
	})

	t.Run("pending held back", func(t *testing.T) {
		s := restored(t, []uint32{4}, 1)
		lex := source.New("    x")
		if s.Scan(lex, scanner.Accept(scanner.Indent)) {
			t.Error("token emitted although only INDENT was acceptable and width is equal")
		}
		if s.Pending() != 1 {
			t.Errorf("Pending() = %d, want 1", s.Pending())
		}
	})

	t.Run("eof needs dedent", func(t *testing.T) {
		s := restored(t, []uint32{4}, 0)
		if s.Scan(source.New(""), scanner.Accept(scanner.Indent)) {
			t.Error("EOF DEDENT emitted although not acceptable")
		}
		if s.Scan(source.New(""), nil) {
			t.Error("nil valid set should accept nothing")
		}
	})
}

func TestScan_MidLineDeclines(t *testing.T) {
	s := scanner.New()
	lex := source.New("ab    c")
	lex.Advance(false)
	lex.Advance(false)
	if s.Scan(lex, scanner.AcceptAll()) {
		t.Error("mid-line position produced a token")
	}
	if lex.Offset() != 2 {
		t.Errorf("mid-line decline consumed input, offset %d", lex.Offset())
	}
}

func TestScanner_NilSafety(t *testing.T) {
	var s *scanner.Scanner

	if s.Scan(source.New("    x"), scanner.AcceptAll()) {
		t.Error("nil scanner emitted a token")
	}
	if n := s.Serialize(make([]byte, 64)); n != 0 {
		t.Errorf("nil Serialize() = %d, want 0", n)
	}
	s.Deserialize([]byte{1, 2, 3})
	s.Destroy()
	if s.Snapshot() != nil {
		t.Error("nil Snapshot() should be nil")
	}

	live := scanner.New()
	if live.Scan(nil, scanner.AcceptAll()) {
		t.Error("nil lexer should decline")
	}
}

func TestScanner_Destroy(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 1)
	s.Destroy()
	s.Destroy()
	if s.Depth() != 0 || s.Pending() != 0 {
		t.Errorf("state after Destroy = %+v", s.State())
	}
}

func TestSerialize_Layout(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 1)
	buf := make([]byte, scanner.SerializationBufferSize)

	n := s.Serialize(buf)
	want := []byte{
		2, 0, 0, 0,
		1, 0, 0, 0,
		4, 0, 0, 0,
		8, 0, 0, 0,
	}
	if !reflect.DeepEqual(buf[:n], want) {
		t.Errorf("Serialize() = %v, want %v", buf[:n], want)
	}
}

func TestSerialize_Overflow(t *testing.T) {
	s := scanner.New()
	if n := s.Serialize(make([]byte, 7)); n != 0 {
		t.Errorf("header does not fit, Serialize() = %d, want 0", n)
	}
	if n := s.Serialize(make([]byte, 8)); n != 8 {
		t.Errorf("empty state Serialize() = %d, want 8", n)
	}

	src := lines(0)
	for w := 1; w <= scanner.MaxLevels(scanner.SerializationBufferSize)+1; w++ {
		src += lines(w)
	}
	deep := scanner.New()
	lex := source.New(src)
	for !lex.EOF() {
		deep.Scan(lex, scanner.Accept(scanner.Indent))
		skipLine(lex)
	}
	if deep.Depth() != scanner.MaxLevels(scanner.SerializationBufferSize)+1 {
		t.Fatalf("Depth() = %d", deep.Depth())
	}
	if n := deep.Serialize(make([]byte, scanner.SerializationBufferSize)); n != 0 {
		t.Errorf("overflowing state Serialize() = %d, want 0", n)
	}
	if deep.Snapshot() != nil {
		t.Error("overflowing Snapshot() should be nil")
	}
}

func TestDeserialize_ReplacesState(t *testing.T) {
	s := restored(t, []uint32{4, 8}, 1)

	other := restored(t, []uint32{2}, 0)
	s.Restore(other.Snapshot())
	if got := s.State(); !reflect.DeepEqual(got.Levels, []uint32{2}) || got.Pending != 0 {
		t.Errorf("state = %+v, want levels [2] pending 0", got)
	}

	s.Deserialize(nil)
	if s.Depth() != 0 || s.Pending() != 0 {
		t.Errorf("empty buffer should reset, got %+v", s.State())
	}
}

func TestDeserialize_MalformedResets(t *testing.T) {
	bad := [][]byte{
		{1, 0, 0},
		{2, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0},
		{2, 0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 4, 0, 0, 0},
	}
	for _, buf := range bad {
		s := restored(t, []uint32{4}, 1)
		s.Deserialize(buf)
		if s.Depth() != 0 || s.Pending() != 0 {
			t.Errorf("%v: state = %+v, want initial", buf, s.State())
		}
	}
}

func TestCheckpoint_RoundTripContinuesIdentically(t *testing.T) {
	src := lines(0, 4, 8, 8, 12, 2, 2, 9, 0, 4)

	reference := drive(t, scanner.New(), src)

	s := scanner.New()
	lex := source.New(src)
	var got []scanner.TokenKind
	for steps := 0; steps < 1000; steps++ {
		// Serialize before every call and continue on a fresh copy.
		copyScanner := scanner.New()
		copyScanner.Restore(s.Snapshot())
		s.Destroy()
		s = copyScanner

		lex.StartToken()
		start := lex.SavePosition()
		if s.Scan(lex, scanner.AcceptAll()) {
			kind, _ := lex.Result()
			got = append(got, kind)
			continue
		}
		lex.RestorePosition(start)
		if lex.EOF() {
			break
		}
		skipLine(lex)
	}

	if !reflect.DeepEqual(got, reference) {
		t.Errorf("restored run = %v, reference = %v", got, reference)
	}
}

func TestScan_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		var b strings.Builder
		for line := 0; line < 1+rng.Intn(30); line++ {
			switch rng.Intn(6) {
			case 0:
				b.WriteString(strings.Repeat(" ", rng.Intn(6)))
			case 1:
				b.WriteString(strings.Repeat(" ", rng.Intn(12)) + "// comment")
			default:
				b.WriteString(strings.Repeat("\t", rng.Intn(2)))
				b.WriteString(strings.Repeat(" ", rng.Intn(13)))
				b.WriteString("Alice: hello")
			}
			if rng.Intn(10) > 0 {
				b.WriteString("\n")
			}
		}
		src := b.String()

		s := scanner.New()
		kinds := drive(t, s, src)

		indents, dedents := 0, 0
		for _, k := range kinds {
			if k == scanner.Indent {
				indents++
			} else {
				dedents++
			}
			if dedents > indents {
				t.Fatalf("%q: more DEDENT than INDENT so far: %v", src, kinds)
			}
		}
		if indents != dedents {
			t.Fatalf("%q: %d INDENT vs %d DEDENT", src, indents, dedents)
		}
	}
}

func TestScanner_WithCapacity(t *testing.T) {
	s := restored(t, []uint32{1, 2, 3}, 0)
	small := scanner.New(scanner.WithCapacity(16))
	small.Restore(s.Snapshot())

	if small.Snapshot() != nil {
		t.Error("three levels need 20 bytes and should not fit into 16")
	}
}
