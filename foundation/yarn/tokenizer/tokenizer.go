// File: tokenizer.go
// Title: Reference Host Tokenizer
// Description: Drives the indentation tracker the way a generated parser
//              would: the tracker is asked first at every position, and when
//              it declines the host rules produce newlines, comments and
//              text. Supports snapshot/restore of the full lexing state.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package tokenizer

import (
	"strings"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
	"github.com/msto63/yarnscan/foundation/yarn/source"
)

// ValidFunc decides which indentation tokens are acceptable, given the
// previously emitted token
type ValidFunc func(prev Token) scanner.ValidSymbols

// Tokenizer turns a Yarn source into a token stream
type Tokenizer struct {
	lex   *source.Lexer
	scan  *scanner.Scanner
	valid ValidFunc
	log   *mdwlog.Logger

	scannerOpts []scanner.Option
	prev        Token
	done        bool
}

// Option configures a Tokenizer
type Option func(*Tokenizer)

// WithValidSymbols replaces the default rule, which accepts both
// indentation kinds everywhere
func WithValidSymbols(fn ValidFunc) Option {
	return func(t *Tokenizer) {
		if fn != nil {
			t.valid = fn
		}
	}
}

// WithScannerOptions passes options through to the indentation tracker
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(t *Tokenizer) {
		t.scannerOpts = append(t.scannerOpts, opts...)
	}
}

// WithLogger sets the logger for the tokenizer and its tracker
func WithLogger(logger *mdwlog.Logger) Option {
	return func(t *Tokenizer) {
		t.log = logger
	}
}

// New creates a tokenizer positioned at the start of input
func New(input string, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		lex: source.New(input),
		valid: func(Token) scanner.ValidSymbols {
			return scanner.AcceptAll()
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	scannerOpts := t.scannerOpts
	if t.log != nil {
		scannerOpts = append([]scanner.Option{scanner.WithLogger(t.log)}, scannerOpts...)
	}
	t.scan = scanner.New(scannerOpts...)
	return t
}

// Scanner exposes the indentation tracker
func (t *Tokenizer) Scanner() *scanner.Scanner {
	return t.scan
}

// Close releases the tracker
func (t *Tokenizer) Close() {
	t.scan.Destroy()
}

// Next returns the next token. Once EOF has been returned every further
// call returns EOF again.
func (t *Tokenizer) Next() Token {
	for {
		if t.done {
			return t.makeToken(EOF, "")
		}

		t.lex.StartToken()
		start := t.lex.SavePosition()
		if t.scan.Scan(t.lex, t.valid(t.prev)) {
			kind, _ := t.lex.Result()
			return t.emit(t.makeToken(fromScanner(kind), ""))
		}

		// A declining tracker may have consumed blanks; host rules start over
		t.lex.RestorePosition(start)
		t.lex.StartToken()

		switch ch := t.lex.Lookahead(); {
		case t.lex.EOF():
			t.done = true
			return t.emit(t.makeToken(EOF, ""))

		case ch == '\r' || ch == '\n':
			t.lex.Advance(false)
			if ch == '\r' && t.lex.Lookahead() == '\n' {
				t.lex.Advance(false)
			}
			return t.emit(t.makeToken(Newline, t.lex.TokenText()))

		case ch == ' ' || ch == '\t':
			t.lex.Advance(true)

		case t.lex.HasPrefix(t.scan.CommentMarker()):
			t.consumeLine(false)
			return t.emit(t.makeToken(Comment, t.lex.TokenText()))

		default:
			t.consumeLine(true)
			return t.emit(t.makeToken(Text, strings.TrimRight(t.lex.TokenText(), " \t")))
		}
	}
}

// consumeLine advances to the end of the line, or to a comment marker
// when stopAtComment is set
func (t *Tokenizer) consumeLine(stopAtComment bool) {
	marker := t.scan.CommentMarker()
	for !t.lex.EOF() {
		ch := t.lex.Lookahead()
		if ch == '\n' || ch == '\r' {
			return
		}
		if stopAtComment && t.lex.HasPrefix(marker) {
			return
		}
		t.lex.Advance(false)
	}
}

func (t *Tokenizer) makeToken(kind Kind, value string) Token {
	start := t.lex.TokenStart()
	return Token{
		Kind:   kind,
		Value:  value,
		Offset: start.Offset,
		Line:   start.Line,
		Column: int(start.Column),
	}
}

func (t *Tokenizer) emit(tok Token) Token {
	t.prev = tok
	if t.log.IsLevelEnabled(mdwlog.LevelTrace) {
		t.log.Trace("token", mdwlog.Fields{
			"kind":   tok.Kind.String(),
			"line":   tok.Line,
			"column": tok.Column,
		})
	}
	return tok
}

// Tokenize returns every remaining token up to and including EOF
func (t *Tokenizer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

// Tokenize is a convenience wrapper around New and Tokenize
func Tokenize(input string, opts ...Option) []Token {
	t := New(input, opts...)
	defer t.Close()
	return t.Tokenize()
}

// Cursor captures everything needed to continue tokenizing from a point
type Cursor struct {
	Position   scanner.Position
	Checkpoint scanner.Checkpoint
	Prev       Token
	Done       bool
}

// Snapshot captures the current position and tracker state. It fails with
// CodeCheckpointOverflow when the tracker state exceeds its capacity.
func (t *Tokenizer) Snapshot() (Cursor, error) {
	cp := t.scan.Snapshot()
	if cp == nil {
		return Cursor{}, mdwerror.New("indentation state exceeds checkpoint capacity").
			WithCode(mdwerror.CodeCheckpointOverflow).
			WithOperation("tokenizer.Snapshot").
			WithDetail("depth", t.scan.Depth())
	}
	return Cursor{
		Position:   t.lex.SavePosition(),
		Checkpoint: cp,
		Prev:       t.prev,
		Done:       t.done,
	}, nil
}

// Restore continues from a cursor taken on the same input
func (t *Tokenizer) Restore(c Cursor) {
	t.lex.RestorePosition(c.Position)
	t.lex.StartToken()
	t.scan.Restore(c.Checkpoint)
	t.prev = c.Prev
	t.done = c.Done
}

// LineStart returns the position of the first rune of the given 1-based
// line, with the same line rules as the lexer. ok is false when the input
// has fewer lines.
func LineStart(input string, line int) (pos scanner.Position, ok bool) {
	if line < 1 {
		return scanner.Position{}, false
	}
	lex := source.New(input)
	for lex.Line() < line {
		if lex.EOF() {
			return scanner.Position{}, false
		}
		lex.Advance(false)
	}
	return lex.SavePosition(), true
}

// Balance checks that every DEDENT closes an earlier INDENT and that none
// remain open. It fails with CodeUnbalanced.
func Balance(tokens []Token) error {
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case Indent:
			depth++
		case Dedent:
			depth--
			if depth < 0 {
				return mdwerror.New("dedent without matching indent").
					WithCode(mdwerror.CodeUnbalanced).
					WithOperation("tokenizer.Balance").
					WithDetail("line", tok.Line).
					WithDetail("column", tok.Column)
			}
		}
	}
	if depth != 0 {
		return mdwerror.Newf("%d indentation levels left open", depth).
			WithCode(mdwerror.CodeUnbalanced).
			WithOperation("tokenizer.Balance").
			WithDetail("open", depth)
	}
	return nil
}

// MaxDepth returns the deepest nesting reached by a token stream
func MaxDepth(tokens []Token) int {
	depth, max := 0, 0
	for _, tok := range tokens {
		switch tok.Kind {
		case Indent:
			depth++
			if depth > max {
				max = depth
			}
		case Dedent:
			depth--
		}
	}
	return max
}
