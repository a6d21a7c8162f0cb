package tokenviewer

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
)

const source = `title: Door
---
// knock first
-> Knock
    Door: Who is there?
===
`

func loaded(t *testing.T, load func() (string, error)) Model {
	t.Helper()
	m := New(Config{Name: "door.yarn", Load: load})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)
	updated, _ = m.Update(m.analyze())
	return updated.(Model)
}

func press(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func countKind(tokens []tokenizer.Token, kind tokenizer.Kind) int {
	n := 0
	for _, tok := range tokens {
		if tok.Kind == kind {
			n++
		}
	}
	return n
}

func TestModel_LoadsTokens(t *testing.T) {
	m := loaded(t, func() (string, error) { return source, nil })

	want := tokenizer.Tokenize(source)
	if got := m.Visible(); len(got) != len(want) {
		t.Fatalf("visible = %d tokens, want %d", len(got), len(want))
	}

	view := m.View()
	for _, s := range []string{"door.yarn", "balanced", "INDENT", "DEDENT", "COMMENT"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q", s)
		}
	}
}

func TestModel_KindFilters(t *testing.T) {
	m := loaded(t, func() (string, error) { return source, nil })
	all := len(m.Visible())

	tests := []struct {
		key    string
		kind   tokenizer.Kind
		hidden int
	}{
		{"1", tokenizer.Indent, 1},
		{"2", tokenizer.Dedent, 1},
		{"3", tokenizer.Newline, 6},
		{"4", tokenizer.Comment, 1},
		{"5", tokenizer.Text, 5},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			filtered := press(m, tt.key)
			if n := countKind(filtered.Visible(), tt.kind); n != 0 {
				t.Errorf("%d %s tokens still visible", n, tt.kind)
			}
			if got := len(filtered.Visible()); got != all-tt.hidden {
				t.Errorf("visible = %d, want %d", got, all-tt.hidden)
			}

			// the original model is unaffected
			if len(m.Visible()) != all {
				t.Error("filtering mutated the previous model")
			}

			restored := press(filtered, tt.key)
			if len(restored.Visible()) != all {
				t.Errorf("toggling twice should restore all tokens")
			}
		})
	}
}

func TestModel_IndentationOnly(t *testing.T) {
	m := press(loaded(t, func() (string, error) { return source, nil }), "i")

	for _, tok := range m.Visible() {
		if tok.Kind != tokenizer.Indent && tok.Kind != tokenizer.Dedent && tok.Kind != tokenizer.EOF {
			t.Errorf("unexpected %s in indentation view", tok.Kind)
		}
	}
	if len(m.Visible()) != 3 {
		t.Errorf("visible = %v, want INDENT DEDENT EOF", m.Visible())
	}

	m = press(m, "0")
	if len(m.Visible()) != len(tokenizer.Tokenize(source)) {
		t.Error("0 should show every kind again")
	}
}

func TestModel_Rows_TrackDepth(t *testing.T) {
	m := loaded(t, func() (string, error) { return source, nil })

	for _, r := range m.rows {
		want := 0
		if r.tok.Line == 5 && r.tok.Kind != tokenizer.Indent {
			want = 1
		}
		if r.depth != want {
			t.Errorf("%s at line %d: depth %d, want %d", r.tok.Kind, r.tok.Line, r.depth, want)
		}
	}
}

func TestModel_LoadError(t *testing.T) {
	m := loaded(t, func() (string, error) { return "", errors.New("permission denied") })

	if !strings.Contains(m.StatusLine(), "permission denied") {
		t.Errorf("StatusLine() = %q", m.StatusLine())
	}
	if len(m.Visible()) != 0 {
		t.Error("no tokens expected after a failed load")
	}
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, func() (string, error) { return source, nil })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_Reload(t *testing.T) {
	calls := 0
	m := loaded(t, func() (string, error) {
		calls++
		return source, nil
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if _, ok := cmd().(reloadMsg); !ok {
		t.Fatal("r should request a reload")
	}
	updated, _ := m.Update(reloadMsg{})
	m = updated.(Model)
	if !m.loading {
		t.Error("reload should mark the model as loading")
	}
	updated, _ = m.Update(m.analyze())
	m = updated.(Model)
	if calls != 2 || m.loading {
		t.Errorf("calls = %d, loading = %v", calls, m.loading)
	}
}
