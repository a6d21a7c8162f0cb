// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     tokenviewer
// Description: Bubbletea model showing the token stream of a Yarn source
//              with per-kind filters and a balance/depth status bar
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package tokenviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/analyzer"
	"github.com/msto63/yarnscan/pkg/core/version"
)

// filterKeys binds the number keys to token kinds
var filterKeys = []struct {
	key  string
	kind tokenizer.Kind
}{
	{"1", tokenizer.Indent},
	{"2", tokenizer.Dedent},
	{"3", tokenizer.Newline},
	{"4", tokenizer.Comment},
	{"5", tokenizer.Text},
}

// Config holds token viewer configuration
type Config struct {
	Name     string
	Load     func() (string, error)
	Analyzer *analyzer.Service
}

// Model is the Bubbletea model of the token viewer
type Model struct {
	width   int
	height  int
	ready   bool
	loading bool
	err     error

	viewport viewport.Model
	spinner  spinner.Model

	name     string
	load     func() (string, error)
	analyzer *analyzer.Service

	report  *analyzer.Report
	rows    []row
	hidden  [tokenizer.EOF + 1]bool
	withPos bool
}

// row is a visible token with the block depth in effect when it was produced
type row struct {
	tok   tokenizer.Token
	depth int
}

// New creates a token viewer model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	svc := cfg.Analyzer
	if svc == nil {
		svc = analyzer.New(nil)
	}

	return Model{
		spinner:  sp,
		name:     cfg.Name,
		load:     cfg.Load,
		analyzer: svc,
		withPos:  true,
		loading:  true,
	}
}

// Init starts the first analysis
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.analyze)
}

// analyze loads the source and runs the analysis
func (m Model) analyze() tea.Msg {
	source, err := m.load()
	if err != nil {
		return analysisMsg{err: err}
	}
	report, err := m.analyzer.Analyze(context.Background(), m.name, source)
	return analysisMsg{report: report, err: err}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 3
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case analysisMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.applyFilters()
			m.updateViewportContent()
			m.viewport.GotoTop()
		}

	case reloadMsg:
		m.loading = true
		cmds = append(cmds, m.spinner.Tick, m.analyze)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyRunes:
		key := string(msg.Runes)
		for _, f := range filterKeys {
			if key == f.key {
				m.hidden[f.kind] = !m.hidden[f.kind]
				m.applyFilters()
				m.updateViewportContent()
				return m, nil
			}
		}

		switch key {
		case "0":
			m.hidden = [tokenizer.EOF + 1]bool{}
			m.applyFilters()
			m.updateViewportContent()
		case "i":
			// indentation only
			m.hidden = [tokenizer.EOF + 1]bool{}
			m.hidden[tokenizer.Newline] = true
			m.hidden[tokenizer.Comment] = true
			m.hidden[tokenizer.Text] = true
			m.applyFilters()
			m.updateViewportContent()
		case "p":
			m.withPos = !m.withPos
			m.updateViewportContent()
		case "r":
			return m, func() tea.Msg { return reloadMsg{} }
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "q":
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
	case tea.KeyPgDown:
		m.viewport.ViewDown()
	case tea.KeyUp:
		m.viewport.LineUp(1)
	case tea.KeyDown:
		m.viewport.LineDown(1)
	}

	return m, nil
}

// applyFilters recomputes the visible rows
func (m *Model) applyFilters() {
	m.rows = nil
	if m.report == nil {
		return
	}

	depth := 0
	for _, tok := range m.report.Tokens {
		if tok.Kind == tokenizer.Dedent {
			depth--
		}
		if !m.hidden[tok.Kind] {
			m.rows = append(m.rows, row{tok: tok, depth: depth})
		}
		if tok.Kind == tokenizer.Indent {
			depth++
		}
	}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for _, r := range m.rows {
		content.WriteString(m.renderToken(r.tok, r.depth))
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
}

func (m Model) renderToken(tok tokenizer.Token, depth int) string {
	if depth < 0 {
		depth = 0
	}
	var b strings.Builder
	if m.withPos {
		b.WriteString(PositionStyle.Render(fmt.Sprintf("%4d:%-3d", tok.Line, tok.Column)))
		b.WriteString(" ")
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(RenderKind(tok.Kind))
	if tok.Value != "" {
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%q", tok.Value)))
	}
	return b.String()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading token viewer..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(TokenPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render("yarnscan"),
		"   ",
		FileStyle.Render(m.name),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderFilterBar() string {
	filters := make([]string, 0, len(filterKeys))
	for _, f := range filterKeys {
		filters = append(filters, fmt.Sprintf("%s:%s", f.key, RenderFilterStatus(f.kind.String(), !m.hidden[f.kind])))
	}

	total := 0
	if m.report != nil {
		total = len(m.report.Tokens)
	}
	count := HelpStyle.Render(fmt.Sprintf("[%d/%d tokens]", len(m.rows), total))
	return FilterBarStyle.Width(m.width - 2).Render(strings.Join(filters, "  ") + "  " + count)
}

// StatusLine summarizes the analysis for the status bar
func (m Model) StatusLine() string {
	switch {
	case m.err != nil:
		return ErrorStyle.Render("error: " + m.err.Error())
	case m.loading || m.report == nil:
		return m.spinner.View() + " analyzing..."
	}

	r := m.report
	balance := BalancedStyle.Render("balanced")
	if !r.Balanced {
		balance = UnbalancedStyle.Render("unbalanced")
	}
	return fmt.Sprintf("%s  depth %d  lines %d  indents %d  dedents %d",
		balance, r.MaxDepth, r.Lines, r.Indents, r.Dedents)
}

func (m Model) renderStatusBar() string {
	left := m.StatusLine()
	right := HelpStyle.Render("v" + version.Tool)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 2 {
		gap = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1-5", "Kind"),
		RenderKeyHint("0", "All"),
		RenderKeyHint("i", "Indentation"),
		RenderKeyHint("p", "Positions"),
		RenderKeyHint("r", "Reload"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// Visible returns the tokens passing the current filters
func (m Model) Visible() []tokenizer.Token {
	tokens := make([]tokenizer.Token, len(m.rows))
	for i, r := range m.rows {
		tokens[i] = r.tok
	}
	return tokens
}

// Run starts the token viewer
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
