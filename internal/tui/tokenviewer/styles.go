package tokenviewer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	FileStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Padding(0, 1)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Strikethrough(true)

	TokenPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed)

	PositionStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E293B")).
			Foreground(ColorText).
			Padding(0, 1)

	BalancedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	UnbalancedStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

var kindColors = map[tokenizer.Kind]lipgloss.Color{
	tokenizer.Indent:  ColorSuccess,
	tokenizer.Dedent:  ColorWarning,
	tokenizer.Newline: ColorDimmed,
	tokenizer.Comment: ColorMuted,
	tokenizer.Text:    ColorSecondary,
	tokenizer.EOF:     ColorPrimary,
}

// RenderKind renders a fixed-width, colored token kind badge
func RenderKind(kind tokenizer.Kind) string {
	return lipgloss.NewStyle().
		Foreground(kindColors[kind]).
		Bold(kind == tokenizer.Indent || kind == tokenizer.Dedent).
		Render(fmt.Sprintf("%-7s", kind.String()))
}

// RenderFilterStatus renders a filter label as enabled or disabled
func RenderFilterStatus(label string, enabled bool) string {
	if enabled {
		return FilterActiveStyle.Render(label)
	}
	return FilterInactiveStyle.Render(label)
}

// RenderKeyHint renders a key binding hint
func RenderKeyHint(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpStyle.Render(desc)
}
