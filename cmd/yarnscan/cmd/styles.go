package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#06B6D4")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	indentStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	dedentStyle  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	commentStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// configureColor applies [output] color and --no-color to the lipgloss
// default renderer
func configureColor(out io.Writer) {
	mode := appCfg.Output.Color
	if noColor || os.Getenv("NO_COLOR") != "" {
		mode = "never"
	}

	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

func kindStyle(kind tokenizer.Kind) lipgloss.Style {
	switch kind {
	case tokenizer.Indent:
		return indentStyle
	case tokenizer.Dedent:
		return dedentStyle
	case tokenizer.Comment:
		return commentStyle
	case tokenizer.Text:
		return textStyle
	default:
		return mutedStyle
	}
}

// outputFormat returns the --format flag value or the configured default
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return appCfg.Output.Format
}

// writeStructured encodes v as json or yaml
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return mdwerror.Newf("unsupported output format %q", format).
			WithCode(mdwerror.CodeInvalidInput)
	}
}
