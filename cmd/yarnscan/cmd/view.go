package cmd

import (
	"os"

	"github.com/msto63/yarnscan/internal/tui/tokenviewer"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Browse the token stream interactively",
	Long: `Opens an interactive token viewer for a Yarn source.

Keys:
  1-5         toggle INDENT, DEDENT, NEWLINE, COMMENT, TEXT
  0           show every kind
  i           indentation tokens only
  p           toggle positions
  r           reload the file
  g / G       top / bottom
  PgUp/PgDn   scroll
  q / Ctrl+C  quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		_, err = readSource(cmd, path)
		return err
	}

	svc, closeFn, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer closeFn()

	return tokenviewer.Run(tokenviewer.Config{
		Name: path,
		Load: func() (string, error) {
			return readSource(cmd, path)
		},
		Analyzer: svc,
	})
}
