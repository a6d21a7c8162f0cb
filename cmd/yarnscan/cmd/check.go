package cmd

import (
	"fmt"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/spf13/cobra"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check <files...>",
	Short: "Check the indentation balance of Yarn sources",
	Long: `Analyzes each file and reports its block structure: nesting depth,
INDENT/DEDENT counts and whether every opened block is closed.
The command fails when any file cannot be read or is unbalanced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "output format (text, json, yaml)")
}

// checkResult is the per-file outcome of check
type checkResult struct {
	File      string `json:"file" yaml:"file"`
	RunID     string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Lines     int    `json:"lines" yaml:"lines"`
	Indents   int    `json:"indents" yaml:"indents"`
	Dedents   int    `json:"dedents" yaml:"dedents"`
	MaxDepth  int    `json:"max_depth" yaml:"max_depth"`
	Balanced  bool   `json:"balanced" yaml:"balanced"`
	Overflows int    `json:"checkpoint_overflows,omitempty" yaml:"checkpoint_overflows,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	svc, closeFn, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer closeFn()

	results := make([]checkResult, 0, len(args))
	failed := 0
	for _, arg := range args {
		res := checkResult{File: sourceName(arg)}

		source, err := readSource(cmd, arg)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			failed++
			continue
		}

		report, err := svc.Check(ctx, res.File, source)
		if report != nil {
			res.RunID = report.RunID
			res.Lines = report.Lines
			res.Indents = report.Indents
			res.Dedents = report.Dedents
			res.MaxDepth = report.MaxDepth
			res.Balanced = report.Balanced
			res.Overflows = report.Overflows
		}
		if err != nil {
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}

	format := outputFormat(checkFormat)
	if format == "text" {
		printCheck(cmd, results)
	} else if err := writeStructured(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	if failed > 0 {
		return mdwerror.Newf("%d of %d files failed the check", failed, len(args)).
			WithCode(mdwerror.CodeUnbalanced)
	}
	return nil
}

func printCheck(cmd *cobra.Command, results []checkResult) {
	w := cmd.OutOrStdout()
	for _, r := range results {
		if r.Error != "" && r.RunID == "" {
			fmt.Fprintf(w, "%s %s  %s\n", failStyle.Render("FAIL"), r.File, errorStyle.Render(r.Error))
			continue
		}

		verdict := okStyle.Render("OK  ")
		if !r.Balanced || r.Error != "" {
			verdict = failStyle.Render("FAIL")
		}
		fmt.Fprintf(w, "%s %s  %s\n", verdict, r.File,
			mutedStyle.Render(fmt.Sprintf("lines %d  depth %d  indents %d  dedents %d",
				r.Lines, r.MaxDepth, r.Indents, r.Dedents)))
		if r.Overflows > 0 {
			fmt.Fprintf(w, "     %s\n", mutedStyle.Render(fmt.Sprintf("%d lines too deep to checkpoint", r.Overflows)))
		}
	}
}
