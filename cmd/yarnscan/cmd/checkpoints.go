package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/msto63/yarnscan/foundation/yarn/scanner"
	"github.com/spf13/cobra"
)

var checkpointsFormat string

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints <file|->",
	Short: "Dump the tracker checkpoint recorded at every line",
	Long: `Analyzes a source and prints, for each line start, the encoded tracker
checkpoint together with its decoded indentation levels and pending
DEDENT count.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckpoints,
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.Flags().StringVarP(&checkpointsFormat, "format", "f", "", "output format (text, json, yaml)")
}

// checkpointRow is one decoded checkpoint
type checkpointRow struct {
	Line    int      `json:"line" yaml:"line"`
	Offset  int      `json:"offset" yaml:"offset"`
	Levels  []uint32 `json:"levels" yaml:"levels"`
	Pending uint32   `json:"pending" yaml:"pending"`
	Hex     string   `json:"hex" yaml:"hex"`
}

func runCheckpoints(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	svc, closeFn, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := svc.Analyze(ctx, sourceName(args[0]), source)
	if err != nil {
		return err
	}

	rows := make([]checkpointRow, 0, len(report.Checkpoints))
	for _, e := range report.Checkpoints {
		st, err := scanner.DecodeCheckpoint(e.Checkpoint)
		if err != nil {
			return err
		}
		rows = append(rows, checkpointRow{
			Line:    e.Line,
			Offset:  e.Offset,
			Levels:  st.Levels,
			Pending: st.Pending,
			Hex:     hex.EncodeToString(e.Checkpoint),
		})
	}

	format := outputFormat(checkpointsFormat)
	if format != "text" {
		return writeStructured(cmd.OutOrStdout(), format, rows)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("run"), report.RunID)
	for _, r := range rows {
		fmt.Fprintf(w, "%5d  %-20s pending %d  %s\n",
			r.Line, fmt.Sprint(r.Levels), r.Pending, mutedStyle.Render(r.Hex))
	}
	if report.Overflows > 0 {
		fmt.Fprintf(w, "%s\n", mutedStyle.Render(fmt.Sprintf("%d lines exceeded the checkpoint capacity", report.Overflows)))
	}
	return nil
}
