package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/internal/journal"
	"github.com/spf13/cobra"
)

var (
	journalLimit     int
	journalOlderThan time.Duration
	journalFormat    string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the checkpoint journal",
	Long: `Lists, shows and prunes analysis runs recorded in the sqlite journal.
The journal must be enabled in the [journal] section of the config.`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runJournalPrune,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalShowCmd, journalPruneCmd)

	journalCmd.PersistentFlags().StringVarP(&journalFormat, "format", "f", "", "output format (text, json, yaml)")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of runs")
	journalPruneCmd.Flags().DurationVar(&journalOlderThan, "older-than", 0, "age limit (default: [journal] retention)")
}

func openJournal() (journal.Store, error) {
	if !appCfg.Journal.Enabled {
		return nil, mdwerror.New("the journal is disabled, set enabled = true in [journal]").
			WithCode(mdwerror.CodeConfigInvalid)
	}
	return openStore()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runJournalList(cmd *cobra.Command, args []string) error {
	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(commandContext(cmd), journalLimit)
	if err != nil {
		return err
	}

	format := outputFormat(journalFormat)
	if format != "text" {
		return writeStructured(cmd.OutOrStdout(), format, runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no runs recorded"))
		return nil
	}
	for _, r := range runs {
		verdict := okStyle.Render("balanced  ")
		if !r.Balanced {
			verdict = failStyle.Render("unbalanced")
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			r.ID,
			mutedStyle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			verdict,
			r.Name,
		)
	}
	return nil
}

// runDetail is the structured output of journal show
type runDetail struct {
	Run         *journal.Run    `json:"run" yaml:"run"`
	Checkpoints []journal.Entry `json:"checkpoints" yaml:"checkpoints"`
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	entries, err := store.Entries(ctx, run.ID)
	if err != nil {
		return err
	}

	format := outputFormat(journalFormat)
	if format != "text" {
		return writeStructured(cmd.OutOrStdout(), format, runDetail{Run: run, Checkpoints: entries})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("run"), run.ID)
	fmt.Fprintf(w, "  source    %s\n", run.Name)
	fmt.Fprintf(w, "  hash      %s\n", mutedStyle.Render(run.SourceHash))
	fmt.Fprintf(w, "  created   %s\n", run.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "  lines %d  tokens %d  depth %d  balanced %v\n", run.Lines, run.Tokens, run.MaxDepth, run.Balanced)
	for _, e := range entries {
		fmt.Fprintf(w, "%5d  offset %-6d depth %-3d pending %-3d %s\n",
			e.Line, e.Offset, e.Depth, e.Pending, mutedStyle.Render(hex.EncodeToString(e.Checkpoint)))
	}
	return nil
}

func runJournalPrune(cmd *cobra.Command, args []string) error {
	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	age := journalOlderThan
	if age == 0 {
		age = appCfg.Journal.Retention.Duration
	}

	ctx := commandContext(cmd)
	removed, err := store.Prune(ctx, age)
	if err != nil {
		return err
	}
	if sqlite, ok := store.(*journal.SQLiteStore); ok && removed > 0 {
		if err := sqlite.Vacuum(ctx); err != nil {
			logger.WarnWithErr("journal vacuum failed", err)
		}
	}
	logger.Info("journal pruned", mdwlog.Fields{"runs": removed, "older_than": age.String()})
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d runs older than %s\n", removed, age)
	return nil
}
