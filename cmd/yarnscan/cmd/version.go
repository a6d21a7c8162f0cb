package cmd

import (
	"fmt"

	"github.com/msto63/yarnscan/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if format := outputFormat(versionFormat); format != "text" {
			return writeStructured(cmd.OutOrStdout(), format, info)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "yarnscan v%s\n", info.Tool)
		fmt.Fprintf(w, "  Checkpoint format: %s\n", info.CheckpointFormat)
		fmt.Fprintf(w, "  API:               %s\n", info.API)
		fmt.Fprintf(w, "  Git Commit:        %s\n", info.Commit)
		fmt.Fprintf(w, "  Build Date:        %s\n", info.BuildDate)
		fmt.Fprintf(w, "  Go Version:        %s\n", info.GoVersion)
		fmt.Fprintf(w, "  OS/Arch:           %s\n", info.Platform)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "", "output format (text, json, yaml)")
}
