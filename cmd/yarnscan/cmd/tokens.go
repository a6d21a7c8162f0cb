package cmd

import (
	"context"
	"fmt"
	"io"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/server"
	coregrpc "github.com/msto63/yarnscan/pkg/core/grpc"
	"github.com/msto63/yarnscan/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	tokensFormat   string
	tokensFromLine int
	tokensRemote   string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file|->",
	Short: "Print the token stream of a Yarn source",
	Long: `Tokenizes a Yarn source and prints every token with its position.

With --from-line the source is analyzed once, then tokenizing resumes
from the tracker checkpoint recorded at the start of that line.

Examples:
  yarnscan tokens start.yarn
  yarnscan tokens --format json start.yarn
  yarnscan tokens --from-line 12 start.yarn
  cat start.yarn | yarnscan tokens -`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", "", "output format (text, json, yaml)")
	tokensCmd.Flags().IntVar(&tokensFromLine, "from-line", 0, "resume from the checkpoint at this line")
	tokensCmd.Flags().StringVar(&tokensRemote, "remote", "", "analyze on a yarnscan server (host:port)")
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}
	name := sourceName(args[0])

	resume := cmd.Flags().Changed("from-line")
	tokens, err := collectTokens(ctx, name, source, resume)
	if err != nil {
		return err
	}

	format := outputFormat(tokensFormat)
	if format == "text" {
		printTokens(cmd.OutOrStdout(), tokens)
		return nil
	}
	return writeStructured(cmd.OutOrStdout(), format, tokens)
}

func collectTokens(ctx context.Context, name, source string, resume bool) ([]tokenizer.Token, error) {
	if tokensRemote != "" {
		return remoteTokens(ctx, name, source, resume)
	}

	svc, closeFn, err := newAnalyzer()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	if resume {
		_, tokens, err := svc.Resume(ctx, name, tokensFromLine, source)
		return tokens, err
	}
	report, err := svc.Analyze(ctx, name, source)
	if err != nil {
		return nil, err
	}
	return report.Tokens, nil
}

func remoteTokens(ctx context.Context, name, source string, resume bool) ([]tokenizer.Token, error) {
	cc := coregrpc.DefaultClientConfig(tokensRemote)
	conn, err := coregrpc.Dial(cc, logging.Wrap(logger, "grpc-client"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, cc.Timeout)
	defer cancel()

	client := server.NewClient(conn)
	report, err := client.Analyze(ctx, name, source)
	if err != nil {
		return nil, mdwerror.Wrapf(err, "remote analysis on %s failed", tokensRemote)
	}
	if resume {
		return client.Resume(ctx, report.RunID, tokensFromLine, source)
	}
	return report.Tokens, nil
}

func printTokens(w io.Writer, tokens []tokenizer.Token) {
	for _, tok := range tokens {
		pos := mutedStyle.Render(fmt.Sprintf("%4d:%-3d", tok.Line, tok.Column))
		kind := kindStyle(tok.Kind).Render(fmt.Sprintf("%-7s", tok.Kind))
		if tok.Value == "" {
			fmt.Fprintf(w, "%s %s\n", pos, kind)
			continue
		}
		fmt.Fprintf(w, "%s %s %q\n", pos, kind, tok.Value)
	}
}
