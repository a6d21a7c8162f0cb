package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/internal/analyzer"
	"github.com/msto63/yarnscan/internal/journal"
	"github.com/msto63/yarnscan/pkg/core/cache"
	"github.com/msto63/yarnscan/pkg/core/config"
	"github.com/msto63/yarnscan/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
	noColor  bool

	appCfg *config.Config
	logger *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "yarnscan",
	Short: "yarnscan - Yarn indentation scanner",
	Long: `yarnscan tokenizes Yarn dialogue sources and reports their
block structure: INDENT and DEDENT tokens, nesting depth and
balance. Tracker checkpoints are journaled per line so a scan can
resume anywhere in a file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $YARNSCAN_CONFIG or ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setup loads the configuration and builds the logger. A missing config
// file falls back to the defaults.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appCfg, err = config.Load(cfgFile)
	} else {
		appCfg, err = config.LoadFromEnv()
		if mdwerror.HasCode(err, mdwerror.CodeConfigMissing) {
			appCfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return err
	}

	lc := logging.FromConfig(appCfg, "yarnscan")
	if logLevel != "" {
		lc.Level = logLevel
	}
	if verbose {
		lc.Level = "debug"
	}
	lc.Output = cmd.ErrOrStderr()
	logger = logging.NewLogger(lc)

	configureColor(cmd.OutOrStdout())
	return nil
}

// openStore opens the journal configured in [journal]. A disabled journal
// keeps runs in memory for the lifetime of the command.
func openStore() (journal.Store, error) {
	if !appCfg.Journal.Enabled {
		return journal.NewMemoryStore(journal.WithMaxRuns(appCfg.Journal.MaxRuns)), nil
	}

	path := appCfg.Journal.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create journal directory").
			WithCode(mdwerror.CodeStorageError)
	}
	return journal.NewSQLiteStore(journal.SQLiteConfig{Path: path})
}

// newAnalyzer builds the analysis service with the configured journal and
// checkpoint cache. The returned func releases both.
func newAnalyzer() (*analyzer.Service, func(), error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	c := cache.NewCheckpointCache(cache.Config{
		MaxItems: appCfg.Cache.MaxItems,
		TTL:      appCfg.Cache.TTL.Duration,
	})

	svc := analyzer.New(appCfg,
		analyzer.WithLogger(logger),
		analyzer.WithStore(store),
		analyzer.WithCache(c),
	)
	return svc, func() {
		c.Close()
		if err := store.Close(); err != nil {
			logger.WarnWithErr("failed to close journal", err)
		}
	}, nil
}

// readSource reads a file, or stdin when the argument is "-"
func readSource(cmd *cobra.Command, arg string) (string, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", mdwerror.Wrapf(err, "cannot read %s", arg).WithCode(code)
	}
	return string(data), nil
}

func sourceName(arg string) string {
	if arg == "-" {
		return "<stdin>"
	}
	return arg
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("error:"), err)
}
