package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/msto63/yarnscan/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHost     string
	serveGRPCPort int
	serveHTTPPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analyzer service",
	Long: `Starts the gRPC analyzer service (yarnscan.v1.Analyzer with the
standard grpc.health.v1 service) and the HTTP endpoint serving /ws for
WebSocket tokenizing and /healthz.

Addresses come from the [server] section and can be overridden by flags.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP/WebSocket port")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveHost != "" {
		appCfg.Server.Host = serveHost
	}
	if serveGRPCPort != 0 {
		appCfg.Server.GRPCPort = serveGRPCPort
	}
	if serveHTTPPort != 0 {
		appCfg.Server.HTTPPort = serveHTTPPort
	}
	if err := appCfg.Validate(); err != nil {
		return err
	}

	svc, closeFn, err := newAnalyzer()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(appCfg, svc, logger).Run(ctx)
}
