package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/analyzer"
	"github.com/msto63/yarnscan/internal/journal"
	"github.com/msto63/yarnscan/pkg/core/config"
	coregrpc "github.com/msto63/yarnscan/pkg/core/grpc"
	"github.com/msto63/yarnscan/pkg/core/health"
	"github.com/msto63/yarnscan/pkg/core/logging"
	"github.com/msto63/yarnscan/pkg/core/version"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthInterval = 15 * time.Second
	healthTimeout  = 2 * time.Second
	shutdownGrace  = 5 * time.Second
	maxPruneEvery  = time.Hour
)

// Server hosts the gRPC analyzer service and the HTTP/WebSocket endpoint
type Server struct {
	cfg       config.ServerConfig
	grpc      *coregrpc.Server
	health    *grpchealth.Server
	registry  *health.Registry
	http      *http.Server
	store     journal.Store
	retention time.Duration
	log       *logging.Logger
}

// New wires the analyzer service into both transports
func New(cfg *config.Config, svc *analyzer.Service, logger *mdwlog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	registry := health.NewRegistry(cfg.General.Name, version.Tool)
	registry.Register(health.PingCheck("journal", svc.Store(), healthTimeout))
	registry.RegisterFunc("analyzer", analyzerCheck)

	grpcServer := coregrpc.NewServer(coregrpc.ServerConfigFrom(cfg.Server), logging.Wrap(logger, "grpc"))
	hs := grpchealth.NewServer()
	RegisterAnalyzerServer(grpcServer.GRPCServer(), NewAnalyzerService(svc))
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), hs)

	s := &Server{
		cfg:       cfg.Server,
		grpc:      grpcServer,
		health:    hs,
		registry:  registry,
		store:     svc.Store(),
		retention: cfg.Journal.Retention.Duration,
		log:       logging.Wrap(logger, "server"),
	}
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.HTTPPort)),
		Handler:           s.routes(svc, logging.Wrap(logger, "websocket")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// analyzerCheck tokenizes a fixed snippet and expects balanced output
func analyzerCheck(ctx context.Context) health.CheckResult {
	tokens := tokenizer.Tokenize("a\n    b\n")
	if err := tokenizer.Balance(tokens); err != nil {
		return health.CheckResult{Name: "analyzer", Status: health.StatusUnhealthy, Message: err.Error()}
	}
	return health.CheckResult{Name: "analyzer", Status: health.StatusHealthy, Message: "ready"}
}

func (s *Server) routes(svc *analyzer.Service, wsLogger *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(svc, wsLogger, s.cfg.AllowedOrigins...))
	mux.Handle("/healthz", s.registry.Handler(healthTimeout))
	return mux
}

// HTTPHandler returns the HTTP routes: /ws and /healthz
func (s *Server) HTTPHandler() http.Handler {
	return s.http.Handler
}

// Registry returns the health registry
func (s *Server) Registry() *health.Registry {
	return s.registry
}

// HealthServer returns the grpc.health.v1 implementation
func (s *Server) HealthServer() *grpchealth.Server {
	return s.health
}

// GRPC returns the gRPC server
func (s *Server) GRPC() *coregrpc.Server {
	return s.grpc
}

// PruneJournal removes runs older than the journal retention and returns
// how many were removed
func (s *Server) PruneJournal(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	removed, err := s.store.Prune(ctx, s.retention)
	if err != nil {
		s.log.Warn("journal prune failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		s.log.Debug("journal pruned", "runs", removed, "older_than", s.retention.String())
	}
	return removed, nil
}

// pruneInterval is a quarter of the retention, at most maxPruneEvery
func (s *Server) pruneInterval() time.Duration {
	interval := s.retention / 4
	if interval <= 0 || interval > maxPruneEvery {
		interval = maxPruneEvery
	}
	return interval
}

func (s *Server) pruneLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.PruneJournal(ctx)
		}
	}
}

// Run serves both transports until ctx is done or one of them fails
func (s *Server) Run(ctx context.Context) error {
	if err := s.grpc.StartAsync(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.grpc.Stop()
		return mdwerror.Wrapf(err, "failed to listen on %s", s.http.Addr).
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.Run")
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.registry.Watch(watchCtx, s.health, ServiceName, healthInterval)
	go s.pruneLoop(watchCtx, s.pruneInterval())

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.http.Serve(ln)
	}()
	s.log.Info("yarnscan server started",
		"grpc", s.grpc.Address(),
		"http", ln.Addr().String(),
	)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = mdwerror.Wrap(err, "http server failed").WithCode(mdwerror.CodeInternal)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	stopWatch()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http shutdown incomplete", "error", err)
	}
	s.grpc.StopWithTimeout(shutdownCtx)
	s.log.Info("yarnscan server stopped")
	return runErr
}
