// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     analyzer
// Description: Analysis service: tokenizes Yarn sources, checks the
//              indentation balance and keeps per-line tracker checkpoints
//              so a later scan can resume at any line
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package analyzer

import (
	"context"
	"time"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/journal"
	"github.com/msto63/yarnscan/pkg/core/cache"
	"github.com/msto63/yarnscan/pkg/core/config"
)

// Report summarizes one analysis run
type Report struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	Name        string            `json:"name" yaml:"name"`
	Tokens      []tokenizer.Token `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Indents     int               `json:"indents" yaml:"indents"`
	Dedents     int               `json:"dedents" yaml:"dedents"`
	MaxDepth    int               `json:"max_depth" yaml:"max_depth"`
	Lines       int               `json:"lines" yaml:"lines"`
	Balanced    bool              `json:"balanced" yaml:"balanced"`
	Checkpoints []journal.Entry   `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	Overflows   int               `json:"overflows" yaml:"overflows"`
	Duration    time.Duration     `json:"duration" yaml:"duration"`
}

// Service runs analyses
type Service struct {
	scannerOpts []scanner.Option
	log         *mdwlog.Logger
	store       journal.Store
	cache       *cache.CheckpointCache
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *mdwlog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// WithStore sets the journal that keeps runs and checkpoints
func WithStore(store journal.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the checkpoint cache consulted before the journal
func WithCache(c *cache.CheckpointCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a service using the scanner settings of cfg. Without
// WithStore runs are journaled in memory.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Service{
		scannerOpts: []scanner.Option{
			scanner.WithCommentMarker(cfg.Scanner.CommentMarker),
			scanner.WithCapacity(cfg.Scanner.CheckpointCapacity),
		},
		log:   mdwlog.Discard(),
		store: journal.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the journal used by the service
func (s *Service) Store() journal.Store {
	return s.store
}

func (s *Service) newTokenizer(source string) *tokenizer.Tokenizer {
	return tokenizer.New(source,
		tokenizer.WithScannerOptions(s.scannerOpts...),
		tokenizer.WithLogger(s.log),
	)
}

// Analyze tokenizes a source, records the tracker checkpoint at the start
// of every line and returns the run report. A cancelled context stops the
// analysis between tokens.
func (s *Service) Analyze(ctx context.Context, name, source string) (*Report, error) {
	start := time.Now()
	sourceKey := cache.SourceKey(source)

	run := &journal.Run{Name: name, SourceHash: sourceKey}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	log := s.log.WithRunID(run.ID).WithFields(mdwlog.Fields{"source": name, "source_hash": sourceKey[:12]})
	log.Debug("analysis started", mdwlog.Fields{"bytes": len(source)})

	report := &Report{RunID: run.ID, Name: name}

	tok := s.newTokenizer(source)
	defer tok.Close()

	record := func() {
		cursor, err := tok.Snapshot()
		if err != nil {
			report.Overflows++
			log.WarnWithErr("checkpoint skipped", err, mdwlog.Fields{"line": report.Lines + 1})
			return
		}
		state := tok.Scanner().State()
		report.Checkpoints = append(report.Checkpoints, journal.Entry{
			Line:       int(cursor.Position.Line),
			Offset:     int(cursor.Position.Offset),
			Depth:      state.Depth(),
			Pending:    state.Pending,
			Checkpoint: cursor.Checkpoint,
		})
	}

	record()
	for {
		if err := ctx.Err(); err != nil {
			return nil, s.abandon(ctx, run.ID, log, mdwerror.Wrap(err, "analysis cancelled").
				WithCode(mdwerror.CodeCanceled).
				WithOperation("analyzer.Analyze").
				WithDetail("run_id", run.ID))
		}

		t := tok.Next()
		report.Tokens = append(report.Tokens, t)

		switch t.Kind {
		case tokenizer.Indent:
			report.Indents++
		case tokenizer.Dedent:
			report.Dedents++
		case tokenizer.Newline:
			report.Lines++
			record()
		case tokenizer.EOF:
			if t.Column > 0 {
				report.Lines++
			}
		}
		if t.Kind == tokenizer.EOF {
			break
		}
	}

	report.MaxDepth = tokenizer.MaxDepth(report.Tokens)
	report.Balanced = tokenizer.Balance(report.Tokens) == nil
	report.Duration = time.Since(start)

	if s.cache != nil {
		s.cache.BindRun(run.ID, sourceKey)
		for _, e := range report.Checkpoints {
			s.cache.Put(sourceKey, cache.LineCheckpoint{Line: e.Line, Offset: e.Offset, Checkpoint: e.Checkpoint})
		}
	}

	if _, err := s.store.Record(ctx, run.ID, report.Checkpoints); err != nil {
		return nil, s.abandon(ctx, run.ID, log, err)
	}
	run.Lines = report.Lines
	run.Tokens = len(report.Tokens)
	run.MaxDepth = report.MaxDepth
	run.Balanced = report.Balanced
	if err := s.store.CompleteRun(ctx, run); err != nil {
		return nil, s.abandon(ctx, run.ID, log, err)
	}

	log.Info("analysis complete", mdwlog.Fields{
		"tokens":    len(report.Tokens),
		"lines":     report.Lines,
		"max_depth": report.MaxDepth,
		"balanced":  report.Balanced,
		"duration":  report.Duration.String(),
	})
	return report, nil
}

// abandon removes a run that failed before completion so the journal only
// lists finished analyses. cause is returned unchanged.
func (s *Service) abandon(ctx context.Context, runID string, log *mdwlog.Logger, cause error) error {
	if err := s.store.DeleteRun(context.WithoutCancel(ctx), runID); err != nil {
		log.WarnWithErr("failed to discard incomplete run", err)
	}
	if s.cache != nil {
		s.cache.UnbindRun(runID)
	}
	return cause
}

// Check analyzes a source and fails with CodeUnbalanced when an INDENT is
// left open or a DEDENT has no partner. The report is returned either way.
func (s *Service) Check(ctx context.Context, name, source string) (*Report, error) {
	report, err := s.Analyze(ctx, name, source)
	if err != nil {
		return nil, err
	}
	if err := tokenizer.Balance(report.Tokens); err != nil {
		return report, mdwerror.Wrap(err, "indentation is unbalanced").
			WithOperation("analyzer.Check").
			WithDetail("source", name).
			WithDetail("run_id", report.RunID)
	}
	return report, nil
}
