package analyzer

import (
	"context"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	mdwlog "github.com/msto63/yarnscan/foundation/core/log"
	"github.com/msto63/yarnscan/foundation/yarn/scanner"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/journal"
	"github.com/msto63/yarnscan/pkg/core/cache"
)

// ResumeFrom continues tokenizing source at the start of line, using the
// checkpoint a previous run recorded there. The cache is consulted first,
// then the journal. The source must be the one the run analyzed.
func (s *Service) ResumeFrom(ctx context.Context, runID string, line int, source string) ([]tokenizer.Token, error) {
	const op = "analyzer.ResumeFrom"

	if line < 1 {
		return nil, invalidLine(op, line)
	}

	entry, err := s.lookup(ctx, runID, line, cache.SourceKey(source))
	if err != nil {
		return nil, err
	}

	if _, err := scanner.DecodeCheckpoint(entry.Checkpoint); err != nil {
		return nil, mdwerror.Wrap(err, "stored checkpoint is unusable").
			WithOperation(op).
			WithDetail("run_id", runID).
			WithDetail("line", line)
	}

	pos, ok := tokenizer.LineStart(source, line)
	if !ok || int(pos.Offset) != entry.Offset {
		return nil, mdwerror.New("checkpoint does not match the source").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op).
			WithDetail("line", line).
			WithDetail("offset", entry.Offset)
	}

	tok := s.newTokenizer(source)
	defer tok.Close()

	prev := tokenizer.Token{Kind: tokenizer.Newline}
	tok.Restore(tokenizer.Cursor{Position: pos, Checkpoint: entry.Checkpoint, Prev: prev})

	var tokens []tokenizer.Token
	for {
		if err := ctx.Err(); err != nil {
			return nil, mdwerror.Wrap(err, "resume cancelled").
				WithCode(mdwerror.CodeCanceled).
				WithOperation(op)
		}
		t := tok.Next()
		tokens = append(tokens, t)
		if t.Kind == tokenizer.EOF {
			return tokens, nil
		}
	}
}

// lookup finds the checkpoint of a line, verifying that the run scanned the
// source identified by sourceKey
func (s *Service) lookup(ctx context.Context, runID string, line int, sourceKey string) (journal.Entry, error) {
	if s.cache != nil {
		if key, ok := s.cache.RunSource(runID); ok && key == sourceKey {
			if cp, ok := s.cache.Get(sourceKey, line); ok {
				s.log.Debug("checkpoint served from cache", mdwlog.Fields{"run_id": runID, "line": line})
				return journal.Entry{Line: cp.Line, Offset: cp.Offset, Checkpoint: cp.Checkpoint}, nil
			}
		}
	}

	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return journal.Entry{}, err
	}
	if run.SourceHash != sourceKey {
		return journal.Entry{}, mdwerror.New("source changed since the run").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("analyzer.ResumeFrom").
			WithDetail("run_id", runID)
	}
	return s.store.Checkpoint(ctx, runID, line)
}

// Resume analyzes a source and continues from the given line in one step
func (s *Service) Resume(ctx context.Context, name string, line int, source string) (*Report, []tokenizer.Token, error) {
	if line < 1 {
		return nil, nil, invalidLine("analyzer.Resume", line)
	}
	report, err := s.Analyze(ctx, name, source)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.ResumeFrom(ctx, report.RunID, line, source)
	if err != nil {
		return report, nil, err
	}
	return report, tokens, nil
}

func invalidLine(op string, line int) error {
	return mdwerror.New("line numbers start at 1").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation(op).
		WithDetail("line", line)
}
