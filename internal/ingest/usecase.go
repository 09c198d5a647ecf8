package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/core/async"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/observability/metrics"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
)

// Usecase turns inventory files on disk into results workbooks.
type Usecase struct {
	Processor *core.Processor
	Exporter  *export.Service
	Quotes    repository.QuoteRepository // optional archive
	OutDir    string                     // "" writes next to the source
	logger    *slog.Logger
}

func NewUsecase(p *core.Processor, e *export.Service, quotes repository.QuoteRepository, outDir string, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{Processor: p, Exporter: e, Quotes: quotes, OutDir: outDir, logger: logger}
}

// HandleFile extracts, prices and calculates one file, then writes its
// results workbook. Failures are reported in the result, never panicked.
func (u *Usecase) HandleFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	out := FileResult{SourcePath: path, Status: constants.RunStatusRunning}
	finish := func(status constants.RunStatus, err error) FileResult {
		out.Status = status
		out.Elapsed = time.Since(start)
		if err != nil {
			out.Err = err.Error()
			u.logger.Error("batch.file.failed", "path", path, "error", err)
		} else {
			u.logger.Info("batch.file.ok",
				"path", path,
				"status", status,
				"items", out.Items,
				"output", out.OutputPath,
				"elapsed_ms", out.Elapsed.Milliseconds(),
			)
		}
		metrics.IncBatchFile(string(status))
		return out
	}

	pr, err := u.Processor.ProcessPath(ctx, path)
	if err != nil {
		return finish(constants.RunStatusFailed, err)
	}
	out.Items = len(pr.Items)
	out.Warnings = pr.Warnings

	res := u.Processor.Calculate(ctx, pr.Items)
	data, err := u.Exporter.Export(ctx, export.FormatXLSX, pr.Filename, res)
	if err != nil {
		return finish(constants.RunStatusFailed, fmt.Errorf("export: %w", err))
	}

	dir := u.OutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return finish(constants.RunStatusFailed, fmt.Errorf("mkdir out: %w", err))
	}
	out.OutputPath = filepath.Join(dir, OutputName(path))
	if err := os.WriteFile(out.OutputPath, data, 0o644); err != nil {
		return finish(constants.RunStatusFailed, fmt.Errorf("write: %w", err))
	}

	if u.Quotes != nil {
		q, err := u.Quotes.Save(ctx, pr.Filename, res)
		if err != nil {
			// the workbook is already on disk; archive failure is not fatal
			u.logger.Warn("batch.archive.failed", "path", path, "error", err)
		} else {
			out.QuoteID = q.ID.String()
		}
	}

	if out.Items == 0 {
		return finish(constants.RunStatusEmpty, nil)
	}
	return finish(constants.RunStatusOK, nil)
}

// RunDirectory scans root and processes every discovered file on a worker
// queue. Duplicate content is reported but not processed again.
func (u *Usecase) RunDirectory(ctx context.Context, root string, skipHidden bool, opts ...async.Option) ([]FileResult, DirStats, error) {
	candidates, stats, err := NewFSIngestor(u.logger, skipHidden).ScanDirectory(root)
	if err != nil {
		return nil, stats, err
	}

	var (
		mu      sync.Mutex
		results = make([]FileResult, 0, len(candidates))
	)
	collect := func(r FileResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
		stats.record(r)
	}

	hashes := make(map[string]string, len(candidates))
	q := async.NewProcessorQueue(func(ctx context.Context, job async.Job) error {
		r := u.HandleFile(ctx, job.Path)
		r.HashHex = hashes[job.Path]
		collect(r)
		if r.Err != "" {
			return errors.New(r.Err)
		}
		return nil
	}, u.logger, append([]async.Option{async.WithBaseContext(ctx)}, opts...)...)

	for _, c := range candidates {
		if c.Deduplicated {
			collect(FileResult{SourcePath: c.Path, HashHex: c.HashHex, Deduplicated: true, Status: constants.RunStatusOK})
			continue
		}
		hashes[c.Path] = c.HashHex
	}

	var enqueueErr error
	for _, c := range candidates {
		if c.Deduplicated {
			continue
		}
		if err := q.Enqueue(ctx, async.Job{Path: c.Path}); err != nil {
			enqueueErr = err
			break
		}
	}
	q.Shutdown(context.WithoutCancel(ctx))

	mu.Lock()
	defer mu.Unlock()
	u.logger.Info("batch.run.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"empty", stats.Empty,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, enqueueErr
}
