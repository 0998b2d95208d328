// Package spool implements the filesystem-based batch extractor: raw
// ceilometer files are dropped into a spool directory by the instrument
// logger, picked up in name order, and moved to done/ or failed/ after
// processing.
package spool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lidarlab/ceilo-ingest/internal/config"
	"github.com/lidarlab/ceilo-ingest/internal/pipeline"
)

// Extractor reads raw files from the spool directory.
// It implements pipeline.BatchExtractor.
type Extractor struct {
	dir       string
	doneDir   string
	failedDir string
	logger    *slog.Logger
}

// NewExtractor creates a spool extractor and its archive directories.
func NewExtractor(cfg *config.Config, logger *slog.Logger) (*Extractor, error) {
	e := &Extractor{
		dir:       cfg.SpoolDir,
		doneDir:   cfg.SpoolDoneDir,
		failedDir: cfg.SpoolFailedDir,
		logger:    logger,
	}
	for _, dir := range []string{e.dir, e.doneDir, e.failedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create spool directory %s: %w", dir, err)
		}
	}
	return e, nil
}

// ExtractBatch returns up to batchSize spool files in name order. Instrument
// loggers name files by timestamp, so name order is chronological. Files
// still being written should use a dotfile or .tmp name; both are skipped.
func (e *Extractor) ExtractBatch(ctx context.Context, batchSize int) ([]pipeline.RawFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, fmt.Errorf("scan spool %s: %w", e.dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > batchSize {
		names = names[:batchSize]
	}

	batch := make([]pipeline.RawFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(e.dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			// The logger may still hold the file; pick it up next scan.
			e.logger.Warn("skipping unreadable spool file", "path", path, "error", err)
			continue
		}
		batch = append(batch, pipeline.RawFile{
			Path:    path,
			Content: content,
			Commit:  e.commitFunc(path, name),
		})
	}
	return batch, nil
}

// commitFunc moves a spool file to done/ or failed/ once its batch outcome
// is known.
func (e *Extractor) commitFunc(path, name string) func(context.Context, bool) error {
	return func(_ context.Context, processed bool) error {
		target := e.failedDir
		if processed {
			target = e.doneDir
		}
		if err := os.Rename(path, filepath.Join(target, name)); err != nil {
			return fmt.Errorf("archive spool file: %w", err)
		}
		return nil
	}
}
