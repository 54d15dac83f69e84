// Package batch walks a source tree and drives per-file conversion sessions
// through a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/voicetap/nmfconv/internal/config"
	"github.com/voicetap/nmfconv/internal/metrics"
)

// Converter converts one container file into outDir.
type Converter interface {
	Convert(ctx context.Context, inPath, outDir string) error
}

// Runner executes one batch over a source tree. A failed file is logged,
// counted and recorded, then the batch moves on — one bad recording never
// aborts the run.
type Runner struct {
	cfg  config.BatchConfig
	conv Converter
}

// NewRunner creates a batch runner.
func NewRunner(cfg config.BatchConfig, conv Converter) *Runner {
	return &Runner{cfg: cfg, conv: conv}
}

// FileError records one skipped file and why it was skipped.
type FileError struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// Result summarizes one batch run.
type Result struct {
	Converted []string    `yaml:"converted"`
	Skipped   []FileError `yaml:"skipped,omitempty"`
}

// Run converts every matching file under srcDir, mirroring the source's
// relative directory layout into outDir. Cancelling ctx stops feeding new
// files; in-flight conversions are aborted through the same context.
func (r *Runner) Run(ctx context.Context, srcDir, outDir string) (*Result, error) {
	files, err := r.collect(srcDir)
	if err != nil {
		return nil, err
	}
	slog.Info("batch starting", "source", srcDir, "output", outDir, "files", len(files))

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)
	jobs := make(chan string)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				r.convertOne(ctx, path, srcDir, outDir, &mu, &result)
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(result.Converted)
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})

	if r.cfg.Report {
		if err := writeReport(outDir, &result); err != nil {
			slog.Error("failed to write batch report", "error", err)
		}
	}

	slog.Info("batch finished",
		"converted", len(result.Converted), "skipped", len(result.Skipped))
	return &result, ctx.Err()
}

// collect walks srcDir and returns every file matching the configured
// extension, in walk order.
func (r *Runner) collect(srcDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source dir %s: %w", srcDir, err)
	}

	return lo.Filter(paths, func(p string, _ int) bool {
		return strings.EqualFold(filepath.Ext(p), r.cfg.Extension)
	}), nil
}

// convertOne processes a single file and records the outcome.
func (r *Runner) convertOne(ctx context.Context, path, srcDir, outDir string, mu *sync.Mutex, result *Result) {
	rel, err := filepath.Rel(srcDir, filepath.Dir(path))
	if err != nil {
		rel = "."
	}
	dstDir := filepath.Join(outDir, rel)

	if err := os.MkdirAll(dstDir, 0o755); err == nil {
		err = r.conv.Convert(ctx, path, dstDir)
	}

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		slog.Error("skipping file", "file", path, "error", err)
		metrics.FilesTotal.WithLabelValues("failed").Inc()
		result.Skipped = append(result.Skipped, FileError{Path: path, Reason: err.Error()})
		return
	}
	metrics.FilesTotal.WithLabelValues("converted").Inc()
	result.Converted = append(result.Converted, path)
}
