// Package batch discovers image files in a folder and drives them through
// decode, preprocessing, and recognition, optionally in parallel, before
// handing the ordered results to a sink.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Timmyway/scan-text/internal/processing"
	"github.com/Timmyway/scan-text/internal/sink"
	"github.com/Timmyway/scan-text/pkg/document"
	"github.com/Timmyway/scan-text/pkg/extractor"
	"github.com/Timmyway/scan-text/pkg/logging"
	"github.com/Timmyway/scan-text/pkg/preprocess"
)

// Options configures one folder run.
type Options struct {
	InputDir     string
	OutputDir    string          // per-file output directory
	CombinedPath string          // combined output file, used when Combine is set
	Mode         preprocess.Mode // preprocessing applied to every raster input
	Parallel     bool            // dispatch files across a bounded worker pool
	Combine      bool            // write one combined file instead of one per source
	Strict       bool            // fail the combine when every section is empty
	Clean        bool            // run extracted text through the output cleaner
	SkipSave     bool            // collect results without writing anything
}

// Runner executes batch extractions. Workers only read their own input file;
// every write happens on the calling goroutine after the join barrier, so
// parallel runs cannot race on output.
type Runner struct {
	engine  *extractor.Engine
	sink    sink.Sink
	cleaner *processing.TextCleaner
}

// NewRunner builds a runner over the given engine and sink.
func NewRunner(engine *extractor.Engine, s sink.Sink) *Runner {
	return &Runner{
		engine:  engine,
		sink:    s,
		cleaner: processing.NewTextCleaner(),
	}
}

// Run processes every supported file in opts.InputDir. Per-file failures are
// captured on their result and never abort the batch; results and written
// paths follow the directory enumeration order regardless of which worker
// finishes first. An empty folder yields an empty report. When Combine is set
// and the folder holds no supported files, nothing is written.
func (r *Runner) Run(ctx context.Context, opts Options) (*document.BatchReport, error) {
	report := &document.BatchReport{
		BatchID:  uuid.New().String(),
		InputDir: opts.InputDir,
	}
	logger := logging.GetBatchLogger(report.BatchID, opts.InputDir)
	start := time.Now()

	files, err := r.scan(opts.InputDir)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("files", len(files)).Str("mode", opts.Mode.String()).
		Bool("parallel", opts.Parallel).Msg("Batch scan complete")

	report.Results = r.dispatch(ctx, files, opts)
	if opts.Clean {
		for i, res := range report.Results {
			if !res.Failed() {
				report.Results[i].Text = r.cleaner.Clean(res.Text).Text
			}
		}
	}
	for _, res := range report.Results {
		if res.Failed() {
			report.Failed++
			logger.Warn().Str("source", res.SourcePath).Err(res.Err).Msg("File failed")
		} else {
			report.Succeeded++
		}
	}

	if !opts.SkipSave && len(report.Results) > 0 {
		if err := r.save(report, opts); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)
	logger.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("elapsed", report.Elapsed).
		Msg("Batch complete")
	return report, nil
}

// scan lists the supported files in dir in lexical enumeration order.
func (r *Runner) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &document.NotFoundError{Path: dir}
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if r.engine.Supported(strings.TrimPrefix(filepath.Ext(entry.Name()), ".")) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// dispatch runs the per-file unit over every path. Results are keyed by
// enumeration index, which is what keeps parallel completion order out of the
// output order.
func (r *Runner) dispatch(ctx context.Context, files []string, opts Options) []document.ExtractionResult {
	results := make([]document.ExtractionResult, len(files))

	if !opts.Parallel {
		for i, path := range files {
			results[i] = r.processOne(ctx, path, opts.Mode)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			results[i] = r.processOne(gctx, path, opts.Mode)
			return nil
		})
	}
	// Join barrier: workers never return errors, failures ride on results.
	_ = g.Wait()
	return results
}

// processOne is the unit of concurrent work: read, preprocess, recognize.
// It owns its file bytes and engine client for its whole duration.
func (r *Runner) processOne(ctx context.Context, path string, mode preprocess.Mode) (result document.ExtractionResult) {
	result = document.ExtractionResult{
		ID:         uuid.New().String(),
		SourcePath: path,
	}
	start := time.Now()
	// Named return: the deferred writes below must land on the value the
	// caller receives, not a local copy.
	defer func() {
		result.Duration = time.Since(start)
		if result.Err != nil {
			result.Error = result.Err.Error()
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Err = &document.NotFoundError{Path: path}
		} else {
			result.Err = fmt.Errorf("read %s: %w", path, err)
		}
		return result
	}

	text, _, err := r.engine.Extract(ctx, content, filepath.Ext(path), mode)
	if err != nil {
		result.Err = err
		return result
	}
	result.Text = text
	return result
}

// save writes the aggregated results on the coordinating goroutine.
func (r *Runner) save(report *document.BatchReport, opts Options) error {
	if opts.Combine {
		path := opts.CombinedPath
		if path == "" {
			path = filepath.Join(opts.OutputDir, "combined_results.txt")
		}
		if err := r.sink.SaveCombined(report.Results, path, opts.Strict); err != nil {
			return err
		}
		report.WrittenPaths = []string{path}
		return nil
	}

	for _, res := range report.Results {
		if res.Failed() {
			continue
		}
		path, err := r.sink.SaveOne(res, opts.OutputDir)
		if err != nil {
			return err
		}
		report.WrittenPaths = append(report.WrittenPaths, path)
	}
	return nil
}
