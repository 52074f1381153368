// Package sink writes extracted text to its destination, either one file per
// source image or one combined file for the whole batch.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Timmyway/scan-text/pkg/document"
)

// Sink persists extraction results. Implementations are called only from the
// coordinating goroutine; workers never write.
type Sink interface {
	// SaveOne writes result.Text to <outputDir>/<source name>.txt, creating
	// outputDir if absent, and returns the written path.
	SaveOne(result document.ExtractionResult, outputDir string) (string, error)
	// SaveCombined concatenates all non-failed results into one file at
	// outputPath, each section prefixed with a separator naming its source.
	// With strict set, an all-empty batch returns a NoTextError instead of
	// writing an empty file.
	SaveCombined(results []document.ExtractionResult, outputPath string, strict bool) error
}

// FileSink writes results to the local filesystem.
type FileSink struct{}

// NewFileSink returns a filesystem-backed sink.
func NewFileSink() *FileSink {
	return &FileSink{}
}

func (s *FileSink) SaveOne(result document.ExtractionResult, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", &document.WriteError{Path: outputDir, Err: err}
	}

	path := result.OutputPath(outputDir)
	if err := os.WriteFile(path, []byte(result.Text), 0644); err != nil {
		return "", &document.WriteError{Path: path, Err: err}
	}

	log.Debug().Str("path", path).Int("bytes", len(result.Text)).Msg("Saved extracted text")
	return path, nil
}

func (s *FileSink) SaveCombined(results []document.ExtractionResult, outputPath string, strict bool) error {
	var builder strings.Builder
	empty := true
	for _, res := range results {
		if res.Failed() {
			continue
		}
		builder.WriteString(fmt.Sprintf("--- %s ---\n", filepath.Base(res.SourcePath)))
		builder.WriteString(res.Text)
		builder.WriteString("\n\n")
		if res.Text != "" {
			empty = false
		}
	}

	if strict && empty {
		return &document.NoTextError{Path: outputPath}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &document.WriteError{Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(outputPath, []byte(builder.String()), 0644); err != nil {
		return &document.WriteError{Path: outputPath, Err: err}
	}

	log.Debug().Str("path", outputPath).Int("sections", len(results)).Msg("Saved combined results")
	return nil
}

// TimestampedPath builds a default output path for a one-shot extraction,
// <dir>/<source name>_<YYYYMMDD_HHMMSS>.txt, so repeated runs never clobber
// each other.
func TimestampedPath(dir, sourcePath string) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, stamp))
}
