package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ExtractionResult captures the outcome of one recognized source file.
// A result is built once by the pipeline and never mutated afterwards;
// an empty Text with a nil Err means the engine ran but found no text.
type ExtractionResult struct {
	ID         string        `json:"id"`
	SourcePath string        `json:"source_path"`
	Text       string        `json:"text"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Failed reports whether the source file could not be processed.
func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}

// SourceName returns the base name of the source file without its extension,
// used for output file naming.
func (r ExtractionResult) SourceName() string {
	base := filepath.Base(r.SourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns the per-file destination for this result inside dir.
// Format: <dir>/<source name>.txt
func (r ExtractionResult) OutputPath(dir string) string {
	return filepath.Join(dir, r.SourceName()+".txt")
}

// BatchReport summarizes one folder run. Results and WrittenPaths follow the
// input enumeration order, not completion order.
type BatchReport struct {
	BatchID      string             `json:"batch_id"`
	InputDir     string             `json:"input_dir"`
	Results      []ExtractionResult `json:"results"`
	WrittenPaths []string           `json:"written_paths"`
	Succeeded    int                `json:"succeeded"`
	Failed       int                `json:"failed"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
}

// Validate checks that the report is internally consistent.
func (b *BatchReport) Validate() error {
	if b.BatchID == "" {
		return fmt.Errorf("batch ID cannot be empty")
	}
	if b.Succeeded+b.Failed != len(b.Results) {
		return fmt.Errorf("result counts do not add up: %d + %d != %d",
			b.Succeeded, b.Failed, len(b.Results))
	}
	return nil
}
