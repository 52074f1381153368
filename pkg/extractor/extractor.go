// Package extractor turns source files into text. Raster images go through
// the Tesseract OCR engine; born-digital PDFs have their embedded text pulled
// out directly.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Timmyway/scan-text/pkg/document"
	"github.com/Timmyway/scan-text/pkg/preprocess"
)

type Extractor interface {
	Extract(ctx context.Context, content []byte) (string, map[string]string, error)
}

// Engine routes content to an extractor keyed by file extension.
type Engine struct {
	extractors map[string]Extractor
}

// NewEngine builds an engine with the default extension routing: image
// formats to OCR, pdf to embedded-text extraction.
func NewEngine(cfg Config) *Engine {
	ocr := &OCRExtractor{Config: cfg}
	return &Engine{
		extractors: map[string]Extractor{
			"png":  ocr,
			"jpg":  ocr,
			"jpeg": ocr,
			"tif":  ocr,
			"tiff": ocr,
			"bmp":  ocr,
			"webp": ocr,
			"pdf":  &PDFExtractor{MaxPages: 1000},
		},
	}
}

// Register replaces the extractor for an extension. Used to plug in
// alternative engines. The extension is normalized the same way lookups are,
// so ".PNG" and "png" address the same slot.
func (e *Engine) Register(ext string, x Extractor) {
	e.extractors[normalizeExt(ext)] = x
}

// Supported reports whether files with the given extension can be extracted.
func (e *Engine) Supported(ext string) bool {
	_, ok := e.extractors[normalizeExt(ext)]
	return ok
}

// Extract runs preprocessing (for raster inputs) and the extractor matching
// ext over content. ext may carry a leading dot and any casing.
func (e *Engine) Extract(ctx context.Context, content []byte, ext string, mode preprocess.Mode) (string, map[string]string, error) {
	key := normalizeExt(ext)
	extractor, ok := e.extractors[key]
	if !ok {
		return "", nil, &document.InvalidArgumentError{Field: "file extension", Value: ext}
	}

	if mode != preprocess.ModeNone && key != "pdf" {
		prepared, err := PrepareImage(content, mode)
		if err != nil {
			return "", nil, err
		}
		content = prepared
	}

	return extractor.Extract(ctx, content)
}

// ExtractFile reads and extracts a single file, the one-shot equivalent of a
// batch entry. A missing path is reported as a NotFoundError naming it.
func (e *Engine) ExtractFile(ctx context.Context, path string, mode preprocess.Mode) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &document.NotFoundError{Path: path}
	}

	// The file exists; a read failure here is a filesystem problem, not a
	// missing path.
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, _, err := e.Extract(ctx, content, filepath.Ext(path), mode)
	return text, err
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
