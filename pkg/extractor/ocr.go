package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Timmyway/scan-text/pkg/document"
)

// Config carries the OCR engine settings. It is read-only once workers start;
// every recognition opens its own client, so concurrent extractions never
// share engine state.
type Config struct {
	// Language is the Tesseract language code (e.g., "eng", "eng+fra").
	Language string
	// TessdataPrefix optionally overrides where trained data is looked up,
	// the library-level equivalent of pointing at a custom engine install.
	TessdataPrefix string
	// Variables carries extra engine knobs (e.g., tessedit_char_whitelist).
	Variables map[string]string
}

// DefaultConfig returns the engine defaults: English, stock tessdata.
func DefaultConfig() Config {
	return Config{Language: "eng"}
}

// Validate rejects configurations the engine cannot accept.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Language) == "" {
		return &document.InvalidArgumentError{Field: "language", Value: c.Language}
	}
	return nil
}

// OCRExtractor recognizes text in raster images via Tesseract.
type OCRExtractor struct {
	Config Config
}

// Extract runs OCR over encoded image bytes. Engine failures surface as
// EngineError; an image in which Tesseract finds nothing yields an empty
// string with a nil error, so the caller keeps "no text" and "failed" apart.
func (o *OCRExtractor) Extract(ctx context.Context, content []byte) (string, map[string]string, error) {
	metadata := map[string]string{
		"type":     "ocr",
		"engine":   "tesseract",
		"language": o.Config.Language,
		"size":     fmt.Sprintf("%d", len(content)),
	}

	if err := o.Config.Validate(); err != nil {
		return "", metadata, err
	}
	if len(content) == 0 {
		return "", metadata, &document.InvalidArgumentError{Field: "image content", Value: "empty"}
	}
	if err := ctx.Err(); err != nil {
		return "", metadata, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if o.Config.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(o.Config.TessdataPrefix); err != nil {
			return "", metadata, &document.EngineError{Op: "set tessdata prefix", Err: err}
		}
	}
	if err := client.SetLanguage(strings.Split(o.Config.Language, "+")...); err != nil {
		return "", metadata, &document.EngineError{Op: "set language", Err: err}
	}
	for k, v := range o.Config.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", metadata, &document.EngineError{Op: fmt.Sprintf("set variable %s", k), Err: err}
		}
	}
	if err := client.SetImageFromBytes(content); err != nil {
		return "", metadata, &document.EngineError{Op: "set image", Err: err}
	}

	text, err := client.Text()
	if err != nil {
		return "", metadata, &document.EngineError{Op: "recognize", Err: err}
	}

	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		metadata["confidence"] = fmt.Sprintf("%.2f", sum/float64(len(boxes)))
	}
	metadata["text_length"] = fmt.Sprintf("%d", len(text))
	metadata["word_count"] = fmt.Sprintf("%d", len(strings.Fields(text)))
	metadata["status"] = "success"

	return text, metadata, nil
}
