package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Timmyway/scan-text/pkg/document"
)

// PDFExtractor pulls embedded text out of born-digital PDFs so mixed input
// folders do not force every page through OCR.
type PDFExtractor struct {
	MaxPages int
}

// Extract extracts plain text from PDF content. A PDF with no extractable
// text yields an empty string with a nil error, matching the OCR path's
// empty-output contract.
func (p *PDFExtractor) Extract(ctx context.Context, content []byte) (string, map[string]string, error) {
	metadata := map[string]string{
		"type": "pdf",
		"size": fmt.Sprintf("%d", len(content)),
	}

	if len(content) < 4 || string(content[:4]) != "%PDF" {
		return "", metadata, &document.InvalidArgumentError{Field: "pdf content", Value: "missing %PDF header"}
	}

	reader := bytes.NewReader(content)
	doc, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", metadata, &document.EngineError{Op: "parse pdf", Err: err}
	}

	var textBuilder strings.Builder
	pages := doc.NumPage()
	extracted := 0
	for i := 1; i <= pages; i++ {
		if p.MaxPages > 0 && extracted >= p.MaxPages {
			break
		}
		if err := ctx.Err(); err != nil {
			return "", metadata, err
		}

		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page should not sink the document.
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
		extracted++
	}

	text := strings.TrimSpace(textBuilder.String())
	metadata["pages"] = fmt.Sprintf("%d", pages)
	metadata["extracted_pages"] = fmt.Sprintf("%d", extracted)
	metadata["text_length"] = fmt.Sprintf("%d", len(text))
	metadata["status"] = "success"

	return text, metadata, nil
}
