package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmyway/scan-text/pkg/document"
)

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	p := &PDFExtractor{}

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "empty", content: nil},
		{name: "too short", content: []byte("%P")},
		{name: "wrong magic", content: []byte("GIF89a not a pdf at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, metadata, err := p.Extract(context.Background(), tt.content)
			var invalid *document.InvalidArgumentError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, "pdf", metadata["type"])
		})
	}
}

func TestPDFExtractor_CorruptBody(t *testing.T) {
	p := &PDFExtractor{}

	_, _, err := p.Extract(context.Background(), []byte("%PDF-1.7\nthis is not a real pdf body"))
	var engineErr *document.EngineError
	require.Error(t, err)
	assert.True(t, errors.As(err, &engineErr))
}
