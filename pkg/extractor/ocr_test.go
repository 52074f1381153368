package extractor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Timmyway/scan-text/pkg/document"
	"github.com/Timmyway/scan-text/pkg/preprocess"
)

// ensureTesseractAvailable skips engine tests on machines without the engine.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// renderText draws a line of text onto a white canvas, giving the engine a
// clean synthetic fixture.
func renderText(t *testing.T, text string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 40),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOCRExtractor_Recognize(t *testing.T) {
	ensureTesseractAvailable(t)

	ocr := &OCRExtractor{Config: DefaultConfig()}
	text, metadata, err := ocr.Extract(context.Background(), renderText(t, "Hello World"))
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(text), "hello")
	assert.Equal(t, "tesseract", metadata["engine"])
}

func TestOCRExtractor_EmptyImageIsNotAnError(t *testing.T) {
	ensureTesseractAvailable(t)

	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	ocr := &OCRExtractor{Config: DefaultConfig()}
	text, _, err := ocr.Extract(context.Background(), buf.Bytes())
	require.NoError(t, err, "blank page is empty output, not a failure")
	assert.Empty(t, text)
}

func TestOCRExtractor_RecognizesPreprocessedImage(t *testing.T) {
	ensureTesseractAvailable(t)

	prepared, err := PrepareImage(renderText(t, "Hello World"), preprocess.ModeThresh)
	require.NoError(t, err)

	ocr := &OCRExtractor{Config: DefaultConfig()}
	text, _, err := ocr.Extract(context.Background(), prepared)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(text), "hello")
}

func TestOCRExtractor_InvalidLanguage(t *testing.T) {
	ensureTesseractAvailable(t)

	ocr := &OCRExtractor{Config: Config{Language: "not-a-language"}}
	_, _, err := ocr.Extract(context.Background(), renderText(t, "Hello"))

	var engineErr *document.EngineError
	require.Error(t, err)
	assert.True(t, errors.As(err, &engineErr), "bad language must surface as an engine error")
}

func TestOCRExtractor_EmptyLanguage(t *testing.T) {
	ocr := &OCRExtractor{Config: Config{Language: ""}}
	_, _, err := ocr.Extract(context.Background(), []byte{1, 2, 3})

	var invalid *document.InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
}

func TestOCRExtractor_EmptyContent(t *testing.T) {
	ocr := &OCRExtractor{Config: DefaultConfig()}
	_, _, err := ocr.Extract(context.Background(), nil)
	assert.Error(t, err)
}
