package extractor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Timmyway/scan-text/pkg/preprocess"
)

// PrepareImage decodes encoded image bytes, applies the preprocess transform,
// and re-encodes the result as PNG for the OCR engine. ModeNone returns the
// input untouched so unprocessed images keep their original encoding.
func PrepareImage(content []byte, mode preprocess.Mode) ([]byte, error) {
	if mode == preprocess.ModeNone {
		return content, nil
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	processed, err := preprocess.Apply(img, mode)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}
