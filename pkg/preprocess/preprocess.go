// Package preprocess applies optional image transforms before OCR to improve
// recognition accuracy on noisy or low-contrast scans.
package preprocess

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Timmyway/scan-text/pkg/document"
)

// Mode selects the transform applied to an image before recognition.
type Mode int

const (
	// ModeNone passes the image through unchanged.
	ModeNone Mode = iota
	// ModeThresh converts to grayscale and binarizes with an Otsu threshold,
	// sharpening character edges on bimodal scans.
	ModeThresh
	// ModeBlur converts to grayscale and applies a 3x3 median filter to
	// suppress speckle noise.
	ModeBlur
)

// String returns the mode's configuration name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeThresh:
		return "thresh"
	case ModeBlur:
		return "blur"
	}
	return "unknown"
}

// ParseMode maps a configuration string to a Mode. The empty string means
// ModeNone. Unknown names are rejected so a typo fails loudly instead of
// silently skipping preprocessing.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "thresh":
		return ModeThresh, nil
	case "blur":
		return ModeBlur, nil
	}
	return ModeNone, &document.InvalidArgumentError{Field: "preprocess mode", Value: s}
}

// Apply runs the transform for mode and returns a new image with the same
// bounds as the input. The input image is never modified.
func Apply(img image.Image, mode Mode) (image.Image, error) {
	switch mode {
	case ModeNone:
		return img, nil
	case ModeThresh:
		gray := toGray(imaging.Grayscale(img))
		return binarize(gray, otsuThreshold(gray)), nil
	case ModeBlur:
		return medianFilter(toGray(imaging.Grayscale(img))), nil
	}
	return nil, &document.InvalidArgumentError{Field: "preprocess mode", Value: mode.String()}
}

// toGray collapses an already-grayscale NRGBA (R == G == B) into a
// single-channel buffer the threshold and median passes can index directly.
func toGray(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Pix[gray.PixOffset(x, y)] = src.Pix[src.PixOffset(x, y)]
		}
	}
	return gray
}
