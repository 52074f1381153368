package preprocess

import (
	"image"
	"sort"
)

// otsuThreshold picks the global threshold that minimizes intra-class
// variance over the intensity histogram, separating ink from paper on
// bimodal scans.
func otsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, count := range hist {
		sum += float64(i) * float64(count)
	}

	var sumBack, weightBack float64
	var maxVariance float64
	var threshold uint8
	for t := 0; t < 256; t++ {
		weightBack += float64(hist[t])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t) * float64(hist[t])

		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		variance := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(t)
		}
	}
	return threshold
}

// binarize maps every pixel to pure black or white around the threshold.
func binarize(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for i, v := range gray.Pix {
		if v > threshold {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// medianFilter replaces each pixel with the median of its 3x3 neighborhood.
// Pixels outside the image are clamped to the nearest edge so the output
// keeps the input's bounds.
func medianFilter(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	window := make([]int, 0, 9)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx := clamp(x+dx, bounds.Min.X, bounds.Max.X-1)
					ny := clamp(y+dy, bounds.Min.Y, bounds.Max.Y-1)
					window = append(window, int(gray.GrayAt(nx, ny).Y))
				}
			}
			sort.Ints(window)
			out.Pix[out.PixOffset(x, y)] = uint8(window[4])
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
