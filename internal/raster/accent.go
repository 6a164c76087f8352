package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// accentSampleStep controls how coarsely AccentColor walks the bitmap.
// Sampling every Nth pixel keeps the cost flat for large photos.
const accentSampleStep = 16

// AccentColor returns the average color of an encoded image as a "#rrggbb"
// hex string, for tinting transient UI around the copied image. Fails only
// if data is not decodable.
func AccentColor(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image for accent sampling: %w", err)
	}

	bounds := img.Bounds()
	step := accentSampleStep
	if bounds.Dx() < step || bounds.Dy() < step {
		step = 1
	}

	var rSum, gSum, bSum float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += float64(r) / 0xffff
			gSum += float64(g) / 0xffff
			bSum += float64(b) / 0xffff
			n++
		}
	}
	if n == 0 {
		return "", ErrEmptySurface
	}

	c := colorful.Color{R: rSum / float64(n), G: gSum / float64(n), B: bSum / float64(n)}
	return c.Clamped().Hex(), nil
}
