package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Normalize guarantees data is PNG-encoded.
//
// Input that already carries the PNG magic is returned unchanged, with no
// re-encode cost. Anything else is decoded and re-encoded as PNG; if either
// dimension exceeds maxEdge the bitmap is scaled down to fit a
// maxEdge-square bounding box (aspect preserved, no cropping). A maxEdge of
// zero or less disables bounding.
//
// Normalize fails only if data is not decodable as an image.
func Normalize(data []byte, maxEdge int) ([]byte, error) {
	if Sniff(data) == FormatPNG {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if maxEdge > 0 && (bounds.Dx() > maxEdge || bounds.Dy() > maxEdge) {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
