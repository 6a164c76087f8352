package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
)

// ErrEmptySurface is returned when rendered content has zero intrinsic
// dimensions and therefore cannot be exported.
var ErrEmptySurface = errors.New("surface has zero intrinsic dimensions")

// Surface is an off-screen pixel buffer: content is rendered into it once,
// then exported as encoded bytes. It is the Go stand-in for the scratch
// canvas the element-read and anonymous-load strategies draw through.
type Surface struct {
	pix *image.RGBA
}

// Render decodes data and draws it onto a fresh surface. It fails if data is
// not a decodable image or decodes to zero intrinsic dimensions.
func Render(data []byte) (*Surface, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to render onto surface: %w", err)
	}
	return RenderImage(img)
}

// RenderImage draws an already-decoded image onto a fresh surface.
func RenderImage(img image.Image) (*Surface, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptySurface
	}

	pix := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(pix, pix.Bounds(), img, bounds.Min, draw.Src)
	return &Surface{pix: pix}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.pix.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.pix.Bounds().Dy() }

// Export encodes the surface contents as PNG. If either dimension exceeds
// maxEdge the pixels are scaled down to fit a maxEdge-square box first,
// aspect preserved. A maxEdge of zero or less disables the bound.
func (s *Surface) Export(maxEdge int) ([]byte, error) {
	out := s.pix
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if maxEdge > 0 && (w > maxEdge || h > maxEdge) {
		scale := float64(maxEdge) / float64(w)
		if h > w {
			scale = float64(maxEdge) / float64(h)
		}
		out = transform.Resize(out, int(float64(w)*scale), int(float64(h)*scale), transform.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to export surface: %w", err)
	}
	return buf.Bytes(), nil
}
