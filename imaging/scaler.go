// Package imaging adapts golang.org/x/image/draw as the external
// scaling library behind the renderer's scaler contract, and carries
// the pixel-mode backends (Sixel, Kitty, iTerm2) and cell/pixel
// placement math that sit alongside the symbol core.
package imaging

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"chafago/color"
)

// PostRowFunc is fired once per output row after scaling, receiving
// the row index, the row's pixel width, and an opaque user value.
type PostRowFunc func(row, width int, userData any)

// Scaler rescales a source image into a pre-multiplied RGBA8 pixel
// buffer of the requested target size, deterministically.
type Scaler struct {
	// Interpolator selects the x/image/draw kernel. Defaults to
	// CatmullRom (bicubic-like), matching chafa's default "smooth"
	// resampler.
	Interpolator xdraw.Interpolator
}

// NewScaler returns a Scaler using the CatmullRom kernel.
func NewScaler() *Scaler {
	return &Scaler{Interpolator: xdraw.CatmullRom}
}

// Scale rescales src to width x height and returns a flat row-major
// buffer of color.RGBA, calling onRow (if non-nil) once per output
// row with userData.
func (s *Scaler) Scale(src image.Image, width, height int, onRow PostRowFunc, userData any) []color.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp := s.Interpolator
	if interp == nil {
		interp = xdraw.CatmullRom
	}
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := make([]color.RGBA, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := dst.PixOffset(x, y)
			out[y*width+x] = color.RGBA{
				R: dst.Pix[o],
				G: dst.Pix[o+1],
				B: dst.Pix[o+2],
				A: dst.Pix[o+3],
			}
		}
		if onRow != nil {
			onRow(y, width, userData)
		}
	}
	return out
}
