package imaging

import (
	"fmt"
	"image"
	stdcolor "image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"chafago/color"
)

// Load decodes any supported raster format (PNG, JPEG, GIF, BMP, TIFF,
// WebP) from r. Format support comes entirely from the blank-imported
// standard and x/image decoders; this function adds no parsing of its
// own.
func Load(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ToRGBA converts an arbitrary image.Image into a premultiplied RGBA
// buffer the scaler and pixel-mode encoders operate on directly.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

// EncodePNG is used by callers that need a reference PNG re-encode
// (tests, --preview fallbacks).
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// RGBAImage wraps a pixels buffer (row-major, w x h) as a stdlib
// image.Image, so the scaled working buffer can be fed back into
// image.Image-shaped APIs (e.g. palette.GenerateDynamic) without a
// round trip through a real codec.
func RGBAImage(pixels []color.RGBA, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := pixels[y*w+x]
			out.SetRGBA(x, y, stdcolor.RGBA{R: p.R, G: p.G, B: p.B, A: p.A})
		}
	}
	return out
}
