package dither

import (
	"testing"

	"chafago/color"
	"chafago/palette"
)

func quantizeBW(p *palette.Palette) func(color.RGBA) color.RGBA {
	return func(c color.RGBA) color.RGBA {
		l := p.LookupNearest(palette.RGB, c)
		out, _ := p.Color(l.Index0)
		return out
	}
}

func TestApplyPropagatesErrorToNextRow(t *testing.T) {
	p := palette.New(palette.Fixed8)
	p.SetColor(0, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	p.SetColor(1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	for i := 2; i < 8; i++ {
		p.SetColor(i, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	}

	// 2x2 gradient: top row mid-gray, bottom row mid-gray. With a pure
	// black/white palette every pixel quantizes with substantial error,
	// and that error must show up propagated into row 1's inputs.
	pixels := []color.RGBA{
		{R: 128, G: 128, B: 128, A: 255}, {R: 128, G: 128, B: 128, A: 255},
		{R: 128, G: 128, B: 128, A: 255}, {R: 128, G: 128, B: 128, A: 255},
	}

	d := New(Diffusion, 1.0)
	d.Apply(pixels, 2, 2, quantizeBW(p))

	for i, px := range pixels {
		if px.R != 0 && px.R != 255 {
			t.Fatalf("pixel %d not quantized to black/white: %+v", i, px)
		}
	}

	// White must appear in both rows: the diffused error turns one
	// pixel of each row black, but not the whole row.
	row0Has255 := pixels[0].R == 255 || pixels[1].R == 255
	row1Has255 := pixels[2].R == 255 || pixels[3].R == 255
	if !row0Has255 || !row1Has255 {
		t.Fatalf("expected a white pixel in each row, got %+v", pixels)
	}
}

func TestApplyZeroesErrorAtTransparentPixel(t *testing.T) {
	p := palette.New(palette.Fixed8)
	p.SetColor(0, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	p.SetColor(1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	pixels := []color.RGBA{
		{R: 200, G: 200, B: 200, A: 255},
		{R: 10, G: 10, B: 10, A: 0}, // transparent: must not receive leaked error
		{R: 10, G: 10, B: 10, A: 255},
		{R: 10, G: 10, B: 10, A: 255},
	}

	d := New(Diffusion, 1.0)
	d.Apply(pixels, 2, 2, quantizeBW(p))

	if pixels[1].R != 10 || pixels[1].A != 0 {
		t.Fatalf("transparent pixel should be left untouched, got %+v", pixels[1])
	}
}

func TestApplyNoopWhenNotDiffusionMode(t *testing.T) {
	d := New(Ordered, 1.0)
	pixels := []color.RGBA{{R: 5, G: 5, B: 5, A: 255}}
	orig := pixels[0]
	d.Apply(pixels, 1, 1, func(c color.RGBA) color.RGBA { return color.RGBA{} })
	if pixels[0] != orig {
		t.Fatalf("expected Apply to no-op outside Diffusion mode, got %+v", pixels[0])
	}
}
