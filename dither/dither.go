// Package dither implements the ordered (Bayer) and Floyd-Steinberg
// error-diffusion dithers of spec.md §4.5.
package dither

import "chafago/color"

// Mode selects the dither algorithm.
type Mode int

const (
	None Mode = iota
	Ordered
	Diffusion
)

// Dither holds the common attributes shared by both dither modes.
type Dither struct {
	Mode                    Mode
	Intensity               float64
	GrainWidth, GrainHeight int
}

// New returns a Dither with the given mode and intensity; grain defaults
// to 1x1 (no tiling beyond the natural Bayer period).
func New(mode Mode, intensity float64) *Dither {
	return &Dither{Mode: mode, Intensity: intensity, GrainWidth: 1, GrainHeight: 1}
}

// IntensityForMode derives the per-canvas-mode dither intensity scalar of
// spec.md §4.5: FGBG 1.0; 8-color 0.5; 16/16-8 0.25; 256/240/truecolor 0.1.
func IntensityForMode(colorCount int, isFGBG bool) float64 {
	switch {
	case isFGBG:
		return 1.0
	case colorCount <= 8:
		return 0.5
	case colorCount <= 16:
		return 0.25
	default:
		return 0.1
	}
}

// bayer8x8 is the standard 8x8 ordered-dither threshold matrix, values
// 0..63 scaled to [-0.5, 0.5) by the caller.
var bayer8x8 = [8][8]int{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// Ordered perturbs c by the Bayer pattern at pixel (x,y), modulated by
// d.Intensity and tiled across d.GrainWidth x d.GrainHeight coarser tiles.
func (d *Dither) Ordered(c color.RGBA, x, y int) color.RGBA {
	if d.Mode != Ordered || d.Intensity <= 0 {
		return c
	}
	gw, gh := d.GrainWidth, d.GrainHeight
	if gw < 1 {
		gw = 1
	}
	if gh < 1 {
		gh = 1
	}
	tileX := (x / gw) % 8
	tileY := (y / gh) % 8
	threshold := float64(bayer8x8[tileY][tileX])/64.0 - 0.5
	delta := threshold * d.Intensity * 64

	return color.RGBA{
		R: clampChannel(int(c.R) + int(delta)),
		G: clampChannel(int(c.G) + int(delta)),
		B: clampChannel(int(c.B) + int(delta)),
		A: c.A,
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
