// Package cell defines the canvas's grid element and the canvas-mode
// enumeration shared by the symbol renderer, the canvas, and the
// printer.
package cell

import "chafago/color"

// Mode selects how a Cell's FG/BG raw fields are interpreted and how
// the printer emits attributes.
type Mode int

const (
	Truecolor Mode = iota
	Indexed256
	Indexed240
	Indexed16
	Indexed16x8
	Indexed8
	FGBGBGFG
	FGBG
)

// Indexed reports whether the mode resolves FG/BG through a Palette
// rather than as packed RGB.
func (m Mode) Indexed() bool {
	switch m {
	case Indexed256, Indexed240, Indexed16, Indexed16x8, Indexed8:
		return true
	}
	return false
}

// Transparent is the sentinel raw value meaning "no color set", valid
// in both the packed-RGB and palette-index representations.
const Transparent int32 = -1

// Cell is one grid element. Char 0 marks the (invisible) right half of
// a wide glyph. FGRaw/BGRaw hold either a packed RGB word (Truecolor)
// or a palette index (indexed modes); Transparent in either case means
// unset.
type Cell struct {
	Char     rune
	FGRaw    int32
	BGRaw    int32
	Inverted bool
}

// SetRGB packs c's R, G and B into the low 24 bits (alpha is not
// stored) for use as FGRaw/BGRaw in truecolor mode.
func SetRGB(c color.RGBA) int32 {
	if c.A == 0 {
		return Transparent
	}
	return int32(color.Pack(c) >> 8)
}

// RGB unpacks a truecolor raw value as an opaque color; ok is false for
// Transparent.
func RGB(raw int32) (color.RGBA, bool) {
	if raw == Transparent {
		return color.RGBA{}, false
	}
	return color.Unpack(uint32(raw)<<8 | 0xFF), true
}
