// Package palette implements the fixed and dynamic color palettes: the
// xterm-derived fixed tables, the FG/BG/TRANSPARENT pens, nearest-color
// lookup in RGB or DIN99d space, and DYNAMIC_256 generation from an image
// via median-cut quantization (github.com/soniakeys/quant/median), the
// same library the teacher already uses for its Sixel palette path.
package palette

import (
	"image"

	"github.com/soniakeys/quant/median"

	"chafago/color"
)

// Type selects which fixed table (or dynamic generation) backs a Palette.
type Type int

const (
	Fixed8 Type = iota
	Fixed16
	Fixed240
	Fixed256
	FixedFGBG
	Dynamic256
)

// ColorSpace selects which distance space nearest-color lookup compares
// in. Forced to RGB in truecolor+symbol and Kitty/iTerm2 modes per
// spec.md §6.
type ColorSpace int

const (
	RGB ColorSpace = iota
	DIN99D
)

// reserved pen indices, always present regardless of Type.
const (
	PenFG          = 256
	PenBG          = 257
	PenTransparent = 258
)

// entry is one palette slot in both representations.
type entry struct {
	rgb    color.RGBA
	din99d color.DIN99d
	valid  bool
}

// Palette is a fixed array of up to 256 colors plus the FG/BG pens and the
// TRANSPARENT sentinel (spec.md §3).
type Palette struct {
	typ     Type
	entries []entry // index 0..255 fixed/dynamic slots
	fg, bg  entry
}

// New allocates and Init's a palette of the given type.
func New(typ Type) *Palette {
	p := &Palette{typ: typ}
	p.Init(typ)
	return p
}

// Init populates the fixed palette according to typ. FG/BG pens are
// overwritten later via SetColor once the canvas knows its defaults.
func (p *Palette) Init(typ Type) {
	p.typ = typ
	switch typ {
	case Fixed8:
		p.entries = buildFixed(ansi8)
	case Fixed16:
		p.entries = buildFixed(ansi16)
	case Fixed240:
		p.entries = buildFixed(xterm240())
	case Fixed256:
		p.entries = buildFixed(xterm256())
	case FixedFGBG:
		p.entries = nil
	case Dynamic256:
		p.entries = nil // populated by GenerateDynamic
	}
}

func buildFixed(colors []color.RGBA) []entry {
	out := make([]entry, len(colors))
	for i, c := range colors {
		out[i] = entry{rgb: c, din99d: color.RGBToDIN99d(c), valid: true}
	}
	return out
}

// SetColor explicitly sets a pen (FG, BG, or an ordinary index).
func (p *Palette) SetColor(idx int, c color.RGBA) {
	e := entry{rgb: c, din99d: color.RGBToDIN99d(c), valid: true}
	switch idx {
	case PenFG:
		p.fg = e
	case PenBG:
		p.bg = e
	default:
		for idx >= len(p.entries) {
			p.entries = append(p.entries, entry{})
		}
		p.entries[idx] = e
	}
}

// Color returns the RGBA at idx, or (zero, false) if unset/out of range.
func (p *Palette) Color(idx int) (color.RGBA, bool) {
	switch idx {
	case PenFG:
		return p.fg.rgb, p.fg.valid
	case PenBG:
		return p.bg.rgb, p.bg.valid
	case PenTransparent:
		return color.RGBA{}, true
	}
	if idx < 0 || idx >= len(p.entries) || !p.entries[idx].valid {
		return color.RGBA{}, false
	}
	return p.entries[idx].rgb, true
}

// Lookup is the result of nearest-color search: up to two candidates, the
// first the primary match.
type Lookup struct {
	Index0, Index1 int
	Found1         bool
}

// LookupNearest finds the two palette entries (ignoring TRANSPARENT) with
// smallest diff_fast/DIN99d distance to c in color space cs. Ties favor
// the lower index (spec.md §4.4).
func (p *Palette) LookupNearest(cs ColorSpace, c color.RGBA) Lookup {
	target99 := color.RGBToDIN99d(c)
	best0, best1 := -1, -1
	var bestD0, bestD1 float64

	consider := func(idx int, e entry) {
		if !e.valid {
			return
		}
		var d float64
		if cs == DIN99D {
			d = color.DiffDIN99d(target99, e.din99d)
		} else {
			d = float64(color.DiffFast(c, e.rgb))
		}
		if best0 == -1 || d < bestD0 {
			best1, bestD1 = best0, bestD0
			best0, bestD0 = idx, d
		} else if best1 == -1 || d < bestD1 {
			best1, bestD1 = idx, d
		}
	}

	for i, e := range p.entries {
		consider(i, e)
	}
	if p.fg.valid {
		consider(PenFG, p.fg)
	}
	if p.bg.valid {
		consider(PenBG, p.bg)
	}

	return Lookup{Index0: best0, Index1: best1, Found1: best1 != -1}
}

// LookupWithError is LookupNearest plus signed per-channel error
// accumulation for Floyd-Steinberg dithering (spec.md §4.4/§4.5).
func (p *Palette) LookupWithError(cs ColorSpace, c color.RGBA, errInOut *[3]int32) Lookup {
	l := p.LookupNearest(cs, c)
	if l.Index0 == -1 {
		return l
	}
	matched, _ := p.Color(l.Index0)
	errInOut[0] += int32(c.R) - int32(matched.R)
	errInOut[1] += int32(c.G) - int32(matched.G)
	errInOut[2] += int32(c.B) - int32(matched.B)
	return l
}

// GenerateDynamic (DYNAMIC_256 only) builds the palette from the supplied
// pixels via median-cut quantization, reserving one pen as TRANSPARENT.
// pixels are in the rectangle 0,0,w,h of img.
func (p *Palette) GenerateDynamic(img image.Image) {
	const maxColors = 255 // one slot reserved for TRANSPARENT
	q := median.Quantizer(maxColors)
	paletted := q.Paletted(img)

	entries := make([]entry, len(paletted.Palette))
	for i, c := range paletted.Palette {
		r, g, b, _ := c.RGBA()
		rgba := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		entries[i] = entry{rgb: rgba, din99d: color.RGBToDIN99d(rgba), valid: true}
	}
	p.entries = entries
}

// Type returns the palette's type.
func (p *Palette) Type() Type { return p.typ }

// Len is the number of ordinary (non-pen) slots currently populated.
func (p *Palette) Len() int { return len(p.entries) }
