// Package render implements the per-cell symbol choice: fast
// (Hamming-candidate) and slow (exhaustive) search, wide-glyph
// lookback promotion, the fill fallback, and blank finalisation.
package render

import (
	"chafago/cell"
	"chafago/color"
	"chafago/palette"
	"chafago/symbol"
	"chafago/symbolmap"
	"chafago/workcell"
)

// Extractor selects the strategy used to recompute a candidate's
// color pair once a glyph is tentatively chosen.
type Extractor int

const (
	Average Extractor = iota
	Median
)

// Config carries everything the renderer needs per cell that does not
// change across a row.
type Config struct {
	Mode              cell.Mode
	ColorSpace        palette.ColorSpace
	Extractor         Extractor
	FGOnlyEnabled     bool
	ExtractColors     bool
	ConsiderInverted  bool
	UseQuantizedError bool
	CandidateCount    int // clamp(round(work_factor*10), 1, 8)
	SlowPath          bool
	DefaultFG         color.RGBA
	DefaultBG         color.RGBA
	BlankChar         rune
	SolidChar         rune
	Palette           *palette.Palette // indexed modes
	PaletteFG         *palette.Palette // INDEXED_16_8: FG uses 16-color table
	PaletteBG         *palette.Palette // INDEXED_16_8: BG uses 8-color table
}

func (c *Config) pairFor(wc *workcell.WorkCell, bm symbol.Bitmap) workcell.ColorPair {
	if c.Extractor == Median {
		return wc.MedianForSymbol(bm)
	}
	return wc.MeanForSymbol(bm)
}

func (c *Config) quantizedError(pair workcell.ColorPair, wc *workcell.WorkCell, bm symbol.Bitmap) int {
	if !c.UseQuantizedError || c.PaletteFG == nil || c.PaletteBG == nil {
		return wc.CellError(bm, pair)
	}
	lFG := c.PaletteFG.LookupNearest(c.ColorSpace, pair.FG)
	lBG := c.PaletteBG.LookupNearest(c.ColorSpace, pair.BG)
	fg, _ := c.PaletteFG.Color(lFG.Index0)
	bg, _ := c.PaletteBG.Color(lBG.Index0)
	return wc.CellError(bm, workcell.ColorPair{FG: fg, BG: bg})
}

// result is the narrow per-cell outcome kept in the wide-lookback ring.
type result struct {
	wc          workcell.WorkCell
	bitmap      symbol.Bitmap
	pair        workcell.ColorPair
	err         int
	char        rune
	inverted    bool
	isWideRight bool
}

// Row renders one cell row. buf is the pixel buffer for the whole
// image, stride its row width in pixels, y0 the top pixel row of this
// cell row, width the number of cells. symMap and fillMap are the
// prepared symbol maps for glyph and fill search respectively.
func Row(buf []color.RGBA, stride, y0, width int, cfg Config, symMap, fillMap *symbolmap.SymbolMap) []cell.Cell {
	out := make([]cell.Cell, width)
	var ring [4]result

	for x := 0; x < width; x++ {
		wc := workcell.New(buf, stride, x*8, y0)
		r := chooseGlyph(&wc, cfg, symMap)
		ringIdx := x % 4
		ring[ringIdx] = r
		out[x] = finalizeCell(r, cfg)

		if x >= 1 {
			prevIdx := (x - 1) % 4
			prev := ring[prevIdx]
			if !prev.isWideRight {
				if merged, ok := tryWideMerge(prev, r, cfg, symMap); ok {
					out[x-1] = merged.left
					out[x] = merged.right
					ring[ringIdx].isWideRight = true
				}
			}
		}

		applyFillAndBlank(&out[x], &ring[ringIdx], cfg, fillMap, x > 0, out, x)
	}

	return out
}

func chooseGlyph(wc *workcell.WorkCell, cfg Config, symMap *symbolmap.SymbolMap) result {
	var pair workcell.ColorPair
	switch {
	case cfg.FGOnlyEnabled:
		pair = workcell.ColorPair{FG: cfg.DefaultFG, BG: cfg.DefaultBG}
	case cfg.ExtractColors && cfg.SlowPath:
		// work_factor >= 8: seed the tentative pair from full 2-means
		// clustering rather than the cheap heuristic (spec.md §4.7 step 2).
		pair = wc.KMeansPair()
	case cfg.ExtractColors:
		pair = wc.ContrastingPair()
	default:
		pair = workcell.ColorPair{FG: cfg.DefaultFG, BG: cfg.DefaultBG}
	}

	target := wc.ToBitmap(pair)

	var best result
	best.err = -1

	consider := func(idx int, bm symbol.Bitmap, code rune, inverted bool) {
		p := cfg.pairFor(wc, bm)
		e := cfg.quantizedError(p, wc, bm)
		if best.err == -1 || e < best.err {
			best = result{wc: *wc, bitmap: bm, pair: p, err: e, char: code, inverted: inverted}
		}
	}

	if cfg.SlowPath {
		for i, s := range symMap.Symbols() {
			consider(i, s.Bitmap, s.Code, false)
			if cfg.ConsiderInverted {
				consider(i, s.Bitmap.Inverse(), s.Code, true)
			}
		}
	} else {
		cands := symMap.FindCandidates(target, cfg.ConsiderInverted, cfg.CandidateCount)
		syms := symMap.Symbols()
		for _, c := range cands {
			s := syms[c.Index]
			bm := s.Bitmap
			if c.IsInverted {
				bm = bm.Inverse()
			}
			consider(c.Index, bm, s.Code, c.IsInverted)
		}
	}

	if best.err == -1 {
		best.char = cfg.BlankChar
		best.pair = pair
		best.wc = *wc
	}

	if cfg.ExtractColors && cfg.FGOnlyEnabled {
		best.pair = wc.MeanForSymbol(best.bitmap)
	}

	return best
}

type widePair struct {
	left, right cell.Cell
}

func tryWideMerge(prev, cur result, cfg Config, symMap *symbolmap.SymbolMap) (widePair, bool) {
	cands := symMap.FindCandidatesWide(prev.bitmap, cur.bitmap, cfg.ConsiderInverted, 1)
	if len(cands) == 0 {
		return widePair{}, false
	}
	best := cands[0]
	wideSyms := symMap.WideSymbols()
	s := wideSyms[best.Index]

	concat := append(append([]color.RGBA(nil), prev.wc.Pixels[:]...), cur.wc.Pixels[:]...)
	widePairColors := workcell.KMeansOn(concat)
	if cfg.FGOnlyEnabled {
		widePairColors = workcell.ColorPair{FG: cfg.DefaultFG, BG: cfg.DefaultBG}
	}

	lBm, rBm := s.Bitmap, s.WideRight
	if best.IsInverted {
		lBm, rBm = lBm.Inverse(), rBm.Inverse()
	}
	leftErr := prev.wc.CellError(lBm, widePairColors)
	rightErr := cur.wc.CellError(rBm, widePairColors)

	if leftErr+rightErr >= prev.err+cur.err {
		return widePair{}, false
	}

	if best.IsInverted {
		widePairColors.FG, widePairColors.BG = widePairColors.BG, widePairColors.FG
	}
	leftCell := resolveColors(s.Code, widePairColors, cfg)
	rightCell := resolveColors(0, widePairColors, cfg)
	return widePair{left: leftCell, right: rightCell}, true
}

func finalizeCell(r result, cfg Config) cell.Cell {
	pair := r.pair
	if r.inverted {
		pair.FG, pair.BG = pair.BG, pair.FG
	}
	return resolveColors(r.char, pair, cfg)
}

// resolveColors assigns the cell's FG/BG fields for the canvas mode,
// implementing the INDEXED_16_8 asymmetric promotion rule.
func resolveColors(char rune, pair workcell.ColorPair, cfg Config) cell.Cell {
	c := cell.Cell{Char: char}

	switch cfg.Mode {
	case cell.Truecolor:
		c.FGRaw = cell.SetRGB(pair.FG)
		c.BGRaw = cell.SetRGB(pair.BG)

	case cell.Indexed16x8:
		fgLookup16 := cfg.PaletteFG.LookupNearest(cfg.ColorSpace, pair.FG)
		bgLookupIn16 := cfg.PaletteFG.LookupNearest(cfg.ColorSpace, pair.BG)
		bgLookup8 := cfg.PaletteBG.LookupNearest(cfg.ColorSpace, pair.BG)
		if fgLookup16.Index0 == bgLookupIn16.Index0 && fgLookup16.Index0 >= 8 {
			if cfg.SolidChar != 0 {
				c.Char = cfg.SolidChar
				c.FGRaw = int32(fgLookup16.Index0)
				c.BGRaw = int32(bgLookup8.Index0)
				break
			}
			c.FGRaw = int32(bgLookup8.Index0)
			c.BGRaw = int32(bgLookup8.Index0)
			break
		}
		c.FGRaw = int32(fgLookup16.Index0)
		c.BGRaw = int32(bgLookup8.Index0)

	case cell.FGBG:
		c.FGRaw = cell.Transparent
		c.BGRaw = cell.Transparent

	case cell.FGBGBGFG:
		// Only two real colors exist (the canvas's FG/BG pens); store
		// which pen each side names as a 0/1 "index" rather than a
		// palette lookup. Orientation flips when the chosen glyph was
		// matched via its inverted bitmap (see finalizeCell).
		if pair.FG == cfg.DefaultFG {
			c.FGRaw, c.BGRaw = 1, 0
		} else {
			c.FGRaw, c.BGRaw = 0, 1
		}

	default: // indexed palettes (256/240/16/8)
		fgLookup := cfg.Palette.LookupNearest(cfg.ColorSpace, pair.FG)
		bgLookup := cfg.Palette.LookupNearest(cfg.ColorSpace, pair.BG)
		c.FGRaw = int32(fgLookup.Index0)
		c.BGRaw = int32(bgLookup.Index0)
	}

	return c
}

// applyFillAndBlank implements the fill fallback and blank
// finalisation of the per-cell algorithm, run after a (possibly wide-
// merged) cell has been chosen.
func applyFillAndBlank(c *cell.Cell, r *result, cfg Config, fillMap *symbolmap.SymbolMap, hasLeft bool, row []cell.Cell, x int) {
	fgbgMode := cfg.Mode == cell.FGBG || cfg.Mode == cell.FGBGBGFG
	featureless := c.Char == cfg.BlankChar || c.Char == cfg.SolidChar || (!fgbgMode && c.FGRaw == c.BGRaw)
	if featureless && c.Char != 0 {
		applyFill(c, r, cfg, fillMap)
	}

	if c.Char == 0 {
		return // right half of a wide glyph, left untouched
	}
	if !isFeatured(c, cfg) {
		c.Char = cfg.BlankChar
		// A blank glyph has no visible foreground; default to leaving
		// it unset so the printer need not emit a fg attribute at all.
		// Copying the previous cell's fg, when one exists, is purely an
		// optimisation that avoids a reset-then-reset escape pair.
		c.FGRaw = cell.Transparent
		if cfg.BlankChar == ' ' && hasLeft {
			prev := row[x-1]
			c.FGRaw = prev.FGRaw
		}
	}
}

func isFeatured(c *cell.Cell, cfg Config) bool {
	if cfg.Mode == cell.FGBG || cfg.Mode == cell.FGBGBGFG {
		return c.Char != cfg.BlankChar
	}
	return c.Char != cfg.BlankChar && c.FGRaw != c.BGRaw
}

// applyFill searches fillMap for the glyph whose popcount best matches
// the interpolation fraction between pair.FG and pair.BG that
// minimizes error against the cell's mean color (spec.md §4.7).
func applyFill(c *cell.Cell, r *result, cfg Config, fillMap *symbolmap.SymbolMap) {
	if fillMap == nil || fillMap.Len() == 0 {
		return
	}
	mean := r.wc.MeanColor()

	bestFrac, bestErr := 0, -1
	for step := 0; step <= 64; step++ {
		t := float64(step) / 64.0
		interp := color.RGBA{
			R: lerp(r.pair.FG.R, r.pair.BG.R, t),
			G: lerp(r.pair.FG.G, r.pair.BG.G, t),
			B: lerp(r.pair.FG.B, r.pair.BG.B, t),
			A: 255,
		}
		e := color.DiffFast(interp, mean)
		if bestErr == -1 || e < bestErr {
			bestErr = e
			bestFrac = step
		}
	}

	targetPopcount := 64 - bestFrac // frac 0 => all FG => popcount 64
	allowInverse := cfg.Mode != cell.FGBG && cfg.Mode != cell.Indexed16x8
	idx, ok := fillMap.FindFillCandidate(targetPopcount, allowInverse)
	if !ok {
		return
	}
	syms := fillMap.Symbols()
	c.Char = syms[idx].Code
}

func lerp(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
