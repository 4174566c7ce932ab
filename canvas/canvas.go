// Package canvas is the orchestrator: it consumes a Config, allocates
// the cell grid and palettes, derives the blank/solid glyph policy,
// and drives the symbol renderer across the rescaled source image.
package canvas

import (
	"image"

	"chafago/batch"
	"chafago/cell"
	"chafago/color"
	"chafago/dither"
	"chafago/imaging"
	"chafago/palette"
	"chafago/render"
	"chafago/symbolmap"
)

// Config is everything a Canvas needs at construction time.
type Config struct {
	CellsWide, CellsHigh int
	Mode                 cell.Mode
	ColorSpace           palette.ColorSpace
	Extractor            render.Extractor
	DitherMode           dither.Mode
	DitherGrainWidth     int
	DitherGrainHeight    int
	WorkFactor           float64 // 0..1
	AlphaThreshold       int     // 0..255
	FGOnlyEnabled        bool
	DefaultFG, DefaultBG color.RGBA
	SymbolMap            *symbolmap.SymbolMap
	FillSymbolMap        *symbolmap.SymbolMap
	Threads              int
	DynamicPalette       bool // build Indexed256's palette from the image (DYNAMIC_256) instead of the fixed xterm table
}

// Canvas holds the cell grid and all derived state needed to render
// and print an image.
type Canvas struct {
	cfg Config

	cells []cell.Cell

	pal, palFG, palBG *palette.Palette

	blankChar, solidChar rune

	considerInverted  bool
	extractColors     bool
	useQuantizedError bool
	fgOnlyEnabled     bool

	ditherIntensity float64

	defaultFG, defaultBG color.RGBA

	scaler *imaging.Scaler
}

// New builds a Canvas: allocates the grid, computes the blank/solid
// policy, derives flags, and initializes palettes (spec.md §4.8).
func New(cfg Config) *Canvas {
	c := &Canvas{cfg: cfg}

	c.cells = make([]cell.Cell, cfg.CellsWide*cfg.CellsHigh)
	for i := range c.cells {
		c.cells[i].Char = ' '
	}

	c.fgOnlyEnabled = cfg.FGOnlyEnabled || cfg.Mode == cell.FGBG
	c.considerInverted = !c.fgOnlyEnabled
	c.extractColors = !(cfg.Mode == cell.FGBG || cfg.Mode == cell.FGBGBGFG)
	c.useQuantizedError = cfg.Mode == cell.Indexed16x8 && !c.fgOnlyEnabled

	c.blankChar, c.solidChar = findBlankAndSolidChars(cfg.SymbolMap, cfg.FillSymbolMap)

	colorCount := paletteSizeFor(cfg.Mode)
	c.ditherIntensity = dither.IntensityForMode(colorCount, cfg.Mode == cell.FGBG)

	c.pal, c.palFG, c.palBG = buildPalettes(cfg.Mode, cfg.DynamicPalette)
	if c.pal != nil {
		c.pal.SetColor(palette.PenFG, cfg.DefaultFG)
		c.pal.SetColor(palette.PenBG, cfg.DefaultBG)
	}

	c.defaultFG, c.defaultBG = cfg.DefaultFG, cfg.DefaultBG
	if c.fgOnlyEnabled && c.extractColors {
		c.defaultFG = color.RGBA{R: 128, G: 128, B: 128, A: 255}
		c.defaultBG = nudge(cfg.DefaultBG, 5)
	}

	c.scaler = imaging.NewScaler()

	return c
}

func paletteSizeFor(m cell.Mode) int {
	switch m {
	case cell.Indexed8:
		return 8
	case cell.Indexed16, cell.Indexed16x8:
		return 16
	case cell.Indexed240:
		return 240
	case cell.Indexed256:
		return 256
	default:
		return 1 << 24
	}
}

func buildPalettes(m cell.Mode, dynamic bool) (pal, palFG, palBG *palette.Palette) {
	switch m {
	case cell.Indexed8:
		return palette.New(palette.Fixed8), nil, nil
	case cell.Indexed16:
		return palette.New(palette.Fixed16), nil, nil
	case cell.Indexed240:
		return palette.New(palette.Fixed240), nil, nil
	case cell.Indexed256:
		if dynamic {
			return palette.New(palette.Dynamic256), nil, nil
		}
		return palette.New(palette.Fixed256), nil, nil
	case cell.Indexed16x8:
		return nil, palette.New(palette.Fixed16), palette.New(palette.Fixed8)
	default:
		return nil, nil, nil
	}
}

// nudge shifts every channel of c by at least delta, clamping to
// [0,255], so the FG/BG substitutes used for fg_only outline scoring
// are guaranteed distinguishable.
func nudge(c color.RGBA, delta int) color.RGBA {
	shift := func(v uint8) uint8 {
		if int(v)+delta > 255 {
			return uint8(int(v) - delta)
		}
		return uint8(int(v) + delta)
	}
	return color.RGBA{R: shift(c.R), G: shift(c.G), B: shift(c.B), A: 255}
}

// findBlankAndSolidChars implements find_best_blank_char /
// find_best_solid_char: try the conventional space/solid-block code
// points, then ask the fill map for the lightest/densest symbol
// within Hamming distance 32 of all-zero/all-one, then fall back to
// the regular map.
func findBlankAndSolidChars(symMap, fillMap *symbolmap.SymbolMap) (blank, solid rune) {
	blank, solid = ' ', '█'
	if symMap == nil {
		return blank, solid
	}
	if symMap.HasSymbol(' ') {
		blank = ' '
	} else if r, ok := nearPopcount(fillMap, 0, 32); ok {
		blank = r
	} else if r, ok := nearPopcount(symMap, 0, 64); ok {
		blank = r
	}

	if symMap.HasSymbol('█') {
		solid = '█'
	} else if r, ok := nearPopcount(fillMap, 64, 32); ok {
		solid = r
	} else if r, ok := nearPopcount(symMap, 64, 64); ok {
		solid = r
	}
	return blank, solid
}

func nearPopcount(m *symbolmap.SymbolMap, target, maxDist int) (rune, bool) {
	if m == nil {
		return 0, false
	}
	idx, ok := m.FindFillCandidate(target, false)
	if !ok {
		return 0, false
	}
	syms := m.Symbols()
	dist := syms[idx].Popcount - target
	if dist < 0 {
		dist = -dist
	}
	if dist > maxDist {
		return 0, false
	}
	return syms[idx].Code, true
}

// Cells returns the current cell grid, row-major, CellsWide x
// CellsHigh.
func (c *Canvas) Cells() []cell.Cell { return c.cells }

func (c *Canvas) Dimensions() (int, int) { return c.cfg.CellsWide, c.cfg.CellsHigh }

// DrawAllPixels rescales src to the internal pixel buffer, applies
// alpha thresholding and dithering, then runs the symbol renderer
// across all rows in parallel (spec.md §4.8/§5).
func (c *Canvas) DrawAllPixels(src image.Image) {
	widthPixels := c.cfg.CellsWide * 8
	heightPixels := c.cfg.CellsHigh * 8

	buf := c.scaler.Scale(src, widthPixels, heightPixels, nil, nil)

	if c.pal != nil && c.pal.Type() == palette.Dynamic256 {
		c.pal.GenerateDynamic(imaging.RGBAImage(buf, widthPixels, heightPixels))
	}

	if c.cfg.AlphaThreshold > 0 {
		for i, p := range buf {
			buf[i] = color.ThresholdAlpha(p, c.cfg.AlphaThreshold)
		}
	}

	d := dither.New(c.cfg.DitherMode, c.ditherIntensity)
	d.GrainWidth, d.GrainHeight = c.cfg.DitherGrainWidth, c.cfg.DitherGrainHeight
	if d.GrainWidth < 1 {
		d.GrainWidth = 1
	}
	if d.GrainHeight < 1 {
		d.GrainHeight = 1
	}

	switch c.cfg.DitherMode {
	case dither.Ordered:
		for y := 0; y < heightPixels; y++ {
			for x := 0; x < widthPixels; x++ {
				i := y*widthPixels + x
				buf[i] = d.Ordered(buf[i], x, y)
			}
		}
	case dither.Diffusion:
		if c.pal != nil {
			d.Apply(buf, widthPixels, heightPixels, func(p color.RGBA) color.RGBA {
				l := c.pal.LookupNearest(c.cfg.ColorSpace, p)
				out, _ := c.pal.Color(l.Index0)
				return out
			})
		}
	}

	rcfg := render.Config{
		Mode:              c.cfg.Mode,
		ColorSpace:        c.cfg.ColorSpace,
		Extractor:         c.cfg.Extractor,
		FGOnlyEnabled:     c.fgOnlyEnabled,
		ExtractColors:     c.extractColors,
		ConsiderInverted:  c.considerInverted,
		UseQuantizedError: c.useQuantizedError,
		CandidateCount:    workFactorCandidates(c.cfg.WorkFactor),
		SlowPath:          workFactorCandidates(c.cfg.WorkFactor) >= 8,
		DefaultFG:         c.defaultFG,
		DefaultBG:         c.defaultBG,
		BlankChar:         c.blankChar,
		SolidChar:         c.solidChar,
		Palette:           c.pal,
		PaletteFG:         c.palFG,
		PaletteBG:         c.palBG,
	}

	batch.Run(c.cfg.CellsHigh, c.cfg.Threads, func(cellRow int) {
		rowCells := render.Row(buf, widthPixels, cellRow*8, c.cfg.CellsWide, rcfg, c.cfg.SymbolMap, c.cfg.FillSymbolMap)
		copy(c.cells[cellRow*c.cfg.CellsWide:(cellRow+1)*c.cfg.CellsWide], rowCells)
	})
}

// workFactorCandidates maps work_factor in [0,1] to a candidate count
// in [1,8]; 8 means "switch to the exhaustive slow path" (spec.md §6).
func workFactorCandidates(wf float64) int {
	n := int(wf*10 + 0.5)
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return n
}
