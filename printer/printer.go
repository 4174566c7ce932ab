// Package printer walks a cell grid and emits the terminal escape
// bytes that reproduce it, applying the REUSE_ATTRIBUTES and
// REPEAT_CHAR optimisations.
package printer

import (
	"bytes"

	"chafago/cell"
	"chafago/terminfo"
)

// Optimizations is a bitset selecting which output-shrinking passes
// the printer applies. Disabling both still produces a correct,
// if larger, byte stream.
type Optimizations int

const (
	ReuseAttributes Optimizations = 1 << iota
	RepeatChar
)

// Config carries the canvas state the printer needs to interpret raw
// cell fields and to decide whether to emit attributes at all.
type Config struct {
	Mode          cell.Mode
	FGOnlyEnabled bool
	BlankChar     rune
	SolidChar     rune
	Optimizations Optimizations
}

func (c Config) has(o Optimizations) bool { return c.Optimizations&o != 0 }

// attrs is the resolved (fg, bg, inverted) triple for one cell, in
// whichever representation the mode uses (packed RGB or palette
// index); transparent is represented by cell.Transparent in both.
type attrs struct {
	fg, bg   int32
	inverted bool
}

// state is the printer's running attribute/repeat memory.
type state struct {
	started bool // has anything been emitted at all

	curChar rune
	nReps   int

	haveAttrs    bool
	curInverted  bool
	curFG, curBG int32
}

// Print renders the full grid (width x height, row-major) to UTF-8
// bytes per spec.md §4.9.
func Print(cells []cell.Cell, width, height int, cfg Config) []byte {
	var out bytes.Buffer
	suppressAttrs := cfg.Mode == cell.FGBG || cfg.FGOnlyEnabled

	var st state

	for y := 0; y < height; y++ {
		if y == 0 && !suppressAttrs {
			out.Write(terminfo.ResetAttributesSeq())
		}
		row := cells[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			c := row[x]
			if c.Char == 0 {
				continue // right half of a wide glyph
			}
			ch, a := resolve(c, cfg)
			printCell(&out, &st, ch, a, cfg, suppressAttrs)
		}
		flushRun(&out, &st, cfg)
		st.started = false
		if !suppressAttrs {
			out.Write(terminfo.ResetAttributesSeq())
			st.haveAttrs = false
		}
		if y < height-1 {
			out.WriteByte('\n')
		}
	}

	return out.Bytes()
}

// resolve computes the glyph and (fg, bg, inverted) triple for one
// cell per the canvas's mode (spec.md §4.9 step 2).
func resolve(c cell.Cell, cfg Config) (rune, attrs) {
	switch cfg.Mode {
	case cell.FGBG:
		return c.Char, attrs{fg: cell.Transparent, bg: cell.Transparent}

	case cell.Truecolor:
		// Each side is emitted independently; a transparent fg or bg
		// simply means that attribute is left unset (see scenario (a)
		// in SPEC_FULL.md: a blank glyph over a solid bg emits only
		// the bg escape, nothing swapped or inverted).
		return c.Char, attrs{fg: c.FGRaw, bg: c.BGRaw, inverted: c.Inverted}

	case cell.FGBGBGFG:
		// FGRaw/BGRaw are the 0/1 pen identity from the renderer: 1
		// names the FG pen, 0 the BG pen. A cell naming the same pen
		// on both sides carries no contrast; fold it to blank_char.
		ch := c.Char
		inverted := c.Inverted
		if c.FGRaw == c.BGRaw {
			if cfg.BlankChar != 0 {
				ch = cfg.BlankChar
			} else {
				ch = cfg.SolidChar
				inverted = true
			}
		}
		if c.BGRaw == 1 { // bg names the FG pen
			inverted = !inverted
		}
		return ch, attrs{fg: cell.Transparent, bg: cell.Transparent, inverted: inverted}

	default: // indexed palettes, including INDEXED_16_8
		return c.Char, attrs{fg: c.FGRaw, bg: c.BGRaw, inverted: c.Inverted}
	}
}

func printCell(out *bytes.Buffer, st *state, char rune, a attrs, cfg Config, suppressAttrs bool) {
	if cfg.has(RepeatChar) {
		sameAttrs := suppressAttrs || (st.haveAttrs && a.fg == st.curFG && a.bg == st.curBG && a.inverted == st.curInverted)
		if st.started && char == st.curChar && sameAttrs {
			st.nReps++
			return
		}
		// The pending run was drawn with the current attributes; write
		// it out before switching to this cell's.
		flushRun(out, st, cfg)
		if !suppressAttrs {
			applyAttrs(out, st, a, cfg)
		}
		st.curChar = char
		st.nReps = 1
		st.started = true
		return
	}

	if !suppressAttrs {
		applyAttrs(out, st, a, cfg)
	}
	out.WriteRune(char)
	st.started = true
}

// flushRun emits the pending repeated-glyph run, choosing between the
// literal bytes and the REPEAT_CHAR escape by comparing lengths.
func flushRun(out *bytes.Buffer, st *state, cfg Config) {
	if st.nReps == 0 {
		return
	}
	if !cfg.has(RepeatChar) || st.nReps == 1 {
		for i := 0; i < st.nReps; i++ {
			out.WriteRune(st.curChar)
		}
		st.nReps = 0
		return
	}

	glyphLen := len(string(st.curChar))
	literalLen := glyphLen * st.nReps
	repeatSeq := terminfo.RepeatCharSeq(st.nReps)
	escLen := glyphLen + len(repeatSeq)

	if literalLen > escLen {
		out.WriteRune(st.curChar)
		out.Write(terminfo.RepeatCharSeq(st.nReps))
	} else {
		for i := 0; i < st.nReps; i++ {
			out.WriteRune(st.curChar)
		}
	}
	st.nReps = 0
}

// applyAttrs emits the escape sequences needed to move from st's
// current attributes to a, implementing REUSE_ATTRIBUTES when enabled.
func applyAttrs(out *bytes.Buffer, st *state, a attrs, cfg Config) {
	if !cfg.has(ReuseAttributes) {
		out.Write(terminfo.ResetAttributesSeq())
		if a.inverted {
			out.Write(terminfo.InvertColorsSeq())
		}
		writeColors(out, a, cfg.Mode)
		st.haveAttrs = true
		st.curInverted, st.curFG, st.curBG = a.inverted, a.fg, a.bg
		return
	}

	if !st.haveAttrs {
		if a.inverted {
			out.Write(terminfo.InvertColorsSeq())
		}
		writeColors(out, a, cfg.Mode)
		st.haveAttrs = true
		st.curInverted, st.curFG, st.curBG = a.inverted, a.fg, a.bg
		return
	}

	becameTransparent := (st.curFG != cell.Transparent && a.fg == cell.Transparent) ||
		(st.curBG != cell.Transparent && a.bg == cell.Transparent)
	leftInverted := st.curInverted && !a.inverted

	if leftInverted || becameTransparent {
		out.Write(terminfo.ResetAttributesSeq())
		st.curInverted, st.curFG, st.curBG = false, cell.Transparent, cell.Transparent
	}
	if a.inverted && !st.curInverted {
		out.Write(terminfo.InvertColorsSeq())
	}

	fgChanged := a.fg != st.curFG
	bgChanged := a.bg != st.curBG
	writeColorDelta(out, a, fgChanged, bgChanged, cfg.Mode)

	st.curInverted, st.curFG, st.curBG = a.inverted, a.fg, a.bg
}

func writeColors(out *bytes.Buffer, a attrs, mode cell.Mode) {
	writeColorDelta(out, a, a.fg != cell.Transparent, a.bg != cell.Transparent, mode)
}

func writeColorDelta(out *bytes.Buffer, a attrs, fgChanged, bgChanged bool, mode cell.Mode) {
	if !fgChanged && !bgChanged {
		return
	}
	direct := mode == cell.Truecolor

	if fgChanged && bgChanged && a.fg != cell.Transparent && a.bg != cell.Transparent {
		if direct {
			fg, bg := unpack(a.fg), unpack(a.bg)
			out.Write(terminfo.SetColorFGBGDirectSeq(fg.R, fg.G, fg.B, bg.R, bg.G, bg.B))
		} else {
			out.Write(terminfo.SetColorFGBGIndexedSeq(int(a.fg), int(a.bg)))
		}
		return
	}
	if fgChanged && a.fg != cell.Transparent {
		if direct {
			fg := unpack(a.fg)
			out.Write(terminfo.SetColorFGDirectSeq(fg.R, fg.G, fg.B))
		} else {
			out.Write(terminfo.SetColorFGIndexedSeq(int(a.fg)))
		}
	}
	if bgChanged && a.bg != cell.Transparent {
		if direct {
			bg := unpack(a.bg)
			out.Write(terminfo.SetColorBGDirectSeq(bg.R, bg.G, bg.B))
		} else {
			out.Write(terminfo.SetColorBGIndexedSeq(int(a.bg)))
		}
	}
}

func unpack(raw int32) struct{ R, G, B uint8 } {
	rgb, _ := cell.RGB(raw)
	return struct{ R, G, B uint8 }{rgb.R, rgb.G, rgb.B}
}
