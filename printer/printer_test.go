package printer

import (
	"bytes"
	"testing"

	"chafago/cell"
	"chafago/color"
)

// scenario (a): 1x1 truecolor cell, bg=red, fg transparent (unset).
// Expect reset, set-bg-red, one space, reset, no trailing newline.
func TestPrintTruecolorBGOnlyCell(t *testing.T) {
	red := color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	c := cell.Cell{Char: ' ', FGRaw: cell.Transparent, BGRaw: cell.SetRGB(red)}

	out := Print([]cell.Cell{c}, 1, 1, Config{
		Mode:          cell.Truecolor,
		Optimizations: ReuseAttributes | RepeatChar,
	})

	want := append(append([]byte{}, terminfoReset()...), []byte("\x1b[48;2;255;0;0m \x1b[0m")...)
	if !bytes.Equal(out, want) {
		t.Fatalf("got %q, want %q", out, want)
	}
}

// scenario (b): FGBG mode emits only glyphs, no escapes at all.
func TestPrintFGBGEmitsOnlyGlyphs(t *testing.T) {
	cells := []cell.Cell{{Char: ' '}, {Char: ' '}}
	out := Print(cells, 2, 1, Config{Mode: cell.FGBG, Optimizations: ReuseAttributes | RepeatChar})
	if string(out) != "  " {
		t.Fatalf("got %q, want two spaces with no escapes", out)
	}
}

// scenario (c): wide glyph leaves a zero-char right half that must be
// skipped entirely (no column emitted for it).
func TestPrintSkipsWideRightHalf(t *testing.T) {
	cells := []cell.Cell{{Char: 0x3042}, {Char: 0}}
	out := Print(cells, 2, 1, Config{Mode: cell.FGBG, Optimizations: ReuseAttributes | RepeatChar})
	if string(out) != string(rune(0x3042)) {
		t.Fatalf("got %q, want a single wide glyph", out)
	}
}

// REPEAT_CHAR: a long run of the same glyph with the optimization on
// must come out shorter than the 40-byte literal rendering.
func TestPrintRepeatCharShrinksLongRuns(t *testing.T) {
	cells := make([]cell.Cell, 40)
	for i := range cells {
		cells[i] = cell.Cell{Char: 'x'}
	}
	withRepeat := Print(cells, 40, 1, Config{Mode: cell.FGBG, Optimizations: RepeatChar})
	withoutRepeat := Print(cells, 40, 1, Config{Mode: cell.FGBG, Optimizations: 0})

	if len(withoutRepeat) != 40 {
		t.Fatalf("literal rendering should be exactly 40 bytes, got %d", len(withoutRepeat))
	}
	if len(withRepeat) >= len(withoutRepeat) {
		t.Fatalf("REPEAT_CHAR output (%d bytes) should be shorter than literal (%d bytes)", len(withRepeat), len(withoutRepeat))
	}
}

// Deterministic output: printing the same grid twice is byte-identical.
func TestPrintIsDeterministic(t *testing.T) {
	red := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	blue := color.RGBA{R: 40, G: 50, B: 60, A: 255}
	cells := []cell.Cell{
		{Char: 'a', FGRaw: cell.SetRGB(red), BGRaw: cell.SetRGB(blue)},
		{Char: 'a', FGRaw: cell.SetRGB(red), BGRaw: cell.SetRGB(blue)},
		{Char: 'b', FGRaw: cell.SetRGB(blue), BGRaw: cell.SetRGB(red)},
	}
	cfg := Config{Mode: cell.Truecolor, Optimizations: ReuseAttributes | RepeatChar}

	first := Print(cells, 3, 1, cfg)
	second := Print(cells, 3, 1, cfg)
	if !bytes.Equal(first, second) {
		t.Fatalf("printing twice produced different output:\n%q\n%q", first, second)
	}
}

// REUSE_ATTRIBUTES and its absence must render visually equivalent
// (same glyphs, same final colors) even though the byte streams
// differ; here we check the cheaper invariant that both settings
// reproduce the same glyph sequence.
func TestPrintGlyphsStableAcrossOptimizationSettings(t *testing.T) {
	fg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	cells := []cell.Cell{
		{Char: 'p', FGRaw: cell.SetRGB(fg), BGRaw: cell.Transparent},
		{Char: 'q', FGRaw: cell.SetRGB(fg), BGRaw: cell.Transparent},
	}
	a := Print(cells, 2, 1, Config{Mode: cell.Truecolor, Optimizations: ReuseAttributes | RepeatChar})
	b := Print(cells, 2, 1, Config{Mode: cell.Truecolor, Optimizations: 0})

	if string(stripEscapes(a)) != "pq" {
		t.Fatalf("expected glyph sequence pq in reuse-optimized output, got %q", a)
	}
	if string(stripEscapes(b)) != "pq" {
		t.Fatalf("expected glyph sequence pq in unoptimized output, got %q", b)
	}
}

// scenario (e): INDEXED_16_8 same-pen cell resolves fg/bg exactly as
// the renderer computed them; the printer must not alter FGRaw/BGRaw
// for indexed modes, only interpret the transparent sentinel.
func TestPrintIndexed16x8PassesThroughIndices(t *testing.T) {
	c := cell.Cell{Char: '█', FGRaw: 12, BGRaw: 9}
	out := Print([]cell.Cell{c}, 1, 1, Config{Mode: cell.Indexed16x8, Optimizations: ReuseAttributes | RepeatChar})
	want := "\x1b[0m\x1b[38;5;12;48;5;9m\xe2\x96\x88\x1b[0m"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func terminfoReset() []byte { return []byte("\x1b[0m") }

// stripEscapes drops every CSI sequence (ESC '[' ... final byte) and
// returns the remaining glyph bytes.
func stripEscapes(b []byte) []byte {
	var out []byte
	for i := 0; i < len(b); i++ {
		if b[i] == 0x1b && i+1 < len(b) && b[i+1] == '[' {
			i += 2
			for i < len(b) && (b[i] < 0x40 || b[i] > 0x7e) {
				i++
			}
			continue
		}
		out = append(out, b[i])
	}
	return out
}
