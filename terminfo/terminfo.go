// Package terminfo is the escape-sequence table the printer sources
// its bytes from: one entry per enumerated sequence kind, each with a
// conservative length bound in MaxLen. The sequences themselves are the standard ECMA-48/xterm SGR
// set; this package does not consult an external terminfo database.
package terminfo

import "fmt"

// Seq enumerates every escape-sequence kind the printer may emit.
type Seq int

const (
	ResetAttributes Seq = iota
	InvertColors
	SetColorFGDirect
	SetColorBGDirect
	SetColorFGBGDirect
	SetColorFGIndexed
	SetColorBGIndexed
	SetColorFGBGIndexed
	RepeatChar
	BeginSixels
	EndSixels
)

// MaxLen is a conservative byte-length upper bound per sequence kind.
// The printer does not consult it; its output buffer grows on demand.
var MaxLen = map[Seq]int{
	ResetAttributes:     4,  // ESC [ 0 m
	InvertColors:        4,  // ESC [ 7 m
	SetColorFGDirect:    19, // ESC [ 3 8 ; 2 ; 255 ; 255 ; 255 m
	SetColorBGDirect:    19, // ESC [ 4 8 ; 2 ; 255 ; 255 ; 255 m
	SetColorFGBGDirect:  38,
	SetColorFGIndexed:   11, // ESC [ 3 8 ; 5 ; 255 m
	SetColorBGIndexed:   11,
	SetColorFGBGIndexed: 22,
	RepeatChar:          10, // ESC [ 999 b (glyph bytes counted separately)
	BeginSixels:         16,
	EndSixels:           2,
}

// ResetAttributesSeq is "ESC [ 0 m".
func ResetAttributesSeq() []byte { return []byte("\x1b[0m") }

// InvertColorsSeq is "ESC [ 7 m".
func InvertColorsSeq() []byte { return []byte("\x1b[7m") }

// SetColorFGDirectSeq sets the foreground to an RGB truecolor value.
func SetColorFGDirectSeq(r, g, b uint8) []byte {
	return []byte(fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b))
}

// SetColorBGDirectSeq sets the background to an RGB truecolor value.
func SetColorBGDirectSeq(r, g, b uint8) []byte {
	return []byte(fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b))
}

// SetColorFGBGDirectSeq sets both foreground and background truecolor
// values in one SGR sequence.
func SetColorFGBGDirectSeq(fgR, fgG, fgB, bgR, bgG, bgB uint8) []byte {
	return []byte(fmt.Sprintf("\x1b[38;2;%d;%d;%d;48;2;%d;%d;%dm", fgR, fgG, fgB, bgR, bgG, bgB))
}

// SetColorFGIndexedSeq sets the foreground to a 256-color (or 8/16/240
// subset) palette index.
func SetColorFGIndexedSeq(idx int) []byte {
	return []byte(fmt.Sprintf("\x1b[38;5;%dm", idx))
}

// SetColorBGIndexedSeq sets the background to a palette index.
func SetColorBGIndexedSeq(idx int) []byte {
	return []byte(fmt.Sprintf("\x1b[48;5;%dm", idx))
}

// SetColorFGBGIndexedSeq sets both foreground and background palette
// indices in one SGR sequence.
func SetColorFGBGIndexedSeq(fgIdx, bgIdx int) []byte {
	return []byte(fmt.Sprintf("\x1b[38;5;%d;48;5;%dm", fgIdx, bgIdx))
}

// RepeatCharSeq is "ESC [ <n-1> b", repeating the last emitted
// character n-1 additional times (ECMA-48 REP).
func RepeatCharSeq(n int) []byte {
	return []byte(fmt.Sprintf("\x1b[%db", n-1))
}

// BeginSixelsSeq / EndSixelsSeq bracket a Sixel DCS payload; the
// pixel-mode backends in package imaging emit the payload itself.
func BeginSixelsSeq() []byte { return []byte("\x1bP0;1;8q") }
func EndSixelsSeq() []byte   { return []byte("\x1b\\") }
