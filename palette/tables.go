package palette

import "chafago/color"

// ansi8/ansi16 are the standard ANSI terminal colors.
var ansi8 = []color.RGBA{
	{0, 0, 0, 255}, {170, 0, 0, 255}, {0, 170, 0, 255}, {170, 85, 0, 255},
	{0, 0, 170, 255}, {170, 0, 170, 255}, {0, 170, 170, 255}, {170, 170, 170, 255},
}

var ansi16 = append(append([]color.RGBA{}, ansi8...), []color.RGBA{
	{85, 85, 85, 255}, {255, 85, 85, 255}, {85, 255, 85, 255}, {255, 255, 85, 255},
	{85, 85, 255, 255}, {255, 85, 255, 255}, {85, 255, 255, 255}, {255, 255, 255, 255},
}...)

// xterm256 builds the full 256-color xterm palette: 16 ANSI colors, a
// 6x6x6 color cube, and a 24-step grayscale ramp.
func xterm256() []color.RGBA {
	out := make([]color.RGBA, 0, 256)
	out = append(out, ansi16...)

	steps := []uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				out = append(out, color.RGBA{R: steps[r], G: steps[g], B: steps[b], A: 255})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		out = append(out, color.RGBA{R: v, G: v, B: v, A: 255})
	}
	return out
}

// xterm240 is xterm256 with the first 16 ANSI entries dropped, matching
// terminals that expose only the cube+ramp as indexable (INDEXED_240).
func xterm240() []color.RGBA {
	full := xterm256()
	return append([]color.RGBA{}, full[16:]...)
}
