package symbol

import "fmt"

// brailleDotBit maps the low byte of a braille code point (bits 0-7, per
// Unicode's braille encoding) to one of the 8 dot positions in a 2x4 grid,
// each dot a 4x2-pixel block within the 8x8 bitmap.
var brailleDotBit = [8]struct{ row, col int }{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
	{1, 1}, {2, 1}, {3, 0}, {3, 1},
}

// GenerateBraille synthesizes the bitmap for a braille code point in
// 0x2800-0x28FF from the low byte's 8 dot bits, per spec.md §4.2.
func GenerateBraille(code rune) (Symbol, error) {
	if code < 0x2800 || code > 0x28FF {
		return Symbol{}, fmt.Errorf("symbol: %U is not a braille code point", code)
	}
	low := byte(code - 0x2800)
	var bm Bitmap
	for bit := 0; bit < 8; bit++ {
		if low&(1<<uint(bit)) == 0 {
			continue
		}
		pos := brailleDotBit[bit]
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 4; dx++ {
				row := pos.row*2 + dy
				col := pos.col*4 + dx
				bm = setBit(bm, row, col)
			}
		}
	}
	s := Symbol{Code: code, Bitmap: bm, Popcount: bm.Popcount()}
	s.FGWeight = s.Popcount
	s.BGWeight = 64 - s.Popcount
	applyAutoTags(&s)
	s.Tags |= TagBraille
	return s, nil
}

// GenerateSextant synthesizes the bitmap for a sextant code point in
// 0x1FB00-0x1FB3B. Bit i of (codepoint - 0x1FB00 + 1) controls one of six
// 4x2(-or-3) cells; the full-block and empty slots at bitmap values 0, 21,
// and 42 are skipped, matching the reference implementation's numbering.
func GenerateSextant(code rune) (Symbol, error) {
	if code < 0x1FB00 || code > 0x1FB3B {
		return Symbol{}, fmt.Errorf("symbol: %U is not a sextant code point", code)
	}
	n := int(code-0x1FB00) + 1
	if n == 0 || n == 21 || n == 42 {
		return Symbol{}, fmt.Errorf("symbol: %U is a reserved sextant slot", code)
	}

	// Six cells: (row,col) in a 3x2 grid, each cell 4 wide x a third of the
	// 8-row height tall (rows 0-2, 3-5, 6-7 to cover 8 rows across 3 bands).
	bands := [3][2]int{{0, 3}, {3, 3}, {6, 2}}
	var bm Bitmap
	bit := 0
	for band := 0; band < 3; band++ {
		startRow, height := bands[band][0], bands[band][1]
		for col := 0; col < 2; col++ {
			if n&(1<<uint(bit)) != 0 {
				for dy := 0; dy < height; dy++ {
					for dx := 0; dx < 4; dx++ {
						bm = setBit(bm, startRow+dy, col*4+dx)
					}
				}
			}
			bit++
		}
	}

	s := Symbol{Code: code, Bitmap: bm, Popcount: bm.Popcount()}
	s.FGWeight = s.Popcount
	s.BGWeight = 64 - s.Popcount
	applyAutoTags(&s)
	s.Tags |= TagSextant
	return s, nil
}

// NewFromBitmap builds a user-supplied Symbol directly from an already
// thresholded Bitmap (see SharpenAndThreshold). It carries TagExtra plus
// the caller's tags and the automatic tags of its code point, so tag
// selectors such as "alpha" or "ascii" can match it.
func NewFromBitmap(code rune, bm Bitmap, tags Tag) Symbol {
	pc := bm.Popcount()
	s := Symbol{
		Code:     code,
		Bitmap:   bm,
		Tags:     tags | TagExtra,
		Popcount: pc,
		FGWeight: pc,
		BGWeight: 64 - pc,
	}
	applyAutoTags(&s)
	return s
}

func setBit(bm Bitmap, row, col int) Bitmap {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return bm
	}
	idx := row*8 + col
	return bm | (1 << uint(63-idx))
}

// sharpenKernel is the 3x3 kernel used to sharpen user-supplied glyph
// rasters before thresholding, per spec.md §4.2.
var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 6, -1},
	{0, -1, 0},
}

// SharpenAndThreshold applies sharpenKernel to a width x height
// grayscale coverage grid with edge pixels clamped, then thresholds at
// >127 to produce a Bitmap. mask holds one byte per pixel in [0,255]: the
// alpha channel if the source had one, else the average of RGB.
func SharpenAndThreshold(mask []byte, width, height int) Bitmap {
	var bm Bitmap
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if x >= width {
			x = width - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		return int(mask[y*width+x])
	}

	// The output is always one 8x8 grid: a larger input is sampled at 8
	// evenly spaced rows and columns, so a 16x8 grid yields one narrow
	// bitmap, not a wide pair.
	outW, outH := 8, 8
	for oy := 0; oy < outH; oy++ {
		srcY := oy * height / outH
		for ox := 0; ox < outW; ox++ {
			srcX := ox * width / outW
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sum += sharpenKernel[ky+1][kx+1] * at(srcX+kx, srcY+ky)
				}
			}
			if sum < 0 {
				sum = 0
			}
			if sum > 255 {
				sum = 255
			}
			if sum > 127 {
				bm = setBit(bm, oy, ox)
			}
		}
	}
	return bm
}
