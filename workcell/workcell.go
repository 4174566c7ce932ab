// Package workcell implements the per-cell pixel buffer and the color
// extraction strategies (mean, median, contrasting pair, k-means pair)
// that feed the symbol renderer's candidate search.
package workcell

import (
	"sort"

	"chafago/color"
	"chafago/symbol"
)

// WorkCell holds the 64 pixels of one narrow cell (or 128 for a wide
// cell, addressed by the caller as two adjacent WorkCells). The
// sortedR/G/B/A fields are not filled in: sortedIndices builds a fresh
// channel ordering on every call.
type WorkCell struct {
	Pixels [64]color.RGBA

	sortedR, sortedG, sortedB, sortedA []int
}

// New builds a WorkCell from a flat row-major pixel buffer, reading an
// 8x8 block whose top-left corner is (x0,y0).
func New(buf []color.RGBA, stride, x0, y0 int) WorkCell {
	var wc WorkCell
	i := 0
	for dy := 0; dy < 8; dy++ {
		row := (y0 + dy) * stride
		for dx := 0; dx < 8; dx++ {
			wc.Pixels[i] = buf[row+x0+dx]
			i++
		}
	}
	return wc
}

// ColorPair is the FG/BG endpoint pair a glyph or fill is scored
// against.
type ColorPair struct {
	FG, BG color.RGBA
}

// channelOf extracts one channel as a sortable key.
func channelOf(c color.RGBA, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

func (wc *WorkCell) sortedIndices(ch int) []int {
	idx := make([]int, len(wc.Pixels))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return channelOf(wc.Pixels[idx[a]], ch) < channelOf(wc.Pixels[idx[b]], ch)
	})
	return idx
}

// dominantChannel returns the channel index (0=R,1=G,2=B) with the
// greatest value range across the cell, and that range.
func (wc *WorkCell) dominantChannel() (int, int) {
	best, bestRange := 0, -1
	for ch := 0; ch < 3; ch++ {
		lo, hi := 255, 0
		for _, p := range wc.Pixels {
			v := int(channelOf(p, ch))
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo > bestRange {
			bestRange = hi - lo
			best = ch
		}
	}
	return best, bestRange
}

// ContrastingPair is the fast-path extraction (no glyph yet): the
// dominant channel's two extreme pixels become FG/BG.
func (wc *WorkCell) ContrastingPair() ColorPair {
	ch, _ := wc.dominantChannel()
	idx := wc.sortedIndices(ch)
	return ColorPair{FG: wc.Pixels[idx[len(idx)-1]], BG: wc.Pixels[idx[0]]}
}

// MeanForSymbol accumulates pixels under bm's '1' coverage into FG and
// '0' coverage into BG. If either class is empty its mean is undefined
// and set to the other class's mean (spec.md §4.6).
func (wc *WorkCell) MeanForSymbol(bm symbol.Bitmap) ColorPair {
	cov := bm.Coverage()
	var fgAcc, bgAcc color.Accumulator
	for i, p := range wc.Pixels {
		if cov[i] == 1 {
			fgAcc.Accumulate(p)
		} else {
			bgAcc.Accumulate(p)
		}
	}
	fg, fgOK := fgAcc.DivideScalar()
	bg, bgOK := bgAcc.DivideScalar()
	switch {
	case fgOK && bgOK:
		return ColorPair{FG: fg, BG: bg}
	case fgOK:
		return ColorPair{FG: fg, BG: fg}
	case bgOK:
		return ColorPair{FG: bg, BG: bg}
	default:
		return ColorPair{}
	}
}

// MedianForSymbol finds, within each class (FG/BG defined by bm's
// coverage), the channel with greatest range and picks the
// median-valued pixel in that class on that channel. If all pixels
// fall in one class, both outputs equal that class's median.
func (wc *WorkCell) MedianForSymbol(bm symbol.Bitmap) ColorPair {
	cov := bm.Coverage()
	var fgIdx, bgIdx []int
	for i, c := range cov {
		if c == 1 {
			fgIdx = append(fgIdx, i)
		} else {
			bgIdx = append(bgIdx, i)
		}
	}
	if len(fgIdx) == 0 {
		m := wc.classMedian(bgIdx)
		return ColorPair{FG: m, BG: m}
	}
	if len(bgIdx) == 0 {
		m := wc.classMedian(fgIdx)
		return ColorPair{FG: m, BG: m}
	}
	return ColorPair{FG: wc.classMedian(fgIdx), BG: wc.classMedian(bgIdx)}
}

// classMedian picks the channel with the greatest range among the
// pixels at indices, then returns the pixel whose value on that
// channel is the median.
func (wc *WorkCell) classMedian(indices []int) color.RGBA {
	bestCh, bestRange := 0, -1
	for ch := 0; ch < 3; ch++ {
		lo, hi := 255, 0
		for _, i := range indices {
			v := int(channelOf(wc.Pixels[i], ch))
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo > bestRange {
			bestRange = hi - lo
			bestCh = ch
		}
	}
	sorted := append([]int(nil), indices...)
	sort.Slice(sorted, func(a, b int) bool {
		return channelOf(wc.Pixels[sorted[a]], bestCh) < channelOf(wc.Pixels[sorted[b]], bestCh)
	})
	return wc.Pixels[sorted[len(sorted)/2]]
}

// ToBitmap converts the cell to a target 64-bit bitmap against pair:
// bit 1 iff the pixel is closer to FG than BG.
func (wc *WorkCell) ToBitmap(pair ColorPair) symbol.Bitmap {
	var bm symbol.Bitmap
	for i, p := range wc.Pixels {
		if color.DiffFast(p, pair.FG) < color.DiffFast(p, pair.BG) {
			bm |= 1 << uint(63-i)
		}
	}
	return bm
}

// CellError is the sum of diff_fast between each pixel and its
// assigned endpoint of pair under bm's coverage (spec.md §4.7 step 4).
func (wc *WorkCell) CellError(bm symbol.Bitmap, pair ColorPair) int {
	cov := bm.Coverage()
	total := 0
	for i, p := range wc.Pixels {
		if cov[i] == 1 {
			total += color.DiffFast(p, pair.FG)
		} else {
			total += color.DiffFast(p, pair.BG)
		}
	}
	return total
}

// MeanIntensity is the mean luminance of the cell's pixels in [0,255].
func (wc *WorkCell) MeanIntensity() int {
	var acc color.Accumulator
	for _, p := range wc.Pixels {
		acc.Accumulate(p)
	}
	m, ok := acc.DivideScalar()
	if !ok {
		return 0
	}
	return int(m.R)*299/1000 + int(m.G)*587/1000 + int(m.B)*114/1000
}

// MeanColor is the unweighted mean of all 64 pixels.
func (wc *WorkCell) MeanColor() color.RGBA {
	var acc color.Accumulator
	for _, p := range wc.Pixels {
		acc.Accumulate(p)
	}
	m, ok := acc.DivideScalar()
	if !ok {
		return color.RGBA{A: 255}
	}
	return m
}
