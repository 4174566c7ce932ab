package workcell

import (
	"sort"

	"chafago/color"
)

// KMeansPair runs standard 2-means on the cell's pixels (or, for a wide
// cell, the caller concatenates two WorkCells' Pixels before calling
// KMeansOn), seeded by splitting sorted order along the dominant
// channel. Capped at 1024 iterations or until no reassignments. An
// empty cluster is repaired by duplicating the other cluster's
// centroid (spec.md §4.6).
func (wc *WorkCell) KMeansPair() ColorPair {
	return KMeansOn(wc.Pixels[:])
}

// KMeansOn runs 2-means over an arbitrary pixel slice (64 for a narrow
// cell, 128 for a wide one).
func KMeansOn(pixels []color.RGBA) ColorPair {
	if len(pixels) == 0 {
		return ColorPair{}
	}

	ch, _ := dominantChannelOf(pixels)
	idx := sortedIndicesOf(pixels, ch)
	mid := len(idx) / 2

	c0 := meanOfIndices(pixels, idx[:mid])
	c1 := meanOfIndices(pixels, idx[mid:])

	assign := make([]int, len(pixels))
	for iter := 0; iter < 1024; iter++ {
		changed := false
		var acc0, acc1 color.Accumulator
		for i, p := range pixels {
			d0 := color.DiffFast(p, c0)
			d1 := color.DiffFast(p, c1)
			cluster := 0
			if d1 < d0 {
				cluster = 1
			}
			if assign[i] != cluster {
				changed = true
				assign[i] = cluster
			}
			if cluster == 0 {
				acc0.Accumulate(p)
			} else {
				acc1.Accumulate(p)
			}
		}

		newC0, ok0 := acc0.DivideScalar()
		newC1, ok1 := acc1.DivideScalar()
		switch {
		case !ok0 && !ok1:
			// Can't happen: len(pixels) > 0 guarantees at least one
			// non-empty cluster.
		case !ok0:
			newC0 = newC1
		case !ok1:
			newC1 = newC0
		}

		if !changed && iter > 0 {
			c0, c1 = newC0, newC1
			break
		}
		c0, c1 = newC0, newC1
	}

	return ColorPair{FG: c0, BG: c1}
}

func dominantChannelOf(pixels []color.RGBA) (int, int) {
	best, bestRange := 0, -1
	for ch := 0; ch < 3; ch++ {
		lo, hi := 255, 0
		for _, p := range pixels {
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

func sortedIndicesOf(pixels []color.RGBA, ch int) []int {
	idx := make([]int, len(pixels))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return channelOf(pixels[idx[a]], ch) < channelOf(pixels[idx[b]], ch)
	})
	return idx
}

func meanOfIndices(pixels []color.RGBA, indices []int) color.RGBA {
	var acc color.Accumulator
	for _, i := range indices {
		acc.Accumulate(pixels[i])
	}
	m, ok := acc.DivideScalar()
	if !ok {
		return color.RGBA{A: 255}
	}
	return m
}
