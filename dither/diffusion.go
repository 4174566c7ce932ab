package dither

import "chafago/color"

// errRow holds the pending per-channel error for one row, propagated from
// the previous row's processing.
type errRow struct {
	r, g, b []float64
}

func newErrRow(w int) errRow {
	return errRow{r: make([]float64, w), g: make([]float64, w), b: make([]float64, w)}
}

// Apply runs Floyd-Steinberg error diffusion over pixels (row-major,
// width x height), replacing each pixel with quantize's result and
// propagating the signed quantization error with the standard 7/1/5/3
// kernel scaled by d.Intensity. Scan direction alternates per row
// (serpentine): left-to-right on even rows, right-to-left on odd rows.
// At a transparent pixel (A==0) the error accumulator is zeroed before
// leaving that pixel, so color does not leak across alpha boundaries.
func (d *Dither) Apply(pixels []color.RGBA, width, height int, quantize func(color.RGBA) color.RGBA) {
	if d.Mode != Diffusion || width <= 0 || height <= 0 {
		return
	}

	cur := newErrRow(width)
	next := newErrRow(width)

	for y := 0; y < height; y++ {
		forward := y%2 == 0
		xs := scanOrder(width, forward)
		for _, x := range xs {
			idx := y*width + x
			p := pixels[idx]

			if p.A == 0 {
				cur.r[x], cur.g[x], cur.b[x] = 0, 0, 0
				continue
			}

			adjusted := color.RGBA{
				R: clampChannel(int(p.R) + int(cur.r[x])),
				G: clampChannel(int(p.G) + int(cur.g[x])),
				B: clampChannel(int(p.B) + int(cur.b[x])),
				A: p.A,
			}
			out := quantize(adjusted)
			pixels[idx] = out

			er := (float64(adjusted.R) - float64(out.R)) * d.Intensity
			eg := (float64(adjusted.G) - float64(out.G)) * d.Intensity
			eb := (float64(adjusted.B) - float64(out.B)) * d.Intensity

			diffuse(&cur, &next, x, width, forward, er, eg, eb)
		}
		cur, next = next, newErrRow(width)
	}
}

func scanOrder(width int, forward bool) []int {
	xs := make([]int, width)
	if forward {
		for i := range xs {
			xs[i] = i
		}
	} else {
		for i := range xs {
			xs[i] = width - 1 - i
		}
	}
	return xs
}

// diffuse propagates the standard FS kernel: 7/16 to the next pixel in
// scan direction (same row), 3/16 to below-behind, 5/16 to directly
// below, 1/16 to below-ahead. "Ahead"/"behind" mirror for the reversed
// scan direction so the kernel's shape is preserved relative to travel.
func diffuse(cur, next *errRow, x, width int, forward bool, er, eg, eb float64) {
	ahead := x + 1
	behind := x - 1
	if !forward {
		ahead = x - 1
		behind = x + 1
	}

	if ahead >= 0 && ahead < width {
		cur.r[ahead] += er * 7.0 / 16.0
		cur.g[ahead] += eg * 7.0 / 16.0
		cur.b[ahead] += eb * 7.0 / 16.0
	}
	if behind >= 0 && behind < width {
		next.r[behind] += er * 3.0 / 16.0
		next.g[behind] += eg * 3.0 / 16.0
		next.b[behind] += eb * 3.0 / 16.0
	}
	next.r[x] += er * 5.0 / 16.0
	next.g[x] += eg * 5.0 / 16.0
	next.b[x] += eb * 5.0 / 16.0
	if ahead >= 0 && ahead < width {
		next.r[ahead] += er * 1.0 / 16.0
		next.g[ahead] += eg * 1.0 / 16.0
		next.b[ahead] += eb * 1.0 / 16.0
	}
}
