// Package color implements the packed/unpacked RGBA representation and the
// difference metrics used throughout the renderer's hot loops.
package color

import "math"

// RGBA is four 8-bit channels. Alpha is opacity: 0 transparent, 255 opaque.
type RGBA struct {
	R, G, B, A uint8
}

// Transparent is the zero-alpha sentinel used by cells and the printer to
// mean "no color set".
var Transparent = RGBA{}

// Pack returns the 32-bit word for c, byte order R,G,B,A from MSB to LSB.
func Pack(c RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Unpack is the inverse of Pack.
func Unpack(u uint32) RGBA {
	return RGBA{
		R: uint8(u >> 24),
		G: uint8(u >> 16),
		B: uint8(u >> 8),
		A: uint8(u),
	}
}

// DiffFast is the sum of squared per-channel differences over R, G, B.
// Alpha is ignored. Branch-free; used in inner loops.
func DiffFast(a, b RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// ThresholdAlpha clears a's alpha to 0 if it is below t, else forces it
// fully opaque. t is in [0,256]; t==256 means "always transparent".
func ThresholdAlpha(c RGBA, t int) RGBA {
	if int(c.A) < t {
		c.A = 0
	} else {
		c.A = 255
	}
	return c
}

// Average2 is the per-channel unweighted average of a and b.
func Average2(a, b RGBA) RGBA {
	return RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: uint8((int(a.A) + int(b.A)) / 2),
	}
}

// Accumulator sums RGB channels across up to 64 pixels. 64*255 < 2^15 so a
// 16-bit accumulator cannot overflow (see DivideScalar).
type Accumulator struct {
	R, G, B int32
	N       int32
}

// Accumulate adds c into the accumulator.
func (a *Accumulator) Accumulate(c RGBA) {
	a.R += int32(c.R)
	a.G += int32(c.G)
	a.B += int32(c.B)
	a.N++
}

// DivideScalar returns the mean color, or the zero value with ok=false if
// no pixels were accumulated (caller must supply a fallback per §4.6).
func (a Accumulator) DivideScalar() (RGBA, bool) {
	if a.N == 0 {
		return RGBA{}, false
	}
	return RGBA{
		R: uint8(a.R / a.N),
		G: uint8(a.G / a.N),
		B: uint8(a.B / a.N),
		A: 255,
	}, true
}

// din99d coefficients, taken from chafa's DIN99d transform (original_source
// chafa-canvas.c). ke/kch are the standard DIN99d tuning constants.
const (
	din99dKE  = 1.0
	din99dKCH = 1.0
	din99dC1  = 105.509
	din99dC2  = 0.0158
	din99dC3  = 16.0
	din99dC4  = 0.7
	din99dC5  = 2.0
	din99dC6  = 0.045
)

// DIN99d is the perceptual color-space representation used for nearest-
// color lookup in indexed modes as an alternative to plain RGB distance.
type DIN99d struct {
	L, A, B float64
}

func srgbToLinear(v float64) float64 {
	v /= 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// RGBToDIN99d converts c to CIE L*a*b* and then to DIN99d space. The
// constants mirror the reference implementation's one-time transform
// (see SPEC_FULL.md "Supplemented features").
func RGBToDIN99d(c RGBA) DIN99d {
	r := srgbToLinear(float64(c.R))
	g := srgbToLinear(float64(c.G))
	b := srgbToLinear(float64(c.B))

	// sRGB -> XYZ (D65)
	x := r*0.4124564 + g*0.3575761 + b*0.1804375
	y := r*0.2126729 + g*0.7151522 + b*0.0721750
	z := r*0.0193339 + g*0.1191920 + b*0.9503041

	const xn, yn, zn = 0.95047, 1.0, 1.08883
	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)

	l := 116*fy - 16
	a := 500 * (fx - fy)
	bb := 200 * (fy - fz)

	// L*a*b* -> DIN99d
	l99 := din99dC1 / din99dKE * math.Log(1+din99dC2*l)
	adash := a*math.Cos(din99dC4) + bb*math.Sin(din99dC4)
	bdash := din99dC5 * (bb*math.Cos(din99dC4) - a*math.Sin(din99dC4))
	eBase := math.Sqrt(adash*adash + bdash*bdash)
	g99 := math.Log(1+din99dC6*eBase) / (din99dC6 * din99dKCH)
	var a99, b99 float64
	if eBase > 1e-9 {
		a99 = g99 * adash / eBase
		b99 = g99 * bdash / eBase
	}

	return DIN99d{L: l99, A: a99 + din99dC3, B: b99}
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// DiffDIN99d is the squared Euclidean distance in DIN99d space.
func DiffDIN99d(a, b DIN99d) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return dl*dl + da*da + db*db
}
