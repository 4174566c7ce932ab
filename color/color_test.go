package color

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	c := RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}
	got := Unpack(Pack(c))
	if got != c {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, c)
	}
}

func TestDiffFastIgnoresAlpha(t *testing.T) {
	a := RGBA{R: 10, G: 10, B: 10, A: 0}
	b := RGBA{R: 10, G: 10, B: 10, A: 255}
	if d := DiffFast(a, b); d != 0 {
		t.Fatalf("expected 0 diff ignoring alpha, got %d", d)
	}
}

func TestDiffFastSumsSquares(t *testing.T) {
	a := RGBA{R: 0, G: 0, B: 0}
	b := RGBA{R: 3, G: 4, B: 0}
	if d := DiffFast(a, b); d != 25 {
		t.Fatalf("expected 25, got %d", d)
	}
}

func TestThresholdAlpha(t *testing.T) {
	below := ThresholdAlpha(RGBA{A: 10}, 128)
	if below.A != 0 {
		t.Fatalf("expected transparent, got %d", below.A)
	}
	above := ThresholdAlpha(RGBA{A: 200}, 128)
	if above.A != 255 {
		t.Fatalf("expected opaque, got %d", above.A)
	}
}

func TestAverage2(t *testing.T) {
	got := Average2(RGBA{R: 0, G: 0, B: 0, A: 0}, RGBA{R: 10, G: 20, B: 30, A: 40})
	want := RGBA{R: 5, G: 10, B: 15, A: 20}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestAccumulatorNoOverflow(t *testing.T) {
	var acc Accumulator
	for i := 0; i < 64; i++ {
		acc.Accumulate(RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	mean, ok := acc.DivideScalar()
	if !ok {
		t.Fatalf("expected ok")
	}
	if mean.R != 255 || mean.G != 255 || mean.B != 255 {
		t.Fatalf("expected all-white mean, got %+v", mean)
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	var acc Accumulator
	if _, ok := acc.DivideScalar(); ok {
		t.Fatalf("expected not-ok for empty accumulator")
	}
}

func TestDIN99dMonotoneWithLightness(t *testing.T) {
	black := RGBToDIN99d(RGBA{0, 0, 0, 255})
	white := RGBToDIN99d(RGBA{255, 255, 255, 255})
	if white.L <= black.L {
		t.Fatalf("expected white L*99 > black L*99, got white=%v black=%v", white.L, black.L)
	}
}

func TestDiffDIN99dZeroForIdentical(t *testing.T) {
	c := RGBToDIN99d(RGBA{128, 64, 200, 255})
	if d := DiffDIN99d(c, c); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}
