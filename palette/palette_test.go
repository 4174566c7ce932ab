package palette

import (
	"image"
	"image/color"
	"testing"

	chcolor "chafago/color"
)

func TestLookupNearestPrefersLowerIndexOnTie(t *testing.T) {
	p := New(Fixed8)
	// Overwrite two entries with the identical color so a tie is forced.
	p.SetColor(3, chcolor.RGBA{R: 10, G: 10, B: 10, A: 255})
	p.SetColor(5, chcolor.RGBA{R: 10, G: 10, B: 10, A: 255})
	l := p.LookupNearest(RGB, chcolor.RGBA{R: 10, G: 10, B: 10, A: 255})
	if l.Index0 != 3 {
		t.Fatalf("expected tie-break to lower index 3, got %d", l.Index0)
	}
}

func TestLookupNearestReturnsSecondCandidate(t *testing.T) {
	p := New(Fixed16)
	l := p.LookupNearest(RGB, chcolor.RGBA{R: 128, G: 128, B: 128, A: 255})
	if !l.Found1 {
		t.Fatalf("expected a second candidate from a 16-entry palette")
	}
	if l.Index0 == l.Index1 {
		t.Fatalf("primary and secondary candidates should differ")
	}
}

func TestLookupWithErrorAccumulates(t *testing.T) {
	p := New(Fixed8)
	p.SetColor(0, chcolor.RGBA{R: 0, G: 0, B: 0, A: 255})
	var errAcc [3]int32
	p.LookupWithError(RGB, chcolor.RGBA{R: 10, G: 0, B: 0, A: 255}, &errAcc)
	if errAcc[0] != 10 {
		t.Fatalf("expected accumulated R error of 10, got %d", errAcc[0])
	}
}

func TestSetColorFGBGPens(t *testing.T) {
	p := New(FixedFGBG)
	p.SetColor(PenFG, chcolor.RGBA{R: 255, G: 255, B: 255, A: 255})
	p.SetColor(PenBG, chcolor.RGBA{R: 0, G: 0, B: 0, A: 255})
	fg, ok := p.Color(PenFG)
	if !ok || fg.R != 255 {
		t.Fatalf("expected FG pen white, got %+v ok=%v", fg, ok)
	}
}

func TestGenerateDynamicReservesBudget(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	p := New(Dynamic256)
	p.GenerateDynamic(img)
	if p.Len() == 0 {
		t.Fatalf("expected a non-empty generated palette")
	}
	if p.Len() > 255 {
		t.Fatalf("expected at most 255 entries (one reserved for TRANSPARENT), got %d", p.Len())
	}
}

func TestXterm256Has256Entries(t *testing.T) {
	if got := len(xterm256()); got != 256 {
		t.Fatalf("expected 256 entries, got %d", got)
	}
}

func TestXterm240DropsFirst16(t *testing.T) {
	if got := len(xterm240()); got != 240 {
		t.Fatalf("expected 240 entries, got %d", got)
	}
}
