package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestFitLandscapeFillsWidth(t *testing.T) {
	p := Fit(200, 100, 80, 40, 1, 2)
	if p.Cols != 80 {
		t.Fatalf("expected landscape image to fill full width, got cols=%d", p.Cols)
	}
	if p.Rows < 1 || p.Rows > 40 {
		t.Fatalf("expected rows within area bounds, got %d", p.Rows)
	}
}

func TestFitPortraitFillsHeight(t *testing.T) {
	p := Fit(50, 200, 80, 40, 1, 2)
	if p.Rows != 40 {
		t.Fatalf("expected portrait image to fill full height, got rows=%d", p.Rows)
	}
}

func TestFitZeroSourceReturnsZeroPlacement(t *testing.T) {
	p := Fit(0, 0, 80, 40, 1, 2)
	if p.Cols != 0 || p.Rows != 0 {
		t.Fatalf("expected zero placement for empty source, got %+v", p)
	}
}

func TestScalerProducesRequestedDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.Black)
		}
	}
	s := NewScaler()
	var rowsSeen int
	out := s.Scale(src, 16, 8, func(row, width int, userData any) { rowsSeen++ }, nil)
	if len(out) != 16*8 {
		t.Fatalf("expected 128 pixels, got %d", len(out))
	}
	if rowsSeen != 8 {
		t.Fatalf("expected post-row callback once per output row (8), got %d", rowsSeen)
	}
}
