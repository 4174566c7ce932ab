package workcell

import (
	"testing"

	"chafago/color"
	"chafago/symbol"
)

func solidBuf(w, h int, c color.RGBA) []color.RGBA {
	buf := make([]color.RGBA, w*h)
	for i := range buf {
		buf[i] = c
	}
	return buf
}

func TestNewExtractsAnEightByEightBlock(t *testing.T) {
	buf := make([]color.RGBA, 16*16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			buf[y*16+x] = color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255}
		}
	}
	wc := New(buf, 16, 8, 8)
	if wc.Pixels[0].R != 8 || wc.Pixels[0].G != 8 {
		t.Fatalf("expected top-left pixel (8,8), got %+v", wc.Pixels[0])
	}
}

func TestMeanForSymbolFallsBackWhenOneClassEmpty(t *testing.T) {
	buf := solidBuf(8, 8, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	wc := New(buf, 8, 0, 0)
	pair := wc.MeanForSymbol(symbol.Bitmap(0)) // all-zero bitmap: everything is BG
	if pair.FG != pair.BG {
		t.Fatalf("expected FG to fall back to BG's mean, got %+v", pair)
	}
}

func TestContrastingPairPicksExtremes(t *testing.T) {
	buf := make([]color.RGBA, 64)
	for i := range buf {
		buf[i] = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	buf[0] = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	buf[63] = color.RGBA{R: 255, G: 128, B: 128, A: 255}
	wc := New(buf, 8, 0, 0)
	pair := wc.ContrastingPair()
	if pair.FG.R != 255 || pair.BG.R != 0 {
		t.Fatalf("expected extremes 255/0 on dominant R channel, got %+v", pair)
	}
}

func TestToBitmapMatchesCloserEndpoint(t *testing.T) {
	buf := solidBuf(8, 8, color.RGBA{A: 255})
	buf[0] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	wc := New(buf, 8, 0, 0)
	pair := ColorPair{FG: color.RGBA{R: 255, G: 255, B: 255, A: 255}, BG: color.RGBA{A: 255}}
	bm := wc.ToBitmap(pair)
	if bm.Popcount() != 1 {
		t.Fatalf("expected exactly one FG-matching pixel, got popcount %d", bm.Popcount())
	}
}

func TestKMeansPairSeparatesTwoClusters(t *testing.T) {
	buf := make([]color.RGBA, 64)
	for i := range buf {
		if i < 32 {
			buf[i] = color.RGBA{R: 10, G: 10, B: 10, A: 255}
		} else {
			buf[i] = color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
	}
	wc := New(buf, 8, 0, 0)
	pair := wc.KMeansPair()
	lo, hi := pair.FG, pair.BG
	if lo.R > hi.R {
		lo, hi = hi, lo
	}
	if lo.R > 20 || hi.R < 230 {
		t.Fatalf("expected clusters near 10 and 240, got %+v", pair)
	}
}

func TestKMeansOnHandlesEmptyClusterByDuplication(t *testing.T) {
	pixels := make([]color.RGBA, 64)
	for i := range pixels {
		pixels[i] = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	}
	pair := KMeansOn(pixels)
	if pair.FG != pair.BG {
		t.Fatalf("expected a uniform cell to collapse both centroids to the same color, got %+v", pair)
	}
}

func TestMedianForSymbolSingleClass(t *testing.T) {
	buf := make([]color.RGBA, 64)
	for i := range buf {
		buf[i] = color.RGBA{R: uint8(i * 4), G: 0, B: 0, A: 255}
	}
	wc := New(buf, 8, 0, 0)
	pair := wc.MedianForSymbol(symbol.Bitmap(0))
	if pair.FG != pair.BG {
		t.Fatalf("expected single-class median to produce equal FG/BG, got %+v", pair)
	}
}

func TestCellErrorZeroForExactMatch(t *testing.T) {
	buf := solidBuf(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	wc := New(buf, 8, 0, 0)
	pair := ColorPair{FG: color.RGBA{R: 10, G: 20, B: 30, A: 255}, BG: color.RGBA{R: 10, G: 20, B: 30, A: 255}}
	if got := wc.CellError(symbol.Bitmap(0), pair); got != 0 {
		t.Fatalf("expected zero error for an exact match, got %d", got)
	}
}

func TestMeanIntensityOfBlackAndWhite(t *testing.T) {
	buf := make([]color.RGBA, 64)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = color.RGBA{A: 255}
		} else {
			buf[i] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
	}
	wc := New(buf, 8, 0, 0)
	got := wc.MeanIntensity()
	if got < 100 || got > 155 {
		t.Fatalf("expected mid-range intensity for a 50%% checkerboard, got %d", got)
	}
}
