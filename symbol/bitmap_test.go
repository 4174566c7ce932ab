package symbol

import "testing"

func TestPopcountFullBlock(t *testing.T) {
	full := Bitmap(^uint64(0))
	if full.Popcount() != 64 {
		t.Fatalf("expected 64, got %d", full.Popcount())
	}
}

func TestHammingSelf(t *testing.T) {
	b := Bitmap(0x0F0F0F0F0F0F0F0F)
	if b.Hamming(b) != 0 {
		t.Fatalf("expected 0 distance to self")
	}
}

func TestInverse(t *testing.T) {
	b := Bitmap(0)
	if b.Inverse().Popcount() != 64 {
		t.Fatalf("expected full inverse of empty bitmap")
	}
}

func TestCoverageMatchesPopcount(t *testing.T) {
	b := Bitmap(0x00000000FFFFFFFF)
	cov := b.Coverage()
	n := 0
	for _, v := range cov {
		n += int(v)
	}
	if n != b.Popcount() {
		t.Fatalf("coverage sum %d != popcount %d", n, b.Popcount())
	}
}

func TestBuiltinsSpaceAndSolid(t *testing.T) {
	syms := Builtins()
	var foundSpace, foundSolid bool
	for _, s := range syms {
		if s.Code == 0x20 && s.Tags&TagSpace != 0 && s.Popcount == 0 {
			foundSpace = true
		}
		if s.Code == 0x2588 && s.Tags&TagSolid != 0 && s.Popcount == 64 {
			foundSolid = true
		}
	}
	if !foundSpace {
		t.Fatalf("expected builtin space symbol with popcount 0")
	}
	if !foundSolid {
		t.Fatalf("expected builtin solid symbol with popcount 64")
	}
}

func TestBuiltinsNoAmbiguousOnSpace(t *testing.T) {
	for _, s := range Builtins() {
		if s.Code == 0x20 && s.Tags&TagAmbiguous != 0 {
			t.Fatalf("space should not carry AMBIGUOUS")
		}
	}
}

func TestGenerateBrailleAllDotsFull(t *testing.T) {
	s, err := GenerateBraille(0x28FF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Popcount == 0 {
		t.Fatalf("expected non-zero popcount for full braille cell")
	}
}

func TestGenerateBrailleRejectsOutOfRange(t *testing.T) {
	if _, err := GenerateBraille(0x1000); err == nil {
		t.Fatalf("expected error for non-braille code point")
	}
}

func TestGenerateSextantSkipsReservedSlots(t *testing.T) {
	for _, code := range []rune{0x1FB00 + 20, 0x1FB00 + 41} {
		if _, err := GenerateSextant(code); err == nil {
			t.Fatalf("expected error for reserved sextant slot %U", code)
		}
	}
}

func TestGenerateSextantValidSlot(t *testing.T) {
	s, err := GenerateSextant(0x1FB01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Tags&TagSextant == 0 {
		t.Fatalf("expected TagSextant set")
	}
}

func TestSharpenAndThresholdAllWhite(t *testing.T) {
	mask := make([]byte, 8*8)
	for i := range mask {
		mask[i] = 255
	}
	bm := SharpenAndThreshold(mask, 8, 8)
	if bm.Popcount() == 0 {
		t.Fatalf("expected non-zero popcount for all-white input")
	}
}

func TestSharpenAndThresholdAllBlack(t *testing.T) {
	mask := make([]byte, 8*8)
	bm := SharpenAndThreshold(mask, 8, 8)
	if bm.Popcount() != 0 {
		t.Fatalf("expected zero popcount for all-black input, got %d", bm.Popcount())
	}
}
