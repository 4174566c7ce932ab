package symbolmap

import (
	"testing"

	"chafago/symbol"
)

func TestApplySelectorsBlockBorderMinusDot(t *testing.T) {
	m := New()
	if err := m.ApplySelectors("block,border-dot"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range m.Symbols() {
		if s.Tags&symbol.TagDot != 0 {
			t.Fatalf("dot-tagged symbol %U should have been excluded", s.Code)
		}
		if s.Tags&symbol.TagUgly != 0 || s.Tags&symbol.TagAmbiguous != 0 {
			t.Fatalf("BAD-tagged symbol %U should not appear without explicit opt-in", s.Code)
		}
		if s.Tags&(symbol.TagBlock|symbol.TagBorder) == 0 {
			t.Fatalf("symbol %U lacks BLOCK or BORDER tag", s.Code)
		}
	}
}

func TestApplySelectorsParseErrorLeavesMapUnchanged(t *testing.T) {
	m := New()
	m.AddByTags(symbol.TagSpace)
	before := m.Len()
	if err := m.ApplySelectors("not-a-real-tag"); err == nil {
		t.Fatalf("expected parse error")
	}
	if got := m.Len(); got != before {
		t.Fatalf("map mutated after parse error: before=%d after=%d", before, got)
	}
}

func TestSelectorMonotonicityAdd(t *testing.T) {
	m := New()
	m.AddByTags(symbol.TagSpace | symbol.TagSolid)
	m.Prepare()
	before := m.Len()
	m.AddByTags(symbol.TagSpace)
	m.Prepare()
	if m.Len() != before {
		t.Fatalf("re-adding already-present tags changed set size: %d -> %d", before, m.Len())
	}
}

func TestSelectorMonotonicityRemove(t *testing.T) {
	m := New()
	m.AddByTags(symbol.TagSpace)
	m.Prepare()
	before := m.Len()
	m.RemoveByTags(symbol.TagSolid) // not present
	m.Prepare()
	if m.Len() != before {
		t.Fatalf("removing absent tag changed set size: %d -> %d", before, m.Len())
	}
}

func TestPrepareIdempotent(t *testing.T) {
	m := New()
	m.AddByTags(symbol.TagASCII)
	m.Prepare()
	first := append([]symbol.Symbol{}, m.Symbols()...)
	m.Prepare()
	second := m.Symbols()
	if len(first) != len(second) {
		t.Fatalf("prepare changed list size across idempotent calls")
	}
	for i := range first {
		if first[i].Code != second[i].Code {
			t.Fatalf("prepare reordered list across idempotent calls at %d", i)
		}
	}
}

func TestOrderingInvariant(t *testing.T) {
	m := New()
	m.AddByTags(symbol.AllTags)
	syms := m.Symbols()
	for i := 1; i < len(syms); i++ {
		if syms[i].Popcount < syms[i-1].Popcount {
			t.Fatalf("symbols not sorted ascending by popcount at %d", i)
		}
	}
}

func TestFindCandidatesHammingBound(t *testing.T) {
	m := New()
	m.AddByTags(symbol.AllTags)
	target := symbol.Bitmap(0xFF00FF00FF00FF00)
	cands := m.FindCandidates(target, true, 8)
	for i := 1; i < len(cands); i++ {
		if cands[i].Hamming < cands[i-1].Hamming {
			t.Fatalf("candidates not ascending by hamming distance")
		}
	}
	syms := m.Symbols()
	for _, c := range cands {
		want := syms[c.Index].Bitmap.Hamming(target)
		if c.IsInverted {
			want = 64 - want
		}
		if want != c.Hamming {
			t.Fatalf("candidate hamming mismatch: got %d want %d", c.Hamming, want)
		}
	}
}

func TestFindFillCandidateNearestPopcount(t *testing.T) {
	m := New()
	m.AddByTags(symbol.TagSpace | symbol.TagSolid)
	idx, ok := m.FindFillCandidate(40, false)
	if !ok {
		t.Fatalf("expected a fill candidate")
	}
	syms := m.Symbols()
	// With only space(0) and solid(64), 40 is closer to 64.
	if syms[idx].Popcount != 64 {
		t.Fatalf("expected solid (64) nearest to 40, got popcount %d", syms[idx].Popcount)
	}
}

func TestParseSelectorsHexRangeFormats(t *testing.T) {
	for _, input := range []string{"u0041..u005A", "U0041..U005A", "0x41..0x5a", "41..5a"} {
		sels, err := ParseSelectors(input)
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", input, err)
		}
		if len(sels) != 1 || !sels[0].IsRange || sels[0].First != 0x41 || sels[0].Last != 0x5A {
			t.Fatalf("unexpected parse of %q: %+v", input, sels)
		}
	}
}
