package symbol

// NewWidePair builds a double-width symbol from two 8x8 outlines sharing
// one code point, rendered into two adjacent cells (spec.md §3's
// "Double-width symbols are stored as a pair of two single-cell bitmaps").
func NewWidePair(code rune, left, right [8]string, tags Tag) Symbol {
	lbm := parseRows(left)
	rbm := parseRows(right)
	pc := lbm.Popcount() + rbm.Popcount()
	s := Symbol{
		Code:      code,
		Bitmap:    lbm,
		WideRight: rbm,
		Wide:      true,
		Tags:      tags,
		Popcount:  pc,
		FGWeight:  pc,
		BGWeight:  128 - pc,
	}
	applyAutoTags(&s)
	s.Tags |= TagWide
	return s
}
