package symbol

import (
	"unicode"

	"github.com/mattn/go-runewidth"
)

// applyAutoTags runs the automatic tag attribution of spec.md §4.2 over a
// symbol's code point and merges the result into s.Tags. Automatic tags
// augment, never override, an explicit tag. AMBIGUOUS is attributed here
// like any other tag; Builtins clears it from every built-in afterwards,
// since a built-in author already curated its display width.
func applyAutoTags(s *Symbol) {
	s.Tags &^= TagAmbiguous
	s.Tags |= widthTag(s.Code)

	if isAmbiguousRange(s.Code) {
		s.Tags |= TagAmbiguous
	}
	if isUglyRange(s.Code) {
		s.Tags |= TagUgly
	}
	if s.Code >= 0x2800 && s.Code <= 0x28FF {
		s.Tags |= TagBraille
	}
	if s.Code >= 0x1FB00 && s.Code <= 0x1FB3B {
		s.Tags |= TagSextant
	}
	if isGeometricRange(s.Code) {
		s.Tags |= TagGeometric
	}
	if isTechnicalRange(s.Code) {
		s.Tags |= TagTechnical
	}
	if s.Code < 0x80 {
		s.Tags |= TagASCII
		switch {
		case unicode.IsDigit(s.Code):
			s.Tags |= TagDigit
		case unicode.IsLetter(s.Code):
			s.Tags |= TagAlpha
		}
	}
}

// widthTag reports WIDE if the rune's display width is 2, AMBIGUOUS if it
// is CJK-wide-ambiguous (runewidth reports 2 under EastAsianWidth but not
// under the default table), else NARROW.
func widthTag(r rune) Tag {
	if runewidth.IsAmbiguousWidth(r) {
		return TagAmbiguous
	}
	if runewidth.RuneWidth(r) == 2 {
		return TagWide
	}
	return TagNarrow
}

// isAmbiguousRange covers the non-CJK ambiguous blocks spec.md calls out:
// arrows, technical symbols used ambiguously, combining marks, zero-widths.
func isAmbiguousRange(r rune) bool {
	switch {
	case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Me, r):
		return true
	case r == 0x200B || r == 0xFEFF: // zero-width space / BOM
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	case r >= 0x2300 && r <= 0x23FF: // misc technical (ambiguous subset)
		return true
	}
	return false
}

// isUglyRange covers emoji and meta ranges per spec.md's UGLY tag.
func isUglyRange(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // emoji blocks
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols & dingbats
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	}
	return false
}

func isGeometricRange(r rune) bool {
	return r >= 0x25A0 && r <= 0x25FF
}

func isTechnicalRange(r rune) bool {
	return r >= 0x2300 && r <= 0x23FF
}

// IsUnprintable reports the always-dropped code points of spec.md §4.3:
// non-printable, zero-width, tab, and RTL scripts (no bidi support).
func IsUnprintable(r rune) bool {
	if r == '\t' || r == 0x200B || r == 0xFEFF {
		return true
	}
	if !unicode.IsPrint(r) && !unicode.IsGraphic(r) {
		return true
	}
	if isRTLScript(r) {
		return true
	}
	return false
}

func isRTLScript(r rune) bool {
	return unicode.Is(unicode.Arabic, r) ||
		unicode.Is(unicode.Hebrew, r) ||
		unicode.Is(unicode.Thaana, r) ||
		unicode.Is(unicode.Syriac, r)
}
