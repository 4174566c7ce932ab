package symbolmap

import (
	"sort"

	"chafago/symbol"
)

// SymbolMap is an ordered, selector-configured glyph set. Invariant (§8
// property 3): after Prepare the symbol list is sorted non-decreasing in
// popcount and packed[i] == symbols[i].Bitmap for all i.
type SymbolMap struct {
	allowBuiltins bool
	userGlyphs    map[rune]symbol.Symbol
	selectors     []Selector

	dirty   bool
	symbols []symbol.Symbol
	packed  []symbol.Bitmap

	wideSymbols []symbol.Symbol // Wide==true entries, also popcount-sorted
	widePacked  []widePacked
}

type widePacked struct {
	left, right symbol.Bitmap
}

// New returns an empty map with built-ins allowed; callers add selectors
// (or call AddByTags directly) before the first candidate search.
func New() *SymbolMap {
	return &SymbolMap{
		allowBuiltins: true,
		userGlyphs:    make(map[rune]symbol.Symbol),
		dirty:         true,
	}
}

// SetAllowBuiltins toggles whether built-in glyphs participate in
// selector evaluation at all.
func (m *SymbolMap) SetAllowBuiltins(allow bool) {
	m.allowBuiltins = allow
	m.dirty = true
}

// AddUserGlyph registers (or replaces) a user-supplied glyph and marks
// its code point selected, so a caller's own selector string need not
// separately opt into it to see it considered.
func (m *SymbolMap) AddUserGlyph(s symbol.Symbol) {
	m.userGlyphs[s.Code] = s
	m.selectors = append(m.selectors, Selector{Polarity: Add, IsRange: true, First: s.Code, Last: s.Code})
	m.dirty = true
}

// AddByTags appends an additive tag-mask selector without parsing.
func (m *SymbolMap) AddByTags(tags symbol.Tag) {
	m.selectors = append(m.selectors, Selector{Polarity: Add, Tags: tags})
	m.dirty = true
}

// RemoveByTags appends a subtractive tag-mask selector without parsing.
func (m *SymbolMap) RemoveByTags(tags symbol.Tag) {
	m.selectors = append(m.selectors, Selector{Polarity: Remove, Tags: tags})
	m.dirty = true
}

// AddByRange appends an additive code-point-range selector without parsing.
func (m *SymbolMap) AddByRange(first, last rune) {
	m.selectors = append(m.selectors, Selector{Polarity: Add, IsRange: true, First: first, Last: last})
	m.dirty = true
}

// RemoveByRange appends a subtractive code-point-range selector without
// parsing.
func (m *SymbolMap) RemoveByRange(first, last rune) {
	m.selectors = append(m.selectors, Selector{Polarity: Remove, IsRange: true, First: first, Last: last})
	m.dirty = true
}

// ApplySelectors parses text per spec.md §4.3's grammar and, on success,
// appends the resulting selectors. On a parse error the map is left
// unchanged and the error is returned (spec.md §7).
func (m *SymbolMap) ApplySelectors(text string) error {
	sels, err := ParseSelectors(text)
	if err != nil {
		return err
	}
	m.selectors = append(m.selectors, sels...)
	m.dirty = true
	return nil
}

// candidateUniverse is every symbol selectors may toggle membership of:
// built-ins (if allowed) and user glyphs together, sorted by code point.
func (m *SymbolMap) candidateUniverse() []symbol.Symbol {
	var all []symbol.Symbol
	if m.allowBuiltins {
		all = append(all, symbol.Builtins()...)
	}
	for _, s := range m.userGlyphs {
		all = append(all, s)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// Prepare is idempotent and lazy: it only rebuilds the active list and
// packed-bitmap array if a mutation occurred since the last call (§8
// property 1).
func (m *SymbolMap) Prepare() {
	if !m.dirty {
		return
	}
	m.rebuild()
	m.dirty = false
}

func (m *SymbolMap) rebuild() {
	universe := m.candidateUniverse()

	// Track which tags were explicitly referenced by a tag selector, so
	// BAD-tagged symbols can opt back in (spec.md §3: "Ranges do not opt
	// into BAD; only tag selectors do").
	var explicitBadOptIn symbol.Tag

	membership := make(map[rune]bool, len(universe))
	startsEmpty := true
	if len(m.selectors) > 0 && m.selectors[0].Polarity == Remove {
		startsEmpty = false
	}
	for _, s := range universe {
		membership[s.Code] = !startsEmpty
	}

	for _, sel := range m.selectors {
		if !sel.IsRange {
			explicitBadOptIn |= sel.Tags & symbol.TagBad
		}
		for _, s := range universe {
			matches := false
			if sel.IsRange {
				matches = s.Code >= sel.First && s.Code <= sel.Last
			} else {
				matches = s.Tags&sel.Tags != 0
			}
			if matches {
				membership[s.Code] = bool(sel.Polarity)
			}
		}
	}

	var active []symbol.Symbol
	var activeWide []symbol.Symbol
	for _, s := range universe {
		if !membership[s.Code] {
			continue
		}
		if symbol.IsUnprintable(s.Code) {
			continue
		}
		if s.Tags&symbol.TagBad != 0 && s.Tags&symbol.TagBad&explicitBadOptIn == 0 {
			continue
		}
		if s.Wide {
			activeWide = append(activeWide, s)
		} else {
			active = append(active, s)
		}
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].Popcount < active[j].Popcount })
	sort.SliceStable(activeWide, func(i, j int) bool { return activeWide[i].Popcount < activeWide[j].Popcount })

	packed := make([]symbol.Bitmap, len(active))
	for i, s := range active {
		packed[i] = s.Bitmap
	}
	packedWide := make([]widePacked, len(activeWide))
	for i, s := range activeWide {
		packedWide[i] = widePacked{left: s.Bitmap, right: s.WideRight}
	}

	m.symbols = active
	m.packed = packed
	m.wideSymbols = activeWide
	m.widePacked = packedWide
}

// HasSymbol is a linear lookup by code point after preparation.
func (m *SymbolMap) HasSymbol(c rune) bool {
	m.Prepare()
	for _, s := range m.symbols {
		if s.Code == c {
			return true
		}
	}
	return false
}

// Symbols returns the prepared, popcount-sorted active narrow symbol list.
func (m *SymbolMap) Symbols() []symbol.Symbol {
	m.Prepare()
	return m.symbols
}

// WideSymbols returns the prepared, popcount-sorted active wide symbol
// list.
func (m *SymbolMap) WideSymbols() []symbol.Symbol {
	m.Prepare()
	return m.wideSymbols
}

// Len is the number of active narrow symbols.
func (m *SymbolMap) Len() int {
	m.Prepare()
	return len(m.symbols)
}
