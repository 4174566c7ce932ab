// Package symbolmap implements the ordered, selector-driven glyph set: the
// selector grammar of spec.md §4.3/§6, preparation (sort + pack), and the
// Hamming-distance candidate search.
package symbolmap

import (
	"fmt"
	"strconv"
	"strings"

	"chafago/symbol"
)

// Polarity is whether a selector adds or removes matching symbols.
type Polarity bool

const (
	Add    Polarity = true
	Remove Polarity = false
)

// Selector is either a tag-mask toggle or a code-point range toggle.
type Selector struct {
	Polarity Polarity
	Tags     symbol.Tag // zero if this is a range selector
	IsRange  bool
	First    rune
	Last     rune
}

// tagTokens is the case-insensitive selector vocabulary of spec.md §6.
var tagTokens = map[string]symbol.Tag{
	"all":       symbol.AllTags,
	"none":      0,
	"space":     symbol.TagSpace,
	"solid":     symbol.TagSolid,
	"stipple":   symbol.TagStipple,
	"block":     symbol.TagBlock,
	"border":    symbol.TagBorder,
	"diagonal":  symbol.TagDiagonal,
	"dot":       symbol.TagDot,
	"quad":      symbol.TagQuad,
	"half":      symbol.TagHalf | symbol.TagHHalf | symbol.TagVHalf,
	"hhalf":     symbol.TagHHalf,
	"vhalf":     symbol.TagVHalf,
	"inverted":  symbol.TagInverted,
	"braille":   symbol.TagBraille,
	"sextant":   symbol.TagSextant,
	"wedge":     symbol.TagWedge,
	"technical": symbol.TagTechnical,
	"geometric": symbol.TagGeometric,
	"ascii":     symbol.TagASCII,
	"alpha":     symbol.TagAlpha,
	"digit":     symbol.TagDigit,
	"narrow":    symbol.TagNarrow,
	"wide":      symbol.TagWide,
	"ambiguous": symbol.TagAmbiguous,
	"ugly":      symbol.TagUgly,
	"extra":     symbol.TagExtra,
	"alnum":     symbol.Alnum,
	"bad":       symbol.TagBad,
	"legacy":    symbol.TagLegacy,
}

// ParseError is a location-bearing diagnostic from ApplySelectors.
type ParseError struct {
	Input  string
	Offset int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("symbolmap: %s at offset %d (%q): %s", e.Reason, e.Offset, e.Token, e.Input)
}

// ParseSelectors parses a selector string per spec.md §4.3's grammar:
//
//	expr := (sign? term)(("," | sign) term)*
//	sign := "+" | "-"
//	term := identifier | hex ".." hex
//	hex   accepts optional "u", "U", "0x" prefix
//
// On error it returns a *ParseError and no partial selector list, so the
// caller can leave its map untouched (spec.md §7: "the symbol map is left
// untouched").
func ParseSelectors(input string) ([]Selector, error) {
	var out []Selector
	s := input
	pos := 0
	pendingSign := Add
	first := true

	for {
		// skip separators
		for pos < len(s) && s[pos] == ',' {
			pos++
		}
		if pos >= len(s) {
			break
		}

		sign := pendingSign
		if !first {
			sign = Add
		}
		if s[pos] == '+' {
			sign = Add
			pos++
		} else if s[pos] == '-' {
			sign = Remove
			pos++
		} else if !first {
			// No explicit separator sign and no comma consumed: this only
			// happens directly after a term, which the loop below handles
			// by requiring the caller to supply a sign or comma next time.
		}
		first = false

		termStart := pos
		for pos < len(s) && s[pos] != ',' && s[pos] != '+' && s[pos] != '-' {
			pos++
		}
		term := s[termStart:pos]
		if term == "" {
			return nil, &ParseError{Input: input, Offset: termStart, Token: "", Reason: "empty term"}
		}

		sel, err := parseTerm(term, sign, input, termStart)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}

	if len(out) == 0 {
		return nil, &ParseError{Input: input, Offset: 0, Token: input, Reason: "no selectors found"}
	}
	return out, nil
}

func parseTerm(term string, sign Polarity, input string, offset int) (Selector, error) {
	if rng := strings.SplitN(term, "..", 2); len(rng) == 2 {
		first, ok1 := parseHex(rng[0])
		last, ok2 := parseHex(rng[1])
		if !ok1 || !ok2 {
			return Selector{}, &ParseError{Input: input, Offset: offset, Token: term, Reason: "invalid code-point range"}
		}
		if first > last {
			first, last = last, first
		}
		return Selector{Polarity: sign, IsRange: true, First: first, Last: last}, nil
	}

	tag, ok := tagTokens[strings.ToLower(term)]
	if !ok {
		return Selector{}, &ParseError{Input: input, Offset: offset, Token: term, Reason: "unrecognized tag or range"}
	}
	return Selector{Polarity: sign, Tags: tag}, nil
}

func parseHex(s string) (rune, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	s = strings.TrimPrefix(s, "u")
	s = strings.TrimPrefix(s, "U")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
