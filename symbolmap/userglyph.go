package symbolmap

import (
	"fmt"
	"os"
	"strings"

	"chafago/imaging"
	"chafago/symbol"
)

// LoadUserGlyphs parses "<char>=<path>" specs (spec.md §4.2's
// user-supplied glyph ingestion) and registers each on m: the
// referenced image is rescaled to 8x8, sharpened, and thresholded into
// a Bitmap by symbol.SharpenAndThreshold.
func LoadUserGlyphs(m *SymbolMap, specs []string) error {
	for _, spec := range specs {
		code, path, err := parseUserGlyphSpec(spec)
		if err != nil {
			return err
		}
		sym, err := loadUserGlyph(code, path)
		if err != nil {
			return fmt.Errorf("user glyph %q: %w", spec, err)
		}
		m.AddUserGlyph(sym)
	}
	return nil
}

func parseUserGlyphSpec(spec string) (rune, string, error) {
	idx := strings.IndexByte(spec, '=')
	if idx < 1 {
		return 0, "", fmt.Errorf("malformed user glyph %q, want <char>=<path>", spec)
	}
	runes := []rune(spec[:idx])
	if len(runes) != 1 {
		return 0, "", fmt.Errorf("user glyph %q must name exactly one character before '='", spec)
	}
	return runes[0], spec[idx+1:], nil
}

func loadUserGlyph(code rune, path string) (symbol.Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return symbol.Symbol{}, err
	}
	defer f.Close()

	img, _, err := imaging.Load(f)
	if err != nil {
		return symbol.Symbol{}, err
	}

	buf := imaging.NewScaler().Scale(img, 8, 8, nil, nil)

	hasAlpha := false
	for _, p := range buf {
		if p.A != 255 {
			hasAlpha = true
			break
		}
	}
	mask := make([]byte, len(buf))
	for i, p := range buf {
		if hasAlpha {
			mask[i] = p.A
		} else {
			mask[i] = byte((int(p.R) + int(p.G) + int(p.B)) / 3)
		}
	}

	bm := symbol.SharpenAndThreshold(mask, 8, 8)
	return symbol.NewFromBitmap(code, bm, 0), nil
}
