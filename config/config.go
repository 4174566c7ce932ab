// Package config is the external interface surface (spec.md §6): every
// enumerated knob a caller can set before building a Canvas, plus the
// on-disk JSON settings file the CLI loads defaults from.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"chafago/cell"
	"chafago/color"
	"chafago/dither"
	"chafago/imaging"
	"chafago/palette"
	"chafago/render"
)

// PixelMode selects how the output is actually transmitted: symbol
// glyphs, or one of the raster terminal graphics protocols.
type PixelMode string

const (
	PixelSymbols PixelMode = "symbols"
	PixelSixels  PixelMode = "sixels"
	PixelKitty   PixelMode = "kitty"
	PixelITerm2  PixelMode = "iterm2"
)

// Optimizations mirrors printer.Optimizations so this package does not
// need to import printer just to expose the bitset to callers.
type Optimizations int

const (
	OptRepeatChar Optimizations = 1 << iota
	OptReuseAttributes
)

// Config is every field enumerated in spec.md §6's "Configuration"
// list, loadable from and savable to a JSON settings file the way the
// editor's own settings were.
type Config struct {
	CanvasMode     string   `json:"canvas_mode"`
	ColorSpace     string   `json:"color_space"`
	ColorExtractor string   `json:"color_extractor"`
	DitherMode     string   `json:"dither_mode"`
	PixelMode      string   `json:"pixel_mode"`
	Optimizations  int      `json:"optimizations"`
	FGOnlyEnabled  bool     `json:"fg_only_enabled"`
	WorkFactor     float64  `json:"work_factor"`
	AlphaThreshold int      `json:"alpha_threshold"`
	FGColor        uint32   `json:"fg_color_packed_rgb"`
	BGColor        uint32   `json:"bg_color_packed_rgb"`
	DitherGrainW   int      `json:"dither_grain_width"`
	DitherGrainH   int      `json:"dither_grain_height"`
	CellWidth      int      `json:"cell_width"`
	CellHeight     int      `json:"cell_height"`
	SymbolSelector string   `json:"symbol_map"`
	FillSelector   string   `json:"fill_symbol_map"`
	Preprocessing  bool     `json:"preprocessing_enabled"`
	Passthrough    string   `json:"passthrough"`
	Threads        int      `json:"threads"`
	DynamicPalette bool     `json:"dynamic_palette"`
	UserGlyphs     []string `json:"user_glyphs"` // "<char>=<path/to/image>" entries
}

// Default mirrors chafa's own out-of-the-box behavior: truecolor
// symbols, average color extraction, no dithering, both optimizations
// on, auto work factor.
func Default() *Config {
	return &Config{
		CanvasMode:     "truecolor",
		ColorSpace:     "rgb",
		ColorExtractor: "average",
		DitherMode:     "none",
		PixelMode:      string(PixelSymbols),
		Optimizations:  int(OptRepeatChar | OptReuseAttributes),
		WorkFactor:     0.5,
		AlphaThreshold: 0,
		FGColor:        0xFFFFFF,
		BGColor:        0x000000,
		DitherGrainW:   4,
		DitherGrainH:   4,
		CellWidth:      1,
		CellHeight:     2,
		SymbolSelector: "block,border,space,solid",
		FillSelector:   "block,space,solid",
		Preprocessing:  true,
		Threads:        0, // 0 == GOMAXPROCS
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chafago", "settings.json")
}

func Load() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path := ConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// CanvasModeValue maps the JSON-friendly string to the cell.Mode enum.
func (c *Config) CanvasModeValue() cell.Mode {
	switch c.CanvasMode {
	case "indexed256":
		return cell.Indexed256
	case "indexed240":
		return cell.Indexed240
	case "indexed16":
		return cell.Indexed16
	case "indexed16x8":
		return cell.Indexed16x8
	case "indexed8":
		return cell.Indexed8
	case "fgbg_bgfg":
		return cell.FGBGBGFG
	case "fgbg":
		return cell.FGBG
	default:
		return cell.Truecolor
	}
}

func (c *Config) ColorSpaceValue() palette.ColorSpace {
	if c.ColorSpace == "din99d" {
		return palette.DIN99D
	}
	return palette.RGB
}

func (c *Config) ExtractorValue() render.Extractor {
	if c.ColorExtractor == "median" {
		return render.Median
	}
	return render.Average
}

func (c *Config) DitherModeValue() dither.Mode {
	switch c.DitherMode {
	case "ordered":
		return dither.Ordered
	case "diffusion":
		return dither.Diffusion
	default:
		return dither.None
	}
}

func (c *Config) PixelModeValue() PixelMode { return PixelMode(c.PixelMode) }

func (c *Config) FG() color.RGBA { return color.Unpack(c.FGColor<<8 | 0xFF) }
func (c *Config) BG() color.RGBA { return color.Unpack(c.BGColor<<8 | 0xFF) }

// PlacementFit computes the terminal-cell footprint an image should
// occupy for the given pixel-per-cell geometry (spec.md §4.4/§6).
func (c *Config) PlacementFit(srcW, srcH, areaCols, areaRows int) imaging.Placement {
	return imaging.Fit(srcW, srcH, areaCols, areaRows, c.CellWidth, c.CellHeight)
}
