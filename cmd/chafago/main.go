// Command chafago renders a raster image as terminal text.
//
// Usage:
//
//	chafago [options] <image>
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"chafago/canvas"
	"chafago/clipboardx"
	"chafago/config"
	"chafago/imaging"
	"chafago/preview"
	"chafago/printer"
	"chafago/symbolmap"
)

// userGlyphFlag lets --user-glyph be repeated, appending to the
// underlying config slice instead of overwriting it.
type userGlyphFlag struct{ values *[]string }

func (f *userGlyphFlag) String() string {
	if f.values == nil {
		return ""
	}
	return strings.Join(*f.values, ",")
}

func (f *userGlyphFlag) Set(v string) error {
	*f.values = append(*f.values, v)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("chafago", flag.ExitOnError)
	mode := fs.String("mode", cfg.CanvasMode, "canvas mode: truecolor, indexed256, indexed240, indexed16, indexed16x8, indexed8, fgbg_bgfg, fgbg")
	pixelMode := fs.String("pixel-mode", cfg.PixelMode, "pixel mode: symbols, sixels, kitty, iterm2")
	colorSpace := fs.String("color-space", cfg.ColorSpace, "color space: rgb, din99d")
	extractor := fs.String("extractor", cfg.ColorExtractor, "color extractor: average, median")
	ditherMode := fs.String("dither", cfg.DitherMode, "dither mode: none, ordered, diffusion")
	workFactor := fs.Float64("work-factor", cfg.WorkFactor, "quality/speed tradeoff in [0,1]")
	alphaThreshold := fs.Int("alpha-threshold", cfg.AlphaThreshold, "alpha threshold 0-255")
	symbols := fs.String("symbols", cfg.SymbolSelector, "symbol selector string")
	fillSymbols := fs.String("fill-symbols", cfg.FillSelector, "fill symbol selector string")
	cols := fs.Int("cols", 0, "output width in cells (0=detect terminal)")
	rows := fs.Int("rows", 0, "output height in cells (0=detect terminal)")
	threads := fs.Int("threads", cfg.Threads, "worker threads (0=GOMAXPROCS)")
	dynamicPalette := fs.Bool("dynamic-palette", cfg.DynamicPalette, "build the indexed256 palette from the image instead of the fixed xterm table")
	noRepeat := fs.Bool("no-repeat-char", false, "disable the REPEAT_CHAR optimisation")
	noReuse := fs.Bool("no-reuse-attributes", false, "disable the REUSE_ATTRIBUTES optimisation")
	watch := fs.Bool("watch", false, "re-render on file change")
	copyOut := fs.Bool("copy", false, "copy the rendered output to the clipboard instead of printing it")
	previewMode := fs.Bool("preview", false, "open an interactive tcell preview instead of printing once")
	fs.Var(&userGlyphFlag{&cfg.UserGlyphs}, "user-glyph", "register a user glyph as <char>=<path/to/image> (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chafago [options] <image>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	cfg.CanvasMode = *mode
	cfg.PixelMode = *pixelMode
	cfg.ColorSpace = *colorSpace
	cfg.ColorExtractor = *extractor
	cfg.DitherMode = *ditherMode
	cfg.WorkFactor = *workFactor
	cfg.AlphaThreshold = *alphaThreshold
	cfg.SymbolSelector = *symbols
	cfg.FillSelector = *fillSymbols
	cfg.Threads = *threads
	cfg.DynamicPalette = *dynamicPalette

	optimizations := printer.ReuseAttributes | printer.RepeatChar
	if *noRepeat {
		optimizations &^= printer.RepeatChar
	}
	if *noReuse {
		optimizations &^= printer.ReuseAttributes
	}

	areaCols, areaRows := *cols, *rows
	if areaCols == 0 || areaRows == 0 {
		detectedCols, detectedRows := detectTerminalSize()
		if areaCols == 0 {
			areaCols = detectedCols
		}
		if areaRows == 0 {
			areaRows = detectedRows
		}
	}

	if *previewMode {
		if err := preview.Run(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "chafago: %v\n", err)
			os.Exit(1)
		}
		return
	}

	render := func() ([]byte, error) {
		return renderOnce(path, cfg, areaCols, areaRows, optimizations)
	}

	out, err := render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chafago: %v\n", err)
		os.Exit(1)
	}

	if *copyOut {
		if !clipboardx.Write(string(out)) {
			fmt.Fprintln(os.Stderr, "chafago: warning: could not reach any clipboard backend")
		}
	} else {
		os.Stdout.Write(out)
		fmt.Println()
	}

	if *watch {
		watchAndRerender(path, render, *copyOut)
	}
}

func renderOnce(path string, cfg *config.Config, areaCols, areaRows int, opt printer.Optimizations) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := imaging.Load(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if pm := cfg.PixelModeValue(); pm != config.PixelSymbols {
		return renderPixelMode(img, cfg, pm, areaCols, areaRows)
	}

	symMap := symbolmap.New()
	if err := symMap.ApplySelectors(cfg.SymbolSelector); err != nil {
		return nil, err
	}
	if err := symbolmap.LoadUserGlyphs(symMap, cfg.UserGlyphs); err != nil {
		return nil, err
	}
	symMap.Prepare()

	fillMap := symbolmap.New()
	if err := fillMap.ApplySelectors(cfg.FillSelector); err != nil {
		return nil, err
	}
	fillMap.Prepare()

	bounds := img.Bounds()
	placement := cfg.PlacementFit(bounds.Dx(), bounds.Dy(), areaCols, areaRows)

	cv := canvas.New(canvas.Config{
		CellsWide:         placement.Cols,
		CellsHigh:         placement.Rows,
		Mode:              cfg.CanvasModeValue(),
		ColorSpace:        cfg.ColorSpaceValue(),
		Extractor:         cfg.ExtractorValue(),
		DitherMode:        cfg.DitherModeValue(),
		DitherGrainWidth:  cfg.DitherGrainW,
		DitherGrainHeight: cfg.DitherGrainH,
		WorkFactor:        cfg.WorkFactor,
		AlphaThreshold:    cfg.AlphaThreshold,
		FGOnlyEnabled:     cfg.FGOnlyEnabled,
		DefaultFG:         cfg.FG(),
		DefaultBG:         cfg.BG(),
		SymbolMap:         symMap,
		FillSymbolMap:     fillMap,
		Threads:           cfg.Threads,
		DynamicPalette:    cfg.DynamicPalette,
	})
	cv.DrawAllPixels(img)

	width, height := cv.Dimensions()
	return printer.Print(cv.Cells(), width, height, printer.Config{
		Mode:          cfg.CanvasModeValue(),
		FGOnlyEnabled: cfg.FGOnlyEnabled,
		BlankChar:     ' ',
		SolidChar:     '█',
		Optimizations: opt,
	}), nil
}

// renderPixelMode bypasses the symbol canvas entirely: it scales the
// source image straight to the placement's pixel footprint and hands
// it to one of the raster terminal graphics protocol encoders.
func renderPixelMode(img image.Image, cfg *config.Config, pm config.PixelMode, areaCols, areaRows int) ([]byte, error) {
	bounds := img.Bounds()
	placement := cfg.PlacementFit(bounds.Dx(), bounds.Dy(), areaCols, areaRows)

	scaler := imaging.NewScaler()
	buf := scaler.Scale(img, placement.PixelW, placement.PixelH, nil, nil)
	rgba := imaging.RGBAImage(buf, placement.PixelW, placement.PixelH)

	var out bytes.Buffer
	switch pm {
	case config.PixelKitty:
		imaging.EncodeKitty(&out, rgba, placement.Cols, placement.Rows)
	case config.PixelITerm2:
		imaging.EncodeITerm2(&out, rgba, placement.Cols, placement.Rows)
	case config.PixelSixels:
		imaging.EncodeSixel(&out, rgba)
	default:
		return nil, fmt.Errorf("chafago: unknown pixel mode %q", pm)
	}
	return out.Bytes(), nil
}

// watchAndRerender implements --watch: debounce filesystem events on
// the image's containing directory and reprint on change, adapted
// from the editor's own file-watch debounce loop.
func watchAndRerender(path string, render func() ([]byte, error), toClipboard bool) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chafago: watch: %v\n", err)
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "chafago: watch: %v\n", err)
		return
	}

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	var pending bool

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			pending = true
			debounce.Reset(150 * time.Millisecond)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			out, err := render()
			if err != nil {
				fmt.Fprintf(os.Stderr, "chafago: %v\n", err)
				continue
			}
			if toClipboard {
				clipboardx.Write(string(out))
				continue
			}
			fmt.Print("\x1b[2J\x1b[H")
			os.Stdout.Write(out)
			fmt.Println()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			_ = err
		}
	}
}

// detectTerminalSize opens a throwaway tcell screen just to read the
// terminal's current cell geometry, falling back to a conservative
// default when no terminal is attached (e.g. output piped to a file).
func detectTerminalSize() (cols, rows int) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return 80, 24
	}
	if err := screen.Init(); err != nil {
		return 80, 24
	}
	cols, rows = screen.Size()
	screen.Fini()
	if cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}
