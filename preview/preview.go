// Package preview is an interactive tcell front end: it runs the same
// symbol renderer as the one-shot CLI path but redraws live as the
// terminal is resized, adapted from the image-view's screen loop.
package preview

import (
	"fmt"
	"image"
	"os"

	"github.com/gdamore/tcell/v2"

	"chafago/canvas"
	"chafago/cell"
	"chafago/color"
	"chafago/config"
	"chafago/imaging"
	"chafago/symbolmap"
)

// Run opens a fullscreen tcell session showing path, re-rendering on
// resize, until the user presses q, Esc, or Ctrl-C.
func Run(path string, cfg *config.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	img, _, err := imaging.Load(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	symMap := symbolmap.New()
	if err := symMap.ApplySelectors(cfg.SymbolSelector); err != nil {
		return err
	}
	if err := symbolmap.LoadUserGlyphs(symMap, cfg.UserGlyphs); err != nil {
		return err
	}
	symMap.Prepare()

	fillMap := symbolmap.New()
	if err := fillMap.ApplySelectors(cfg.FillSelector); err != nil {
		return err
	}
	fillMap.Prepare()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	draw := func() {
		renderInto(screen, img, cfg, symMap, fillMap)
		screen.Show()
	}
	draw()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		}
	}
}

// renderInto fits img to the current screen size, runs the symbol
// canvas over it, and blits the resulting cells using tcell styles.
func renderInto(screen tcell.Screen, img image.Image, cfg *config.Config, symMap, fillMap *symbolmap.SymbolMap) {
	width, height := screen.Size()
	if width < 1 || height < 1 {
		return
	}

	bounds := img.Bounds()
	placement := cfg.PlacementFit(bounds.Dx(), bounds.Dy(), width, height)
	if placement.Cols < 1 || placement.Rows < 1 {
		return
	}

	mode := cfg.CanvasModeValue()
	cv := canvas.New(canvas.Config{
		CellsWide:         placement.Cols,
		CellsHigh:         placement.Rows,
		Mode:              mode,
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

	offX := (width - placement.Cols) / 2
	offY := (height - placement.Rows) / 2

	cells := cv.Cells()
	for row := 0; row < placement.Rows; row++ {
		for col := 0; col < placement.Cols; col++ {
			c := cells[row*placement.Cols+col]
			if c.Char == 0 {
				continue
			}
			style := tcell.StyleDefault
			if mode == cell.Truecolor {
				if fg, ok := cell.RGB(c.FGRaw); ok {
					style = style.Foreground(rgbaToTcell(fg))
				}
				if bg, ok := cell.RGB(c.BGRaw); ok {
					style = style.Background(rgbaToTcell(bg))
				}
			}
			screen.SetContent(offX+col, offY+row, c.Char, nil, style)
		}
	}
}

func rgbaToTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
