package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/soniakeys/quant/median"
)

// EncodeKitty writes the Kitty graphics protocol escape sequence for
// img, placed into a cols x rows cell footprint.
func EncodeKitty(w *bytes.Buffer, img *image.RGBA, cols, rows int) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	raw := img.Pix

	b64 := base64.StdEncoding.EncodeToString(raw)

	const chunkSize = 4096
	for i := 0; i < len(b64); i += chunkSize {
		end := i + chunkSize
		if end > len(b64) {
			end = len(b64)
		}
		chunk := b64[i:end]
		more := 1
		if end >= len(b64) {
			more = 0
		}
		if i == 0 {
			fmt.Fprintf(w, "\033_Ga=T,f=32,s=%d,v=%d,c=%d,r=%d,m=%d;%s\033\\",
				width, height, cols, rows, more, chunk)
		} else {
			fmt.Fprintf(w, "\033_Gm=%d;%s\033\\", more, chunk)
		}
	}
}

// EncodeITerm2 writes the iTerm2 inline image escape sequence for img.
func EncodeITerm2(w *bytes.Buffer, img *image.RGBA, cols, rows int) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return
	}
	b64 := base64.StdEncoding.EncodeToString(pngBuf.Bytes())
	fmt.Fprintf(w, "\033]1337;File=inline=1;width=%d;height=%d;preserveAspectRatio=0:%s\a",
		cols, rows, b64)
}

// EncodeSixel writes a Sixel DCS sequence for img with a transparent
// background (P2=1): fully transparent pixels are left unset so the
// terminal's own background shows through. Colors are quantized to
// 254 entries via the same median-cut quantizer used by the dynamic
// symbol palette.
func EncodeSixel(w *bytes.Buffer, img *image.RGBA) {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width == 0 || height == 0 {
		return
	}

	fmt.Fprint(w, "\033[?80l")

	const nc = 255
	q := median.Quantizer(nc - 1)
	paletted := q.Paletted(img)
	draw.Draw(paletted, img.Bounds(), img, image.Point{}, draw.Over)

	fmt.Fprintf(w, "\033P0;1;8q\"1;1;%d;%d", width, height)

	for n, v := range paletted.Palette {
		r, g, b, _ := v.RGBA()
		rp := (r*100 + 0x7FFF) / 0xFFFF
		gp := (g*100 + 0x7FFF) / 0xFFFF
		bp := (b*100 + 0x7FFF) / 0xFFFF
		fmt.Fprintf(w, "#%d;2;%d;%d;%d", n+1, rp, gp, bp)
	}

	buf := make([]byte, width*nc)
	cset := make([]bool, nc)
	first := true
	for z := 0; z < (height+5)/6; z++ {
		if !first {
			w.WriteByte('-')
		}
		first = false

		for p := 0; p < 6; p++ {
			y := z*6 + p
			if y >= height {
				break
			}
			for x := 0; x < width; x++ {
				c := img.RGBAAt(x, y)
				if c.A < 128 {
					continue
				}
				idx := int(paletted.ColorIndexAt(x, y)) + 1
				if idx >= nc {
					continue
				}
				cset[idx] = false
				buf[width*idx+x] |= 1 << uint(p)
			}
		}

		firstColor := true
		for n := 1; n < nc; n++ {
			if cset[n] {
				continue
			}
			cset[n] = true

			if !firstColor {
				w.WriteByte('$')
			}
			firstColor = false

			fmt.Fprintf(w, "#%d", n)

			cnt := 0
			var prev byte = 0xFF
			for x := 0; x < width; x++ {
				ch := buf[width*n+x]
				buf[width*n+x] = 0
				if ch == prev {
					cnt++
				} else {
					if cnt > 0 {
						writeSixelRun(w, prev, cnt)
					}
					prev = ch
					cnt = 1
				}
			}
			if cnt > 0 {
				writeSixelRun(w, prev, cnt)
			}
		}
	}

	w.Write([]byte{0x1b, 0x5c})
}

func writeSixelRun(w *bytes.Buffer, ch byte, count int) {
	s := byte(63 + ch)
	switch count {
	case 1:
		w.WriteByte(s)
	case 2:
		w.WriteByte(s)
		w.WriteByte(s)
	case 3:
		w.WriteByte(s)
		w.WriteByte(s)
		w.WriteByte(s)
	default:
		fmt.Fprintf(w, "!%d%c", count, s)
	}
}
