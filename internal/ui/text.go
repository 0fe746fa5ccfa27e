// Package ui holds the font, color and layout helpers for the library
// screen. Playback chrome does not render through here; it lives on the
// mpv OSD.
package ui

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	fontSource *text.GoTextFaceSource
	faceCache  map[float64]*text.GoTextFace
)

// InitFonts parses the embedded TTF once at startup.
func InitFonts(ttfData []byte) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return err
	}
	fontSource = src
	faceCache = make(map[float64]*text.GoTextFace)
	return nil
}

func face(size float64) *text.GoTextFace {
	if f, ok := faceCache[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: fontSource, Size: size}
	faceCache[size] = f
	return f
}

// DrawText draws txt with its top-left corner at (x, y).
func DrawText(dst *ebiten.Image, txt string, x, y float64, size float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, txt, face(size), op)
}

// TextWidth returns the advance width of txt at the given size.
func TextWidth(txt string, size float64) float64 {
	w, _ := text.Measure(txt, face(size), 0)
	return w
}

// Ellipsize shortens txt with a trailing ellipsis so it fits maxWidth.
// List rows use this so long episode titles never spill past the row edge.
func Ellipsize(txt string, size, maxWidth float64) string {
	if TextWidth(txt, size) <= maxWidth {
		return txt
	}
	runes := []rune(strings.TrimSpace(txt))
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if TextWidth(candidate, size) <= maxWidth {
			return candidate
		}
	}
	return "…"
}
