package icon

import (
	"image"
	"image/color"
)

// Theme colors from the app
var (
	accentBlue = color.RGBA{R: 0x2A, G: 0x78, B: 0xB0, A: 0xFF}
	accentDark = color.RGBA{R: 0x1C, G: 0x54, B: 0x7C, A: 0xFF}
	darkBG     = color.RGBA{R: 0x10, G: 0x12, B: 0x14, A: 0xFF}
	glowCol    = color.RGBA{R: 0x2A, G: 0x78, B: 0xB0, A: 0x50}
	textCol    = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)

	// Speech bubble with a play triangle: subtitles you can talk to.
	drawBubble(img, s)
	drawPlayTriangle(img, s)
	drawSubtitleLines(img, s)

	return img
}

func drawBubble(img *image.RGBA, s float64) {
	bx := s * 0.10
	by := s * 0.12
	bw := s * 0.80
	bh := s * 0.56

	// Soft glow behind the bubble
	fillRoundedRect(img, bx-s*0.03, by-s*0.03, bw+s*0.06, bh+s*0.06, s*0.18, glowCol)

	fillRoundedRect(img, bx, by, bw, bh, s*0.14, accentBlue)

	// Tail pointing down-left
	tailTopY := by + bh - s*0.02
	tailH := s * 0.18
	tailX := s * 0.26
	steps := int(tailH)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		halfW := s * 0.07 * (1 - t)
		y := tailTopY + float64(i)
		fillRect(img, int(tailX-halfW), int(y), int(halfW*2)+1, 1, accentBlue)
	}
}

func drawPlayTriangle(img *image.RGBA, s float64) {
	// Centered in the bubble, nudged right so it reads as a triangle.
	cx := s * 0.52
	cy := s * 0.40
	h := s * 0.26

	x0 := cx - h*0.45
	steps := int(h * 0.9)
	for i := 0; i <= steps; i++ {
		x := x0 + float64(i)
		t := float64(i) / float64(steps)
		halfH := h * 0.5 * (1 - t)
		fillRect(img, int(x), int(cy-halfH), 1, int(halfH*2)+1, darkBG)
	}
}

func drawSubtitleLines(img *image.RGBA, s float64) {
	// Two subtitle bars in the lower band, the second one shorter.
	barH := s * 0.06
	fillRoundedRect(img, s*0.18, s*0.80, s*0.64, barH, barH/2, textCol)
	fillRoundedRect(img, s*0.30, s*0.90, s*0.40, barH, barH/2, accentDark)
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			fx := float64(x)
			fy := float64(y)
			inside := true

			if fx < xf+r && fy < yf+r {
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
