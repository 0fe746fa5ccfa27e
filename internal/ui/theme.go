package ui

import "image/color"

// Colors — dark theme with a teal accent matching the OSD chrome.
var (
	ColorBackground    = color.RGBA{R: 0x10, G: 0x12, B: 0x14, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1A, G: 0x1E, B: 0x22, A: 0xFF}
	ColorSurfaceFocus  = color.RGBA{R: 0x24, G: 0x2C, B: 0x32, A: 0xFF}
	ColorAccent        = color.RGBA{R: 0x2A, G: 0x78, B: 0xB0, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x90, G: 0x94, B: 0x9C, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x5C, G: 0x60, B: 0x68, A: 0xFF}
	ColorError         = color.RGBA{R: 0xE0, G: 0x40, B: 0x40, A: 0xFF}
	ColorSuccess       = color.RGBA{R: 0x40, G: 0xC0, B: 0x60, A: 0xFF}
)

// Layout constants for the library screen.
const (
	ScreenPadding = 40

	RowHeight  = 64
	RowPadding = 16
	RowGap     = 8

	FontSizeTitle   = 28
	FontSizeHeading = 22
	FontSizeBody    = 16
	FontSizeSmall   = 13
)
