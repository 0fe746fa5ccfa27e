package player

import (
	"fmt"
	"time"
)

// ASS color format: &HAABBGGRR (alpha, blue, green, red — yes, reversed
// from RGB).
const (
	assWhite     = "&H00FFFFFF"
	assWhiteDim  = "&H60FFFFFF"
	assBlack     = "&H00000000"
	assAccent    = "&H00B0782A" // warm teal #2A78B0 in BGR
	assAccentDim = "&H80B0782A"
	assShadow    = "&H80000000"
	assSaved     = "&H0060C060" // green
)

// SetOSDOverlay installs or replaces a persistent ASS overlay in the given
// slot. An empty text removes the slot.
func (p *Player) SetOSDOverlay(id int, text string) error {
	p.m.Lock()
	defer p.m.Unlock()
	if text == "" {
		return p.mpv.Command([]string{"osd-overlay", fmt.Sprintf("%d", id), "none", ""})
	}
	return p.mpv.Command([]string{"osd-overlay", fmt.Sprintf("%d", id), "ass-events", text})
}

// ShowText flashes a plain OSD message for the given duration.
func (p *Player) ShowText(text string, durationMs int) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.Command([]string{"show-text", text, fmt.Sprintf("%d", durationMs)})
}

// assRoundRect generates an ASS vector drawing for a rounded rectangle.
// Coordinates are relative to the \pos anchor.
func assRoundRect(x, y, w, h, r int) string {
	if r > h/2 {
		r = h / 2
	}
	if r > w/2 {
		r = w / 2
	}
	// m = moveto, l = lineto, b = cubic bezier; clockwise from top-left
	return fmt.Sprintf(
		"m %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d",
		x+r, y,
		x+w-r, y,
		x+w, y, x+w, y, x+w, y+r,
		x+w, y+h-r,
		x+w, y+h, x+w, y+h, x+w-r, y+h,
		x+r, y+h,
		x, y+h, x, y+h, x, y+h-r,
		x, y+r,
		x, y, x, y, x+r, y,
	)
}

// assCircle generates an ASS vector drawing for a circle from 4 cubic
// bezier segments.
func assCircle(cx, cy, r int) string {
	k := r * 55 / 100
	return fmt.Sprintf(
		"m %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d",
		cx, cy-r,
		cx+k, cy-r, cx+r, cy-k, cx+r, cy,
		cx+r, cy+k, cx+k, cy+r, cx, cy+r,
		cx-k, cy+r, cx-r, cy+k, cx-r, cy,
		cx-r, cy-k, cx-k, cy-r, cx, cy-r,
	)
}

func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
