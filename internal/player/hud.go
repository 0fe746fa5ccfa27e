package player

import (
	"fmt"
	"log"
	"strings"
)

// The HUD renders in mpv's default ASS coordinate space regardless of the
// window size; callers convert pointer positions with FromWindow.
const (
	HUDWidth  = 1920.0
	HUDHeight = 1080.0
)

// Progress track geometry in HUD coordinates. The hit band is taller than
// the drawn bar so the track is grabbable.
const (
	TrackLeft   = 200.0
	TrackWidth  = 1520.0
	TrackY      = 975.0
	TrackHitPad = 22.0
)

// Overlay slots. Each piece of HUD state owns one so they can be updated
// and removed independently.
const (
	osdIDControls = 1
	osdIDSubtitle = 2
	osdIDLookup   = 3
	osdIDSheet    = 4
)

const (
	subtitleFontSize = 46
	subtitleY        = 880
	// Rough advance width per rune for layout and hit boxes. ASS renders
	// with system fonts we cannot measure, so boxes are approximate and
	// padded.
	subtitleCharW = subtitleFontSize * 0.52
	subtitleGap   = 20.0
)

// WordBox is the approximate hit box of one rendered subtitle word, in HUD
// coordinates.
type WordBox struct {
	Index      int
	Word       string
	X, Y, W, H float64
}

// LookupView is the render-ready projection of a contextual lookup: the
// caller flattens dictionary meanings into plain lines.
type LookupView struct {
	Visible  bool
	Loading  bool
	Missing  bool
	Saved    bool
	Word     string
	Phonetic string
	Lines    []string
}

// SheetView is the render-ready projection of the bottom sheet.
type SheetView struct {
	Visible bool
	Offset  float64 // downward displacement in HUD px
	Lookup  LookupView
}

// HUDState is one frame's worth of HUD input. Rendering is idempotent on
// equal states; the HUD skips mpv commands when a slot's output is
// unchanged.
type HUDState struct {
	ControlsVisible bool
	Paused          bool
	Position        float64
	Duration        float64
	Buffered        float64 // fraction 0..1
	DragActive      bool
	MarkerX         float64 // HUD-space marker position while dragging
	Accrual         int     // accumulated seek seconds, 0 = hidden
	AccrualForward  bool
	Volume          int
	VolumeSlider    bool
	Speed           float64
	SpeedMenuOpen   bool
	Speeds          []float64
	SpeedIndex      int
	Subtitle        []string
	Lookup          LookupView
	Sheet           SheetView
}

// HUD renders playback chrome through mpv's ASS overlay slots.
type HUD struct {
	player *Player

	lastRendered [5]string // indexed by slot id
	wordBoxes    []WordBox
}

func NewHUD(p *Player) *HUD {
	return &HUD{player: p}
}

// FromWindow converts a window pixel position into HUD coordinates.
func FromWindow(x, y float64, winW, winH int) (float64, float64) {
	if winW <= 0 || winH <= 0 {
		return x, y
	}
	return x * HUDWidth / float64(winW), y * HUDHeight / float64(winH)
}

// OnTrack reports whether a HUD-space position falls on the progress
// track's hit band.
func OnTrack(x, y float64) bool {
	return x >= TrackLeft && x <= TrackLeft+TrackWidth &&
		y >= TrackY-TrackHitPad && y <= TrackY+TrackHitPad
}

// WordBoxes returns the hit boxes of the subtitle words as last rendered.
func (h *HUD) WordBoxes() []WordBox { return h.wordBoxes }

// WordAt returns the rendered subtitle word at a HUD-space position, or
// ok=false.
func (h *HUD) WordAt(x, y float64) (WordBox, bool) {
	for _, b := range h.wordBoxes {
		if x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H {
			return b, true
		}
	}
	return WordBox{}, false
}

// Render updates every overlay slot from the state snapshot.
func (h *HUD) Render(st HUDState) {
	h.set(osdIDControls, h.renderControls(st))
	h.set(osdIDSubtitle, h.renderSubtitle(st.Subtitle))
	h.set(osdIDLookup, h.renderLookupPanel(st.Lookup))
	h.set(osdIDSheet, h.renderSheet(st.Sheet))
}

// Clear removes every overlay slot.
func (h *HUD) Clear() {
	for id := osdIDControls; id <= osdIDSheet; id++ {
		h.set(id, "")
	}
	h.wordBoxes = nil
}

func (h *HUD) set(id int, text string) {
	if h.lastRendered[id] == text {
		return
	}
	h.lastRendered[id] = text
	if err := h.player.SetOSDOverlay(id, text); err != nil {
		log.Printf("osd overlay %d: %v", id, err)
	}
}

func (h *HUD) renderControls(st HUDState) string {
	if !st.ControlsVisible {
		return ""
	}

	var b strings.Builder

	// Backdrop panel across the bottom.
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(0,940)\\p1\\bord0\\shad0\\1c%s\\1a&H40&}m 0 0 l 1920 0 l 1920 140 l 0 140{\\p0}\n",
		assBlack,
	))

	barX := int(TrackLeft)
	barW := int(TrackWidth)
	barY := int(TrackY)
	barH := 6
	barR := 3

	// Track background.
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H80&}%s{\\p0}\n",
		barX, barY-barH/2, assWhite,
		assRoundRect(0, 0, barW, barH, barR),
	))

	// Buffered range, behind the playback fill.
	if st.Buffered > 0 {
		bw := int(float64(barW) * clampFrac(st.Buffered))
		if bw >= barR*2 {
			b.WriteString(fmt.Sprintf(
				"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s}%s{\\p0}\n",
				barX, barY-barH/2, assAccentDim,
				assRoundRect(0, 0, bw, barH, barR),
			))
		}
	}

	// Playback fill. During a drag this tracks the preview, not the media.
	var frac float64
	if st.Duration > 0 {
		frac = clampFrac(st.Position / st.Duration)
	}
	fillW := int(float64(barW) * frac)
	if fillW > 0 {
		if fillW < barR*2 {
			fillW = barR * 2
		}
		b.WriteString(fmt.Sprintf(
			"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s}%s{\\p0}\n",
			barX, barY-barH/2, assAccent,
			assRoundRect(0, 0, fillW, barH, barR),
		))
	}

	// Scrubber dot, or the preview marker with a floating time label while
	// dragging.
	dotX := barX + int(float64(barW)*frac)
	dotR := 10
	if st.DragActive {
		dotX = int(st.MarkerX)
		dotR = 13
		b.WriteString(fmt.Sprintf(
			"{\\an2\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs30\\1c%s\\b1}%s{\\r}\n",
			dotX, barY-26, assShadow, assWhite, formatDuration(st.Position),
		))
	}
	b.WriteString(fmt.Sprintf(
		"{\\an5\\pos(%d,%d)\\p1\\bord0\\shad2\\3c%s\\1c%s}%s{\\p0}\n",
		dotX, barY, assShadow, assWhite, assCircle(0, 0, dotR),
	))

	// Play/pause glyph.
	icon := "▶"
	if st.Paused {
		icon = "❚❚"
	}
	b.WriteString(fmt.Sprintf(
		"{\\an4\\pos(60,1000)\\bord0\\shad1\\3c%s\\fs42\\1c%s}%s{\\r}\n",
		assShadow, assWhite, icon,
	))

	// Times.
	b.WriteString(fmt.Sprintf(
		"{\\an4\\pos(120,1003)\\bord0\\shad1\\3c%s\\fs28\\1c%s\\b1}%s{\\r}\n",
		assShadow, assWhite, formatDuration(st.Position),
	))
	b.WriteString(fmt.Sprintf(
		"{\\an6\\pos(1860,1003)\\bord0\\shad1\\3c%s\\fs28\\1c%s}%s{\\r}\n",
		assShadow, assWhiteDim, formatDuration(st.Duration),
	))

	// Volume and speed pills, top-right.
	b.WriteString(fmt.Sprintf(
		"{\\an9\\pos(1880,60)\\bord0\\shad1\\3c%s\\fs26\\1c%s}Vol %d%%{\\r}\n",
		assShadow, assWhiteDim, st.Volume,
	))
	b.WriteString(fmt.Sprintf(
		"{\\an9\\pos(1880,100)\\bord0\\shad1\\3c%s\\fs26\\1c%s}%.2fx{\\r}\n",
		assShadow, assWhiteDim, st.Speed,
	))

	if st.VolumeSlider {
		b.WriteString(h.renderVolumeSlider(st.Volume))
	}
	if st.SpeedMenuOpen {
		b.WriteString(h.renderSpeedMenu(st.Speeds, st.SpeedIndex))
	}

	// Cumulative seek feedback bubble, centered.
	if st.Accrual > 0 {
		sign := "+"
		if !st.AccrualForward {
			sign = "−"
		}
		b.WriteString(fmt.Sprintf(
			"{\\an5\\pos(960,540)\\p1\\bord0\\shad0\\1c%s\\1a&H40&}%s{\\p0}\n",
			assBlack, assRoundRect(-90, -40, 180, 80, 20),
		))
		b.WriteString(fmt.Sprintf(
			"{\\an5\\pos(960,540)\\bord0\\shad1\\3c%s\\fs44\\1c%s\\b1}%s%ds{\\r}\n",
			assShadow, assWhite, sign, st.Accrual,
		))
	}

	return b.String()
}

// renderVolumeSlider draws a vertical volume bar under the volume pill.
func (h *HUD) renderVolumeSlider(volume int) string {
	var b strings.Builder
	const (
		sliderX = 1856
		sliderY = 130
		sliderH = 240
		sliderW = 8
	)
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H80&}%s{\\p0}\n",
		sliderX, sliderY, assWhite, assRoundRect(0, 0, sliderW, sliderH, 4),
	))
	fill := sliderH * volume / 100
	if fill > 0 {
		b.WriteString(fmt.Sprintf(
			"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s}%s{\\p0}\n",
			sliderX, sliderY+sliderH-fill, assAccent, assRoundRect(0, 0, sliderW, fill, 4),
		))
	}
	return b.String()
}

func (h *HUD) renderSpeedMenu(speeds []float64, selected int) string {
	var b strings.Builder
	rowH := 46
	menuH := rowH * len(speeds)
	menuY := 130

	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(1740,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H30&}%s{\\p0}\n",
		menuY, assBlack, assRoundRect(0, 0, 150, menuH, 10),
	))
	for i, sp := range speeds {
		clr := assWhiteDim
		marker := ""
		if i == selected {
			clr = assAccent
			marker = "● "
		}
		b.WriteString(fmt.Sprintf(
			"{\\an4\\pos(1760,%d)\\bord0\\shad0\\fs28\\1c%s}%s%.2fx{\\r}\n",
			menuY+i*rowH+rowH/2, clr, marker, sp,
		))
	}
	return b.String()
}

// renderSubtitle lays out the current subtitle line as individually boxed
// words and records their hit boxes.
func (h *HUD) renderSubtitle(words []string) string {
	h.wordBoxes = h.wordBoxes[:0]
	if len(words) == 0 {
		return ""
	}

	widths := make([]float64, len(words))
	total := 0.0
	for i, w := range words {
		widths[i] = float64(len([]rune(w))) * subtitleCharW
		total += widths[i]
	}
	total += subtitleGap * float64(len(words)-1)

	x := HUDWidth/2 - total/2
	var b strings.Builder
	for i, w := range words {
		h.wordBoxes = append(h.wordBoxes, WordBox{
			Index: i,
			Word:  w,
			X:     x - subtitleGap/2,
			Y:     subtitleY - subtitleFontSize*0.75,
			W:     widths[i] + subtitleGap,
			H:     subtitleFontSize * 1.5,
		})
		b.WriteString(fmt.Sprintf(
			"{\\an4\\pos(%d,%d)\\bord0\\shad2\\3c%s\\fs%d\\1c%s}%s{\\r}\n",
			int(x), subtitleY, assShadow, subtitleFontSize, assWhite, assEscape(w),
		))
		x += widths[i] + subtitleGap
	}
	return b.String()
}

// renderLookupPanel draws the fullscreen in-place lookup as a right-side
// panel.
func (h *HUD) renderLookupPanel(v LookupView) string {
	if !v.Visible {
		return ""
	}

	const (
		panelX = 1380
		panelY = 120
		panelW = 500
		panelH = 840
	)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H20&}%s{\\p0}\n",
		panelX, panelY, assBlack, assRoundRect(0, 0, panelW, panelH, 16),
	))
	b.WriteString(h.renderLookupBody(v, panelX+30, panelY+40, panelW-60, panelH-80))
	return b.String()
}

// renderLookupBody writes the shared lookup content (word, phonetic,
// status, meaning lines) anchored at x,y and clipped to hgt.
func (h *HUD) renderLookupBody(v LookupView, x, y, w, hgt int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\bord0\\shad0\\fs40\\1c%s\\b1}%s{\\r}\n",
		x, y, assWhite, assEscape(v.Word),
	))
	if v.Phonetic != "" {
		b.WriteString(fmt.Sprintf(
			"{\\an7\\pos(%d,%d)\\bord0\\shad0\\fs26\\1c%s}%s{\\r}\n",
			x, y+50, assWhiteDim, assEscape(v.Phonetic),
		))
	}

	status := ""
	statusClr := assWhiteDim
	switch {
	case v.Loading:
		status = "Looking up…"
	case v.Missing:
		status = "No entry found"
	case v.Saved:
		status = "✓ Saved"
		statusClr = assSaved
	}
	if status != "" {
		b.WriteString(fmt.Sprintf(
			"{\\an9\\pos(%d,%d)\\bord0\\shad0\\fs24\\1c%s}%s{\\r}\n",
			x+w, y+8, statusClr, status,
		))
	}

	lineY := y + 100
	for _, line := range v.Lines {
		if lineY > y+hgt-80 {
			break
		}
		b.WriteString(fmt.Sprintf(
			"{\\an7\\pos(%d,%d)\\bord0\\shad0\\fs24\\1c%s}%s{\\r}\n",
			x, lineY, assWhite, assEscape(line),
		))
		lineY += 36
	}

	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\bord0\\shad0\\fs20\\1c%s}S save   1-5 level   Esc close{\\r}\n",
		x, y+hgt-36, assWhiteDim,
	))
	return b.String()
}

// renderSheet draws the page-level bottom sheet displaced by its current
// drag/animation offset.
func (h *HUD) renderSheet(v SheetView) string {
	if !v.Visible {
		return ""
	}

	const sheetH = 440
	top := int(HUDHeight) - sheetH + int(v.Offset)
	if top >= int(HUDHeight) {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(0,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H18&}%s{\\p0}\n",
		top, assBlack, assRoundRect(0, 0, int(HUDWidth), sheetH+40, 24),
	))
	// Drag handle.
	b.WriteString(fmt.Sprintf(
		"{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H60&}%s{\\p0}\n",
		int(HUDWidth)/2-40, top+14, assWhite, assRoundRect(0, 0, 80, 8, 4),
	))
	b.WriteString(h.renderLookupBody(v.Lookup, 120, top+50, int(HUDWidth)-240, sheetH-70))
	return b.String()
}

// SheetTop returns the HUD-space y of the sheet's upper edge for the given
// offset, matching what renderSheet draws.
func SheetTop(offset float64) float64 {
	return HUDHeight - 440 + offset
}

func clampFrac(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// assEscape neutralizes ASS override sequences in user-visible text.
func assEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "⧵")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return s
}
