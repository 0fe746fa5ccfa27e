package app

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/avdias/sublingo/internal/player"
	"github.com/avdias/sublingo/internal/surface"
)

// ebitenFullscreen adapts the window to the surface's fullscreen
// capability. Orientation locking does not exist on desktop, so those calls
// succeed as no-ops.
type ebitenFullscreen struct{}

func (ebitenFullscreen) Request() error {
	ebiten.SetFullscreen(true)
	return nil
}

func (ebitenFullscreen) Exit() error {
	ebiten.SetFullscreen(false)
	return nil
}

func (ebitenFullscreen) LockLandscape() error     { return nil }
func (ebitenFullscreen) UnlockOrientation() error { return nil }

type pointerMode int

const (
	modeIdle pointerMode = iota
	modeTap
	modeTrack
	modeSheet
)

// pointerTracker follows one pointer (mouse, or the first touch) from press
// to release and remembers which consumer captured it.
type pointerTracker struct {
	mode    pointerMode
	touch   bool
	touchID ebiten.TouchID

	startX, startY float64
	lastX, lastY   float64
	moved          bool

	// y origin of the sheet at press time, for sheet-local coordinates
	sheetTop float64

	prevCursorX, prevCursorY int
	cursorInside             bool
}

const tapSlopPx = 8.0

// handlePointer converts raw ebiten mouse/touch input into surface taps,
// track drags, word clicks and sheet drags.
func (g *Game) handlePointer() {
	pt := &g.pointer

	// Touch takes precedence when present; otherwise mouse.
	if pt.mode == modeIdle {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			pt.touch = true
			pt.touchID = ids[0]
			g.pointerDown(float64(x), float64(y))
		} else if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			pt.touch = false
			g.pointerDown(float64(x), float64(y))
		}
	} else if pt.touch {
		if inpututil.IsTouchJustReleased(pt.touchID) {
			g.pointerUp()
		} else {
			x, y := ebiten.TouchPosition(pt.touchID)
			g.pointerMove(float64(x), float64(y))
		}
	} else {
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			g.pointerUp()
		} else {
			x, y := ebiten.CursorPosition()
			g.pointerMove(float64(x), float64(y))
		}
	}

	g.trackCursorActivity()

	// Wheel adjusts volume, matching desktop player convention.
	if _, scrollY := ebiten.Wheel(); scrollY != 0 {
		step := 5
		if scrollY < 0 {
			step = -5
		}
		g.surface.SetVolume(g.surface.Volume() + step)
		g.surface.Activity()
	}
}

// trackCursorActivity feeds bare mouse movement and window leave/enter into
// the visibility state machine.
func (g *Game) trackCursorActivity() {
	pt := &g.pointer
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.Width && y < g.Height

	if inside && (x != pt.prevCursorX || y != pt.prevCursorY) {
		g.surface.Activity()
	}
	if pt.cursorInside && !inside {
		g.surface.PointerLeave()
	}
	pt.prevCursorX, pt.prevCursorY = x, y
	pt.cursorInside = inside
}

func (g *Game) pointerDown(x, y float64) {
	pt := &g.pointer
	pt.startX, pt.startY = x, y
	pt.lastX, pt.lastY = x, y
	pt.moved = false

	// An open sheet captures everything: presses on the sheet drag it,
	// presses on the scrim above it dismiss it.
	if top := g.sheets.Top(); top != nil {
		hudOffset := top.Offset() * player.HUDHeight / float64(g.Height)
		sheetTopWin := player.SheetTop(hudOffset) * float64(g.Height) / player.HUDHeight
		if y < sheetTopWin {
			pt.mode = modeIdle
			top.Close()
			return
		}
		pt.mode = modeSheet
		pt.sheetTop = sheetTopWin
		g.sheets.PointerDown(x, y-sheetTopWin)
		return
	}

	hx, hy := player.FromWindow(x, y, g.Width, g.Height)
	if g.surface.ControlsVisible() && player.OnTrack(hx, hy) {
		pt.mode = modeTrack
		g.surface.BeginTrackDrag(hx, player.TrackLeft, player.TrackWidth)
		return
	}

	pt.mode = modeTap
}

func (g *Game) pointerMove(x, y float64) {
	pt := &g.pointer
	if dx, dy := x-pt.startX, y-pt.startY; dx*dx+dy*dy > tapSlopPx*tapSlopPx {
		pt.moved = true
	}
	pt.lastX, pt.lastY = x, y

	switch pt.mode {
	case modeTrack:
		hx, _ := player.FromWindow(x, y, g.Width, g.Height)
		g.surface.MoveTrackDrag(hx)
	case modeSheet:
		g.sheets.PointerMove(x, y-pt.sheetTop)
	}
}

func (g *Game) pointerUp() {
	pt := &g.pointer
	mode := pt.mode
	pt.mode = modeIdle

	switch mode {
	case modeTrack:
		g.surface.EndTrackDrag()

	case modeSheet:
		g.sheets.PointerUp()

	case modeTap:
		if pt.moved {
			return
		}
		hx, hy := player.FromWindow(pt.lastX, pt.lastY, g.Width, g.Height)
		if box, ok := g.hud.WordAt(hx, hy); ok {
			if tok := lookupForm(box.Word); tok != "" {
				g.surface.WordClicked(tok, g.subtitleLine)
				return
			}
		}
		g.surface.Tap(hx, player.HUDWidth, pt.touch)
	}
}

// handleKeyboard maps the desktop keybinds onto the playback session.
func (g *Game) handleKeyboard() {
	// Alt+Enter always toggles fullscreen.
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		g.surface.ToggleFullscreen()
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.handleBack()
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.Player.Paused() {
			g.Player.Play()
		} else {
			g.Player.Pause()
		}
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.Player.SeekBy(g.Config.Gestures.SeekStepSeconds)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.Player.SeekBy(-g.Config.Gestures.SeekStepSeconds)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.surface.SetVolume(g.surface.Volume() + 5)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.surface.SetVolume(g.surface.Volume() - 5)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.surface.ToggleFullscreen()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.surface.ToggleVolumeSlider()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if g.surface.SpeedMenuOpen() {
			g.surface.CloseSpeedMenu()
		} else {
			g.surface.OpenSpeedMenu()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.surface.SetSpeed(g.speedIndex() + 1)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.surface.SetSpeed(g.speedIndex() - 1)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		g.Player.CycleSubtitles()
		g.Player.ShowText("Subtitle track switched", 1200)
		g.surface.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.Player.CycleAudio()
		g.Player.ShowText("Audio track switched", 1200)
		g.surface.Activity()
	}

	// Save controls act on whichever lookup is showing.
	if lk := g.activeLookup(); lk != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.saveLookup(lk, 2)
		}
		for i, key := range [...]ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5} {
			if inpututil.IsKeyJustPressed(key) {
				g.saveLookup(lk, i+1)
			}
		}
	}
}

func (g *Game) speedIndex() int {
	for i, v := range surface.Speeds {
		if v == g.surface.Speed() {
			return i
		}
	}
	return 0
}

// handleBack unwinds one layer: lookup overlay, then open sheet, then
// fullscreen, then the playback session itself.
func (g *Game) handleBack() {
	if g.surface.Lookup().Visible() {
		g.surface.CloseLookup()
		return
	}
	if top := g.sheets.Top(); top != nil {
		top.Close()
		return
	}
	if g.surface.IsFullscreen() {
		g.surface.ExitFullscreen()
		return
	}
	g.StopPlayback()
}

// activeLookup returns the lookup the user is currently looking at, if any.
func (g *Game) activeLookup() *surface.LookupOverlay {
	if g.surface.Lookup().Visible() {
		return g.surface.Lookup()
	}
	if g.pageSheet != nil && g.pageSheet.IsOpen() && g.pageLookup.Visible() {
		return g.pageLookup
	}
	return nil
}

func (g *Game) saveLookup(lk *surface.LookupOverlay, level int) {
	if err := lk.Save(level); err != nil {
		log.Printf("save word: %v", err)
		return
	}
	g.Player.ShowText(fmt.Sprintf("Saved “%s” at level %d", lk.Word(), level), 1500)
}
