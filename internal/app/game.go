// Package app hosts the ebiten game loop and wires input, playback,
// gestures and the HUD together. While media is playing mpv owns the
// window surface, so all playback chrome is rendered through the mpv OSD
// and ebiten is only the input and window layer.
package app

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/avdias/sublingo/internal/config"
	"github.com/avdias/sublingo/internal/dict"
	"github.com/avdias/sublingo/internal/media"
	"github.com/avdias/sublingo/internal/nav"
	"github.com/avdias/sublingo/internal/player"
	"github.com/avdias/sublingo/internal/sheet"
	"github.com/avdias/sublingo/internal/surface"
	"github.com/avdias/sublingo/internal/vocab"
)

// AppState is the top-level mode of the application.
type AppState int

const (
	StateHome AppState = iota
	StatePlay
)

const progressReportInterval = 10 * time.Second

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Config *config.Config
	Media  *media.Client // nil without a configured server
	Player *player.Player
	Vocab  *vocab.Store
	Dict   *dict.Client

	State         AppState
	Width, Height int

	home *homeScreen

	// Playback session state, valid while State == StatePlay.
	surface    *surface.Surface
	hud        *player.HUD
	history    *nav.History
	lock       *sheet.ScrollLock
	sheets     *sheet.ModalStack
	pageLookup *surface.LookupOverlay
	pageSheet  *sheet.Sheet

	pointer pointerTracker

	subtitleLine  string
	subtitleWords []wordToken

	itemID           string
	playbackEnded    bool
	progressDeadline time.Time
	startupPath      string
}

// NewGame creates the Game with all dependencies.
func NewGame(cfg *config.Config, client *media.Client, store *vocab.Store, dictSvc *dict.Client) *Game {
	g := &Game{
		Config: cfg,
		Media:  client,
		Vocab:  store,
		Dict:   dictSvc,
		State:  StateHome,
		Width:  cfg.UI.Width,
		Height: cfg.UI.Height,
	}
	g.home = newHomeScreen(g)
	return g
}

// InitPlayer creates the mpv player instance. Call after the window is
// visible.
func (g *Game) InitPlayer() error {
	p, err := player.New(g.Config)
	if err != nil {
		return err
	}
	p.OnPlaybackEnd = func() {
		g.playbackEnded = true
	}
	g.Player = p
	return nil
}

// StartPlayback resolves an item to a stream URL and enters play mode.
func (g *Game) StartPlayback(item media.Item) {
	if g.Media == nil {
		log.Printf("no media server configured")
		return
	}
	if !g.beginSession(item.ID, g.Media.StreamURL(item.ID)) {
		return
	}
	go func() {
		if err := g.Media.ReportPlaybackStart(item.ID, item.PositionTicks); err != nil {
			log.Printf("report playback start: %v", err)
		}
	}()
	g.progressDeadline = time.Now().Add(progressReportInterval)
}

// PlayPath plays a local file or direct URL without progress reporting.
func (g *Game) PlayPath(path string) {
	g.beginSession("", path)
}

// QueueStartupPath defers playback of a command-line path until the first
// frame, when the native window exists and can host mpv.
func (g *Game) QueueStartupPath(path string) {
	g.startupPath = path
}

// beginSession mounts the surface, HUD and modal machinery over a freshly
// loaded media element.
func (g *Game) beginSession(itemID, url string) bool {
	if g.Player == nil {
		if err := g.InitPlayer(); err != nil {
			log.Printf("init player: %v", err)
			return false
		}
	}

	wid, err := player.GetWindowHandle()
	if err != nil {
		log.Printf("get window handle: %v", err)
		return false
	}
	if err := g.Player.SetWindowID(wid); err != nil {
		log.Printf("set window id: %v", err)
	}

	if err := g.Player.Load(url, itemID); err != nil {
		log.Printf("load media: %v", err)
		return false
	}

	g.itemID = itemID
	g.history = nav.NewHistory()
	g.lock = &sheet.ScrollLock{}
	g.sheets = &sheet.ModalStack{}
	g.pageSheet = nil
	g.pageLookup = surface.NewLookup(g.Dict, g.vocabStore(), g.Config.Dictionary.Language)

	s := surface.New(g.Player, ebitenFullscreen{}, g.Dict, g.vocabStore(), g.Config.SurfaceConfig())
	s.OnWordSelected = g.openLookupSheet
	g.surface = s
	g.hud = player.NewHUD(g.Player)

	g.subtitleLine = ""
	g.subtitleWords = nil
	g.pointer = pointerTracker{}
	g.State = StatePlay
	g.playbackEnded = false

	if g.Config.UI.Fullscreen {
		s.EnterFullscreen()
	}
	return true
}

// vocabStore adapts the optional concrete store to the surface interface
// without handing it a typed nil.
func (g *Game) vocabStore() surface.VocabularyStore {
	if g.Vocab == nil {
		return nil
	}
	return g.Vocab
}

// StopPlayback tears the session down and returns to the home screen.
func (g *Game) StopPlayback() {
	if g.surface != nil {
		g.surface.Unmount()
		g.surface = nil
	}
	if g.pageSheet != nil {
		g.pageSheet.Teardown()
		g.pageSheet = nil
	}
	if g.pageLookup != nil {
		g.pageLookup.Close()
		g.pageLookup = nil
	}
	if g.hud != nil {
		g.hud.Clear()
		g.hud = nil
	}
	if g.Player != nil && g.Player.Playing() {
		itemID := g.Player.ItemID()
		pos := g.Player.CurrentTime()
		if err := g.Player.Stop(); err != nil {
			log.Printf("stop: %v", err)
		}
		if itemID != "" && g.Media != nil {
			go func() {
				if err := g.Media.ReportPlaybackStopped(itemID, media.Ticks(pos)); err != nil {
					log.Printf("report playback stopped: %v", err)
				}
			}()
		}
	}
	g.itemID = ""
	g.State = StateHome
	g.home.refresh()
}

// openLookupSheet is the page-level lookup popup used outside fullscreen:
// a bottom sheet hosting the same dictionary content.
func (g *Game) openLookupSheet(token, sentence string) {
	if g.pageSheet != nil {
		g.pageSheet.Teardown()
		g.sheets.Remove(g.pageSheet)
	}
	vp := sheet.Viewport{Width: float64(g.Width), Height: float64(g.Height)}
	sh := sheet.New(g.history, g.lock, vp, g.Config.SheetOptions())
	sh.OnClosed = func() {
		if g.pageLookup != nil {
			g.pageLookup.Close()
		}
		g.sheets.Remove(sh)
		if g.pageSheet == sh {
			g.pageSheet = nil
		}
	}
	g.pageSheet = sh
	g.sheets.Add(sh)
	sh.Open()
	g.pageLookup.Open(token, sentence)
}

func (g *Game) Update() error {
	switch g.State {
	case StateHome:
		if g.startupPath != "" {
			path := g.startupPath
			g.startupPath = ""
			g.PlayPath(path)
			return nil
		}
		return g.home.update()

	case StatePlay:
		if g.playbackEnded {
			g.playbackEnded = false
			g.StopPlayback()
			return nil
		}

		g.handleKeyboard()
		g.handlePointer()

		// A platform-side fullscreen exit must be reflected in the surface.
		if g.surface.IsFullscreen() && !ebiten.IsFullscreen() {
			g.surface.NotifyFullscreenLost()
		}

		g.refreshSubtitle()

		g.surface.Update()
		g.sheets.Update()
		g.pageLookup.Update()
		g.reportProgress()

		g.hud.Render(g.buildHUDState())
	}
	return nil
}

// refreshSubtitle re-tokenizes the displayed subtitle line when it changes.
func (g *Game) refreshSubtitle() {
	line := g.Player.SubtitleText()
	if line == g.subtitleLine {
		return
	}
	g.subtitleLine = line
	g.subtitleWords = tokenize(line)
}

// reportProgress sends periodic watch-progress updates for server items.
func (g *Game) reportProgress() {
	if g.Media == nil || g.itemID == "" {
		return
	}
	now := time.Now()
	if now.Before(g.progressDeadline) {
		return
	}
	g.progressDeadline = now.Add(progressReportInterval)
	itemID := g.itemID
	pos := g.Player.CurrentTime()
	paused := g.Player.Paused()
	go func() {
		if err := g.Media.ReportPlaybackProgress(itemID, media.Ticks(pos), paused); err != nil {
			log.Printf("report progress: %v", err)
		}
	}()
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.State {
	case StateHome:
		g.home.draw(screen)

	case StatePlay:
		// mpv owns the window surface via --wid; all playback chrome goes
		// through the mpv OSD, so nothing is drawn here.
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}
