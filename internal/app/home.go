package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/avdias/sublingo/internal/media"
	"github.com/avdias/sublingo/internal/ui"
)

// homeScreen lists resumable items from the media server and lets the
// user search the library. With no server configured it only shows a
// hint to pass a file path on the command line.
type homeScreen struct {
	game *Game

	items    []media.Item
	heading  string
	selected int
	loaded   bool
	loading  bool
	loadErr  error

	query     string
	searching bool

	mu sync.Mutex
}

func newHomeScreen(g *Game) *homeScreen {
	return &homeScreen{game: g, heading: "Continue Watching"}
}

// refresh reloads the resume list. Called on startup and whenever a
// playback session ends, so progress reported during the session shows
// up immediately.
func (hs *homeScreen) refresh() {
	if hs.game.Media == nil {
		return
	}
	hs.mu.Lock()
	if hs.loading {
		hs.mu.Unlock()
		return
	}
	hs.loading = true
	hs.mu.Unlock()

	go func() {
		items, err := hs.game.Media.ResumeItems(20)
		hs.mu.Lock()
		defer hs.mu.Unlock()
		hs.loading = false
		hs.loaded = true
		hs.loadErr = err
		if err != nil {
			log.Printf("Failed to load resume items: %v", err)
			return
		}
		hs.heading = "Continue Watching"
		hs.items = items
		if hs.selected >= len(items) {
			hs.selected = 0
		}
	}()
}

func (hs *homeScreen) search(query string) {
	hs.mu.Lock()
	if hs.loading {
		hs.mu.Unlock()
		return
	}
	hs.loading = true
	hs.mu.Unlock()

	go func() {
		items, err := hs.game.Media.Search(query, 30)
		hs.mu.Lock()
		defer hs.mu.Unlock()
		hs.loading = false
		hs.loaded = true
		hs.loadErr = err
		if err != nil {
			log.Printf("Search %q failed: %v", query, err)
			return
		}
		hs.heading = fmt.Sprintf("Results for %q", query)
		hs.items = items
		hs.selected = 0
	}()
}

func (hs *homeScreen) update() error {
	if hs.game.Media == nil {
		return nil
	}
	if !hs.loaded {
		hs.refresh()
	}

	if hs.searching {
		return hs.updateSearch()
	}

	hs.mu.Lock()
	n := len(hs.items)
	hs.mu.Unlock()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		if hs.selected < n-1 {
			hs.selected++
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		if hs.selected > 0 {
			hs.selected--
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		hs.mu.Lock()
		var item *media.Item
		if hs.selected < len(hs.items) {
			it := hs.items[hs.selected]
			item = &it
		}
		hs.mu.Unlock()
		if item != nil {
			hs.game.StartPlayback(*item)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeySlash):
		hs.searching = true
		hs.query = ""
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		hs.refresh()
	}
	return nil
}

func (hs *homeScreen) updateSearch() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		if r == '/' && hs.query == "" {
			continue // the keypress that opened the box
		}
		hs.query += string(r)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if hs.query != "" {
			runes := []rune(hs.query)
			hs.query = string(runes[:len(runes)-1])
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		hs.searching = false
		hs.query = ""
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		hs.searching = false
		if hs.query != "" {
			hs.search(hs.query)
		}
	}
	return nil
}

func (hs *homeScreen) draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)

	pad := float64(ui.ScreenPadding)
	ui.DrawText(screen, "Sublingo", pad, pad, ui.FontSizeTitle, ui.ColorText)

	if hs.game.Media == nil {
		ui.DrawText(screen, "No media server configured.", pad, pad+60, ui.FontSizeBody, ui.ColorTextSecondary)
		ui.DrawText(screen, "Pass a video file on the command line, or set server.url in the config.", pad, pad+88, ui.FontSizeBody, ui.ColorTextMuted)
		return
	}

	hs.mu.Lock()
	items := hs.items
	heading := hs.heading
	loading := hs.loading
	loadErr := hs.loadErr
	hs.mu.Unlock()

	y := pad + 56
	if hs.searching {
		ui.DrawText(screen, "Search: "+hs.query+"_", pad, y, ui.FontSizeHeading, ui.ColorAccent)
	} else {
		ui.DrawText(screen, heading, pad, y, ui.FontSizeHeading, ui.ColorTextSecondary)
	}
	y += 44

	switch {
	case loading:
		ui.DrawText(screen, "Loading...", pad, y, ui.FontSizeBody, ui.ColorTextMuted)
		return
	case loadErr != nil:
		ui.DrawText(screen, "Could not reach the server: "+loadErr.Error(), pad, y, ui.FontSizeBody, ui.ColorError)
		return
	case len(items) == 0:
		ui.DrawText(screen, "Nothing here yet. Press / to search the library.", pad, y, ui.FontSizeBody, ui.ColorTextMuted)
		return
	}

	w := float64(hs.game.Width) - pad*2
	for i, item := range items {
		rowY := y + float64(i)*(ui.RowHeight+ui.RowGap)
		if rowY > float64(hs.game.Height)-ui.RowHeight {
			break
		}
		bg := ui.ColorSurface
		if i == hs.selected {
			bg = ui.ColorSurfaceFocus
		}
		vector.DrawFilledRect(screen, float32(pad), float32(rowY), float32(w), ui.RowHeight, bg, false)
		if i == hs.selected {
			vector.DrawFilledRect(screen, float32(pad), float32(rowY), 4, ui.RowHeight, ui.ColorAccent, false)
		}

		tx := pad + ui.RowPadding + 8
		maxW := w - ui.RowPadding*2 - 8
		ui.DrawText(screen, ui.Ellipsize(item.Name, ui.FontSizeBody, maxW), tx, rowY+10, ui.FontSizeBody, ui.ColorText)
		sub := item.Type
		if item.SeriesName != "" {
			sub = item.SeriesName
		}
		ui.DrawText(screen, ui.Ellipsize(sub, ui.FontSizeSmall, maxW), tx, rowY+36, ui.FontSizeSmall, ui.ColorTextMuted)

		if item.RuntimeTicks > 0 && item.PositionTicks > 0 {
			frac := float64(item.PositionTicks) / float64(item.RuntimeTicks)
			if frac > 1 {
				frac = 1
			}
			barY := rowY + ui.RowHeight - 4
			vector.DrawFilledRect(screen, float32(pad), float32(barY), float32(w), 3, ui.ColorBackground, false)
			vector.DrawFilledRect(screen, float32(pad), float32(barY), float32(w*frac), 3, ui.ColorAccent, false)
		}
	}
}
