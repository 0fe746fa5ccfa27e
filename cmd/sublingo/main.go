package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/avdias/sublingo/assets/icon"
	"github.com/avdias/sublingo/internal/app"
	"github.com/avdias/sublingo/internal/config"
	"github.com/avdias/sublingo/internal/dict"
	"github.com/avdias/sublingo/internal/media"
	"github.com/avdias/sublingo/internal/ui"
	"github.com/avdias/sublingo/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := ui.InitFonts(goregular.TTF); err != nil {
		log.Fatalf("Failed to init fonts: %v", err)
	}

	vocabPath, err := cfg.VocabPath()
	if err != nil {
		log.Fatalf("Failed to resolve vocabulary path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(vocabPath), 0o755); err != nil {
		log.Fatalf("Failed to create config directory: %v", err)
	}
	store, err := vocab.Open(vocabPath)
	if err != nil {
		log.Fatalf("Failed to open vocabulary store: %v", err)
	}
	defer store.Close()

	dictSvc := dict.NewClient(cfg.Dictionary.URL)

	var client *media.Client
	if cfg.Server.URL != "" {
		client = media.NewClient(cfg.Server.URL)
		switch {
		case cfg.Server.Token != "":
			client.SetToken(cfg.Server.Token, cfg.Server.UserID)
		case cfg.Server.Username != "":
			log.Printf("No server token configured; set server.token in %s", mustConfigPath())
			client = nil
		default:
			client = nil
		}
	}

	game := app.NewGame(cfg, client, store, dictSvc)
	if err := game.InitPlayer(); err != nil {
		log.Fatalf("Failed to init player: %v", err)
	}

	// A path on the command line bypasses the library screen entirely.
	if len(os.Args) > 1 {
		game.QueueStartupPath(os.Args[1])
	}

	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("Sublingo")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func mustConfigPath() string {
	p, err := config.ConfigPath()
	if err != nil {
		return "the config file"
	}
	return p
}
