package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/avdias/sublingo/internal/sheet"
	"github.com/avdias/sublingo/internal/surface"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Vocabulary VocabularyConfig `toml:"vocabulary"`
	Playback   PlaybackConfig   `toml:"playback"`
	Gestures   GestureConfig    `toml:"gestures"`
	Sheets     SheetConfig      `toml:"sheets"`
	UI         UIConfig         `toml:"ui"`
}

// ServerConfig points at the Jellyfin server the player streams from. All of
// it is optional: without a server the player only opens local files.
type ServerConfig struct {
	URL      string `toml:"url" env:"SUBLINGO_SERVER_URL"`
	Username string `toml:"username" env:"SUBLINGO_SERVER_USERNAME"`
	Token    string `toml:"token" env:"SUBLINGO_SERVER_TOKEN"`
	UserID   string `toml:"user_id" env:"SUBLINGO_SERVER_USER_ID"`
}

type DictionaryConfig struct {
	URL      string `toml:"url" env:"SUBLINGO_DICT_URL"`
	Language string `toml:"language" env:"SUBLINGO_DICT_LANGUAGE"`
}

type VocabularyConfig struct {
	// Path of the sqlite database; empty means <config dir>/vocab.db.
	Path string `toml:"path" env:"SUBLINGO_VOCAB_PATH"`
}

type PlaybackConfig struct {
	HWAccel       string `toml:"hwdec"`
	AudioLanguage string `toml:"audio_language"`
	SubLanguage   string `toml:"sub_language"`
	Volume        int    `toml:"volume"`
}

// GestureConfig holds the tap and seek tunables. Durations are milliseconds.
type GestureConfig struct {
	DoubleTapWindowMs int     `toml:"double_tap_window_ms"`
	AccrualWindowMs   int     `toml:"accrual_window_ms"`
	HideDelayMs       int     `toml:"hide_delay_ms"`
	LeaveHideDelayMs  int     `toml:"leave_hide_delay_ms"`
	SeekStepSeconds   float64 `toml:"seek_step_seconds"`
	BufferedPollMs    int     `toml:"buffered_poll_ms"`
	PreviewEdgePx     float64 `toml:"preview_edge_px"`
}

// SheetConfig holds the bottom-sheet drag and animation tunables.
type SheetConfig struct {
	AnimationMs       int     `toml:"animation_ms"`
	DismissDistancePx float64 `toml:"dismiss_distance_px"`
	DismissVelocity   float64 `toml:"dismiss_velocity"` // px per ms
	DragEpsilonPx     float64 `toml:"drag_epsilon_px"`
	HandleHeightPx    float64 `toml:"handle_height_px"`
	CompactMaxWidth   float64 `toml:"compact_max_width"`
	CompactMaxHeight  float64 `toml:"compact_max_height"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			URL:      "https://api.dictionaryapi.dev",
			Language: "en",
		},
		Playback: PlaybackConfig{
			HWAccel:       "auto-safe",
			AudioLanguage: "eng",
			SubLanguage:   "eng",
			Volume:        100,
		},
		Gestures: GestureConfig{
			DoubleTapWindowMs: 300,
			AccrualWindowMs:   800,
			HideDelayMs:       3000,
			LeaveHideDelayMs:  1000,
			SeekStepSeconds:   10,
			BufferedPollMs:    1000,
			PreviewEdgePx:     30,
		},
		Sheets: SheetConfig{
			AnimationMs:       250,
			DismissDistancePx: 80,
			DismissVelocity:   0.5,
			DragEpsilonPx:     5,
			HandleHeightPx:    50,
			CompactMaxWidth:   768,
			CompactMaxHeight:  500,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1280,
			Height:     720,
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "sublingo"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// VocabPath resolves the vocabulary database location, falling back to the
// config directory when unset.
func (c *Config) VocabPath() (string, error) {
	if c.Vocabulary.Path != "" {
		return c.Vocabulary.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vocab.db"), nil
}

// Load builds the effective configuration: defaults, then the TOML file if
// present, then environment overrides on top.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// SurfaceConfig converts the gesture section into the surface's tunables.
func (c *Config) SurfaceConfig() surface.Config {
	g := c.Gestures
	return surface.Config{
		DoubleTapWindow: time.Duration(g.DoubleTapWindowMs) * time.Millisecond,
		AccrualWindow:   time.Duration(g.AccrualWindowMs) * time.Millisecond,
		HideDelay:       time.Duration(g.HideDelayMs) * time.Millisecond,
		LeaveHideDelay:  time.Duration(g.LeaveHideDelayMs) * time.Millisecond,
		SeekStep:        g.SeekStepSeconds,
		BufferedPoll:    time.Duration(g.BufferedPollMs) * time.Millisecond,
		PreviewEdgePx:   g.PreviewEdgePx,
		Language:        c.Dictionary.Language,
	}
}

// SheetOptions converts the sheet section into the sheet package's options.
func (c *Config) SheetOptions() sheet.Options {
	s := c.Sheets
	return sheet.Options{
		AnimationDuration: time.Duration(s.AnimationMs) * time.Millisecond,
		DismissDistance:   s.DismissDistancePx,
		VelocityThreshold: s.DismissVelocity,
		DragEpsilon:       s.DragEpsilonPx,
		HandleHeight:      s.HandleHeightPx,
		CompactMaxWidth:   s.CompactMaxWidth,
		CompactMaxHeight:  s.CompactMaxHeight,
	}
}
