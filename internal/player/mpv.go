// Package player wraps libmpv as the single video element the gesture
// surface drives. mpv's property observers keep a mirrored snapshot of
// playback state; the snapshot is the source of truth the UI reads.
package player

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"

	"github.com/gen2brain/go-mpv"

	"github.com/avdias/sublingo/internal/config"
)

// Player wraps libmpv for video playback.
type Player struct {
	m        sync.Mutex
	mpv      *mpv.Mpv
	playing  bool
	paused   bool
	duration float64
	position float64
	buffered float64
	subText  string
	itemID   string

	OnPlaybackEnd func()
	// OnSubtitleChanged fires from the event loop whenever the displayed
	// subtitle line changes, including to empty.
	OnSubtitleChanged func(text string)
}

// New creates and initializes a new mpv player instance.
func New(cfg *config.Config) (*Player, error) {
	m := mpv.New()

	must(m.SetOptionString("hwdec", cfg.Playback.HWAccel))
	must(m.SetOptionString("vo", "gpu"))
	must(m.SetOptionString("keep-open", "yes"))
	must(m.SetOptionString("idle", "yes"))

	if cfg.Playback.AudioLanguage != "" {
		must(m.SetOptionString("alang", cfg.Playback.AudioLanguage))
	}
	if cfg.Playback.SubLanguage != "" {
		must(m.SetOptionString("slang", cfg.Playback.SubLanguage))
	}

	must(m.SetOptionString("volume", fmt.Sprintf("%d", cfg.Playback.Volume)))

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	p := &Player{mpv: m}

	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "pause", mpv.FormatFlag)
	m.ObserveProperty(0, "demuxer-cache-time", mpv.FormatDouble)
	m.ObserveProperty(0, "sub-text", mpv.FormatString)

	go p.eventLoop()

	return p, nil
}

func must(err error) {
	if err != nil {
		log.Printf("mpv option warning: %v", err)
	}
}

// SetWindowID sets the native window handle for embedded playback.
func (p *Player) SetWindowID(wid int64) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.SetOptionString("wid", fmt.Sprintf("%d", wid))
}

// Load starts playback of a URL or local path.
func (p *Player) Load(url string, itemID string) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.itemID = itemID
	p.playing = true
	p.paused = false
	p.buffered = 0
	return p.mpv.Command([]string{"loadfile", url})
}

// Play resumes playback.
func (p *Player) Play() error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.SetPropertyString("pause", "no")
}

// Pause pauses playback.
func (p *Player) Pause() error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.SetPropertyString("pause", "yes")
}

// SeekBy seeks relative to the current position.
func (p *Player) SeekBy(seconds float64) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.Command([]string{"seek", fmt.Sprintf("%.1f", seconds), "relative"})
}

// SeekTo seeks to an absolute position.
func (p *Player) SeekTo(seconds float64) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.Command([]string{"seek", fmt.Sprintf("%.1f", seconds), "absolute"})
}

// SetVolume sets the volume in percent.
func (p *Player) SetVolume(vol int) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.SetPropertyString("volume", fmt.Sprintf("%d", vol))
}

// SetPlaybackRate sets the playback speed multiplier.
func (p *Player) SetPlaybackRate(rate float64) error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.SetPropertyString("speed", fmt.Sprintf("%.2f", rate))
}

// CycleSubtitles cycles through subtitle tracks.
func (p *Player) CycleSubtitles() error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.Command([]string{"cycle", "sub"})
}

// CycleAudio cycles through audio tracks.
func (p *Player) CycleAudio() error {
	p.m.Lock()
	defer p.m.Unlock()
	return p.mpv.Command([]string{"cycle", "audio"})
}

// Stop stops playback.
func (p *Player) Stop() error {
	p.m.Lock()
	defer p.m.Unlock()
	p.playing = false
	return p.mpv.Command([]string{"stop"})
}

// Destroy cleans up the mpv instance.
func (p *Player) Destroy() {
	p.m.Lock()
	defer p.m.Unlock()
	p.mpv.TerminateDestroy()
}

// Playing returns whether media is currently loaded.
func (p *Player) Playing() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.playing
}

// Paused returns the current pause state.
func (p *Player) Paused() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.paused
}

// CurrentTime returns the current playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.m.Lock()
	defer p.m.Unlock()
	return p.position
}

// Duration returns the total duration in seconds.
func (p *Player) Duration() float64 {
	p.m.Lock()
	defer p.m.Unlock()
	return p.duration
}

// BufferedTo returns how far the demuxer cache reaches, in seconds.
func (p *Player) BufferedTo() float64 {
	p.m.Lock()
	defer p.m.Unlock()
	return p.buffered
}

// SubtitleText returns the subtitle line currently on screen.
func (p *Player) SubtitleText() string {
	p.m.Lock()
	defer p.m.Unlock()
	return p.subText
}

// ItemID returns the currently playing item ID.
func (p *Player) ItemID() string {
	p.m.Lock()
	defer p.m.Unlock()
	return p.itemID
}

func (p *Player) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := p.mpv.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			var subChanged string
			var subDidChange bool
			p.m.Lock()
			switch prop.Name {
			case "time-pos":
				if v, ok := prop.Data.(float64); ok {
					p.position = v
				}
			case "duration":
				if v, ok := prop.Data.(float64); ok {
					p.duration = v
				}
			case "pause":
				if v, ok := prop.Data.(int); ok {
					p.paused = v == 1
				}
			case "demuxer-cache-time":
				if v, ok := prop.Data.(float64); ok {
					p.buffered = v
				}
			case "sub-text":
				if v, ok := prop.Data.(string); ok {
					v = strings.TrimSpace(v)
					if v != p.subText {
						p.subText = v
						subChanged, subDidChange = v, true
					}
				}
			}
			p.m.Unlock()
			if subDidChange && p.OnSubtitleChanged != nil {
				p.OnSubtitleChanged(subChanged)
			}

		case mpv.EventEnd:
			if ev.Data == nil {
				p.m.Lock()
				wasPlaying := p.playing
				p.playing = false
				p.m.Unlock()
				if wasPlaying && p.OnPlaybackEnd != nil {
					p.OnPlaybackEnd()
				}
				continue
			}
			ef := ev.EndFile()
			p.m.Lock()
			wasPlaying := p.playing
			p.playing = false
			p.m.Unlock()
			log.Printf("mpv end-file: reason=%s wasPlaying=%v", ef.Reason, wasPlaying)
			// Only signal playback end when we were actually playing.
			// Stop() sets playing=false before sending the stop command,
			// so EndFileStop events arrive with wasPlaying=false and are ignored.
			if wasPlaying && p.OnPlaybackEnd != nil {
				p.OnPlaybackEnd()
			}

		case mpv.EventShutdown:
			return
		}
	}
}
