// Package surface implements the video control / gesture surface: a
// transport overlay over a single video element that disambiguates taps,
// double taps and drags across three screen zones, runs a cumulative seek
// counter, auto-hides on inactivity, and hosts an in-place contextual
// lookup overlay while in fullscreen. The video element's playback state is
// the ultimate source of truth.
package surface

import (
	"context"
	"log"
	"time"

	"github.com/avdias/sublingo/internal/dict"
	"github.com/avdias/sublingo/internal/gesture"
)

// Video is the command surface of the underlying media element. Commands
// are idempotent enough to tolerate being issued from multiple UI paths.
type Video interface {
	Play() error
	Pause() error
	Paused() bool
	SeekTo(seconds float64) error
	SeekBy(seconds float64) error
	SetVolume(percent int) error
	SetPlaybackRate(rate float64) error
	Duration() float64
	CurrentTime() float64
	// BufferedTo returns how far ahead the media is buffered, in seconds.
	BufferedTo() float64
}

// Fullscreen is the platform fullscreen and orientation capability. All of
// it is best-effort: rejections are expected on some platforms.
type Fullscreen interface {
	Request() error
	Exit() error
	LockLandscape() error
	UnlockOrientation() error
}

// Dictionary resolves a clicked surface form to a dictionary entry, nil on
// miss.
type Dictionary interface {
	Lookup(ctx context.Context, surfaceForm, learningLanguage string) (*dict.Entry, error)
}

// VocabularyStore is the external vocabulary collaborator.
type VocabularyStore interface {
	HasWord(word string) (bool, error)
	AddWord(word, sentence string, level int) error
	UpdateLevel(word string, level int) error
}

// Speeds are the discrete playback-rate steps offered by the speed menu.
var Speeds = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Config holds the surface's timing and threshold tunables. The accrual
// window and the double-tap window use different constants on purpose; both
// are configuration, not hard-coded behavior.
type Config struct {
	DoubleTapWindow time.Duration // taps in the same zone closer than this pair up
	AccrualWindow   time.Duration // seek feedback window re-armed by each double-tap
	HideDelay       time.Duration // controls auto-hide after this much inactivity
	LeaveHideDelay  time.Duration // shortened hide delay after pointer-leave
	SeekStep        float64       // seconds per double-tap seek
	BufferedPoll    time.Duration // buffered-range recompute interval while playing
	PreviewEdgePx   float64       // min distance of the preview marker from track edges
	Language        string        // learning language passed to dictionary lookups
}

// DefaultConfig returns the shipped tunables.
func DefaultConfig() Config {
	return Config{
		DoubleTapWindow: 300 * time.Millisecond,
		AccrualWindow:   800 * time.Millisecond,
		HideDelay:       3 * time.Second,
		LeaveHideDelay:  time.Second,
		SeekStep:        10,
		BufferedPoll:    time.Second,
		PreviewEdgePx:   30,
		Language:        "en",
	}
}

// dragSeek is the state of an active progress-track preview session. The
// actual media seek is issued only on release.
type dragSeek struct {
	active      bool
	trackLeft   float64
	trackWidth  float64
	fraction    float64
	previewTime float64
}

// Surface owns control visibility, zone tap/seek disambiguation, drag-seek,
// buffered polling and fullscreen toggling for one mounted video element.
type Surface struct {
	cfg   Config
	video Video
	fs    Fullscreen
	now   func() time.Time

	mounted             bool
	controlsVisible     bool
	volume              int
	speedIdx            int
	volumeSliderVisible bool
	speedMenuOpen       bool
	lastTap             map[gesture.Zone]time.Time
	accrualSeconds      int
	accrualForward      bool
	accrualDeadline     time.Time
	bufferedFraction    float64
	fullscreen          bool
	drag                dragSeek
	hideDeadline        time.Time
	pollDeadline        time.Time

	lookup *LookupOverlay

	// OnWordSelected fires for word clicks outside fullscreen so the host
	// can open its page-level lookup popup.
	OnWordSelected func(token, sentence string)
	// OnFullscreenChanged fires on every internal fullscreen flag change.
	OnFullscreenChanged func(isFullscreen bool)
}

// New mounts a surface over a video element. dictSvc and vocab may be nil;
// the lookup overlay then reports "no entry found" and disables saving.
func New(video Video, fs Fullscreen, dictSvc Dictionary, vocab VocabularyStore, cfg Config) *Surface {
	s := &Surface{
		cfg:             cfg,
		video:           video,
		fs:              fs,
		now:             time.Now,
		mounted:         true,
		controlsVisible: true,
		volume:          100,
		speedIdx:        speedIndexOf(1.0),
		lastTap:         make(map[gesture.Zone]time.Time),
	}
	s.lookup = NewLookup(dictSvc, vocab, cfg.Language)
	return s
}

func speedIndexOf(rate float64) int {
	for i, v := range Speeds {
		if v == rate {
			return i
		}
	}
	return 0
}

// Unmount cancels every pending timer and detaches the surface. A timer
// firing against a torn-down surface is a defect class this guards against:
// all per-frame work checks mounted first.
func (s *Surface) Unmount() {
	s.mounted = false
	s.hideDeadline = time.Time{}
	s.pollDeadline = time.Time{}
	s.accrualSeconds = 0
	s.drag = dragSeek{}
	s.lookup.Close()
}

// ControlsVisible reports whether the transport controls are shown.
func (s *Surface) ControlsVisible() bool { return s.controlsVisible }

// SeekAccrual returns the running total of seconds skipped in the current
// double-tap burst, 0 once the feedback window has lapsed.
func (s *Surface) SeekAccrual() int { return s.accrualSeconds }

// AccrualForward reports the direction of the current accrual burst.
func (s *Surface) AccrualForward() bool { return s.accrualForward }

// BufferedFraction returns the last polled buffered estimate in 0..1.
func (s *Surface) BufferedFraction() float64 { return s.bufferedFraction }

// IsFullscreen reports the internal fullscreen flag, which may be true even
// when the platform rejected the real fullscreen request.
func (s *Surface) IsFullscreen() bool { return s.fullscreen }

// DragSeekActive reports whether a progress-track preview is in flight.
func (s *Surface) DragSeekActive() bool { return s.drag.active }

// Volume returns the current volume in 0..100.
func (s *Surface) Volume() int { return s.volume }

// Speed returns the current playback rate.
func (s *Surface) Speed() float64 { return Speeds[s.speedIdx] }

// VolumeSliderVisible reports whether the volume slider is expanded.
func (s *Surface) VolumeSliderVisible() bool { return s.volumeSliderVisible }

// SpeedMenuOpen reports whether the speed menu is pinned open.
func (s *Surface) SpeedMenuOpen() bool { return s.speedMenuOpen }

// Tap handles a completed tap at horizontal position x on a surface of the
// given width. touch selects the touch-device center-zone behavior.
func (s *Surface) Tap(x, width float64, touch bool) {
	if !s.mounted {
		return
	}
	now := s.now()
	zone := gesture.ZoneAt(x, width)
	double := gesture.IsDoubleTap(s.lastTap[zone], now, s.cfg.DoubleTapWindow)
	// Record the tap regardless of classification: each tap is measured
	// against the one immediately before it.
	s.lastTap[zone] = now

	switch zone {
	case gesture.ZoneLeft, gesture.ZoneRight:
		if !double {
			// Side-zone single taps never seek.
			s.toggleControls(now)
			return
		}
		step := s.cfg.SeekStep
		if zone == gesture.ZoneLeft {
			step = -step
		}
		s.seekBy(step)
		s.accrue(now, zone == gesture.ZoneRight)
		s.markActivity(now)

	case gesture.ZoneCenter:
		if touch {
			// On touch, a center tap plays when paused and otherwise just
			// toggles the controls; doubles are not distinguished.
			if s.video.Paused() {
				s.play()
			} else {
				s.toggleControls(now)
			}
			return
		}
		if double {
			s.ToggleFullscreen()
			return
		}
		s.togglePlayPause()
	}
}

// accrue adds one seek step to the running burst total, or starts a new
// burst at one step when the feedback window has lapsed or the seek
// direction flipped, and re-arms the window either way. A direction flip
// must not keep the old total: "+10, +10, −10" reads as a fresh −10s, not
// as −30s.
func (s *Surface) accrue(now time.Time, forward bool) {
	if s.accrualSeconds > 0 && forward == s.accrualForward && now.Before(s.accrualDeadline) {
		s.accrualSeconds += int(s.cfg.SeekStep)
	} else {
		s.accrualSeconds = int(s.cfg.SeekStep)
	}
	s.accrualForward = forward
	s.accrualDeadline = now.Add(s.cfg.AccrualWindow)
}

// markActivity shows the controls and restarts the hide timer. The timer is
// only armed while playing; pause forces the controls visible instead.
func (s *Surface) markActivity(now time.Time) {
	s.controlsVisible = true
	if !s.video.Paused() {
		s.hideDeadline = now.Add(s.cfg.HideDelay)
	} else {
		s.hideDeadline = time.Time{}
	}
}

// Activity reports qualifying user input (pointer move, key press) to the
// visibility state machine.
func (s *Surface) Activity() {
	if !s.mounted {
		return
	}
	s.markActivity(s.now())
}

// PointerLeave shortens the hide delay when the pointer leaves the surface
// while playing.
func (s *Surface) PointerLeave() {
	if !s.mounted || s.video.Paused() {
		return
	}
	s.hideDeadline = s.now().Add(s.cfg.LeaveHideDelay)
}

func (s *Surface) toggleControls(now time.Time) {
	if s.controlsVisible {
		s.controlsVisible = false
		s.hideDeadline = time.Time{}
		return
	}
	s.markActivity(now)
}

// pinned reports whether some UI holds the controls open, suppressing the
// hide timer.
func (s *Surface) pinned() bool {
	return s.speedMenuOpen || s.lookup.visible
}

// Update advances every deferred timer. Call once per frame.
func (s *Surface) Update() {
	if !s.mounted {
		return
	}
	now := s.now()

	if s.video.Paused() {
		// Paused: visibility is forced and the hide timer cleared; the
		// buffered poll interval is torn down, not left ticking.
		s.controlsVisible = true
		s.hideDeadline = time.Time{}
		s.pollDeadline = time.Time{}
	} else {
		if s.pollDeadline.IsZero() {
			s.pollDeadline = now.Add(s.cfg.BufferedPoll)
		} else if !now.Before(s.pollDeadline) {
			s.recomputeBuffered()
			s.pollDeadline = now.Add(s.cfg.BufferedPoll)
		}
		if !s.hideDeadline.IsZero() && !now.Before(s.hideDeadline) && !s.pinned() {
			s.controlsVisible = false
			s.hideDeadline = time.Time{}
		}
	}

	if s.accrualSeconds > 0 && !now.Before(s.accrualDeadline) {
		// Window lapsed with no further double-tap: the feedback clears and
		// the next burst restarts at one step.
		s.accrualSeconds = 0
	}

	s.lookup.Update()
}

// recomputeBuffered refreshes the buffered estimate. There is no reliable
// cross-platform buffered-change notification, hence the fixed interval.
func (s *Surface) recomputeBuffered() {
	dur := s.video.Duration()
	if dur <= 0 {
		s.bufferedFraction = 0
		return
	}
	s.bufferedFraction = gesture.Clamp(s.video.BufferedTo()/dur, 0, 1)
}

// --- drag-seek ---

// BeginTrackDrag starts a preview session on the progress track.
func (s *Surface) BeginTrackDrag(clientX, trackLeft, trackWidth float64) {
	if !s.mounted || trackWidth <= 0 {
		return
	}
	s.drag = dragSeek{active: true, trackLeft: trackLeft, trackWidth: trackWidth}
	s.MoveTrackDrag(clientX)
}

// MoveTrackDrag updates the preview position from the pointer.
func (s *Surface) MoveTrackDrag(clientX float64) {
	if !s.drag.active {
		return
	}
	f := gesture.Fraction(clientX, s.drag.trackLeft, s.drag.trackWidth)
	s.drag.fraction = f
	s.drag.previewTime = f * s.video.Duration()
	s.markActivity(s.now())
}

// EndTrackDrag releases the preview session and issues the one real seek.
func (s *Surface) EndTrackDrag() {
	if !s.drag.active {
		return
	}
	target := s.drag.previewTime
	s.drag = dragSeek{}
	if err := s.video.SeekTo(target); err != nil {
		log.Printf("drag seek: %v", err)
	}
}

// PreviewMarkerX returns the marker's pixel position, clamped to stay a
// margin away from either track edge so its label never clips past the bar.
func (s *Surface) PreviewMarkerX() float64 {
	x := s.drag.trackLeft + s.drag.fraction*s.drag.trackWidth
	lo := s.drag.trackLeft + s.cfg.PreviewEdgePx
	hi := s.drag.trackLeft + s.drag.trackWidth - s.cfg.PreviewEdgePx
	if hi < lo {
		return s.drag.trackLeft + s.drag.trackWidth/2
	}
	return gesture.Clamp(x, lo, hi)
}

// DisplayTime returns the time shown as "current": the preview time during
// a drag, the media's true position otherwise.
func (s *Surface) DisplayTime() float64 {
	if s.drag.active {
		return s.drag.previewTime
	}
	return s.video.CurrentTime()
}

// --- playback commands ---

func (s *Surface) play() {
	if err := s.video.Play(); err != nil {
		log.Printf("play: %v", err)
	}
	s.markActivity(s.now())
}

func (s *Surface) pause() {
	if err := s.video.Pause(); err != nil {
		log.Printf("pause: %v", err)
	}
}

func (s *Surface) togglePlayPause() {
	if s.video.Paused() {
		s.play()
	} else {
		s.pause()
	}
}

// seekBy issues a relative seek unless a drag-seek preview is active; a
// programmatic seek must never fight the user's gesture.
func (s *Surface) seekBy(seconds float64) {
	if s.drag.active {
		return
	}
	if err := s.video.SeekBy(seconds); err != nil {
		log.Printf("seek: %v", err)
	}
}

// SetVolume clamps and applies the volume.
func (s *Surface) SetVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.volume = v
	if err := s.video.SetVolume(v); err != nil {
		log.Printf("volume: %v", err)
	}
}

// ToggleVolumeSlider expands or collapses the volume slider.
func (s *Surface) ToggleVolumeSlider() {
	s.volumeSliderVisible = !s.volumeSliderVisible
	s.Activity()
}

// OpenSpeedMenu opens the speed menu, pinning the controls visible.
func (s *Surface) OpenSpeedMenu() {
	s.speedMenuOpen = true
	s.controlsVisible = true
}

// CloseSpeedMenu closes the menu and re-arms the hide timer.
func (s *Surface) CloseSpeedMenu() {
	s.speedMenuOpen = false
	s.Activity()
}

// SetSpeed applies a discrete playback-rate step by index.
func (s *Surface) SetSpeed(idx int) {
	if idx < 0 || idx >= len(Speeds) {
		return
	}
	s.speedIdx = idx
	if err := s.video.SetPlaybackRate(Speeds[idx]); err != nil {
		log.Printf("playback rate: %v", err)
	}
}

// --- fullscreen ---

// ToggleFullscreen flips between fullscreen and windowed.
func (s *Surface) ToggleFullscreen() {
	if s.fullscreen {
		s.ExitFullscreen()
	} else {
		s.EnterFullscreen()
	}
}

// EnterFullscreen requests platform fullscreen. If the request rejects, the
// internal flag is set anyway so layout and the lookup overlay still behave
// as fullscreen; orientation lock failures are swallowed outright.
func (s *Surface) EnterFullscreen() {
	if !s.mounted || s.fullscreen {
		return
	}
	if err := s.fs.Request(); err != nil {
		log.Printf("fullscreen request: %v", err)
	}
	_ = s.fs.LockLandscape()
	s.setFullscreen(true)
}

// ExitFullscreen leaves fullscreen by the programmatic path.
func (s *Surface) ExitFullscreen() {
	if !s.fullscreen {
		return
	}
	if err := s.fs.Exit(); err != nil {
		log.Printf("fullscreen exit: %v", err)
	}
	_ = s.fs.UnlockOrientation()
	s.setFullscreen(false)
}

// NotifyFullscreenLost records a fullscreen exit performed by the platform
// itself (Escape at the OS level, window manager action).
func (s *Surface) NotifyFullscreenLost() {
	s.setFullscreen(false)
}

func (s *Surface) setFullscreen(on bool) {
	if s.fullscreen == on {
		return
	}
	s.fullscreen = on
	if !on {
		// Exiting fullscreen by any path closes the lookup overlay.
		s.lookup.Close()
	}
	if s.OnFullscreenChanged != nil {
		s.OnFullscreenChanged(on)
	}
}

// --- contextual lookup ---

// WordClicked handles a subtitle word click. Playback always pauses first,
// in and out of fullscreen alike. In fullscreen the in-place overlay opens;
// otherwise the selection is delegated upward to the hosting page.
func (s *Surface) WordClicked(token, sentence string) {
	if !s.mounted {
		return
	}
	s.pause()
	if s.fullscreen {
		s.lookup.Open(token, sentence)
		return
	}
	if s.OnWordSelected != nil {
		s.OnWordSelected(token, sentence)
	}
}

// Lookup exposes the overlay state for rendering and host input routing.
func (s *Surface) Lookup() *LookupOverlay { return s.lookup }

// CloseLookup clears the overlay. Playback is not resumed: closing the
// overlay to re-read the subtitle must not restart the video.
func (s *Surface) CloseLookup() {
	s.lookup.Close()
	s.Activity()
}
