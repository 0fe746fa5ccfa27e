// Package sheet implements the modal / bottom-sheet controller: a dialog
// surface that renders as a centered modal on wide viewports and as a
// bottom-anchored, drag-dismissible sheet on compact viewports, kept in sync
// with the back-navigation stack so nested sheets close in the right order.
package sheet

import (
	"fmt"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/avdias/sublingo/internal/gesture"
	"github.com/avdias/sublingo/internal/nav"
)

// State is the sheet lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateDragging // sub-state of Open, entered only by a qualifying touch drag
	StateClosing
)

// Variant selects the open/close animation family.
type Variant int

const (
	VariantScale Variant = iota // centered modal, scale-down on close
	VariantSlide                // bottom sheet, slide-down on close
)

// Options holds the thresholds and timings of the sheet state machine.
// The values are tunable configuration; defaults match the shipped behavior.
type Options struct {
	AnimationDuration time.Duration // open/close/snap-back animation length
	DismissDistance   float64       // px of downward drag that dismisses outright
	VelocityThreshold float64       // px/ms; a fast flick dismisses under the distance
	DragEpsilon       float64       // px of movement before the drag axis locks
	HandleHeight      float64       // px from the sheet top that always accepts a drag
	CompactMaxWidth   float64       // viewport width at or below which the sheet is compact
	CompactMaxHeight  float64       // viewport height at or below which the sheet is compact
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		AnimationDuration: 250 * time.Millisecond,
		DismissDistance:   80,
		VelocityThreshold: 0.5,
		DragEpsilon:       5,
		HandleHeight:      50,
		CompactMaxWidth:   768,
		CompactMaxHeight:  500,
	}
}

// Viewport is the host window size at open time.
type Viewport struct {
	Width, Height float64
}

// Compact reports whether the viewport selects bottom-sheet behavior.
func (v Viewport) Compact(o Options) bool {
	return v.Width <= o.CompactMaxWidth || v.Height <= o.CompactMaxHeight
}

// ScrollLock is the shared page-scroll lock. It is reference-counted, not
// boolean: nested sheets each acquire it, and scrolling resumes only when
// the last holder releases. Event dispatch is single-threaded, so no mutex.
type ScrollLock struct {
	holders  int
	OnLock   func()
	OnUnlock func()
}

// Acquire takes a reference on the lock.
func (l *ScrollLock) Acquire() {
	l.holders++
	if l.holders == 1 && l.OnLock != nil {
		l.OnLock()
	}
}

// Release drops a reference. Releasing an unheld lock is a no-op.
func (l *ScrollLock) Release() {
	if l.holders == 0 {
		return
	}
	l.holders--
	if l.holders == 0 && l.OnUnlock != nil {
		l.OnUnlock()
	}
}

// Held reports whether any sheet currently holds the lock.
func (l *ScrollLock) Held() bool {
	return l.holders > 0
}

var sheetSeq uint64

// Sheet owns the open/close/drag lifecycle of one mounted sheet instance.
type Sheet struct {
	id       nav.Tag
	opts     Options
	stack    nav.Stack
	lock     *ScrollLock
	viewport Viewport
	now      func() time.Time

	state           State
	compact         bool
	closing         bool
	dragClosing     bool
	playedEntryAnim bool
	dragOffset      float64
	outstanding     bool // a history entry tagged with id has been pushed and not yet popped
	contentAtTop    bool
	lockHeld        bool

	session     *gesture.Session
	unsubscribe func()

	tween         *gween.Tween
	lastTick      time.Time
	openDeadline  time.Time
	closeDeadline time.Time

	// OnClosed fires once the close animation has fully elapsed.
	OnClosed func()
	// OnOffset is the imperative fast-path render hook: during a drag the
	// sheet offset is pushed here every frame instead of going through the
	// normal state-driven render.
	OnOffset func(px float64)
}

// New creates a sheet instance for one mount. The id is an opaque per-mount
// token used to tag history entries.
func New(stack nav.Stack, lock *ScrollLock, viewport Viewport, opts Options) *Sheet {
	sheetSeq++
	return &Sheet{
		id:           nav.Tag(fmt.Sprintf("sheet-%d", sheetSeq)),
		opts:         opts,
		stack:        stack,
		lock:         lock,
		viewport:     viewport,
		now:          time.Now,
		contentAtTop: true,
	}
}

// ID returns the per-mount history tag.
func (s *Sheet) ID() nav.Tag { return s.id }

// State returns the current lifecycle state.
func (s *Sheet) State() State { return s.state }

// IsOpen reports whether the sheet is visible (including mid-entry and
// mid-drag, excluding closing).
func (s *Sheet) IsOpen() bool {
	return s.state == StateOpening || s.state == StateOpen || s.state == StateDragging
}

// Dragging reports whether a dismiss drag is active; the host suppresses
// default scroll/pan behavior while this holds.
func (s *Sheet) Dragging() bool { return s.state == StateDragging }

// Offset returns the current vertical offset in px from the rest position.
func (s *Sheet) Offset() float64 { return s.dragOffset }

// Compact reports the viewport class the sheet opened under.
func (s *Sheet) Compact() bool { return s.compact }

// CloseVariant returns the exit animation family for the viewport class.
func (s *Sheet) CloseVariant() Variant {
	if s.compact {
		return VariantSlide
	}
	return VariantScale
}

// EntryAnimationPending reports whether the entry animation still has to
// play. Open resets this so the animation replays on every open.
func (s *Sheet) EntryAnimationPending() bool { return !s.playedEntryAnim }

// SetContentScrolledToTop tells the sheet whether its internal content is
// scrolled to the top. Drags outside the handle area only start then, so
// scrolling content never accidentally dismisses the sheet.
func (s *Sheet) SetContentScrolledToTop(atTop bool) { s.contentAtTop = atTop }

// Open transitions the sheet from Closed to Opening. On compact viewports it
// acquires the shared scroll lock and pushes exactly one tagged history
// entry, then starts listening for pop notifications.
func (s *Sheet) Open() {
	if s.state != StateClosed {
		return
	}
	s.compact = s.viewport.Compact(s.opts)
	if s.compact {
		s.lock.Acquire()
		s.lockHeld = true
		s.stack.Push(s.id)
		s.outstanding = true
		s.unsubscribe = s.stack.Subscribe(s.handlePop)
	}
	s.closing = false
	s.dragClosing = false
	s.playedEntryAnim = false
	s.dragOffset = 0
	s.tween = nil
	if s.compact {
		// Slide up from offscreen; the scale variant animates in place.
		s.dragOffset = s.offscreen()
		s.tween = gween.New(float32(s.offscreen()), 0, s.animSeconds(), ease.OutCubic)
	}
	s.state = StateOpening
	now := s.now()
	s.openDeadline = now.Add(s.opts.AnimationDuration)
	s.lastTick = now
}

// PointerDown begins a gesture session. Coordinates are sheet-local. The
// session only starts inside the handle area or when the content is at its
// scroll top.
func (s *Sheet) PointerDown(x, y float64) {
	if !s.compact || s.state != StateOpen {
		return
	}
	if y > s.opts.HandleHeight && !s.contentAtTop {
		return
	}
	s.session = gesture.Begin(x, y, s.now())
}

// PointerMove feeds the active gesture session. Once the downward delta
// exceeds the epsilon the axis locks vertical and the sheet enters Dragging,
// driving its offset directly from the raw delta.
func (s *Sheet) PointerMove(x, y float64) {
	if s.session == nil {
		return
	}
	s.session.Move(x, y)

	if s.state != StateDragging {
		dy := s.session.DeltaY()
		if dy <= s.opts.DragEpsilon {
			return
		}
		if gesture.LockAxis(s.session.DeltaX(), dy, s.opts.DragEpsilon) != gesture.AxisVertical {
			// Dominantly horizontal movement is not a dismiss drag.
			s.session = nil
			return
		}
		s.session.Axis = gesture.AxisVertical
		s.session.ActiveDrag = true
		s.state = StateDragging
		// Releasing back to the start position must not replay the entry
		// animation.
		s.playedEntryAnim = true
		s.tween = nil
	}

	s.dragOffset = s.session.DeltaY()
	if s.dragOffset < 0 {
		s.dragOffset = 0
	}
	if s.OnOffset != nil {
		s.OnOffset(s.dragOffset)
	}
}

// PointerUp ends the gesture session. Dismiss iff the downward delta exceeds
// the distance threshold or the release velocity exceeds the flick
// threshold; otherwise the sheet animates back to rest and stays open.
func (s *Sheet) PointerUp() {
	sess := s.session
	s.session = nil
	if sess == nil || s.state != StateDragging {
		return
	}

	now := s.now()
	if sess.DeltaY() > s.opts.DismissDistance || sess.VelocityY(now) > s.opts.VelocityThreshold {
		s.dragClosing = true
		s.close(true)
		return
	}

	s.state = StateOpen
	s.tween = gween.New(float32(s.dragOffset), 0, s.animSeconds(), ease.OutCubic)
}

// Close runs the programmatic close path (button, backdrop tap, Escape).
func (s *Sheet) Close() {
	s.close(true)
}

// close starts the exit animation. pop controls whether the outstanding
// history entry is popped; an externally-triggered close (back navigation)
// must not pop again because the entry is already gone.
func (s *Sheet) close(pop bool) {
	if s.state == StateClosing || s.state == StateClosed {
		return
	}
	s.closing = true
	s.state = StateClosing
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.outstanding {
		s.outstanding = false
		if pop {
			s.stack.Back()
		}
	}
	if s.compact {
		// Continue from the current inline offset rather than restarting a
		// keyframe from zero, so a drag-originated dismiss never jumps.
		s.tween = gween.New(float32(s.dragOffset), float32(s.offscreen()), s.animSeconds(), ease.OutCubic)
	}
	s.closeDeadline = s.now().Add(s.opts.AnimationDuration)
}

// handlePop reacts to a history pop. Only the sheet whose own entry was the
// one removed may react; pops of descendant entries anywhere above it must
// leave it untouched. The entry is already gone, so the close must not pop
// again.
func (s *Sheet) handlePop(n nav.PopNotification) {
	if !s.outstanding {
		return
	}
	if n.Popped != s.id {
		return
	}
	s.outstanding = false
	s.close(false)
}

// Teardown releases everything unconditionally: stops listening, releases
// the scroll lock, and defensively pops a still-outstanding history entry so
// the navigation stack never accumulates orphans.
func (s *Sheet) Teardown() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.lockHeld {
		s.lock.Release()
		s.lockHeld = false
	}
	if s.outstanding {
		s.outstanding = false
		s.stack.Back()
	}
	s.state = StateClosed
	s.session = nil
	s.tween = nil
}

// Update advances animations and deadline-bounded states. Call once per
// frame.
func (s *Sheet) Update() {
	now := s.now()
	dt := float32(now.Sub(s.lastTick).Seconds())
	if dt < 0 {
		dt = 0
	}
	s.lastTick = now

	if s.tween != nil && s.state != StateDragging {
		v, done := s.tween.Update(dt)
		s.dragOffset = float64(v)
		if s.OnOffset != nil {
			s.OnOffset(s.dragOffset)
		}
		if done {
			s.tween = nil
		}
	}

	switch s.state {
	case StateOpening:
		if !now.Before(s.openDeadline) {
			s.state = StateOpen
			s.playedEntryAnim = true
		}
	case StateClosing:
		if !now.Before(s.closeDeadline) {
			s.finishClose()
		}
	}
}

// finishClose runs after exactly the animation duration: release the scroll
// lock (compact only) and emit OnClosed.
func (s *Sheet) finishClose() {
	if s.lockHeld {
		s.lock.Release()
		s.lockHeld = false
	}
	s.state = StateClosed
	s.closing = false
	s.tween = nil
	if s.compact {
		s.dragOffset = s.offscreen()
	} else {
		s.dragOffset = 0
	}
	if s.OnClosed != nil {
		s.OnClosed()
	}
}

func (s *Sheet) animSeconds() float32 {
	return float32(s.opts.AnimationDuration.Seconds())
}

func (s *Sheet) offscreen() float64 {
	return s.viewport.Height
}
