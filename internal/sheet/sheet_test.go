package sheet

import (
	"testing"
	"time"

	"github.com/avdias/sublingo/internal/nav"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var (
	compactViewport = Viewport{Width: 400, Height: 800}
	wideViewport    = Viewport{Width: 1280, Height: 900}
)

func newTestSheet(vp Viewport) (*Sheet, *nav.History, *ScrollLock, *fakeClock) {
	hist := nav.NewHistory()
	lock := &ScrollLock{}
	clock := newFakeClock()
	s := New(hist, lock, vp, DefaultOptions())
	s.now = clock.Now
	return s, hist, lock, clock
}

// openFully opens the sheet and advances past the entry animation.
func openFully(s *Sheet, clock *fakeClock) {
	s.Open()
	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()
}

func TestOpenCloseHistoryNetZero(t *testing.T) {
	s, hist, lock, clock := newTestSheet(compactViewport)

	openFully(s, clock)
	if hist.Len() != 1 {
		t.Fatalf("open pushed %d entries, want 1", hist.Len())
	}
	if !lock.Held() {
		t.Fatal("compact open must acquire the scroll lock")
	}

	closed := false
	s.OnClosed = func() { closed = true }

	s.Close()
	if hist.Len() != 0 {
		t.Fatalf("close left %d entries, want 0", hist.Len())
	}
	if closed {
		t.Fatal("OnClosed fired synchronously; must wait for the animation")
	}

	clock.Advance(249 * time.Millisecond)
	s.Update()
	if closed {
		t.Fatal("OnClosed fired before the animation duration elapsed")
	}

	clock.Advance(time.Millisecond)
	s.Update()
	if !closed {
		t.Fatal("OnClosed did not fire after the animation duration")
	}
	if lock.Held() {
		t.Fatal("scroll lock still held after close completed")
	}
}

func TestWideViewportPushesNoHistory(t *testing.T) {
	s, hist, lock, clock := newTestSheet(wideViewport)
	openFully(s, clock)

	if hist.Len() != 0 {
		t.Errorf("wide open pushed %d entries, want 0", hist.Len())
	}
	if lock.Held() {
		t.Error("wide open must not take the scroll lock")
	}
	if s.CloseVariant() != VariantScale {
		t.Errorf("CloseVariant = %v, want VariantScale", s.CloseVariant())
	}
}

func TestDragSnapBack(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	// 40px over 400ms: velocity 0.1 px/ms, under both thresholds.
	s.PointerDown(100, 20)
	clock.Advance(400 * time.Millisecond)
	s.PointerMove(100, 60)
	if !s.Dragging() {
		t.Fatal("sheet should be dragging after a 40px downward move")
	}
	if s.Offset() != 40 {
		t.Fatalf("Offset = %v, want 40", s.Offset())
	}

	s.PointerUp()
	if s.State() != StateOpen {
		t.Fatalf("state after under-threshold release = %v, want StateOpen", s.State())
	}

	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()
	if s.Offset() != 0 {
		t.Errorf("offset after snap-back = %v, want exactly 0", s.Offset())
	}
}

func TestDragDismissByDistance(t *testing.T) {
	s, hist, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	closed := false
	s.OnClosed = func() { closed = true }

	// 90px over 900ms: velocity 0.1 px/ms, but distance exceeds 80px.
	s.PointerDown(100, 20)
	clock.Advance(900 * time.Millisecond)
	s.PointerMove(100, 110)
	s.PointerUp()

	if s.State() != StateClosing {
		t.Fatalf("state after 90px release = %v, want StateClosing", s.State())
	}
	if closed {
		t.Fatal("OnClosed fired synchronously on drag dismiss")
	}
	if hist.Len() != 0 {
		t.Fatalf("drag dismiss left %d history entries, want 0", hist.Len())
	}

	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()
	if !closed {
		t.Fatal("OnClosed did not fire after the dismiss animation")
	}
	if s.Offset() != compactViewport.Height {
		t.Errorf("settled offset = %v, want off-screen %v", s.Offset(), compactViewport.Height)
	}
}

func TestFlickDismissByVelocity(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	// 40px in 50ms: 0.8 px/ms, over the 0.5 flick threshold.
	s.PointerDown(100, 20)
	clock.Advance(50 * time.Millisecond)
	s.PointerMove(100, 60)
	s.PointerUp()

	if s.State() != StateClosing {
		t.Errorf("state after fast flick = %v, want StateClosing", s.State())
	}
}

func TestDragStartPolicy(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)
	s.SetContentScrolledToTop(false)

	// Below the handle with scrolled content: no session may start.
	s.PointerDown(100, 200)
	s.PointerMove(100, 300)
	if s.Dragging() {
		t.Fatal("drag started below the handle while content was scrolled")
	}

	// Inside the handle it always starts. 60px over 400ms stays under both
	// dismiss thresholds so the sheet snaps back open.
	s.PointerDown(100, 30)
	clock.Advance(400 * time.Millisecond)
	s.PointerMove(100, 90)
	if !s.Dragging() {
		t.Fatal("drag did not start from the handle area")
	}
	s.PointerUp()

	// Content back at its top: anywhere works.
	s.SetContentScrolledToTop(true)
	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()
	s.PointerDown(100, 200)
	s.PointerMove(100, 260)
	if !s.Dragging() {
		t.Fatal("drag did not start from content scrolled to top")
	}
}

func TestDragEpsilonAndAxisLock(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	// Inside the 5px dead zone: no drag.
	s.PointerDown(100, 20)
	s.PointerMove(100, 24)
	if s.Dragging() {
		t.Error("drag started inside the epsilon dead zone")
	}
	s.PointerUp()

	// Dominantly horizontal movement cancels the session.
	s.PointerDown(100, 20)
	s.PointerMove(140, 28)
	if s.Dragging() {
		t.Error("horizontal movement must not enter the drag state")
	}
	s.PointerMove(140, 200)
	if s.Dragging() {
		t.Error("cancelled session must stay cancelled")
	}
}

func TestUpwardMoveNeverDrags(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	s.PointerDown(100, 60)
	s.PointerMove(100, 10)
	if s.Dragging() {
		t.Error("upward movement must not start a dismiss drag")
	}
}

func TestNestedSheetsBackClosesOnlyChild(t *testing.T) {
	hist := nav.NewHistory()
	lock := &ScrollLock{}
	clock := newFakeClock()
	opts := DefaultOptions()

	parent := New(hist, lock, compactViewport, opts)
	parent.now = clock.Now
	child := New(hist, lock, compactViewport, opts)
	child.now = clock.Now

	parent.Open()
	child.Open()
	clock.Advance(opts.AnimationDuration)
	parent.Update()
	child.Update()

	if hist.Len() != 2 {
		t.Fatalf("nested open pushed %d entries, want 2", hist.Len())
	}

	// Platform back gesture pops the child's entry.
	hist.Back()

	if child.State() != StateClosing {
		t.Errorf("child state = %v, want StateClosing", child.State())
	}
	if !parent.IsOpen() {
		t.Error("back navigation for the child must never close the parent")
	}
	if hist.Len() != 1 || hist.Top() != parent.ID() {
		t.Errorf("history after child pop: len %d top %q, want 1 %q", hist.Len(), hist.Top(), parent.ID())
	}

	clock.Advance(opts.AnimationDuration)
	parent.Update()
	child.Update()
	if child.State() != StateClosed {
		t.Errorf("child state = %v, want StateClosed", child.State())
	}
	if !parent.IsOpen() {
		t.Error("parent flipped closed during child teardown")
	}

	// Second back pops the parent; net history change is zero.
	hist.Back()
	clock.Advance(opts.AnimationDuration)
	parent.Update()
	if parent.State() != StateClosed {
		t.Errorf("parent state = %v, want StateClosed", parent.State())
	}
	if hist.Len() != 0 {
		t.Errorf("history len = %d, want 0", hist.Len())
	}
}

func TestThreeDeepNestedBackClosesOnlyTopmost(t *testing.T) {
	hist := nav.NewHistory()
	lock := &ScrollLock{}
	clock := newFakeClock()
	opts := DefaultOptions()

	grandparent := New(hist, lock, compactViewport, opts)
	grandparent.now = clock.Now
	parent := New(hist, lock, compactViewport, opts)
	parent.now = clock.Now
	child := New(hist, lock, compactViewport, opts)
	child.now = clock.Now

	grandparent.Open()
	parent.Open()
	child.Open()
	clock.Advance(opts.AnimationDuration)
	grandparent.Update()
	parent.Update()
	child.Update()

	// Platform back gesture pops the child's entry. The resulting stack top
	// is the parent, not the grandparent, so only the child may react.
	hist.Back()

	if child.State() != StateClosing {
		t.Errorf("child state = %v, want StateClosing", child.State())
	}
	if !parent.IsOpen() {
		t.Error("parent flipped closed by the child's pop")
	}
	if !grandparent.IsOpen() {
		t.Error("grandparent flipped closed by the grandchild's pop")
	}

	// The remaining entries unwind one sheet each; no orphans, no cascades.
	hist.Back()
	if parent.State() != StateClosing {
		t.Errorf("parent state = %v, want StateClosing", parent.State())
	}
	if !grandparent.IsOpen() {
		t.Error("grandparent flipped closed by the parent's pop")
	}

	hist.Back()
	if grandparent.State() != StateClosing {
		t.Errorf("grandparent state = %v, want StateClosing", grandparent.State())
	}
	if hist.Len() != 0 {
		t.Errorf("history len = %d, want 0", hist.Len())
	}
}

func TestExternallyTriggeredCloseDoesNotPopAgain(t *testing.T) {
	s, hist, _, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	hist.Push("other") // an unrelated entry above the sheet's own
	hist.Back()        // pops "other"; sheet must not react
	if s.State() == StateClosing {
		t.Fatal("sheet reacted to a pop of an unrelated descendant entry")
	}

	hist.Back() // now the sheet's own entry goes
	if s.State() != StateClosing {
		t.Fatal("sheet did not close when its own entry was popped")
	}
	if hist.Len() != 0 {
		t.Fatalf("externally-triggered close changed history, len = %d, want 0", hist.Len())
	}
}

func TestScrollLockRefcounted(t *testing.T) {
	hist := nav.NewHistory()
	lock := &ScrollLock{}
	unlocks := 0
	lock.OnUnlock = func() { unlocks++ }
	clock := newFakeClock()
	opts := DefaultOptions()

	a := New(hist, lock, compactViewport, opts)
	a.now = clock.Now
	b := New(hist, lock, compactViewport, opts)
	b.now = clock.Now

	a.Open()
	b.Open()

	b.Close()
	clock.Advance(opts.AnimationDuration)
	a.Update()
	b.Update()
	if !lock.Held() {
		t.Fatal("lock released while another sheet still holds it")
	}
	if unlocks != 0 {
		t.Fatalf("OnUnlock fired %d times with a holder remaining", unlocks)
	}

	a.Close()
	clock.Advance(opts.AnimationDuration)
	a.Update()
	if lock.Held() {
		t.Fatal("lock still held after the last holder closed")
	}
	if unlocks != 1 {
		t.Errorf("OnUnlock fired %d times, want 1", unlocks)
	}
}

func TestTeardownPopsOutstandingEntry(t *testing.T) {
	s, hist, lock, clock := newTestSheet(compactViewport)
	openFully(s, clock)

	s.Teardown()
	if hist.Len() != 0 {
		t.Errorf("teardown left %d orphaned history entries", hist.Len())
	}
	if lock.Held() {
		t.Error("teardown did not release the scroll lock")
	}
	if s.State() != StateClosed {
		t.Errorf("state after teardown = %v, want StateClosed", s.State())
	}
}

func TestEntryAnimationReplaysOnReopen(t *testing.T) {
	s, _, _, clock := newTestSheet(compactViewport)

	s.Open()
	if !s.EntryAnimationPending() {
		t.Fatal("entry animation must be pending right after open")
	}
	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()
	if s.EntryAnimationPending() {
		t.Fatal("entry animation still pending after it played")
	}

	s.Close()
	clock.Advance(DefaultOptions().AnimationDuration)
	s.Update()

	s.Open()
	if !s.EntryAnimationPending() {
		t.Error("reopen must guarantee the entry animation replays")
	}
}

func TestModalStackRoutesToTopOnly(t *testing.T) {
	hist := nav.NewHistory()
	lock := &ScrollLock{}
	clock := newFakeClock()
	opts := DefaultOptions()

	bottom := New(hist, lock, compactViewport, opts)
	bottom.now = clock.Now
	top := New(hist, lock, compactViewport, opts)
	top.now = clock.Now

	bottom.Open()
	top.Open()
	clock.Advance(opts.AnimationDuration)

	var stack ModalStack
	stack.Add(bottom)
	stack.Add(top)
	stack.Update()

	stack.PointerDown(100, 20)
	clock.Advance(100 * time.Millisecond)
	stack.PointerMove(100, 80)

	if bottom.Dragging() {
		t.Error("pointer input leaked to a non-topmost sheet")
	}
	if !top.Dragging() {
		t.Error("topmost sheet did not receive the drag")
	}
	if !stack.Dragging() {
		t.Error("ModalStack.Dragging should report the active drag")
	}
}
