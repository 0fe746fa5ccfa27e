// Package gesture provides the stateless pointer math shared by the sheet
// and video-surface controllers: delta/velocity computation, clamping,
// axis-lock decisions, double-tap windows, and zone classification.
package gesture

import "time"

// Axis is the locked movement axis of an active drag.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

// Zone is one of the three horizontal regions of the video surface.
// Each zone keeps independent tap-disambiguation state.
type Zone int

const (
	ZoneLeft Zone = iota
	ZoneCenter
	ZoneRight
)

// ZoneAt classifies a horizontal position into a zone. The surface is split
// into thirds; positions outside [0, width) clamp to the nearest zone.
func ZoneAt(x, width float64) Zone {
	if width <= 0 {
		return ZoneCenter
	}
	switch {
	case x < width/3:
		return ZoneLeft
	case x >= width*2/3:
		return ZoneRight
	default:
		return ZoneCenter
	}
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fraction converts a pointer position along a track into a 0..1 fraction.
func Fraction(x, left, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return Clamp((x-left)/width, 0, 1)
}

// IsDoubleTap reports whether a tap at now, following a previous tap in the
// same zone at prev, falls inside the double-tap window. A zero prev time
// never qualifies.
func IsDoubleTap(prev, now time.Time, window time.Duration) bool {
	if prev.IsZero() {
		return false
	}
	return now.Sub(prev) < window
}

// LockAxis decides the drag axis once movement exceeds epsilon on either
// axis. It returns AxisNone while the pointer is still inside the dead zone.
func LockAxis(dx, dy, epsilon float64) Axis {
	ax, ay := abs(dx), abs(dy)
	if ax < epsilon && ay < epsilon {
		return AxisNone
	}
	if ay >= ax {
		return AxisVertical
	}
	return AxisHorizontal
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Session tracks one active pointer sequence from down to up. It is created
// on pointer-down, mutated on pointer-move, and discarded on pointer-up —
// never persisted.
type Session struct {
	StartX, StartY     float64
	CurrentX, CurrentY float64
	StartTime          time.Time
	Axis               Axis
	ActiveDrag         bool
}

// Begin creates a session anchored at the pointer-down position.
func Begin(x, y float64, at time.Time) *Session {
	return &Session{
		StartX:    x,
		StartY:    y,
		CurrentX:  x,
		CurrentY:  y,
		StartTime: at,
	}
}

// Move records the latest pointer position.
func (s *Session) Move(x, y float64) {
	s.CurrentX = x
	s.CurrentY = y
}

// DeltaX returns the horizontal distance from the down position.
func (s *Session) DeltaX() float64 { return s.CurrentX - s.StartX }

// DeltaY returns the vertical distance from the down position. Positive
// values are downward.
func (s *Session) DeltaY() float64 { return s.CurrentY - s.StartY }

// VelocityY returns the vertical velocity in px/ms over the whole session.
// A zero or negative elapsed time yields zero so a same-instant release can
// never satisfy a velocity threshold.
func (s *Session) VelocityY(now time.Time) float64 {
	elapsed := float64(now.Sub(s.StartTime)) / float64(time.Millisecond)
	if elapsed <= 0 {
		return 0
	}
	return s.DeltaY() / elapsed
}
